package compiler

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piilip/neon/internal/irgen"
)

func writeModule(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	return path
}

func TestCompile_ValidProgram_ProducesVerifiableIR(t *testing.T) {
	dir := t.TempDir()
	entry := writeModule(t, dir, "main.ne", `
fun add(int a, int b) int {
	int c = a + b;
	return c;
}

fun main() void {
	int x = add(2, 3);
	assert(x == 5);
}
`)

	prog := Compile(entry)
	require.False(t, prog.Bag.Fatal(), "unexpected diagnostics: %v", prog.Bag.All())
	require.Len(t, prog.Results, 1)

	assert.NoError(t, irgen.Verify(prog.Module))

	var sb strings.Builder
	require.NoError(t, irgen.Emit(prog.Module, &sb))
	ir := sb.String()
	assert.Contains(t, ir, "define")
	assert.Contains(t, ir, "@main")
	assert.Contains(t, ir, "@add")
}

func TestCompile_TypeError_IsReportedAndSkipsIR(t *testing.T) {
	dir := t.TempDir()
	entry := writeModule(t, dir, "main.ne", `
fun main() void {
	int x = true;
}
`)

	prog := Compile(entry)
	assert.True(t, prog.Bag.Fatal())
	assert.Empty(t, prog.Module.Funcs)
}

func TestCompile_MissingEntryFile_RecordsIODiagnostic(t *testing.T) {
	prog := Compile(filepath.Join(t.TempDir(), "does-not-exist.ne"))
	assert.True(t, prog.Bag.Fatal())
	assert.Empty(t, prog.Results)
}

func TestCompile_TransitiveImport_CompilesBothModules(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "util.ne", `
fun double(int n) int {
	return n * 2;
}
`)
	entry := writeModule(t, dir, "main.ne", `
import "util.ne";

fun main() void {
	int x = double(21);
	assert(x == 42);
}
`)

	prog := Compile(entry)
	require.False(t, prog.Bag.Fatal(), "unexpected diagnostics: %v", prog.Bag.All())
	assert.Len(t, prog.Results, 2)
}

func TestCompileWithOptions_TargetTriple_SetOnModule(t *testing.T) {
	dir := t.TempDir()
	entry := writeModule(t, dir, "main.ne", `
fun main() void {
}
`)

	prog := CompileWithOptions(entry, Options{TargetTriple: "x86_64-unknown-linux-gnu"})
	require.False(t, prog.Bag.Fatal())
	assert.Equal(t, "x86_64-unknown-linux-gnu", prog.Module.TargetTriple)
}

func TestCompileWithOptions_ImportRoots_ResolvesRootedImport(t *testing.T) {
	dir := t.TempDir()
	libDir := filepath.Join(dir, "lib")
	require.NoError(t, os.Mkdir(libDir, 0755))
	writeModule(t, libDir, "util.ne", `
fun triple(int n) int {
	return n * 3;
}
`)
	entry := writeModule(t, dir, "main.ne", `
import "util.ne";

fun main() void {
	int x = triple(10);
	assert(x == 30);
}
`)

	prog := CompileWithOptions(entry, Options{ImportRoots: []string{libDir}})
	require.False(t, prog.Bag.Fatal(), "unexpected diagnostics: %v", prog.Bag.All())
	assert.Len(t, prog.Results, 2)
}
