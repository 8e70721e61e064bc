package source_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piilip/neon/internal/source"
)

func TestFileProvider_NameIsAbsoluteAndNFCNormalized(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.ne")
	require.NoError(t, os.WriteFile(path, []byte("fun main() void { }"), 0644))

	p, err := source.NewFileProvider(path)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(p.Name()))
}

func TestFileProvider_Open_ReadsFileContents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.ne")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	p, err := source.NewFileProvider(path)
	require.NoError(t, err)

	text, err := source.ReadAll(p)
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestFileProvider_Open_MissingFileReturnsError(t *testing.T) {
	p, err := source.NewFileProvider(filepath.Join(t.TempDir(), "nope.ne"))
	require.NoError(t, err)

	_, err = p.Open()
	assert.Error(t, err)
}

func TestLinesProvider_OpenReturnsWrappedText(t *testing.T) {
	p := source.NewLinesProvider("<repl>", "fun main() void { }")
	assert.Equal(t, "<repl>", p.Name())

	text, err := source.ReadAll(p)
	require.NoError(t, err)
	assert.Equal(t, "fun main() void { }", text)
}

func TestResolveImport_JoinsAgainstImportingFilesDirectory(t *testing.T) {
	got := source.ResolveImport("/proj/src/main.ne", "util.ne")
	assert.Equal(t, filepath.Join("/proj/src", "util.ne"), got)
}

func TestRootResolver_FallsBackToConfiguredRootWhenDirectPathMissing(t *testing.T) {
	root := t.TempDir()
	libPath := filepath.Join(root, "util.ne")
	require.NoError(t, os.WriteFile(libPath, []byte("fun helper() void { }"), 0644))

	importingDir := t.TempDir()
	resolve := source.RootResolver([]string{root})

	got := resolve(filepath.Join(importingDir, "main.ne"), "util.ne")
	assert.Equal(t, libPath, got)
}

func TestRootResolver_PrefersDirectPathWhenItExists(t *testing.T) {
	importingDir := t.TempDir()
	localPath := filepath.Join(importingDir, "util.ne")
	require.NoError(t, os.WriteFile(localPath, []byte("fun helper() void { }"), 0644))

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "util.ne"), []byte("fun helper() void { }"), 0644))

	resolve := source.RootResolver([]string{root})
	got := resolve(filepath.Join(importingDir, "main.ne"), "util.ne")
	assert.Equal(t, localPath, got)
}

func TestRootResolver_AbsoluteImportPathSkipsRootFallback(t *testing.T) {
	// An absolute import path never triggers the root-fallback branch, so
	// the result is whatever plain ResolveImport produces for it.
	resolve := source.RootResolver([]string{t.TempDir()})
	abs := filepath.Join(t.TempDir(), "absolute.ne")

	got := resolve("/proj/main.ne", abs)
	assert.Equal(t, source.ResolveImport("/proj/main.ne", abs), got)
}
