package lr_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piilip/neon/internal/diag"
	"github.com/piilip/neon/internal/lr"
)

func TestParse_ValidProgram_ProducesSingleRootWithNoDiagnostics(t *testing.T) {
	bag := diag.NewBag()
	tree := lr.Parse("t", `
fun add(int a, int b) int {
	return a + b;
}
`, lr.NeonTable(), bag)

	require.NotNil(t, tree)
	assert.False(t, bag.Fatal())
}

func TestParse_MissingSemicolon_ReportsSyntaxErrorAndRecovers(t *testing.T) {
	bag := diag.NewBag()
	tree := lr.Parse("t", `
fun main() void {
	int x = 1
	int y = 2;
}
`, lr.NeonTable(), bag)

	require.True(t, bag.Fatal())
	for _, d := range bag.All() {
		assert.Equal(t, diag.Syntax, d.Stage)
	}
	assert.NotNil(t, tree)
}

func TestParse_GarbageAtTopLevel_ReportsUnexpectedToken(t *testing.T) {
	bag := diag.NewBag()
	lr.Parse("t", `)))) fun main() void { }`, lr.NeonTable(), bag)

	require.NotEmpty(t, bag.All())
	assert.Contains(t, bag.All()[0].Error(), "unexpected")
}

func TestParse_UnrecoverableTrailingGarbage_ReturnsNilTree(t *testing.T) {
	bag := diag.NewBag()
	tree := lr.Parse("t", `fun main() void { } )))`, lr.NeonTable(), bag)

	// Trailing unmatched closing parens after a complete, valid program
	// can't be recovered into any state with a defined action before EOF.
	assert.Nil(t, tree)
	assert.True(t, bag.Fatal())
}

func TestSaveCache_LoadCache_RoundTripsActionAndGotoTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.bin")

	require.NoError(t, lr.SaveCache(path))

	loaded, err := lr.LoadCache(path)
	require.NoError(t, err)

	want := lr.NeonTable()
	require.Equal(t, len(want.Action), len(loaded.Action))
	require.Equal(t, len(want.Goto), len(loaded.Goto))

	for i := range want.Action {
		assert.Equal(t, want.Action[i], loaded.Action[i], "state %d ACTION row mismatch", i)
		assert.Equal(t, want.Goto[i], loaded.Goto[i], "state %d GOTO row mismatch", i)
	}
	require.Equal(t, len(want.Grammar.Productions), len(loaded.Grammar.Productions))
}

func TestLoadCache_MissingFile_ReturnsError(t *testing.T) {
	_, err := lr.LoadCache(filepath.Join(t.TempDir(), "nope.bin"))
	assert.Error(t, err)
}

func TestLoadCache_TruncatedData_ReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.bin")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0644))

	_, err := lr.LoadCache(path)
	assert.Error(t, err)
}
