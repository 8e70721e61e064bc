package typecheck_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piilip/neon/internal/ast"
	"github.com/piilip/neon/internal/diag"
	"github.com/piilip/neon/internal/lr"
	"github.com/piilip/neon/internal/typecheck"
	"github.com/piilip/neon/internal/types"
)

func analyze(t *testing.T, src string) *diag.Bag {
	t.Helper()
	bag := diag.NewBag()
	tree := lr.Parse("t", src, lr.NeonTable(), bag)
	require.NotNil(t, tree, "parse failed: %v", bag.All())

	root := ast.NewBuilder("t", bag).Build(tree)

	analyzer := typecheck.NewAnalyzer("t", bag, types.NewMap(), types.NewCompositeSet())
	analyzer.Analyze(root)
	return bag
}

func TestAnalyze_ValidArithmetic_NoDiagnostics(t *testing.T) {
	bag := analyze(t, `
fun main() void {
	int x = 1 + 2 * 3;
}
`)
	assert.False(t, bag.Fatal(), "%v", bag.All())
}

func TestAnalyze_MismatchedArithmeticOperands_IsError(t *testing.T) {
	bag := analyze(t, `
fun main() void {
	int x = 1 + true;
}
`)
	assert.True(t, bag.Fatal())
}

func TestAnalyze_ComparisonYieldsBool(t *testing.T) {
	bag := analyze(t, `
fun main() void {
	bool b = 1 == 2;
}
`)
	assert.False(t, bag.Fatal(), "%v", bag.All())
}

func TestAnalyze_LogicalOperatorRequiresBoolOperands(t *testing.T) {
	bag := analyze(t, `
fun main() void {
	bool b = 1 and 2;
}
`)
	assert.True(t, bag.Fatal())
}

func TestAnalyze_LogicalOperatorOnBools_NoDiagnostics(t *testing.T) {
	bag := analyze(t, `
fun main() void {
	bool b = true and false;
}
`)
	assert.False(t, bag.Fatal(), "%v", bag.All())
}

func TestAnalyze_AssertNonBoolCondition_IsError(t *testing.T) {
	bag := analyze(t, `
fun main() void {
	assert(1);
}
`)
	assert.True(t, bag.Fatal())
}

func TestAnalyze_AssertBoolCondition_NoDiagnostics(t *testing.T) {
	bag := analyze(t, `
fun main() void {
	assert(1 == 1);
}
`)
	assert.False(t, bag.Fatal(), "%v", bag.All())
}

func TestAnalyze_ForwardReferenceBetweenFunctions_Resolves(t *testing.T) {
	bag := analyze(t, `
fun main() void {
	int x = helper();
}

fun helper() int {
	return 1;
}
`)
	assert.False(t, bag.Fatal(), "%v", bag.All())
}

func TestAnalyze_ShadowingInNestedScope_DoesNotLeakOut(t *testing.T) {
	bag := analyze(t, `
fun main() void {
	int x = 1;
	if (true) {
		bool x = false;
	}
	int y = x + 1;
}
`)
	assert.False(t, bag.Fatal(), "%v", bag.All())
}
