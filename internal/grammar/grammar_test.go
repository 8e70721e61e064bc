package grammar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piilip/neon/internal/grammar"
	"github.com/piilip/neon/internal/token"
)

func TestNeon_EveryNonTerminalHasAtLeastOneProduction(t *testing.T) {
	g := grammar.Neon()

	seen := map[token.Symbol]bool{}
	for _, p := range g.Productions {
		seen[p.Left] = true
	}

	assert.True(t, seen[grammar.NTProgram])
	assert.True(t, seen[grammar.NTStmt])
	assert.True(t, seen[grammar.NTExpr])
	assert.True(t, seen[grammar.NTFunction])
	assert.True(t, seen[grammar.NTIfStatement])
	assert.True(t, seen[grammar.NTTypeDeclaration])
}

func TestProductionsFor_ReturnsOnlyMatchingLeftSide(t *testing.T) {
	g := grammar.Neon()

	prods := g.ProductionsFor(grammar.NTStmt)
	require.NotEmpty(t, prods)
	for _, p := range prods {
		assert.Equal(t, grammar.NTStmt, p.Left)
	}
}

func TestIsTerminal_IsNonTerminal_Disjoint(t *testing.T) {
	g := grammar.Neon()

	assert.True(t, g.IsTerminal(token.SymPlus))
	assert.False(t, g.IsNonTerminal(token.SymPlus))

	assert.True(t, g.IsNonTerminal(grammar.NTExpr))
	assert.False(t, g.IsTerminal(grammar.NTExpr))
}

func TestFirst_OfSumIncludesFactorStarters(t *testing.T) {
	g := grammar.Neon()

	first := g.First(grammar.NTSum)
	// A SUM always bottoms out at a FACTOR, which can start with an
	// identifier, an integer literal, or an opening parenthesis.
	assert.True(t, first[token.SymVariableName])
	assert.True(t, first[token.SymInteger])
	assert.True(t, first[token.SymLeftParen])
}

func TestFollow_OfExprIncludesSemicolonAndClosers(t *testing.T) {
	g := grammar.Neon()

	follow := g.Follow(grammar.NTExpr)
	assert.True(t, follow[token.SymSemicolon])
	assert.True(t, follow[token.SymRightParen])
	assert.True(t, follow[token.SymRightBracket])
}

func TestNullable_FunctionArgsCanBeEmpty(t *testing.T) {
	g := grammar.Neon()
	// fun f() int { ... } is valid: zero-parameter functions are allowed.
	assert.True(t, g.Nullable(grammar.NTFunctionArgs))
	assert.False(t, g.Nullable(grammar.NTStmts))
}

func TestProduction_Equal(t *testing.T) {
	a := grammar.Production{Left: grammar.NTExpr, Right: []grammar.Symbol{token.SymVariableName}}
	b := grammar.Production{Left: grammar.NTExpr, Right: []grammar.Symbol{token.SymVariableName}}
	c := grammar.Production{Left: grammar.NTExpr, Right: []grammar.Symbol{token.SymInteger}}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestProduction_String_RendersArrowAndEpsilon(t *testing.T) {
	p := grammar.Production{Left: grammar.NTExpr, Right: []grammar.Symbol{token.SymVariableName}}
	assert.Contains(t, p.String(), "->")

	empty := grammar.Production{Left: grammar.NTStmts}
	assert.Contains(t, empty.String(), grammar.Epsilon)
}
