package lex

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/piilip/neon/internal/diag"
	"github.com/piilip/neon/internal/token"
)

func symbols(toks []token.Token) []token.Symbol {
	out := make([]token.Symbol, len(toks))
	for i, t := range toks {
		out[i] = t.Symbol
	}
	return out
}

func TestNew_Punctuation_LongestMatchFirst(t *testing.T) {
	bag := diag.NewBag()
	l := New("t", "== != <= >= < > = + - * /", bag)

	assert.Equal(t, []token.Symbol{
		token.SymEq, token.SymNeq, token.SymLe, token.SymGe,
		token.SymLt, token.SymGt, token.SymAssign,
		token.SymPlus, token.SymMinus, token.SymStar, token.SymSlash,
		token.SymEndOfFile,
	}, symbols(l.Tokens()))
	assert.Zero(t, bag.Len())
}

func TestNew_KeywordsAndDataTypes(t *testing.T) {
	bag := diag.NewBag()
	l := New("t", "fun int foo return", bag)
	toks := l.Tokens()

	assert.Equal(t, token.KindKeyword, toks[0].Kind)
	assert.Equal(t, token.SymFun, toks[0].Symbol)
	assert.Equal(t, token.KindDataType, toks[1].Kind)
	assert.Equal(t, "int", toks[1].Content)
	assert.Equal(t, token.KindIdentifier, toks[2].Kind)
	assert.Equal(t, "foo", toks[2].Content)
	assert.Equal(t, token.SymReturn, toks[3].Symbol)
}

func TestNew_NumberLiterals(t *testing.T) {
	bag := diag.NewBag()
	l := New("t", "42 3.14", bag)
	toks := l.Tokens()

	assert.Equal(t, token.KindInteger, toks[0].Kind)
	assert.Equal(t, "42", toks[0].Content)
	assert.Equal(t, token.KindFloat, toks[1].Kind)
	assert.Equal(t, "3.14", toks[1].Content)
}

func TestNew_SpaceSeparatedIntegers_DoNotJoin(t *testing.T) {
	bag := diag.NewBag()
	l := New("t", "7 8", bag)
	toks := l.Tokens()

	// A bare "." is not a recognized punctuation character on its own, so
	// this fixture avoids it entirely; the float path is only taken when a
	// digit follows the dot (see TestNew_NumberLiterals).
	assert.Equal(t, token.KindInteger, toks[0].Kind)
	assert.Equal(t, "7", toks[0].Content)
	assert.Equal(t, token.KindInteger, toks[1].Kind)
	assert.Equal(t, "8", toks[1].Content)
}

func TestNew_StringEscapes(t *testing.T) {
	bag := diag.NewBag()
	l := New("t", `"a\nb\tc\\d"`, bag)
	toks := l.Tokens()

	assert.Equal(t, token.KindString, toks[0].Kind)
	assert.Equal(t, "a\nb\tc\\d", toks[0].Content)
}

func TestNew_UnterminatedString_RecordsDiagnostic(t *testing.T) {
	bag := diag.NewBag()
	l := New("t", `"unterminated`, bag)

	assert.Equal(t, token.KindString, l.Tokens()[0].Kind)
	assert.True(t, bag.Fatal())
}

func TestNew_UnrecognizedCharacter_SkipsAndContinues(t *testing.T) {
	bag := diag.NewBag()
	l := New("t", "a @ b", bag)

	assert.Equal(t, []token.Symbol{token.SymVariableName, token.SymVariableName, token.SymEndOfFile}, symbols(l.Tokens()))
	assert.True(t, bag.Fatal())
}

func TestNew_LineComment_Skipped(t *testing.T) {
	bag := diag.NewBag()
	l := New("t", "a // comment\nb", bag)

	assert.Equal(t, []token.Symbol{token.SymVariableName, token.SymVariableName, token.SymEndOfFile}, symbols(l.Tokens()))
}

func TestLexer_PeekDoesNotConsume(t *testing.T) {
	bag := diag.NewBag()
	l := New("t", "a b", bag)

	first := l.Peek(0)
	assert.Equal(t, first, l.Peek(0))
	assert.Equal(t, first, l.Next())
	assert.Equal(t, "b", l.Peek(0).Content)
}

func TestLexer_PeekPastEnd_ReturnsEOFSentinel(t *testing.T) {
	bag := diag.NewBag()
	l := New("t", "a", bag)

	assert.Equal(t, token.KindEOF, l.Peek(100).Kind)
}

func TestLexer_Next_StopsAdvancingAtEOF(t *testing.T) {
	bag := diag.NewBag()
	l := New("t", "a", bag)

	l.Next() // "a"
	eof1 := l.Next()
	eof2 := l.Next()
	assert.Equal(t, token.KindEOF, eof1.Kind)
	assert.Equal(t, eof1, eof2)
}
