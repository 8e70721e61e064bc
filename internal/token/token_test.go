package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/piilip/neon/internal/token"
)

func TestSymbol_String_KnownAndUnknown(t *testing.T) {
	assert.Equal(t, "PLUS", token.SymPlus.String())
	assert.Equal(t, "FUN", token.SymFun.String())

	unknown := token.Symbol(-1)
	assert.Contains(t, unknown.String(), "SYMBOL")
}

func TestRegisterName_ExtendsSharedTable(t *testing.T) {
	custom := token.Symbol(9000)
	token.RegisterName(custom, "CUSTOM_TEST_SYMBOL")
	assert.Equal(t, "CUSTOM_TEST_SYMBOL", custom.String())
}

func TestPosition_String_FormatsLineColonColumn(t *testing.T) {
	p := token.Position{Line: 4, Column: 12}
	assert.Equal(t, "4:12", p.String())
}

func TestKind_String_CoversEveryKind(t *testing.T) {
	cases := map[token.Kind]string{
		token.KindKeyword:     "keyword",
		token.KindPunctuation: "punctuation",
		token.KindIdentifier:  "identifier",
		token.KindInteger:     "integer literal",
		token.KindFloat:       "float literal",
		token.KindString:      "string literal",
		token.KindDataType:    "data type name",
		token.KindEOF:         "end of file",
	}
	for k, want := range cases {
		assert.Equal(t, want, k.String())
	}
	assert.Equal(t, "undefined", token.KindUndefined.String())
}

func TestToken_String_IncludesSymbolContentAndPosition(t *testing.T) {
	tok := token.Token{
		Symbol:  token.SymInteger,
		Content: "7",
		Pos:     token.Position{Line: 2, Column: 3},
	}
	s := tok.String()
	assert.Contains(t, s, "INTEGER")
	assert.Contains(t, s, `"7"`)
	assert.Contains(t, s, "2:3")
}

func TestKeywords_MapsEveryReservedWordExceptDataTypes(t *testing.T) {
	sym, ok := token.Keywords["fun"]
	assert.True(t, ok)
	assert.Equal(t, token.SymFun, sym)

	_, ok = token.Keywords["int"]
	assert.False(t, ok, "data type names are looked up via DataTypeNames, not Keywords")
}

func TestDataTypeNames_CoversPrimitiveTypes(t *testing.T) {
	for _, name := range []string{"int", "float", "bool", "void"} {
		assert.True(t, token.DataTypeNames[name], "%q should be a recognized data type name", name)
	}
	assert.False(t, token.DataTypeNames["fun"])
}
