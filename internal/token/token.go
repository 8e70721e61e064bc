// Package token defines the lexical token produced by internal/lex and
// consumed by internal/lr.
package token

import "fmt"

// Kind is the closed enumeration of lexical categories a Token can belong
// to. It is coarser than grammar.Symbol: several keywords share Kind but
// each has its own grammar.Symbol.
type Kind int

const (
	KindUndefined Kind = iota
	KindKeyword
	KindPunctuation
	KindIdentifier
	KindInteger
	KindFloat
	KindString
	KindDataType
	KindEOF
)

func (k Kind) String() string {
	switch k {
	case KindKeyword:
		return "keyword"
	case KindPunctuation:
		return "punctuation"
	case KindIdentifier:
		return "identifier"
	case KindInteger:
		return "integer literal"
	case KindFloat:
		return "float literal"
	case KindString:
		return "string literal"
	case KindDataType:
		return "data type name"
	case KindEOF:
		return "end of file"
	default:
		return "undefined"
	}
}

// Position is a 1-indexed line/column pair identifying where a Token begins
// in its source file.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a single lexeme read from source text, tagged with its coarse
// Kind, the grammar terminal it stands for (assigned by the lexer once it
// knows whether an identifier is actually a keyword), its literal text, and
// its position for diagnostics.
type Token struct {
	Kind    Kind
	Symbol  Symbol
	Content string
	Pos     Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Symbol, t.Content, t.Pos)
}

// Symbol is a grammar terminal ID. It is defined here (rather than in
// internal/grammar) so that internal/lex does not need to import the
// grammar package, and internal/grammar re-exports it as its terminal type —
// terminals and non-terminals share one closed enumeration per spec, and a
// Token only ever carries a terminal.
type Symbol int

// Symbol values are a contiguous enumeration: terminals are listed here,
// and internal/grammar appends its non-terminals starting at
// FirstNonTerminal. Names are looked up through the symbolNames table below
// (extended via RegisterName) rather than a generated stringer, since
// RegisterName needs to grow the table across package boundaries.
const (
	SymUndefined Symbol = iota

	// literals and names
	SymInteger
	SymFloat
	SymString
	SymVariableName
	SymDataType

	// keywords
	SymFun
	SymReturn
	SymIf
	SymElse
	SymFor
	SymTrue
	SymFalse
	SymAnd
	SymOr
	SymNot
	SymImport
	SymExtern
	SymAssert
	SymType

	// punctuation
	SymLeftParen
	SymRightParen
	SymLeftBrace
	SymRightBrace
	SymLeftBracket
	SymRightBracket
	SymComma
	SymSemicolon
	SymAssign
	SymEq
	SymNeq
	SymLe
	SymLt
	SymGe
	SymGt
	SymPlus
	SymMinus
	SymStar
	SymSlash

	SymEndOfFile

	symFirstNonTerminal // marker; non-terminals are appended by the grammar package
)

var symbolNames = map[Symbol]string{
	SymUndefined:    "UNDEFINED",
	SymInteger:      "INTEGER",
	SymFloat:        "FLOAT",
	SymString:       "STRING",
	SymVariableName: "VARIABLE_NAME",
	SymDataType:     "DATA_TYPE",
	SymFun:          "FUN",
	SymReturn:       "RETURN",
	SymIf:           "IF",
	SymElse:         "ELSE",
	SymFor:          "FOR",
	SymTrue:         "TRUE",
	SymFalse:        "FALSE",
	SymAnd:          "AND",
	SymOr:           "OR",
	SymNot:          "NOT",
	SymImport:       "IMPORT",
	SymExtern:       "EXTERN",
	SymAssert:       "ASSERT",
	SymType:         "TYPE",
	SymLeftParen:    "LEFT_PAREN",
	SymRightParen:   "RIGHT_PAREN",
	SymLeftBrace:    "LEFT_BRACE",
	SymRightBrace:   "RIGHT_BRACE",
	SymLeftBracket:  "LEFT_BRACKET",
	SymRightBracket: "RIGHT_BRACKET",
	SymComma:        "COMMA",
	SymSemicolon:    "SEMICOLON",
	SymAssign:       "ASSIGN",
	SymEq:           "EQ",
	SymNeq:          "NEQ",
	SymLe:           "LE",
	SymLt:           "LT",
	SymGe:           "GE",
	SymGt:           "GT",
	SymPlus:         "PLUS",
	SymMinus:        "MINUS",
	SymStar:         "STAR",
	SymSlash:        "SLASH",
	SymEndOfFile:    "ENDOFFILE",
}

// RegisterName allows other packages (namely internal/grammar, for its
// non-terminals) to extend the shared symbol->name table used by String().
func RegisterName(s Symbol, name string) {
	symbolNames[s] = name
}

func (s Symbol) String() string {
	if name, ok := symbolNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SYMBOL(%d)", int(s))
}

// Keywords maps every reserved word (other than data-type names, which are
// handled separately since their Kind is KindDataType) to its Symbol.
var Keywords = map[string]Symbol{
	"fun":    SymFun,
	"return": SymReturn,
	"if":     SymIf,
	"else":   SymElse,
	"for":    SymFor,
	"true":   SymTrue,
	"false":  SymFalse,
	"and":    SymAnd,
	"or":     SymOr,
	"not":    SymNot,
	"import": SymImport,
	"extern": SymExtern,
	"assert": SymAssert,
	"type":   SymType,
}

// DataTypeNames is the set of identifiers that lex as KindDataType tokens
// instead of KindIdentifier or KindKeyword.
var DataTypeNames = map[string]bool{
	"int":   true,
	"float": true,
	"bool":  true,
	"void":  true,
}

// FirstNonTerminal is the first Symbol value available for the grammar
// package to assign to non-terminals, keeping terminals and non-terminals in
// one contiguous, disjoint enumeration.
const FirstNonTerminal = symFirstNonTerminal
