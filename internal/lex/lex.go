// Package lex implements the Neon lexer: a hand-written, longest-match
// scanner over .ne source text, written as a concrete, eager tokenizer
// rather than a generic regex-table-driven one (see DESIGN.md).
package lex

import (
	"strings"
	"unicode"

	"github.com/piilip/neon/internal/diag"
	"github.com/piilip/neon/internal/token"
)

// Lexer scans one module's source text into a token stream, buffering every
// token up front so internal/lr's parser driver can Peek arbitrarily far
// ahead without re-scanning.
type Lexer struct {
	tokens []token.Token
	pos    int
}

// New scans src in full, recording any lex errors (unrecognized characters)
// into bag as errors — scanning always produces a token stream, skipping
// the bad rune and continuing rather than aborting. module names the source
// for diagnostics.
func New(module, src string, bag *diag.Bag) *Lexer {
	l := &Lexer{}
	s := &scanner{src: []rune(src), line: 1, col: 1, module: module, bag: bag}
	for {
		tok, ok := s.next()
		if ok {
			l.tokens = append(l.tokens, tok)
		}
		if tok.Kind == token.KindEOF {
			break
		}
	}
	return l
}

// Peek returns the token k positions ahead of the cursor without consuming
// it (Peek(0) is the next token Next() would return). Past the end of the
// stream it returns an infinite run of ENDOFFILE tokens.
func (l *Lexer) Peek(k int) token.Token {
	idx := l.pos + k
	if idx >= len(l.tokens) {
		return l.tokens[len(l.tokens)-1] // the EOF sentinel, always last
	}
	return l.tokens[idx]
}

// Next consumes and returns the next token.
func (l *Lexer) Next() token.Token {
	t := l.Peek(0)
	if l.pos < len(l.tokens)-1 {
		l.pos++
	}
	return t
}

// Tokens returns the full buffered token stream (including the trailing
// ENDOFFILE), for the REPL's :tokens command and tests.
func (l *Lexer) Tokens() []token.Token {
	return l.tokens
}

// scanner is the one-pass character-level state machine.
type scanner struct {
	src    []rune
	at     int
	line   int
	col    int
	module string
	bag    *diag.Bag
}

func (s *scanner) peekRune(k int) (rune, bool) {
	if s.at+k >= len(s.src) {
		return 0, false
	}
	return s.src[s.at+k], true
}

func (s *scanner) advance() rune {
	r := s.src[s.at]
	s.at++
	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return r
}

func (s *scanner) pos() token.Position {
	return token.Position{Line: s.line, Column: s.col}
}

// next scans and returns the next token. ok is false only for the
// never-actually-emitted sentinel case (next always returns a token; ok
// exists so New's loop reads cleanly).
func (s *scanner) next() (token.Token, bool) {
	s.skipWhitespaceAndComments()

	start := s.pos()
	r, has := s.peekRune(0)
	if !has {
		return token.Token{Kind: token.KindEOF, Symbol: token.SymEndOfFile, Pos: start}, true
	}

	switch {
	case unicode.IsDigit(r):
		return s.scanNumber(start), true
	case isIdentStart(r):
		return s.scanIdentifier(start), true
	case r == '"':
		return s.scanString(start), true
	default:
		if tok, ok := s.scanPunctuation(start); ok {
			return tok, true
		}
		s.advance()
		s.bag.Addf(diag.Lex, s.module, &start, "unexpected character %q", r)
		return s.next()
	}
}

func (s *scanner) skipWhitespaceAndComments() {
	for {
		r, has := s.peekRune(0)
		if !has {
			return
		}
		if unicode.IsSpace(r) {
			s.advance()
			continue
		}
		if r == '/' {
			if r2, ok := s.peekRune(1); ok && r2 == '/' {
				for {
					r, has := s.peekRune(0)
					if !has || r == '\n' {
						break
					}
					s.advance()
				}
				continue
			}
		}
		return
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentCont(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (s *scanner) scanIdentifier(start token.Position) token.Token {
	var sb strings.Builder
	for {
		r, has := s.peekRune(0)
		if !has || !isIdentCont(r) {
			break
		}
		sb.WriteRune(s.advance())
	}
	text := sb.String()

	if token.DataTypeNames[text] {
		return token.Token{Kind: token.KindDataType, Symbol: token.SymDataType, Content: text, Pos: start}
	}
	if sym, ok := token.Keywords[text]; ok {
		return token.Token{Kind: token.KindKeyword, Symbol: sym, Content: text, Pos: start}
	}
	return token.Token{Kind: token.KindIdentifier, Symbol: token.SymVariableName, Content: text, Pos: start}
}

func (s *scanner) scanNumber(start token.Position) token.Token {
	var sb strings.Builder
	for {
		r, has := s.peekRune(0)
		if !has || !unicode.IsDigit(r) {
			break
		}
		sb.WriteRune(s.advance())
	}

	isFloat := false
	if r, has := s.peekRune(0); has && r == '.' {
		if r2, has2 := s.peekRune(1); has2 && unicode.IsDigit(r2) {
			isFloat = true
			sb.WriteRune(s.advance()) // '.'
			for {
				r, has := s.peekRune(0)
				if !has || !unicode.IsDigit(r) {
					break
				}
				sb.WriteRune(s.advance())
			}
		}
	}

	if isFloat {
		return token.Token{Kind: token.KindFloat, Symbol: token.SymFloat, Content: sb.String(), Pos: start}
	}
	return token.Token{Kind: token.KindInteger, Symbol: token.SymInteger, Content: sb.String(), Pos: start}
}

func (s *scanner) scanString(start token.Position) token.Token {
	s.advance() // opening quote
	var sb strings.Builder
	for {
		r, has := s.peekRune(0)
		if !has {
			s.bag.Addf(diag.Lex, s.module, &start, "unterminated string literal")
			break
		}
		if r == '"' {
			s.advance()
			break
		}
		if r == '\\' {
			s.advance()
			if esc, ok := s.peekRune(0); ok {
				sb.WriteRune(unescape(esc))
				s.advance()
			}
			continue
		}
		sb.WriteRune(s.advance())
	}
	return token.Token{Kind: token.KindString, Symbol: token.SymString, Content: sb.String(), Pos: start}
}

func unescape(r rune) rune {
	switch r {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return r
	}
}

// punctuation is checked longest-match first so e.g. "==" is not scanned as
// two "=" tokens.
var punctuation = []struct {
	text string
	sym  token.Symbol
}{
	{"==", token.SymEq},
	{"!=", token.SymNeq},
	{"<=", token.SymLe},
	{">=", token.SymGe},
	{"(", token.SymLeftParen},
	{")", token.SymRightParen},
	{"{", token.SymLeftBrace},
	{"}", token.SymRightBrace},
	{"[", token.SymLeftBracket},
	{"]", token.SymRightBracket},
	{",", token.SymComma},
	{";", token.SymSemicolon},
	{"=", token.SymAssign},
	{"<", token.SymLt},
	{">", token.SymGt},
	{"+", token.SymPlus},
	{"-", token.SymMinus},
	{"*", token.SymStar},
	{"/", token.SymSlash},
}

func (s *scanner) scanPunctuation(start token.Position) (token.Token, bool) {
	for _, p := range punctuation {
		if s.matches(p.text) {
			for range p.text {
				s.advance()
			}
			return token.Token{Kind: token.KindPunctuation, Symbol: p.sym, Content: p.text, Pos: start}, true
		}
	}
	return token.Token{}, false
}

func (s *scanner) matches(text string) bool {
	for i, want := range text {
		got, has := s.peekRune(i)
		if !has || got != want {
			return false
		}
	}
	return true
}
