// Package grammar defines the Neon context-free grammar as a closed set of
// productions over the shared terminal/non-terminal symbol enumeration
// (internal/token.Symbol), plus FIRST/FOLLOW set computation used by
// internal/lr to build the table-driven parser.
//
// The grammar is unambiguous and precedence-encoded in the non-terminal
// hierarchy EXPR -> DISJUNCTION -> CONJUNCTION -> NEGATION -> RELATION ->
// SUM -> TERM -> FACTOR, with left recursion expressing left-associativity.
package grammar

import (
	"fmt"
	"strings"

	"github.com/piilip/neon/internal/token"
)

// Symbol re-exports token.Symbol: terminals and non-terminals share one
// closed enumeration.
type Symbol = token.Symbol

// Epsilon is used as a Production.Right of length zero's conceptual
// placeholder in diagnostics; productions simply have an empty Right slice.
const Epsilon = "ε"

// Production is one grammar rule Left -> Right[0] Right[1] ... Right[n-1].
// An empty Right is an epsilon production.
type Production struct {
	Left  Symbol
	Right []Symbol
}

func (p Production) String() string {
	parts := make([]string, len(p.Right))
	for i, s := range p.Right {
		parts[i] = s.String()
	}
	rhs := strings.Join(parts, " ")
	if rhs == "" {
		rhs = Epsilon
	}
	return fmt.Sprintf("%s -> %s", p.Left, rhs)
}

// Equal reports whether two productions have the same left and right sides.
func (p Production) Equal(o Production) bool {
	if p.Left != o.Left || len(p.Right) != len(o.Right) {
		return false
	}
	for i := range p.Right {
		if p.Right[i] != o.Right[i] {
			return false
		}
	}
	return true
}

// Grammar is a fixed set of productions together with the derived
// terminal/non-terminal partition, FIRST sets, and FOLLOW sets needed to
// build an LR parse table.
type Grammar struct {
	Start       Symbol
	Productions []Production

	terminals    map[Symbol]bool
	nonTerminals map[Symbol]bool
	nullable     map[Symbol]bool
	first        map[Symbol]map[Symbol]bool
	follow       map[Symbol]map[Symbol]bool
}

// New builds a Grammar from an augmented start symbol and production list,
// and eagerly computes FIRST/FOLLOW sets.
//
// start must not appear on the right-hand side of any production; augmenting
// with a fresh start symbol (Start' -> start) is NOT performed here -- the
// caller passes an already-augmented grammar (grammar.Neon adds its own),
// following the classic dragon-book construction.
func New(start Symbol, productions []Production) *Grammar {
	g := &Grammar{
		Start:        start,
		Productions:  productions,
		terminals:    map[Symbol]bool{},
		nonTerminals: map[Symbol]bool{},
	}

	for _, p := range productions {
		g.nonTerminals[p.Left] = true
	}
	for _, p := range productions {
		for _, s := range p.Right {
			if !g.nonTerminals[s] {
				g.terminals[s] = true
			}
		}
	}
	g.terminals[token.SymEndOfFile] = true

	g.computeNullable()
	g.computeFirst()
	g.computeFollow()

	return g
}

// IsTerminal reports whether s is a terminal symbol of this grammar.
func (g *Grammar) IsTerminal(s Symbol) bool {
	return g.terminals[s]
}

// IsNonTerminal reports whether s is a non-terminal symbol of this grammar.
func (g *Grammar) IsNonTerminal(s Symbol) bool {
	return g.nonTerminals[s]
}

// ProductionsFor returns every production whose left side is nt, in
// declaration order.
func (g *Grammar) ProductionsFor(nt Symbol) []Production {
	var out []Production
	for _, p := range g.Productions {
		if p.Left == nt {
			out = append(out, p)
		}
	}
	return out
}

func (g *Grammar) computeNullable() {
	g.nullable = map[Symbol]bool{}
	changed := true
	for changed {
		changed = false
		for _, p := range g.Productions {
			if g.nullable[p.Left] {
				continue
			}
			allNullable := true
			for _, s := range p.Right {
				if !g.nullable[s] {
					allNullable = false
					break
				}
			}
			if allNullable {
				g.nullable[p.Left] = true
				changed = true
			}
		}
	}
}

// Nullable reports whether s can derive the empty string.
func (g *Grammar) Nullable(s Symbol) bool {
	return g.nullable[s]
}

func (g *Grammar) computeFirst() {
	g.first = map[Symbol]map[Symbol]bool{}
	for t := range g.terminals {
		g.first[t] = map[Symbol]bool{t: true}
	}
	for nt := range g.nonTerminals {
		g.first[nt] = map[Symbol]bool{}
	}

	changed := true
	for changed {
		changed = false
		for _, p := range g.Productions {
			dest := g.first[p.Left]
			before := len(dest)

			allNullableSoFar := true
			for _, s := range p.Right {
				for sym := range g.first[s] {
					if !dest[sym] {
						dest[sym] = true
					}
				}
				if !g.nullable[s] {
					allNullableSoFar = false
					break
				}
			}
			_ = allNullableSoFar

			if len(dest) != before {
				changed = true
			}
		}
	}
}

// First returns FIRST(s): the set of terminals that can begin a string
// derived from s (s itself if s is terminal).
func (g *Grammar) First(s Symbol) map[Symbol]bool {
	return g.first[s]
}

// FirstOfSequence computes FIRST of a string of symbols, correctly skipping
// past any nullable prefix.
func (g *Grammar) FirstOfSequence(seq []Symbol) map[Symbol]bool {
	result := map[Symbol]bool{}
	for _, s := range seq {
		for sym := range g.first[s] {
			result[sym] = true
		}
		if !g.nullable[s] {
			return result
		}
	}
	return result
}

// SequenceNullable reports whether every symbol in seq is nullable (so the
// whole sequence can derive the empty string).
func (g *Grammar) SequenceNullable(seq []Symbol) bool {
	for _, s := range seq {
		if !g.nullable[s] {
			return false
		}
	}
	return true
}

func (g *Grammar) computeFollow() {
	g.follow = map[Symbol]map[Symbol]bool{}
	for nt := range g.nonTerminals {
		g.follow[nt] = map[Symbol]bool{}
	}
	g.follow[g.Start][token.SymEndOfFile] = true

	changed := true
	for changed {
		changed = false
		for _, p := range g.Productions {
			for i, s := range p.Right {
				if !g.nonTerminals[s] {
					continue
				}
				rest := p.Right[i+1:]
				before := len(g.follow[s])

				for sym := range g.FirstOfSequence(rest) {
					g.follow[s][sym] = true
				}
				if g.SequenceNullable(rest) {
					for sym := range g.follow[p.Left] {
						g.follow[s][sym] = true
					}
				}

				if len(g.follow[s]) != before {
					changed = true
				}
			}
		}
	}
}

// Follow returns FOLLOW(nt): the set of terminals that can immediately
// follow nt in some derivation from the start symbol.
func (g *Grammar) Follow(nt Symbol) map[Symbol]bool {
	return g.follow[nt]
}
