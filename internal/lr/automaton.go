// Package lr builds an SLR(1) ACTION/GOTO table for the Neon grammar and
// drives the table-driven shift-reduce parser over a token stream, following
// the canonical Algorithm-4.44 driver loop and closure/goto construction,
// implemented concretely over token.Symbol rather than a generic
// string-keyed item-set representation (see DESIGN.md).
//
// SLR(1), not canonical LR(1) or LALR(1), is the deliberate choice here: the
// Neon grammar's precedence is expressed as a chain of non-terminals
// (EXPR -> DISJUNCTION -> ... -> FACTOR) specifically so that FOLLOW-set
// reduce decisions are unambiguous, and braced if/else bodies leave no
// dangling-else ambiguity, so SLR's coarser approximation never loses
// information canonical LR(1) would have used.
package lr

import (
	"fmt"
	"sort"
	"strings"

	"github.com/piilip/neon/internal/grammar"
)

// Item is an LR(0) item: a production together with a dot position marking
// how much of its right-hand side has been matched so far.
type Item struct {
	Prod int // index into Grammar.Productions
	Dot  int
}

func (it Item) String(g *grammar.Grammar) string {
	p := g.Productions[it.Prod]
	parts := make([]string, 0, len(p.Right)+1)
	for i, s := range p.Right {
		if i == it.Dot {
			parts = append(parts, "·")
		}
		parts = append(parts, s.String())
	}
	if it.Dot == len(p.Right) {
		parts = append(parts, "·")
	}
	return fmt.Sprintf("%s -> %s", p.Left, strings.Join(parts, " "))
}

// atEnd reports whether the dot has reached the end of the production
// (i.e. this item calls for a reduction).
func (it Item) atEnd(g *grammar.Grammar) bool {
	return it.Dot >= len(g.Productions[it.Prod].Right)
}

// nextSymbol returns the symbol immediately after the dot, and whether one
// exists.
func (it Item) nextSymbol(g *grammar.Grammar) (grammar.Symbol, bool) {
	p := g.Productions[it.Prod]
	if it.Dot >= len(p.Right) {
		return 0, false
	}
	return p.Right[it.Dot], true
}

// advance returns the item with the dot moved one position to the right.
func (it Item) advance() Item {
	return Item{Prod: it.Prod, Dot: it.Dot + 1}
}

// itemSet is a set of items with a canonical, order-independent key so two
// states reached by different paths can be recognized as identical.
type itemSet map[Item]bool

func (s itemSet) key() string {
	items := make([]Item, 0, len(s))
	for it := range s {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Prod != items[j].Prod {
			return items[i].Prod < items[j].Prod
		}
		return items[i].Dot < items[j].Dot
	})
	var sb strings.Builder
	for _, it := range items {
		fmt.Fprintf(&sb, "%d.%d|", it.Prod, it.Dot)
	}
	return sb.String()
}

// State is one node of the LR(0) automaton: its closed item set.
type State struct {
	Items itemSet
}

// Automaton is the full LR(0) viable-prefix automaton: states plus the
// shift/goto transitions between them, keyed by grammar symbol.
type Automaton struct {
	Grammar     *grammar.Grammar
	States      []*State
	Transitions []map[grammar.Symbol]int // Transitions[state][symbol] = target state
}

// closure computes the closure of an item set: repeatedly add, for every
// item with the dot before a non-terminal B, every production B -> γ as a
// new item with the dot at position 0.
func closure(g *grammar.Grammar, items itemSet) itemSet {
	result := itemSet{}
	for it := range items {
		result[it] = true
	}

	changed := true
	for changed {
		changed = false
		for it := range result {
			sym, ok := it.nextSymbol(g)
			if !ok || !g.IsNonTerminal(sym) {
				continue
			}
			for i, p := range g.Productions {
				if p.Left != sym {
					continue
				}
				newItem := Item{Prod: i, Dot: 0}
				if !result[newItem] {
					result[newItem] = true
					changed = true
				}
			}
		}
	}
	return result
}

// gotoSet computes GOTO(I, X): closure of the items in I advanced past X.
func gotoSet(g *grammar.Grammar, items itemSet, x grammar.Symbol) itemSet {
	moved := itemSet{}
	for it := range items {
		sym, ok := it.nextSymbol(g)
		if ok && sym == x {
			moved[it.advance()] = true
		}
	}
	if len(moved) == 0 {
		return nil
	}
	return closure(g, moved)
}

// Build constructs the canonical collection of LR(0) item sets and the
// shift/goto transition table for g, whose start symbol must already be the
// grammar's fresh augmenting symbol (grammar.Neon augments internally).
func Build(g *grammar.Grammar) *Automaton {
	startProdIdx := -1
	for i, p := range g.Productions {
		if p.Left == g.Start {
			startProdIdx = i
			break
		}
	}
	if startProdIdx < 0 {
		panic("lr: grammar has no production for its start symbol")
	}

	initial := closure(g, itemSet{{Prod: startProdIdx, Dot: 0}: true})

	a := &Automaton{Grammar: g}
	indexOf := map[string]int{}

	addState := func(items itemSet) int {
		k := items.key()
		if idx, ok := indexOf[k]; ok {
			return idx
		}
		idx := len(a.States)
		a.States = append(a.States, &State{Items: items})
		a.Transitions = append(a.Transitions, map[grammar.Symbol]int{})
		indexOf[k] = idx
		return idx
	}

	addState(initial)

	// Worklist over state indices; a.States grows while we iterate, so index
	// by position rather than ranging over a snapshot.
	for i := 0; i < len(a.States); i++ {
		symbols := outgoingSymbols(g, a.States[i].Items)
		for _, x := range symbols {
			target := gotoSet(g, a.States[i].Items, x)
			if target == nil {
				continue
			}
			j := addState(target)
			a.Transitions[i][x] = j
		}
	}

	return a
}

// outgoingSymbols lists, in a deterministic order, every symbol that
// appears immediately after some item's dot in items.
func outgoingSymbols(g *grammar.Grammar, items itemSet) []grammar.Symbol {
	seen := map[grammar.Symbol]bool{}
	var out []grammar.Symbol
	for it := range items {
		sym, ok := it.nextSymbol(g)
		if !ok || seen[sym] {
			continue
		}
		seen[sym] = true
		out = append(out, sym)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
