package lr

import (
	"fmt"

	"github.com/piilip/neon/internal/grammar"
)

// ActionType distinguishes what a table-driven parser does at a given
// (state, terminal) pair.
type ActionType int

const (
	ActionError ActionType = iota
	ActionShift
	ActionReduce
	ActionAccept
)

func (t ActionType) String() string {
	switch t {
	case ActionShift:
		return "shift"
	case ActionReduce:
		return "reduce"
	case ActionAccept:
		return "accept"
	default:
		return "error"
	}
}

// Action is one ACTION table cell.
type Action struct {
	Type  ActionType
	Shift int // target state, if Type == ActionShift
	Prod  int // production index to reduce by, if Type == ActionReduce
}

// Table is the full ACTION/GOTO table plus the grammar it was built from,
// everything internal/lr.Parse needs to drive a parse.
type Table struct {
	Grammar *grammar.Grammar
	Action  []map[grammar.Symbol]Action
	Goto    []map[grammar.Symbol]int

	// Conflicts records every shift/reduce or reduce/reduce conflict
	// encountered during construction and how it was resolved, for
	// diagnostics and tests -- an empty slice after BuildTable means the
	// grammar is fully SLR(1).
	Conflicts []string
}

// BuildTable constructs the SLR(1) ACTION/GOTO table from an LR(0)
// automaton, using FOLLOW sets to decide reduce actions (the "SLR" in
// SLR(1)). Shift/reduce conflicts are resolved in favor of shift -- this is
// the classic operator-precedence default, and it also resolves the
// dangling-else case correctly, since the only way IF_STATEMENT_ELSE's
// epsilon-reduce item and an ELSE-shift item can coexist in the same state
// is the dangling-else configuration. Reduce/reduce conflicts are resolved
// by preferring the production that appears earliest in the grammar.
func BuildTable(a *Automaton) *Table {
	g := a.Grammar
	t := &Table{
		Grammar: g,
		Action:  make([]map[grammar.Symbol]Action, len(a.States)),
		Goto:    make([]map[grammar.Symbol]int, len(a.States)),
	}

	startProdIdx := -1
	for i, p := range g.Productions {
		if p.Left == g.Start {
			startProdIdx = i
		}
	}

	for i, state := range a.States {
		t.Action[i] = map[grammar.Symbol]Action{}
		t.Goto[i] = map[grammar.Symbol]int{}

		// Shifts and gotos come straight from the automaton's transitions.
		for sym, target := range a.Transitions[i] {
			if g.IsTerminal(sym) {
				t.setAction(i, sym, Action{Type: ActionShift, Shift: target})
			} else {
				t.Goto[i][sym] = target
			}
		}

		// Reduces and accept come from complete items, using FOLLOW(left).
		for it := range state.Items {
			if !it.atEnd(g) {
				continue
			}
			p := g.Productions[it.Prod]

			if it.Prod == startProdIdx {
				// grammar.New seeds FOLLOW(Start) with exactly {ENDOFFILE}.
				for sym := range g.Follow(p.Left) {
					t.setAction(i, sym, Action{Type: ActionAccept})
				}
				continue
			}

			for sym := range g.Follow(p.Left) {
				t.setAction(i, sym, Action{Type: ActionReduce, Prod: it.Prod})
			}
		}
	}

	return t
}

// setAction installs a new ACTION cell, resolving a conflict with whatever
// was already there (if anything) by preferring shift/accept over reduce,
// and the earliest production on a reduce/reduce tie.
func (t *Table) setAction(state int, sym grammar.Symbol, next Action) {
	existing, has := t.Action[state][sym]
	if !has || existing.Type == ActionError {
		t.Action[state][sym] = next
		return
	}
	if existing.Type == next.Type && existing.Shift == next.Shift && existing.Prod == next.Prod {
		return
	}

	switch {
	case existing.Type == ActionShift || existing.Type == ActionAccept:
		// Shift/accept already wins; keep it. Still worth recording we saw
		// a shift/reduce conflict here.
		if next.Type == ActionReduce {
			t.Conflicts = append(t.Conflicts, fmt.Sprintf(
				"state %d symbol %s: shift/reduce conflict, resolved as shift", state, sym))
		}
	case next.Type == ActionShift || next.Type == ActionAccept:
		t.Conflicts = append(t.Conflicts, fmt.Sprintf(
			"state %d symbol %s: shift/reduce conflict, resolved as shift", state, sym))
		t.Action[state][sym] = next
	default:
		// reduce/reduce: keep whichever production was declared earlier.
		if next.Prod < existing.Prod {
			t.Conflicts = append(t.Conflicts, fmt.Sprintf(
				"state %d symbol %s: reduce/reduce conflict between productions %d and %d, resolved as %d",
				state, sym, existing.Prod, next.Prod, next.Prod))
			t.Action[state][sym] = next
		} else {
			t.Conflicts = append(t.Conflicts, fmt.Sprintf(
				"state %d symbol %s: reduce/reduce conflict between productions %d and %d, resolved as %d",
				state, sym, existing.Prod, next.Prod, existing.Prod))
		}
	}
}
