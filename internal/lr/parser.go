package lr

import (
	"fmt"
	"sort"

	"github.com/piilip/neon/internal/diag"
	"github.com/piilip/neon/internal/grammar"
	"github.com/piilip/neon/internal/lex"
	"github.com/piilip/neon/internal/parsetree"
	"github.com/piilip/neon/internal/token"
)

// Parse runs the classic table-driven shift-reduce algorithm (dragon-book
// Algorithm 4.44): a stack of automaton states paired with a stack of
// partially-built parse tree subtrees. On ACTION[state][lookahead] == shift,
// push the lookahead as a leaf and advance; on reduce, pop |RHS| subtrees
// and states, push a new interior node, and consult GOTO; on accept, the
// remaining single subtree is the parse tree's root.
//
// Lex and syntax errors are both reported through bag rather than returned:
// a syntax error causes Parse to attempt panic-mode recovery (discard tokens
// until one with a valid shift/reduce action is found) so a single
// malformed statement doesn't prevent the rest of the module from being
// reported on.
func Parse(module string, src string, table *Table, bag *diag.Bag) *parsetree.Node {
	lexer := lex.New(module, src, bag)
	g := table.Grammar

	stateStack := []int{0}
	var treeStack []*parsetree.Node

	for {
		state := stateStack[len(stateStack)-1]
		look := lexer.Peek(0)

		action, ok := table.Action[state][look.Symbol]
		if !ok || action.Type == ActionError {
			pos := look.Pos
			bag.Addf(diag.Syntax, module, &pos,
				"unexpected %s; expected one of %s", look.Symbol, expectedSymbols(table, state))

			if recovered, newState, newStack := recover_(table, &stateStack, lexer); recovered {
				stateStack = newStack
				_ = newState
				continue
			}
			return nil
		}

		switch action.Type {
		case ActionShift:
			lexer.Next()
			treeStack = append(treeStack, parsetree.NewLeaf(look))
			stateStack = append(stateStack, action.Shift)

		case ActionReduce:
			p := g.Productions[action.Prod]
			n := len(p.Right)

			var children []*parsetree.Node
			if n > 0 {
				children = append(children, treeStack[len(treeStack)-n:]...)
				treeStack = treeStack[:len(treeStack)-n]
				stateStack = stateStack[:len(stateStack)-n]
			}

			node := parsetree.NewInterior(p.Left, children...)
			treeStack = append(treeStack, node)

			top := stateStack[len(stateStack)-1]
			target, ok := table.Goto[top][p.Left]
			if !ok {
				bag.Addf(diag.Syntax, module, nil,
					"internal parser error: no GOTO from state %d on %s", top, p.Left)
				return nil
			}
			stateStack = append(stateStack, target)

		case ActionAccept:
			if len(treeStack) != 1 {
				bag.Addf(diag.Syntax, module, nil, "internal parser error: %d trees remain at accept", len(treeStack))
				return nil
			}
			return treeStack[0]
		}
	}
}

// recover_ implements simple panic-mode error recovery: discard lookahead
// tokens until ENDOFFILE or until one is found for which the current state
// has a defined action, so the caller's loop can resume. It reports whether
// recovery succeeded.
func recover_(table *Table, stateStack *[]int, lexer *lex.Lexer) (bool, int, []int) {
	state := (*stateStack)[len(*stateStack)-1]
	for {
		look := lexer.Peek(0)
		if look.Kind == token.KindEOF {
			return false, state, *stateStack
		}
		if _, ok := table.Action[state][look.Symbol]; ok {
			return true, state, *stateStack
		}
		lexer.Next()
	}
}

func expectedSymbols(table *Table, state int) string {
	var syms []string
	for sym, action := range table.Action[state] {
		if action.Type != ActionError {
			syms = append(syms, sym.String())
		}
	}
	sort.Strings(syms)
	return fmt.Sprintf("%v", syms)
}
