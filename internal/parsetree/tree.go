// Package parsetree defines the concrete parse tree internal/lr builds and
// internal/ast reduces to an AST: a Symbol/Token/Children shape over the
// closed token.Symbol enumeration rather than a string grammar symbol.
package parsetree

import (
	"fmt"
	"strings"

	"github.com/piilip/neon/internal/token"
)

// Node is one node of the concrete parse tree. A terminal Node carries the
// token.Token it was shifted from; a non-terminal Node carries the children
// produced by the production that reduced to it.
type Node struct {
	Symbol   token.Symbol
	Terminal bool
	Tok      token.Token
	Children []*Node
}

// NewLeaf builds a terminal parse tree node directly from a shifted token.
func NewLeaf(tok token.Token) *Node {
	return &Node{Symbol: tok.Symbol, Terminal: true, Tok: tok}
}

// NewInterior builds a non-terminal parse tree node from the right-hand
// side subtrees a reduction popped off the parse stack, in left-to-right
// order.
func NewInterior(sym token.Symbol, children ...*Node) *Node {
	return &Node{Symbol: sym, Terminal: false, Children: children}
}

// String renders the tree as an indented ASCII outline, useful for
// -v/--verbose CLI output and golden-style tests.
func (n *Node) String() string {
	var sb strings.Builder
	n.leveledStr(&sb, 0)
	return sb.String()
}

func (n *Node) leveledStr(sb *strings.Builder, level int) {
	indent := strings.Repeat("  ", level)
	if n.Terminal {
		fmt.Fprintf(sb, "%s%s %q\n", indent, n.Symbol, n.Tok.Content)
		return
	}
	fmt.Fprintf(sb, "%s%s\n", indent, n.Symbol)
	for _, c := range n.Children {
		c.leveledStr(sb, level+1)
	}
}

// Equal reports whether two parse trees have identical shape, symbols, and
// (for terminals) token content.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Symbol != o.Symbol || n.Terminal != o.Terminal {
		return false
	}
	if n.Terminal {
		return n.Tok.Content == o.Tok.Content
	}
	if len(n.Children) != len(o.Children) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

// Copy returns a deep copy of the subtree rooted at n.
func (n *Node) Copy() *Node {
	if n == nil {
		return nil
	}
	cp := &Node{Symbol: n.Symbol, Terminal: n.Terminal, Tok: n.Tok}
	for _, c := range n.Children {
		cp.Children = append(cp.Children, c.Copy())
	}
	return cp
}
