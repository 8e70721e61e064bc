package ast

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dekarrin/rosed"
)

// Print is an indented, one-node-per-line, attribute-tagged description of
// the tree, using rosed.Edit(...).Indent(n) for the indentation, matching
// the way rosed is used elsewhere in this codebase for structural String()
// output.
func Print(n *Node) string {
	var sb strings.Builder
	printNode(&sb, n, 0)
	return sb.String()
}

func printLine(sb *strings.Builder, indent int, format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...)
	edited := rosed.Edit(line).Indent(indent).String()
	sb.WriteString(edited)
	sb.WriteString("\n")
}

func printNode(sb *strings.Builder, n *Node, indent int) {
	if n == nil {
		printLine(sb, indent, "<nil>")
		return
	}
	switch n.Kind {
	case KindSequence:
		printLine(sb, indent, "Sequence (%d elements)", len(n.Elements))
		for _, c := range n.Elements {
			printNode(sb, c, indent+1)
		}
	case KindStatement:
		printLine(sb, indent, "Statement (is_return=%t)", n.IsReturn)
		if n.Child != nil {
			printNode(sb, n.Child, indent+1)
		}
	case KindIntegerLiteral:
		printLine(sb, indent, "IntegerLiteral (value=%d)", n.IntValue)
	case KindFloatLiteral:
		printLine(sb, indent, "FloatLiteral (value=%g)", n.FloatValue)
	case KindBoolLiteral:
		printLine(sb, indent, "BoolLiteral (value=%t)", n.BoolValue)
	case KindVariable:
		printLine(sb, indent, "Variable (name=%s)", n.Name)
		if n.ArrayIndex != nil {
			printNode(sb, n.ArrayIndex, indent+1)
		}
	case KindVariableDefinition:
		printLine(sb, indent, "VariableDefinition (name=%s, type=%s)", n.Name, n.DataType)
	case KindAssignment:
		printLine(sb, indent, "Assignment")
		printNode(sb, n.Left, indent+1)
		printNode(sb, n.Right, indent+1)
	case KindUnaryOperation:
		printLine(sb, indent, "UnaryOperation (op=%s)", n.UnaryOp)
		printNode(sb, n.Child, indent+1)
	case KindBinaryOperation:
		printLine(sb, indent, "BinaryOperation (op=%s)", n.BinaryOp)
		printNode(sb, n.Left, indent+1)
		printNode(sb, n.Right, indent+1)
	case KindFunction:
		printLine(sb, indent, "Function (name=%s, return=%s)", n.Name, n.ReturnType)
		for _, a := range n.Arguments {
			printNode(sb, a, indent+1)
		}
		printNode(sb, n.Body, indent+1)
	case KindExternFunction:
		printLine(sb, indent, "ExternFunction (name=%s, return=%s)", n.Name, n.ReturnType)
		for _, a := range n.Arguments {
			printNode(sb, a, indent+1)
		}
	case KindCall:
		printLine(sb, indent, "Call (name=%s, args=%d)", n.Name, len(n.CallArgs))
		for _, a := range n.CallArgs {
			printNode(sb, a, indent+1)
		}
	case KindIfStatement:
		printLine(sb, indent, "IfStatement")
		printNode(sb, n.Condition, indent+1)
		printNode(sb, n.IfBody, indent+1)
		if n.ElseBody != nil {
			printNode(sb, n.ElseBody, indent+1)
		}
	case KindForStatement:
		printLine(sb, indent, "ForStatement")
		if n.Init != nil {
			printNode(sb, n.Init, indent+1)
		}
		printNode(sb, n.Condition, indent+1)
		if n.Update != nil {
			printNode(sb, n.Update, indent+1)
		}
		printNode(sb, n.Body, indent+1)
	case KindAssert:
		printLine(sb, indent, "Assert")
		printNode(sb, n.Condition, indent+1)
	case KindImport:
		printLine(sb, indent, "Import (path=%s)", n.Name)
	case KindTypeDeclaration:
		printLine(sb, indent, "TypeDeclaration (name=%s, members=%d)", n.Name, len(n.Members))
		for _, m := range n.Members {
			printLine(sb, indent+1, "%s %s", m.Type, m.Name)
		}
	default:
		printLine(sb, indent, "?")
	}
}

// TestCaseEntry is one line of a PrintTestCase listing: a tree depth paired
// with the Kind found at that depth, emitted in pre-order.
type TestCaseEntry struct {
	Indent int
	Kind   Kind
}

// PrintTestCase walks the tree in pre-order and emits it as Go
// composite-literal source for a []TestCaseEntry -- pastable directly into a
// test fixture as an (indent, Kind) pair listing, the same role a
// golden-comparison String() convention plays elsewhere in this codebase.
func PrintTestCase(n *Node) string {
	var entries []TestCaseEntry
	collectTestCase(n, 0, &entries)

	var sb strings.Builder
	sb.WriteString("[]ast.TestCaseEntry{\n")
	for _, e := range entries {
		fmt.Fprintf(&sb, "\t{Indent: %d, Kind: ast.%s},\n", e.Indent, kindConstName(e.Kind))
	}
	sb.WriteString("}\n")
	return sb.String()
}

func collectTestCase(n *Node, indent int, out *[]TestCaseEntry) {
	if n == nil {
		return
	}
	*out = append(*out, TestCaseEntry{Indent: indent, Kind: n.Kind})
	for _, c := range Children(n) {
		collectTestCase(c, indent+1, out)
	}
}

// Children returns every direct child Node, in the same order printNode
// descends them, for visitors that need a uniform walk instead of a
// per-Kind switch (e.g. cmd/neon-repl's :types dump).
func Children(n *Node) []*Node {
	switch n.Kind {
	case KindSequence:
		return n.Elements
	case KindStatement:
		if n.Child != nil {
			return []*Node{n.Child}
		}
	case KindVariable:
		if n.ArrayIndex != nil {
			return []*Node{n.ArrayIndex}
		}
	case KindAssignment:
		return []*Node{n.Left, n.Right}
	case KindUnaryOperation:
		return []*Node{n.Child}
	case KindBinaryOperation:
		return []*Node{n.Left, n.Right}
	case KindFunction:
		out := append([]*Node{}, n.Arguments...)
		if n.Body != nil {
			out = append(out, n.Body)
		}
		return out
	case KindExternFunction:
		return n.Arguments
	case KindCall:
		return n.CallArgs
	case KindIfStatement:
		out := []*Node{n.Condition, n.IfBody}
		if n.ElseBody != nil {
			out = append(out, n.ElseBody)
		}
		return out
	case KindForStatement:
		var out []*Node
		if n.Init != nil {
			out = append(out, n.Init)
		}
		out = append(out, n.Condition)
		if n.Update != nil {
			out = append(out, n.Update)
		}
		return append(out, n.Body)
	case KindAssert:
		return []*Node{n.Condition}
	}
	return nil
}

func kindConstName(k Kind) string {
	return "Kind" + k.String()
}

// FindImports descends Sequence and Statement nodes and, for every Import in
// first-encounter order, collects what resolve returns for fromModule and the
// Import's source-relative path. Duplicates are not removed -- that is
// internal/compiler's responsibility, since only the driver knows which
// modules are already queued or compiled.
func FindImports(n *Node, fromModule string, resolve func(fromModule, importPath string) string) []string {
	var out []string
	findImports(n, fromModule, resolve, &out)
	return out
}

func findImports(n *Node, fromModule string, resolve func(fromModule, importPath string) string, out *[]string) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindSequence:
		for _, c := range n.Elements {
			findImports(c, fromModule, resolve, out)
		}
	case KindStatement:
		findImports(n.Child, fromModule, resolve, out)
	case KindImport:
		*out = append(*out, resolve(fromModule, n.Name))
	}
}

// FindTypes collects every TypeDeclaration in the tree, in first-encounter
// order, each with its ordered member list.
func FindTypes(n *Node) []*Node {
	var out []*Node
	findTypes(n, &out)
	return out
}

func findTypes(n *Node, out *[]*Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindSequence:
		for _, c := range n.Elements {
			findTypes(c, out)
		}
	case KindStatement:
		findTypes(n.Child, out)
	case KindTypeDeclaration:
		*out = append(*out, n)
	}
}

// CanonicalImportPath joins a directory and file name into a clean path.
// internal/source.ResolveImport does its own join, plus absolute-path
// resolution and NFC normalization, without calling this function.
func CanonicalImportPath(dir, file string) string {
	if filepath.IsAbs(file) {
		return filepath.Clean(file)
	}
	return filepath.Clean(filepath.Join(dir, file))
}
