// Package ast defines the Neon abstract syntax tree as a single closed
// tagged-variant Node type, and the reducer (Build) and visitors
// (Print, PrintTestCase, FindImports, FindTypes) that operate over it.
//
// Pattern matching over a closed sum type is used here instead of classical
// per-concrete-type visitor double-dispatch. With eighteen node variants, one
// struct keyed by Kind -- with only the fields a given Kind uses populated
// -- is a closed tagged variant pattern-matched with a switch on Kind, just
// without the per-variant accessor boilerplate a one-interface-per-variant
// encoding would add at this node count (see DESIGN.md).
package ast

import (
	"fmt"
	"strings"
)

// Kind is the closed tag identifying which AST variant a Node is.
type Kind int

const (
	KindSequence Kind = iota
	KindStatement
	KindIntegerLiteral
	KindFloatLiteral
	KindBoolLiteral
	KindVariable
	KindVariableDefinition
	KindAssignment
	KindUnaryOperation
	KindBinaryOperation
	KindFunction
	KindExternFunction
	KindCall
	KindIfStatement
	KindForStatement
	KindAssert
	KindImport
	KindTypeDeclaration
)

func (k Kind) String() string {
	switch k {
	case KindSequence:
		return "Sequence"
	case KindStatement:
		return "Statement"
	case KindIntegerLiteral:
		return "IntegerLiteral"
	case KindFloatLiteral:
		return "FloatLiteral"
	case KindBoolLiteral:
		return "BoolLiteral"
	case KindVariable:
		return "Variable"
	case KindVariableDefinition:
		return "VariableDefinition"
	case KindAssignment:
		return "Assignment"
	case KindUnaryOperation:
		return "UnaryOperation"
	case KindBinaryOperation:
		return "BinaryOperation"
	case KindFunction:
		return "Function"
	case KindExternFunction:
		return "ExternFunction"
	case KindCall:
		return "Call"
	case KindIfStatement:
		return "IfStatement"
	case KindForStatement:
		return "ForStatement"
	case KindAssert:
		return "Assert"
	case KindImport:
		return "Import"
	case KindTypeDeclaration:
		return "TypeDeclaration"
	default:
		return "Unknown"
	}
}

// UnaryOp is the closed set of unary operators. The only member is Not; the
// type exists so IR lowering and printing don't compare against a bare bool.
type UnaryOp int

const (
	OpNot UnaryOp = iota
)

func (o UnaryOp) String() string { return "Not" }

// BinaryOp is the closed set of binary operators.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNeq
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
)

var binaryOpNames = map[BinaryOp]string{
	OpAdd: "Add", OpSub: "Sub", OpMul: "Mul", OpDiv: "Div",
	OpEq: "Eq", OpNeq: "Neq", OpLt: "Lt", OpLe: "Le", OpGt: "Gt", OpGe: "Ge",
	OpAnd: "And", OpOr: "Or",
}

func (o BinaryOp) String() string { return binaryOpNames[o] }

// DataType is the source language's closed type enumeration.
// Composite types are represented by Category == Composite with Name set to
// the declared type's name; two DataTypes are Equal iff same category and,
// for composites, the same name (member-list equality is enforced once,
// at declaration time, by the type finder/analyser rather than on every
// comparison).
type DataType struct {
	Category Category
	Name     string // only meaningful when Category == Composite
}

type Category int

const (
	Void Category = iota
	Int
	Float
	Bool
	Composite
)

func (c Category) String() string {
	switch c {
	case Void:
		return "VOID"
	case Int:
		return "INT"
	case Float:
		return "FLOAT"
	case Bool:
		return "BOOL"
	case Composite:
		return "COMPOSITE"
	default:
		return "UNKNOWN"
	}
}

func (t DataType) String() string {
	if t.Category == Composite {
		return t.Name
	}
	return t.Category.String()
}

// Equal reports structural equality 
func (t DataType) Equal(o DataType) bool {
	if t.Category != o.Category {
		return false
	}
	if t.Category == Composite {
		return t.Name == o.Name
	}
	return true
}

var (
	TypeVoid  = DataType{Category: Void}
	TypeInt   = DataType{Category: Int}
	TypeFloat = DataType{Category: Float}
	TypeBool  = DataType{Category: Bool}
)

// Node is one AST node. Only the fields relevant to Kind are populated; see
// the per-field comments below for which fields a given Kind uses.
type Node struct {
	Kind Kind

	// Sequence
	Elements []*Node

	// Statement
	IsReturn bool
	Child    *Node

	// IntegerLiteral
	IntValue int64
	// FloatLiteral
	FloatValue float64
	// BoolLiteral
	BoolValue bool

	// Variable, VariableDefinition, Function, ExternFunction, Call, Import,
	// TypeDeclaration
	Name string

	// Variable
	ArrayIndex *Node // nil if not indexed

	// VariableDefinition
	DataType DataType

	// Assignment, BinaryOperation
	Left, Right *Node

	// UnaryOperation
	UnaryOp UnaryOp
	// BinaryOperation
	BinaryOp BinaryOp

	// Function, ExternFunction
	ReturnType DataType
	Arguments  []*Node // VariableDefinition nodes
	Body       *Node   // Sequence; nil for ExternFunction

	// Call
	CallArgs []*Node

	// IfStatement
	Condition, IfBody, ElseBody *Node // IfBody/ElseBody nilable

	// ForStatement
	Init, Update *Node // nilable

	// TypeDeclaration
	Members []TypeMember

	// identity is a process-unique handle distinguishing otherwise-equal
	// nodes for use as a side-map key (this package's "raw back-references"
	// guidance: the type map keys on node identity, not a parent pointer).
	identity int
}

// TypeMember is one member of a declared composite type.
type TypeMember struct {
	Name string
	Type DataType
}

var nextIdentity int

func newNode(k Kind) *Node {
	nextIdentity++
	return &Node{Kind: k, identity: nextIdentity}
}

// Identity returns a value stable for the lifetime of the node and unique
// across every node ever allocated in this process, suitable as a map key
// for side-tables like the type map (internal/types).
func (n *Node) Identity() int {
	return n.identity
}

// String renders the node as a single-line s-expression-ish summary, used by
// golden-style tests under the convention that two nodes are "the same" iff
// their String() output matches.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	var sb strings.Builder
	writeNode(&sb, n)
	return sb.String()
}

func writeNode(sb *strings.Builder, n *Node) {
	if n == nil {
		sb.WriteString("<nil>")
		return
	}
	switch n.Kind {
	case KindSequence:
		sb.WriteString("Sequence[")
		for i, c := range n.Elements {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeNode(sb, c)
		}
		sb.WriteString("]")
	case KindStatement:
		fmt.Fprintf(sb, "Statement(is_return=%t, ", n.IsReturn)
		writeNode(sb, n.Child)
		sb.WriteString(")")
	case KindIntegerLiteral:
		fmt.Fprintf(sb, "IntegerLiteral(%d)", n.IntValue)
	case KindFloatLiteral:
		fmt.Fprintf(sb, "FloatLiteral(%g)", n.FloatValue)
	case KindBoolLiteral:
		fmt.Fprintf(sb, "BoolLiteral(%t)", n.BoolValue)
	case KindVariable:
		if n.ArrayIndex != nil {
			fmt.Fprintf(sb, "Variable(%s, index=", n.Name)
			writeNode(sb, n.ArrayIndex)
			sb.WriteString(")")
		} else {
			fmt.Fprintf(sb, "Variable(%s)", n.Name)
		}
	case KindVariableDefinition:
		fmt.Fprintf(sb, "VariableDefinition(%q, %s)", n.Name, n.DataType)
	case KindAssignment:
		sb.WriteString("Assignment(")
		writeNode(sb, n.Left)
		sb.WriteString(", ")
		writeNode(sb, n.Right)
		sb.WriteString(")")
	case KindUnaryOperation:
		fmt.Fprintf(sb, "%s(", n.UnaryOp)
		writeNode(sb, n.Child)
		sb.WriteString(")")
	case KindBinaryOperation:
		fmt.Fprintf(sb, "%s(", n.BinaryOp)
		writeNode(sb, n.Left)
		sb.WriteString(", ")
		writeNode(sb, n.Right)
		sb.WriteString(")")
	case KindFunction:
		fmt.Fprintf(sb, "Function(%q, %s, args=[", n.Name, n.ReturnType)
		for i, a := range n.Arguments {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeNode(sb, a)
		}
		sb.WriteString("], body=")
		writeNode(sb, n.Body)
		sb.WriteString(")")
	case KindExternFunction:
		fmt.Fprintf(sb, "ExternFunction(%q, %s, args=[", n.Name, n.ReturnType)
		for i, a := range n.Arguments {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeNode(sb, a)
		}
		sb.WriteString("])")
	case KindCall:
		fmt.Fprintf(sb, "Call(%q", n.Name)
		for _, a := range n.CallArgs {
			sb.WriteString(", ")
			writeNode(sb, a)
		}
		sb.WriteString(")")
	case KindIfStatement:
		sb.WriteString("IfStatement(")
		writeNode(sb, n.Condition)
		sb.WriteString(", ")
		writeNode(sb, n.IfBody)
		sb.WriteString(", ")
		writeNode(sb, n.ElseBody)
		sb.WriteString(")")
	case KindForStatement:
		sb.WriteString("ForStatement(")
		writeNode(sb, n.Init)
		sb.WriteString(", ")
		writeNode(sb, n.Condition)
		sb.WriteString(", ")
		writeNode(sb, n.Update)
		sb.WriteString(", ")
		writeNode(sb, n.Body)
		sb.WriteString(")")
	case KindAssert:
		sb.WriteString("Assert(")
		writeNode(sb, n.Condition)
		sb.WriteString(")")
	case KindImport:
		fmt.Fprintf(sb, "Import(%q)", n.Name)
	case KindTypeDeclaration:
		fmt.Fprintf(sb, "TypeDeclaration(%q, members=[", n.Name)
		for i, m := range n.Members {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(sb, "%s %s", m.Type, m.Name)
		}
		sb.WriteString("])")
	default:
		sb.WriteString("?")
	}
}

// Equal reports whether two nodes are structurally identical (same String()
// output).
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	return n.String() == o.String()
}
