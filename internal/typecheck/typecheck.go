// Package typecheck implements the two-pass type analyser, using a
// push/pop scope stack rather than a flat symbol table so shadowing works
// correctly, mirroring the scope discipline internal/irgen uses so both
// passes model shadowing identically.
package typecheck

import (
	"github.com/piilip/neon/internal/ast"
	"github.com/piilip/neon/internal/diag"
	"github.com/piilip/neon/internal/types"
)

// scope is one lexical level of variable bindings.
type scope map[string]ast.DataType

// Analyzer runs type analysis over one module's AST, recording resolved types into a
// shared types.Map and composite-type shapes into a shared
// types.CompositeSet so imported modules' declarations are visible (the
// driver populates these maps for every compiled module before lowering
// begins).
type Analyzer struct {
	module     string
	bag        *diag.Bag
	typeMap    *types.Map
	composites *types.CompositeSet
	functions  map[string]ast.DataType // name -> return type
	scopes     []scope
}

// NewAnalyzer returns a type analyzer reporting into bag, sharing typeMap and
// composites with every other module of the program (so a Call or
// composite-field reference across module boundaries still resolves).
func NewAnalyzer(module string, bag *diag.Bag, typeMap *types.Map, composites *types.CompositeSet) *Analyzer {
	return &Analyzer{
		module:     module,
		bag:        bag,
		typeMap:    typeMap,
		composites: composites,
		functions:  map[string]ast.DataType{},
	}
}

// Functions exposes the function name -> return-type map accumulated so
// far, so the driver can seed a later module's analyzer with earlier
// modules' declarations.
func (a *Analyzer) Functions() map[string]ast.DataType {
	return a.functions
}

// SeedFunctions merges externally-known function signatures (e.g. from a
// module compiled earlier in the program) into this analyzer.
func (a *Analyzer) SeedFunctions(fns map[string]ast.DataType) {
	for name, ret := range fns {
		a.functions[name] = ret
	}
}

// pushScope enters a new lexical scope; callers pair it with popScope, or
// use withScope's scoped-acquire helper for a guaranteed release.
func (a *Analyzer) pushScope() {
	a.scopes = append(a.scopes, scope{})
}

func (a *Analyzer) popScope() {
	a.scopes = a.scopes[:len(a.scopes)-1]
}

// withScope runs fn with a fresh scope pushed, guaranteeing the pop happens
// even if fn returns early.
func (a *Analyzer) withScope(fn func()) {
	a.pushScope()
	defer a.popScope()
	fn()
}

func (a *Analyzer) declare(name string, t ast.DataType) {
	a.scopes[len(a.scopes)-1][name] = t
}

func (a *Analyzer) lookup(name string) (ast.DataType, bool) {
	for i := len(a.scopes) - 1; i >= 0; i-- {
		if t, ok := a.scopes[i][name]; ok {
			return t, true
		}
	}
	return ast.DataType{}, false
}

// Analyze walks program's Sequence root (or a single top-level statement)
// in two passes: first every Function/ExternFunction signature is recorded
// (so forward references and mutual recursion resolve), then every node is
// typed.
func (a *Analyzer) Analyze(program *ast.Node) {
	a.pushScope() // global scope, for top-level VariableDefinitions
	defer a.popScope()

	a.collectSignatures(program)
	a.visit(program)
}

func (a *Analyzer) collectSignatures(n *ast.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.KindSequence:
		for _, c := range n.Elements {
			a.collectSignatures(c)
		}
	case ast.KindStatement:
		a.collectSignatures(n.Child)
	case ast.KindFunction, ast.KindExternFunction:
		if _, exists := a.functions[n.Name]; exists {
			a.bag.Addf(diag.Symbol, a.module, nil, "function %q declared more than once", n.Name)
		}
		a.functions[n.Name] = n.ReturnType
	case ast.KindTypeDeclaration:
		if !a.composites.Declare(&types.Composite{Name: n.Name, Members: n.Members}) {
			// Keep the earlier declaration's shape, just report the conflict.
			a.bag.Addf(diag.Symbol, a.module, nil, "type %q declared more than once", n.Name)
		}
	}
}

// visit types n (and its subtree), returning the resolved type, and records
// it into the shared type map. A type error logs a diagnostic but never
// aborts the walk, so one bad expression doesn't suppress every later error.
func (a *Analyzer) visit(n *ast.Node) ast.DataType {
	if n == nil {
		return ast.TypeVoid
	}

	var t ast.DataType
	switch n.Kind {
	case ast.KindSequence:
		for _, c := range n.Elements {
			a.visit(c)
		}
		t = ast.TypeVoid

	case ast.KindStatement:
		t = a.visit(n.Child)

	case ast.KindIntegerLiteral:
		t = ast.TypeInt
	case ast.KindFloatLiteral:
		t = ast.TypeFloat
	case ast.KindBoolLiteral:
		t = ast.TypeBool

	case ast.KindVariableDefinition:
		t = n.DataType
		if prev, exists := a.scopes[0][n.Name]; exists && len(a.scopes) == 1 && !prev.Equal(t) {
			a.bag.Addf(diag.Symbol, a.module, nil, "global %q redeclared as %v, previously %v", n.Name, t, prev)
		}
		a.declare(n.Name, t)

	case ast.KindVariable:
		if n.ArrayIndex != nil {
			a.visit(n.ArrayIndex)
		}
		var ok bool
		t, ok = a.lookup(n.Name)
		if !ok {
			a.bag.Addf(diag.Symbol, a.module, nil, "undefined variable %q", n.Name)
			t = ast.TypeVoid
		}

	case ast.KindAssignment:
		leftType := a.visit(n.Left)
		rightType := a.visit(n.Right)
		if !leftType.Equal(rightType) {
			a.bag.Addf(diag.Type, a.module, nil,
				"assignment type mismatch: %s = %s", leftType, rightType)
		}
		t = leftType

	case ast.KindUnaryOperation:
		operand := a.visit(n.Child)
		if !operand.Equal(ast.TypeBool) {
			a.bag.Addf(diag.Type, a.module, nil, "operand of 'not' must be BOOL, got %s", operand)
		}
		t = ast.TypeBool

	case ast.KindBinaryOperation:
		t = a.visitBinaryOp(n)

	case ast.KindCall:
		for _, arg := range n.CallArgs {
			a.visit(arg)
		}
		var ok bool
		t, ok = a.functions[n.Name]
		if !ok {
			a.bag.Addf(diag.Symbol, a.module, nil, "call to undefined function %q", n.Name)
			t = ast.TypeVoid
		}

	case ast.KindFunction:
		a.withScope(func() {
			for _, arg := range n.Arguments {
				a.declare(arg.Name, arg.DataType)
				a.typeMap.Set(arg, arg.DataType)
			}
			a.visit(n.Body)
		})
		t = ast.TypeVoid

	case ast.KindExternFunction:
		for _, arg := range n.Arguments {
			a.typeMap.Set(arg, arg.DataType)
		}
		t = ast.TypeVoid

	case ast.KindIfStatement:
		a.visit(n.Condition)
		a.withScope(func() { a.visit(n.IfBody) })
		if n.ElseBody != nil {
			a.withScope(func() { a.visit(n.ElseBody) })
		}
		t = ast.TypeVoid

	case ast.KindForStatement:
		a.withScope(func() {
			if n.Init != nil {
				a.visit(n.Init)
			}
			a.visit(n.Condition)
			if n.Update != nil {
				a.visit(n.Update)
			}
			a.visit(n.Body)
		})
		t = ast.TypeVoid

	case ast.KindAssert:
		condType := a.visit(n.Condition)
		if !condType.Equal(ast.TypeBool) {
			a.bag.Addf(diag.Type, a.module, nil, "assert condition must be BOOL, got %s", condType)
		}
		t = ast.TypeVoid

	case ast.KindImport, ast.KindTypeDeclaration:
		t = ast.TypeVoid

	default:
		t = ast.TypeVoid
	}

	a.typeMap.Set(n, t)
	return t
}

// visitBinaryOp covers arithmetic, comparisons, and boolean connectives:
// comparisons require equal operand types and yield BOOL; and/or require
// BOOL operands and yield BOOL; arithmetic requires equal operand types and
// yields that type.
func (a *Analyzer) visitBinaryOp(n *ast.Node) ast.DataType {
	left := a.visit(n.Left)
	right := a.visit(n.Right)

	switch n.BinaryOp {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv:
		if !left.Equal(right) {
			a.bag.Addf(diag.Type, a.module, nil,
				"arithmetic type mismatch: %s %s %s", left, n.BinaryOp, right)
			return ast.TypeVoid
		}
		return left

	case ast.OpEq, ast.OpNeq, ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		if !left.Equal(right) {
			a.bag.Addf(diag.Type, a.module, nil,
				"comparison type mismatch: %s %s %s", left, n.BinaryOp, right)
		}
		return ast.TypeBool

	case ast.OpAnd, ast.OpOr:
		if !left.Equal(ast.TypeBool) || !right.Equal(ast.TypeBool) {
			a.bag.Addf(diag.Type, a.module, nil,
				"%s requires BOOL operands, got %s and %s", n.BinaryOp, left, right)
		}
		return ast.TypeBool

	default:
		return ast.TypeVoid
	}
}
