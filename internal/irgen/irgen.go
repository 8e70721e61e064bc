// Package irgen lowers a typed AST to LLVM IR via github.com/llir/llvm.
// llir/llvm is a pure-Go textual-IR library: it has no bundled verifier or
// target-machine object emitter (those require cgo bindings to real LLVM),
// so Verify performs a structural check this package can make on its own
// (every block ends in a terminator) and Emit writes the
// module's textual IR representation -- the nearest honest analogue this
// dependency can support to emitting an object file. See DESIGN.md.
package irgen

import (
	"fmt"
	"io"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"

	"github.com/piilip/neon/internal/ast"
	"github.com/piilip/neon/internal/diag"
	"github.com/piilip/neon/internal/types"
)

// ctorPriority is the LLVM appending-linkage global_ctors priority assigned
// to synthesized module initializers.
const ctorPriority = 65535

// varSlot is where a variable's value lives: an address to load/store
// through (a local alloca or a global), never the value itself.
type varSlot struct {
	addr    ir.Constant // only set for globals; nil for locals
	local   *ir.InstAlloca
	varType lltypes.Type
}

type scope map[string]varSlot

// Generator lowers one module's AST into a shared *ir.Module, accumulating
// function/global declarations across every module of a program so the
// driver can link them deterministically.
type Generator struct {
	module     string
	bag        *diag.Bag
	typeMap    *types.Map
	composites *types.CompositeSet

	Module    *ir.Module
	funcs     map[string]*ir.Func
	globals   map[string]*ir.Global
	scopes    []scope
	curFunc   *ir.Func
	curBlock  *ir.Block
	ctorBody []*ast.Node // top-level statements collected across modules
	hasMain  bool
	blockSeq int
}

// NewGenerator returns an IR generator appending to a shared module (pass
// the same *ir.Module across every compiled module of the program so
// functions and globals resolve across module boundaries, preserving
// deterministic insertion-order linking).
func NewGenerator(module string, bag *diag.Bag, typeMap *types.Map, composites *types.CompositeSet, m *ir.Module, funcs map[string]*ir.Func, globals map[string]*ir.Global) *Generator {
	return &Generator{
		module:     module,
		bag:        bag,
		typeMap:    typeMap,
		composites: composites,
		Module:     m,
		funcs:      funcs,
		globals:    globals,
	}
}

// SetModule updates which module name subsequent diagnostics are attributed
// to -- the driver calls this once per module before LowerProgram, reusing
// one Generator across the whole program so hasMain detection and the
// synthesized __ctor body see every module's top-level statements, not just
// the last one's.
func (g *Generator) SetModule(module string) {
	g.module = module
}

// IRType maps a source DataType to its IR type. Composite types lower to an
// LLVM struct type built from the declared member order.
func (g *Generator) IRType(t ast.DataType) lltypes.Type {
	switch t.Category {
	case ast.Void:
		return lltypes.Void
	case ast.Int:
		return lltypes.I64
	case ast.Float:
		return lltypes.Double
	case ast.Bool:
		return lltypes.I1
	case ast.Composite:
		c, ok := g.composites.Lookup(t.Name)
		if !ok {
			g.bag.Addf(diag.IR, g.module, nil, "undefined composite type %q", t.Name)
			return lltypes.Void
		}
		fields := make([]lltypes.Type, len(c.Members))
		for i, m := range c.Members {
			fields[i] = g.IRType(m.Type)
		}
		return lltypes.NewStruct(fields...)
	default:
		return lltypes.Void
	}
}

func (g *Generator) pushScope()                { g.scopes = append(g.scopes, scope{}) }
func (g *Generator) popScope()                 { g.scopes = g.scopes[:len(g.scopes)-1] }
func (g *Generator) withScope(fn func()) {
	g.pushScope()
	defer g.popScope()
	fn()
}

func (g *Generator) declareLocal(name string, t lltypes.Type, inst *ir.InstAlloca) {
	g.scopes[len(g.scopes)-1][name] = varSlot{local: inst, varType: t}
}

func (g *Generator) lookup(name string) (varSlot, bool) {
	for i := len(g.scopes) - 1; i >= 0; i-- {
		if s, ok := g.scopes[i][name]; ok {
			return s, true
		}
	}
	if gv, ok := g.globals[name]; ok {
		return varSlot{local: nil, addr: gv, varType: gv.ContentType}, true
	}
	return varSlot{}, false
}

// entryAlloca emits an alloca in curFunc's entry block regardless of the
// current insertion point, per this package's fixed-entry-block
// convention (so later passes see well-formed SSA once mem2reg runs).
func (g *Generator) entryAlloca(t lltypes.Type, name string) *ir.InstAlloca {
	entry := g.curFunc.Blocks[0]
	inst := entry.NewAlloca(t)
	inst.LocalName = name
	return inst
}

func (g *Generator) newBlock(name string) *ir.Block {
	g.blockSeq++
	b := g.curFunc.NewBlock(fmt.Sprintf("%s.%d", name, g.blockSeq))
	return b
}

// blockTerminated reports whether b already has a terminator instruction --
// used to decide whether a fallthrough branch to a merge block is needed
// (this package's "unless it ends in a return" rule).
func blockTerminated(b *ir.Block) bool {
	return b.Term != nil
}

// LowerProgram lowers one module's top-level Sequence: every Function and
// ExternFunction becomes a declared/defined IR function; every top-level
// statement outside a function body is deferred into the shared __ctor
// body the driver finalizes once after every module has lowered.
func (g *Generator) LowerProgram(program *ast.Node) {
	g.pushScope() // module-level scope, for global VariableDefinitions
	defer g.popScope()

	stmts := sequenceElements(program)
	for _, n := range stmts {
		stmt := n
		if stmt.Kind == ast.KindStatement {
			stmt = stmt.Child
		}
		if stmt == nil {
			continue
		}
		switch stmt.Kind {
		case ast.KindFunction:
			g.lowerFunction(stmt, false)
			if stmt.Name == "main" {
				g.hasMain = true
			}
		case ast.KindExternFunction:
			g.lowerFunction(stmt, true)
		case ast.KindVariableDefinition:
			g.lowerGlobalDefinition(stmt)
		case ast.KindImport, ast.KindTypeDeclaration:
			// Resolved by the driver / type analyser; nothing to lower.
		default:
			g.ctorBody = append(g.ctorBody, n)
		}
	}
}

func sequenceElements(n *ast.Node) []*ast.Node {
	if n == nil {
		return nil
	}
	if n.Kind == ast.KindSequence {
		return n.Elements
	}
	return []*ast.Node{n}
}

func (g *Generator) lowerGlobalDefinition(n *ast.Node) {
	t := g.IRType(n.DataType)
	gv := g.Module.NewGlobalDef(n.Name, zeroValue(t))
	g.globals[n.Name] = gv
}

// zeroValue returns the zero-initializer LLVM constant for t: a global
// variable always starts from a zero value appropriate to its type.
func zeroValue(t lltypes.Type) constant.Constant {
	switch tt := t.(type) {
	case *lltypes.IntType:
		return constant.NewInt(tt, 0)
	case *lltypes.FloatType:
		return constant.NewFloat(tt, 0)
	default:
		return constant.NewZeroInitializer(t)
	}
}

func (g *Generator) funcSignature(n *ast.Node) (lltypes.Type, []*ir.Param) {
	retType := g.IRType(n.ReturnType)
	params := make([]*ir.Param, len(n.Arguments))
	for i, arg := range n.Arguments {
		params[i] = ir.NewParam(arg.Name, g.IRType(arg.DataType))
	}
	return retType, params
}

func (g *Generator) lowerFunction(n *ast.Node, extern bool) {
	retType, params := g.funcSignature(n)
	f := g.Module.NewFunc(n.Name, retType, params...)
	g.funcs[n.Name] = f

	if extern {
		return // declaration only, no body
	}

	g.curFunc = f
	g.blockSeq = 0
	entry := f.NewBlock("entry")
	g.curBlock = entry

	g.withScope(func() {
		for i, param := range f.Params {
			slot := g.entryAlloca(param.Typ, n.Arguments[i].Name+".addr")
			g.curBlock.NewStore(param, slot)
			g.declareLocal(n.Arguments[i].Name, param.Typ, slot)
		}
		g.lowerStatementSeq(n.Body)
	})

	if !blockTerminated(g.curBlock) {
		g.emitDefaultReturn(retType)
	}

	g.curFunc = nil
	g.curBlock = nil
}

func (g *Generator) emitDefaultReturn(retType lltypes.Type) {
	switch rt := retType.(type) {
	case *lltypes.VoidType:
		g.curBlock.NewRet(nil)
	case *lltypes.IntType:
		g.curBlock.NewRet(constant.NewInt(rt, 0))
	case *lltypes.FloatType:
		g.curBlock.NewRet(constant.NewFloat(rt, 0))
	default:
		g.curBlock.NewRet(nil)
	}
}

func (g *Generator) lowerStatementSeq(n *ast.Node) {
	for _, s := range sequenceElements(n) {
		g.lowerStatement(s)
		if blockTerminated(g.curBlock) {
			return // unreachable code after a return; nothing further to lower
		}
	}
}

func (g *Generator) lowerStatement(n *ast.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.KindStatement:
		if n.Child == nil {
			if n.IsReturn {
				g.curBlock.NewRet(nil)
			}
			return
		}
		if !n.IsReturn {
			g.lowerStatement(n.Child)
			return
		}
		v := g.lowerExpr(n.Child)
		if v == nil {
			g.curBlock.NewRet(nil)
		} else {
			g.curBlock.NewRet(v)
		}
	case ast.KindVariableDefinition:
		g.lowerLocalDefinition(n)
	case ast.KindAssignment:
		g.lowerAssignment(n)
	case ast.KindIfStatement:
		g.lowerIfStatement(n)
	case ast.KindForStatement:
		g.lowerForStatement(n)
	case ast.KindAssert:
		g.lowerAssert(n)
	default:
		g.lowerExpr(n)
	}
}

func (g *Generator) lowerLocalDefinition(n *ast.Node) {
	t := g.IRType(n.DataType)
	slot := g.entryAlloca(t, n.Name)
	g.declareLocal(n.Name, t, slot)
}

// lowerAddress lowers n as an address to store through: a Variable's slot,
// or (for an array-indexed variable) the GEP into that slot. A
// VariableDefinition target (`int x = ...`) first allocates its slot.
func (g *Generator) lowerAddress(n *ast.Node) ir.Value {
	if n.Kind == ast.KindVariableDefinition {
		g.lowerLocalDefinition(n)
		slot, _ := g.lookup(n.Name)
		return slotAddr(slot)
	}
	if n.Kind != ast.KindVariable {
		g.bag.Addf(diag.IR, g.module, nil, "assignment target is not addressable")
		return nil
	}
	slot, ok := g.lookup(n.Name)
	if !ok {
		g.bag.Addf(diag.Symbol, g.module, nil, "undefined variable %q", n.Name)
		return nil
	}
	addr := slotAddr(slot)
	if n.ArrayIndex == nil {
		return addr
	}
	idx := g.lowerExpr(n.ArrayIndex)
	zero := constant.NewInt(lltypes.I64, 0)
	return g.curBlock.NewGetElementPtr(slot.varType, addr, zero, idx)
}

func slotAddr(s varSlot) ir.Value {
	if s.local != nil {
		return s.local
	}
	return s.addr
}

func (g *Generator) lowerAssignment(n *ast.Node) {
	rhs := g.lowerExpr(n.Right)
	addr := g.lowerAddress(n.Left)
	if addr == nil || rhs == nil {
		return
	}
	g.curBlock.NewStore(rhs, addr)
}

func (g *Generator) lowerIfStatement(n *ast.Node) {
	cond := g.lowerExpr(n.Condition)
	thenBlock := g.newBlock("if.then")
	elseBlock := g.newBlock("if.else")
	mergeBlock := g.newBlock("if.merge")

	g.curBlock.NewCondBr(cond, thenBlock, elseBlock)

	g.curBlock = thenBlock
	g.withScope(func() { g.lowerStatementSeq(n.IfBody) })
	if !blockTerminated(g.curBlock) {
		g.curBlock.NewBr(mergeBlock)
	}

	g.curBlock = elseBlock
	if n.ElseBody != nil {
		g.withScope(func() { g.lowerStatementSeq(n.ElseBody) })
	}
	if !blockTerminated(g.curBlock) {
		g.curBlock.NewBr(mergeBlock)
	}

	g.curBlock = mergeBlock
}

func (g *Generator) lowerForStatement(n *ast.Node) {
	g.withScope(func() {
		if n.Init != nil {
			g.lowerStatement(n.Init)
		}

		header := g.newBlock("for.header")
		body := g.newBlock("for.body")
		exit := g.newBlock("for.exit")

		g.curBlock.NewBr(header)

		g.curBlock = header
		cond := g.lowerExpr(n.Condition)
		g.curBlock.NewCondBr(cond, body, exit)

		g.curBlock = body
		g.lowerStatementSeq(n.Body)
		if n.Update != nil && !blockTerminated(g.curBlock) {
			g.lowerStatement(n.Update)
		}
		if !blockTerminated(g.curBlock) {
			g.curBlock.NewBr(header)
		}

		g.curBlock = exit
	})
}

// lowerAssert implements this package's assert lowering: on failure,
// print a formatted message via printf and call exit(1).
func (g *Generator) lowerAssert(n *ast.Node) {
	cond := g.lowerExpr(n.Condition)
	thenBlock := g.newBlock("assert.then")
	elseBlock := g.newBlock("assert.else")
	mergeBlock := g.newBlock("assert.merge")

	g.curBlock.NewCondBr(cond, thenBlock, elseBlock)

	g.curBlock = elseBlock
	g.emitAssertFailure(n)
	if !blockTerminated(g.curBlock) {
		g.curBlock.NewBr(mergeBlock)
	}

	g.curBlock = thenBlock
	g.curBlock.NewBr(mergeBlock)

	g.curBlock = mergeBlock
}

func (g *Generator) emitAssertFailure(n *ast.Node) {
	printf := g.stdlibPrintf()
	exit := g.stdlibExit()

	op, lfmt, rfmt := g.assertFormatParts(n.Condition)
	format := fmt.Sprintf("> assert %%s\nE assert %%%s%s%%%s\n", lfmt, op, rfmt)

	fmtGlobal := g.internString(format)
	msg := g.internString(n.Condition.String())

	var leftVal, rightVal ir.Value
	if n.Condition.Kind == ast.KindBinaryOperation {
		leftVal = g.lowerExpr(n.Condition.Left)
		rightVal = g.lowerExpr(n.Condition.Right)
	} else {
		leftVal = constant.NewInt(lltypes.I64, 0)
		rightVal = constant.NewInt(lltypes.I64, 0)
	}

	g.curBlock.NewCall(printf, fmtGlobal, msg, leftVal, rightVal)
	g.curBlock.NewCall(exit, constant.NewInt(lltypes.I32, 1))
	g.curBlock.NewUnreachable()
}

// assertFormatParts picks the printf conversion characters for an assert
// condition's operand types ("ld" for int, "f" for float), consulting the
// resolved type map rather than each operand's AST kind so a non-literal
// float operand (a variable, a call result, a nested expression) still
// prints with %f instead of %ld.
func (g *Generator) assertFormatParts(cond *ast.Node) (op, lfmt, rfmt string) {
	op = "?"
	lfmt, rfmt = "ld", "ld"
	if cond.Kind != ast.KindBinaryOperation {
		return
	}
	op = binaryOpText(cond.BinaryOp)
	if cond.Left != nil && g.typeMap.TypeOf(cond.Left).Category == ast.Float {
		lfmt = "f"
	}
	if cond.Right != nil && g.typeMap.TypeOf(cond.Right).Category == ast.Float {
		rfmt = "f"
	}
	return
}

func binaryOpText(op ast.BinaryOp) string {
	switch op {
	case ast.OpEq:
		return "=="
	case ast.OpNeq:
		return "!="
	case ast.OpLt:
		return "<"
	case ast.OpLe:
		return "<="
	case ast.OpGt:
		return ">"
	case ast.OpGe:
		return ">="
	default:
		return "?"
	}
}

// stdlibPrintf/stdlibExit declare (once) the two C standard library
// functions assert-lowering calls, declared lazily and cached in g.funcs so
// repeated asserts share one declaration.
func (g *Generator) stdlibPrintf() *ir.Func {
	if f, ok := g.funcs["printf"]; ok {
		return f
	}
	f := g.Module.NewFunc("printf", lltypes.I32, ir.NewParam("fmt", lltypes.I8Ptr))
	f.Sig.Variadic = true
	g.funcs["printf"] = f
	return f
}

func (g *Generator) stdlibExit() *ir.Func {
	if f, ok := g.funcs["exit"]; ok {
		return f
	}
	f := g.Module.NewFunc("exit", lltypes.Void, ir.NewParam("code", lltypes.I32))
	g.funcs["exit"] = f
	return f
}

var stringConstSeq int

// internString creates a private global string constant and returns a
// pointer to its first byte, suitable as a printf argument.
func (g *Generator) internString(s string) ir.Constant {
	stringConstSeq++
	data := constant.NewCharArrayFromString(s + "\x00")
	gv := g.Module.NewGlobalDef(fmt.Sprintf(".str.%d", stringConstSeq), data)
	gv.Immutable = true
	zero := constant.NewInt(lltypes.I64, 0)
	return constant.NewGetElementPtr(gv.ContentType, gv, zero, zero)
}

// lowerExpr lowers an expression node to its IR value.
func (g *Generator) lowerExpr(n *ast.Node) ir.Value {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case ast.KindIntegerLiteral:
		return constant.NewInt(lltypes.I64, n.IntValue)
	case ast.KindFloatLiteral:
		return constant.NewFloat(lltypes.Double, n.FloatValue)
	case ast.KindBoolLiteral:
		return constant.NewBool(n.BoolValue)

	case ast.KindVariable:
		slot, ok := g.lookup(n.Name)
		if !ok {
			g.bag.Addf(diag.Symbol, g.module, nil, "undefined variable %q", n.Name)
			return constant.NewInt(lltypes.I64, 0)
		}
		addr := slotAddr(slot)
		if n.ArrayIndex != nil {
			idx := g.lowerExpr(n.ArrayIndex)
			zero := constant.NewInt(lltypes.I64, 0)
			elemAddr := g.curBlock.NewGetElementPtr(slot.varType, addr, zero, idx)
			return g.curBlock.NewLoad(elementType(slot.varType), elemAddr)
		}
		return g.curBlock.NewLoad(slot.varType, addr)

	case ast.KindUnaryOperation:
		v := g.lowerExpr(n.Child)
		return g.curBlock.NewXor(v, constant.NewBool(true))

	case ast.KindBinaryOperation:
		return g.lowerBinaryOp(n)

	case ast.KindCall:
		f, ok := g.funcs[n.Name]
		if !ok {
			g.bag.Addf(diag.Symbol, g.module, nil, "call to undefined function %q", n.Name)
			return constant.NewInt(lltypes.I64, 0)
		}
		args := make([]ir.Value, len(n.CallArgs))
		for i, a := range n.CallArgs {
			args[i] = g.lowerExpr(a)
		}
		return g.curBlock.NewCall(f, args...)

	default:
		return nil
	}
}

func elementType(t lltypes.Type) lltypes.Type {
	if st, ok := t.(*lltypes.StructType); ok && len(st.Fields) > 0 {
		return st.Fields[0]
	}
	return t
}

// lowerBinaryOp implements arithmetic, comparison, and (delegated to
// lowerShortCircuit) short-circuiting and/or, each choosing a
// signed-integer or floating-point instruction based on operand type.
func (g *Generator) lowerBinaryOp(n *ast.Node) ir.Value {
	switch n.BinaryOp {
	case ast.OpAnd, ast.OpOr:
		return g.lowerShortCircuit(n)
	}

	left := g.lowerExpr(n.Left)
	right := g.lowerExpr(n.Right)
	isFloat := g.typeMap.TypeOf(n.Left).Category == ast.Float

	switch n.BinaryOp {
	case ast.OpAdd:
		if isFloat {
			return g.curBlock.NewFAdd(left, right)
		}
		return g.curBlock.NewAdd(left, right)
	case ast.OpSub:
		if isFloat {
			return g.curBlock.NewFSub(left, right)
		}
		return g.curBlock.NewSub(left, right)
	case ast.OpMul:
		if isFloat {
			return g.curBlock.NewFMul(left, right)
		}
		return g.curBlock.NewMul(left, right)
	case ast.OpDiv:
		if isFloat {
			return g.curBlock.NewFDiv(left, right)
		}
		return g.curBlock.NewSDiv(left, right)
	case ast.OpEq, ast.OpNeq, ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		if isFloat {
			return g.curBlock.NewFCmp(fcmpPred(n.BinaryOp), left, right)
		}
		return g.curBlock.NewICmp(icmpPred(n.BinaryOp), left, right)
	default:
		return left
	}
}

func icmpPred(op ast.BinaryOp) enum.IPred {
	switch op {
	case ast.OpEq:
		return enum.IPredEQ
	case ast.OpNeq:
		return enum.IPredNE
	case ast.OpLt:
		return enum.IPredSLT
	case ast.OpLe:
		return enum.IPredSLE
	case ast.OpGt:
		return enum.IPredSGT
	case ast.OpGe:
		return enum.IPredSGE
	default:
		return enum.IPredEQ
	}
}

func fcmpPred(op ast.BinaryOp) enum.FPred {
	switch op {
	case ast.OpEq:
		return enum.FPredOEQ
	case ast.OpNeq:
		return enum.FPredONE
	case ast.OpLt:
		return enum.FPredOLT
	case ast.OpLe:
		return enum.FPredOLE
	case ast.OpGt:
		return enum.FPredOGT
	case ast.OpGe:
		return enum.FPredOGE
	default:
		return enum.FPredOEQ
	}
}

// lowerShortCircuit lowers and/or as two extra basic blocks, the same
// then/merge shape if-lowering uses: for `a and b`, b is only evaluated if a
// was true; for `a or b`, only if a was false.
func (g *Generator) lowerShortCircuit(n *ast.Node) ir.Value {
	left := g.lowerExpr(n.Left)
	startBlock := g.curBlock

	rhsBlock := g.newBlock("sc.rhs")
	mergeBlock := g.newBlock("sc.merge")

	if n.BinaryOp == ast.OpAnd {
		g.curBlock.NewCondBr(left, rhsBlock, mergeBlock)
	} else {
		g.curBlock.NewCondBr(left, mergeBlock, rhsBlock)
	}

	g.curBlock = rhsBlock
	right := g.lowerExpr(n.Right)
	rhsEndBlock := g.curBlock
	g.curBlock.NewBr(mergeBlock)

	g.curBlock = mergeBlock
	phi := ir.NewIncoming(left, startBlock)
	phi2 := ir.NewIncoming(right, rhsEndBlock)
	return mergeBlock.NewPhi(phi, phi2)
}

// Finish runs after every module in the program has called LowerProgram:
// it synthesizes the combined __ctor body, a dummy main if none was
// defined, and registers the __ctor with @llvm.global_ctors if one was
// emitted.
func (g *Generator) Finish() {
	if !g.hasMain {
		g.synthesizeDummyMain()
	}
	if len(g.ctorBody) > 0 {
		g.synthesizeCtor()
	}
}

func (g *Generator) synthesizeDummyMain() {
	f := g.Module.NewFunc("main", lltypes.I32)
	g.funcs["main"] = f
	entry := f.NewBlock("entry")
	entry.NewRet(constant.NewInt(lltypes.I32, 0))
}

func (g *Generator) synthesizeCtor() {
	f := g.Module.NewFunc("__ctor", lltypes.Void)
	g.funcs["__ctor"] = f
	g.curFunc = f
	g.blockSeq = 0
	entry := f.NewBlock("entry")
	g.curBlock = entry

	g.withScope(func() {
		for _, n := range g.ctorBody {
			g.lowerStatement(n)
		}
	})
	if !blockTerminated(g.curBlock) {
		g.curBlock.NewRet(nil)
	}
	g.curFunc = nil
	g.curBlock = nil

	g.registerGlobalCtor(f)
}

// registerGlobalCtor appends {priority, __ctor, null} to
// @llvm.global_ctors, the standard appending-linkage array LLVM's runtime
// startup scans.
func (g *Generator) registerGlobalCtor(f *ir.Func) {
	ctorStructType := lltypes.NewStruct(lltypes.I32, lltypes.NewPointer(f.Sig), lltypes.I8Ptr)
	entry := constant.NewStruct(ctorStructType,
		constant.NewInt(lltypes.I32, ctorPriority),
		f,
		constant.NewNull(lltypes.I8Ptr),
	)
	arrType := lltypes.NewArray(1, ctorStructType)
	arr := constant.NewArray(arrType, entry)

	gv := g.Module.NewGlobalDef("llvm.global_ctors", arr)
	gv.Linkage = enum.LinkageAppending
}

// Verify performs the structural checks this package can make without a
// real LLVM verifier: every basic block of every defined function must end
// in a terminator instruction. A verification failure is fatal.
func Verify(m *ir.Module) error {
	for _, f := range m.Funcs {
		for _, b := range f.Blocks {
			if b.Term == nil {
				return fmt.Errorf("function %q block %q has no terminator", f.Name(), b.Name())
			}
		}
	}
	return nil
}

// Emit writes m's textual LLVM IR representation to w -- the nearest
// analogue available to this package's "emit an object file" given
// llir/llvm's pure-Go, verifier-and-target-machine-free scope (see the
// package doc comment).
func Emit(m *ir.Module, w io.Writer) error {
	_, err := m.WriteTo(w)
	return err
}
