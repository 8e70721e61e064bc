package ast_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piilip/neon/internal/ast"
	"github.com/piilip/neon/internal/diag"
	"github.com/piilip/neon/internal/lr"
)

func build(t *testing.T, src string) *ast.Node {
	t.Helper()
	bag := diag.NewBag()
	tree := lr.Parse("t", src, lr.NeonTable(), bag)
	require.NotNil(t, tree, "parse failed: %v", bag.All())
	require.False(t, bag.Fatal(), "unexpected parse diagnostics: %v", bag.All())
	return ast.NewBuilder("t", bag).Build(tree)
}

func TestBuild_FunctionWithArithmetic(t *testing.T) {
	root := build(t, `
fun add(int a, int b) int {
	return a + b;
}
`)

	str := root.String()
	assert.Contains(t, str, `Function("add", INT`)
	assert.Contains(t, str, "Add(Variable(a), Variable(b))")
}

func TestBuild_CompositeTypeDeclaration(t *testing.T) {
	root := build(t, `
type Point {
	int x;
	int y;
}
`)

	types := ast.FindTypes(root)
	require.Len(t, types, 1)
	assert.Equal(t, "Point", types[0].Name)
	require.Len(t, types[0].Members, 2)
	assert.Equal(t, "x", types[0].Members[0].Name)
	assert.Equal(t, ast.TypeInt, types[0].Members[0].Type)
}

func TestFindImports_ResolvesEachImportPath(t *testing.T) {
	root := build(t, `
import "a.ne";
import "b.ne";
`)

	var resolved []string
	paths := ast.FindImports(root, "/proj/main.ne", func(from, imp string) string {
		resolved = append(resolved, from)
		return imp
	})

	assert.Equal(t, []string{"a.ne", "b.ne"}, paths)
	assert.Equal(t, []string{"/proj/main.ne", "/proj/main.ne"}, resolved)
}

func TestPrint_IncludesEveryTopLevelConstruct(t *testing.T) {
	root := build(t, `
fun main() void {
	if (true) {
		int x = 1;
	} else {
		int x = 2;
	}
}
`)

	out := ast.Print(root)
	assert.True(t, strings.Contains(out, "Function (name=main"))
	assert.True(t, strings.Contains(out, "IfStatement"))
	assert.True(t, strings.Contains(out, "VariableDefinition (name=x, type=INT)"))
}

func TestChildren_BinaryOperation_ReturnsLeftAndRight(t *testing.T) {
	root := build(t, `
fun main() void {
	int x = 1 + 2;
}
`)

	// root is the Function itself (a lone top-level statement is not wrapped
	// in a Sequence) -> Body(Sequence) -> Statement -> Assignment -> right is BinaryOperation
	fn := root
	body := fn.Body
	stmt := body.Elements[0]
	assignment := stmt.Child
	binOp := assignment.Right

	require.Equal(t, ast.KindBinaryOperation, binOp.Kind)
	children := ast.Children(binOp)
	require.Len(t, children, 2)
	assert.Equal(t, ast.KindIntegerLiteral, children[0].Kind)
	assert.Equal(t, ast.KindIntegerLiteral, children[1].Kind)
}

func TestNode_Equal_StructurallyIdenticalTreesAreEqual(t *testing.T) {
	a := build(t, `fun f() int { return 1; }`)
	b := build(t, `fun f() int { return 1; }`)
	c := build(t, `fun f() int { return 2; }`)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestNode_Identity_UniquePerNode(t *testing.T) {
	root := build(t, `
fun main() void {
	int x = 1;
	int y = 2;
}
`)
	fn := root
	stmt1 := fn.Body.Elements[0]
	stmt2 := fn.Body.Elements[1]
	assert.NotEqual(t, stmt1.Identity(), stmt2.Identity())
}

func TestDataType_Equal(t *testing.T) {
	assert.True(t, ast.TypeInt.Equal(ast.TypeInt))
	assert.False(t, ast.TypeInt.Equal(ast.TypeFloat))

	p1 := ast.DataType{Category: ast.Composite, Name: "Point"}
	p2 := ast.DataType{Category: ast.Composite, Name: "Point"}
	p3 := ast.DataType{Category: ast.Composite, Name: "Vector"}
	assert.True(t, p1.Equal(p2))
	assert.False(t, p1.Equal(p3))
}
