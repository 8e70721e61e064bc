package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piilip/neon/internal/ast"
	"github.com/piilip/neon/internal/diag"
	"github.com/piilip/neon/internal/lr"
	"github.com/piilip/neon/internal/types"
)

func build(t *testing.T, src string) *ast.Node {
	t.Helper()
	bag := diag.NewBag()
	tree := lr.Parse("t", src, lr.NeonTable(), bag)
	require.NotNil(t, tree)
	require.False(t, bag.Fatal())
	return ast.NewBuilder("t", bag).Build(tree)
}

func TestMap_SetGet_RoundTrips(t *testing.T) {
	root := build(t, `fun main() void { int x = 1; }`)
	fn := root
	stmt := fn.Body.Elements[0]

	m := types.NewMap()
	_, ok := m.Get(stmt)
	assert.False(t, ok)

	m.Set(stmt, ast.TypeInt)
	got, ok := m.Get(stmt)
	require.True(t, ok)
	assert.Equal(t, ast.TypeInt, got)
}

func TestMap_Set_NilNodeIsNoOp(t *testing.T) {
	m := types.NewMap()
	assert.NotPanics(t, func() { m.Set(nil, ast.TypeInt) })
}

func TestMap_TypeOf_UnrecordedNodeDefaultsToVoid(t *testing.T) {
	root := build(t, `fun main() void { int x = 1; }`)
	fn := root

	m := types.NewMap()
	assert.Equal(t, ast.TypeVoid, m.TypeOf(fn))
}

func TestCompositeSet_Declare_RejectsDuplicateName(t *testing.T) {
	s := types.NewCompositeSet()

	ok := s.Declare(&types.Composite{Name: "Point"})
	assert.True(t, ok)

	ok = s.Declare(&types.Composite{Name: "Point"})
	assert.False(t, ok, "redeclaring the same name must be rejected")
}

func TestCompositeSet_Lookup_FindsDeclared(t *testing.T) {
	s := types.NewCompositeSet()
	s.Declare(&types.Composite{Name: "Point", Members: []ast.TypeMember{
		{Name: "x", Type: ast.TypeInt},
		{Name: "y", Type: ast.TypeInt},
	}})

	c, ok := s.Lookup("Point")
	require.True(t, ok)
	assert.Len(t, c.Members, 2)

	_, ok = s.Lookup("Vector")
	assert.False(t, ok)
}

func TestCompositeSet_All_PreservesDeclarationOrder(t *testing.T) {
	s := types.NewCompositeSet()
	s.Declare(&types.Composite{Name: "A"})
	s.Declare(&types.Composite{Name: "B"})
	s.Declare(&types.Composite{Name: "C"})

	all := s.All()
	require.Len(t, all, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{all[0].Name, all[1].Name, all[2].Name})
}
