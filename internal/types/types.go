// Package types holds the side mapping from AST node identity to resolved
// DataType that internal/typecheck populates and internal/irgen consumes.
// Keying by node identity instead of threading a parent pointer through the
// AST keeps the tree itself free of any type-analysis state.
package types

import "github.com/piilip/neon/internal/ast"

// Map records the resolved DataType of every AST node the type analyser visited.
type Map struct {
	byIdentity map[int]ast.DataType
}

// NewMap returns an empty type map.
func NewMap() *Map {
	return &Map{byIdentity: map[int]ast.DataType{}}
}

// Set records n's resolved type. A nil n is a no-op, so callers can write
// types.Set(maybeNilNode, t) without a guard.
func (m *Map) Set(n *ast.Node, t ast.DataType) {
	if n == nil {
		return
	}
	m.byIdentity[n.Identity()] = t
}

// Get returns n's resolved type and whether one was ever recorded.
func (m *Map) Get(n *ast.Node) (ast.DataType, bool) {
	if n == nil {
		return ast.DataType{}, false
	}
	t, ok := m.byIdentity[n.Identity()]
	return t, ok
}

// TypeOf returns n's resolved type, or TypeVoid if none was recorded --
// convenient at IR-lowering call sites that already assume type analysis ran
// successfully and left every reachable node typed.
func (m *Map) TypeOf(n *ast.Node) ast.DataType {
	t, ok := m.Get(n)
	if !ok {
		return ast.TypeVoid
	}
	return t
}

// Composite describes a declared composite type's shape, resolved once by
// the type analyser from the raw TypeDeclaration nodes it finds
// (which only carry member names and member DataTypes, not a resolved
// struct layout).
type Composite struct {
	Name    string
	Members []ast.TypeMember
}

// CompositeSet is the set of composite types declared across a module (and,
// after the driver links modules together, a whole program), indexed by
// name for Variable/VariableDefinition resolution.
type CompositeSet struct {
	byName map[string]*Composite
	order  []string
}

// NewCompositeSet returns an empty composite-type registry.
func NewCompositeSet() *CompositeSet {
	return &CompositeSet{byName: map[string]*Composite{}}
}

// Declare registers c, returning false (and leaving the prior declaration in
// place) if a type with this name was already declared -- the caller is
// expected to raise a Symbol diagnostic on a false return.
func (s *CompositeSet) Declare(c *Composite) bool {
	if _, exists := s.byName[c.Name]; exists {
		return false
	}
	s.byName[c.Name] = c
	s.order = append(s.order, c.Name)
	return true
}

// Lookup returns the composite type named name, if declared.
func (s *CompositeSet) Lookup(name string) (*Composite, bool) {
	c, ok := s.byName[name]
	return c, ok
}

// All returns every declared composite type in declaration order.
func (s *CompositeSet) All() []*Composite {
	out := make([]*Composite, len(s.order))
	for i, name := range s.order {
		out[i] = s.byName[name]
	}
	return out
}
