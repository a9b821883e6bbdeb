// Package ast stores the syntax tree the middle end consumes. Nodes live in
// one table per category and are named by handles: NodeID[T] when the variant
// is known statically, AnyNodeID and the category-erased IDs otherwise.
package ast

import (
	"fmt"
	"iter"
)

// Hints preallocates the per-category tables.
type Hints struct{ Decls, Exprs, Stmts, TypeExprs, Patterns uint }

// AST owns every node. Handles are stable for its lifetime; nothing is ever
// removed.
type AST struct {
	Modules []NodeID[ModuleDecl]
	tables  [CategoryPattern + 1]*Arena[Node]
}

func New(hints Hints) *AST {
	if hints.Decls == 0 {
		hints.Decls = 1 << 6
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 7
	}
	if hints.TypeExprs == 0 {
		hints.TypeExprs = 1 << 6
	}
	if hints.Patterns == 0 {
		hints.Patterns = 1 << 4
	}
	a := &AST{}
	a.tables[CategoryDecl] = NewArena[Node](hints.Decls)
	a.tables[CategoryExpr] = NewArena[Node](hints.Exprs)
	a.tables[CategoryStmt] = NewArena[Node](hints.Stmts)
	a.tables[CategoryTypeExpr] = NewArena[Node](hints.TypeExprs)
	a.tables[CategoryPattern] = NewArena[Node](hints.Patterns)
	return a
}

// Insert stores node and returns its handle. Module declarations are also
// recorded in a.Modules.
//
// T must be a node struct such as FunDecl, never a pointer to one: the
// table owns the node and hands out *T from Get. Insert panics otherwise.
func Insert[T Node](a *AST, node T) NodeID[T] {
	stored, ok := any(&node).(Node)
	if !ok {
		panic(fmt.Sprintf("ast: Insert of %T: pass the node by value", node))
	}
	raw := RawID(a.table(node.Kind().Category()).Allocate(stored))
	id := NodeID[T]{Raw: raw}
	if node.Kind() == KindModuleDecl {
		a.Modules = append(a.Modules, NodeID[ModuleDecl]{Raw: raw})
	}
	return id
}

// Get returns the node id names. Mutations through the pointer are visible
// to every holder of id.
func Get[T Node](a *AST, id NodeID[T]) *T {
	n := a.Node(id)
	p, ok := any(n).(*T)
	if !ok {
		panic(fmt.Sprintf("ast: %s does not hold a %s", id, id.Kind()))
	}
	return p
}

// Node returns the node named by an erased handle. It panics when id is
// invalid or does not belong to a.
func (a *AST) Node(id ErasedID) Node {
	e := id.Erased()
	if !e.IsValid() {
		panic("ast: lookup of invalid handle")
	}
	slot := a.table(e.Category()).Get(uint32(e.Raw))
	if slot == nil {
		panic(fmt.Sprintf("ast: %s out of bounds", e))
	}
	n := *slot
	if n.Kind() != e.Kind {
		panic(fmt.Sprintf("ast: %s names a %s", e, n.Kind()))
	}
	return n
}

// Contains reports whether id names a node of a with the kind id claims.
func (a *AST) Contains(id ErasedID) bool {
	e := id.Erased()
	if !e.IsValid() || e.Category() == CategoryInvalid {
		return false
	}
	slot := a.table(e.Category()).Get(uint32(e.Raw))
	return slot != nil && (*slot).Kind() == e.Kind
}

// KindOf returns the runtime kind of the node id names.
func (a *AST) KindOf(id ErasedID) NodeKind {
	return a.Node(id).Kind()
}

// Len returns how many nodes of category c are stored.
func (a *AST) Len(c Category) int {
	return int(a.table(c).Len())
}

// Each iterates over all nodes of variant T in insertion order.
func Each[T Node](a *AST) iter.Seq2[NodeID[T], *T] {
	var zero T
	kind := zero.Kind()
	return func(yield func(NodeID[T], *T) bool) {
		for i, n := range a.table(kind.Category()).Slice() {
			if n.Kind() != kind {
				continue
			}
			if !yield(NodeID[T]{Raw: RawID(i + 1)}, any(n).(*T)) {
				return
			}
		}
	}
}

func (a *AST) table(c Category) *Arena[Node] {
	if c == CategoryInvalid || int(c) >= len(a.tables) {
		panic(fmt.Sprintf("ast: no table for category %d", c))
	}
	return a.tables[c]
}
