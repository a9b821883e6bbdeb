package ast

import (
	"cmp"
	"iter"
	"slices"
)

// ExprMap associates values (e.g. checked types) with expressions.
type ExprMap[V any] struct {
	m map[AnyExprID]V
}

func (m *ExprMap[V]) Set(id AnyExprID, v V) {
	if m.m == nil {
		m.m = make(map[AnyExprID]V)
	}
	m.m[id] = v
}

func (m *ExprMap[V]) Get(id AnyExprID) (V, bool) {
	v, ok := m.m[id]
	return v, ok
}

func (m *ExprMap[V]) Len() int { return len(m.m) }

// All iterates in handle order.
func (m *ExprMap[V]) All() iter.Seq2[AnyExprID, V] {
	return sortedPairs(m.m, func(id AnyExprID) AnyNodeID { return id.AnyNodeID })
}

// DeclMap associates values with declarations.
type DeclMap[V any] struct {
	m map[AnyDeclID]V
}

func (m *DeclMap[V]) Set(id AnyDeclID, v V) {
	if m.m == nil {
		m.m = make(map[AnyDeclID]V)
	}
	m.m[id] = v
}

func (m *DeclMap[V]) Get(id AnyDeclID) (V, bool) {
	v, ok := m.m[id]
	return v, ok
}

func (m *DeclMap[V]) Len() int { return len(m.m) }

// All iterates in handle order.
func (m *DeclMap[V]) All() iter.Seq2[AnyDeclID, V] {
	return sortedPairs(m.m, func(id AnyDeclID) AnyNodeID { return id.AnyNodeID })
}

func sortedPairs[K comparable, V any](m map[K]V, erase func(K) AnyNodeID) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		keys := make([]K, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		slices.SortFunc(keys, func(x, y K) int { return compareIDs(erase(x), erase(y)) })
		for _, k := range keys {
			if !yield(k, m[k]) {
				return
			}
		}
	}
}

func compareIDs(x, y AnyNodeID) int {
	if c := cmp.Compare(x.Kind.Category(), y.Kind.Category()); c != 0 {
		return c
	}
	return cmp.Compare(x.Raw, y.Raw)
}
