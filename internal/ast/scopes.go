package ast

import "iter"

// IntroducesScope reports whether nodes of kind k open a lexical scope.
func (k NodeKind) IntroducesScope() bool {
	switch k {
	case KindModuleDecl, KindFunDecl, KindProductTypeDecl, KindTraitDecl,
		KindExtensionDecl, KindConformanceDecl, KindInitializerDecl, KindBraceStmt:
		return true
	}
	return false
}

// ScopeHierarchy records the parent of every node reachable from a module.
type ScopeHierarchy struct {
	parent map[AnyNodeID]AnyNodeID
}

// BuildScopeHierarchy walks every module of a.
func BuildScopeHierarchy(a *AST) *ScopeHierarchy {
	s := &ScopeHierarchy{parent: make(map[AnyNodeID]AnyNodeID, a.Len(CategoryDecl)+a.Len(CategoryStmt))}
	for _, m := range a.Modules {
		a.Walk(m, func(id, parent AnyNodeID) bool {
			if parent.IsValid() {
				s.parent[id] = parent
			}
			return true
		})
	}
	return s
}

// Parent returns the node that directly contains id. Modules have none.
func (s *ScopeHierarchy) Parent(id ErasedID) (AnyNodeID, bool) {
	p, ok := s.parent[id.Erased()]
	return p, ok
}

// Ancestors yields the parents of id from the innermost outwards.
func (s *ScopeHierarchy) Ancestors(id ErasedID) iter.Seq[AnyNodeID] {
	return func(yield func(AnyNodeID) bool) {
		cur := id.Erased()
		for {
			p, ok := s.parent[cur]
			if !ok || !yield(p) {
				return
			}
			cur = p
		}
	}
}

// Scope returns the innermost node containing id that opens a scope.
func (s *ScopeHierarchy) Scope(id ErasedID) (AnyNodeID, bool) {
	for p := range s.Ancestors(id) {
		if p.Kind.IntroducesScope() {
			return p, true
		}
	}
	return AnyNodeID{}, false
}

// Module returns the module id belongs to. A module belongs to itself.
func (s *ScopeHierarchy) Module(id ErasedID) (NodeID[ModuleDecl], bool) {
	if m, ok := Downcast[ModuleDecl](id); ok {
		return m, true
	}
	var last AnyNodeID
	for p := range s.Ancestors(id) {
		last = p
	}
	return Downcast[ModuleDecl](last)
}

// IsContained reports whether id is scope or lies somewhere inside it.
func (s *ScopeHierarchy) IsContained(id, scope ErasedID) bool {
	target := scope.Erased()
	if id.Erased() == target {
		return true
	}
	for p := range s.Ancestors(id) {
		if p == target {
			return true
		}
	}
	return false
}

// EnclosingDecl returns the innermost declaration that opens a scope
// around id, skipping brace statements.
func (s *ScopeHierarchy) EnclosingDecl(id ErasedID) (AnyDeclID, bool) {
	for p := range s.Ancestors(id) {
		if p.Category() == CategoryDecl && p.Kind.IntroducesScope() {
			return AnyDeclID{p}, true
		}
	}
	return AnyDeclID{}, false
}
