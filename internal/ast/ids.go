package ast

import "fmt"

// RawID is the 1-based index of a node in its category table.
type RawID uint32

const NoRawID RawID = 0

func (id RawID) IsValid() bool { return id != NoRawID }

// NodeID is a typed handle to a node of variant T. T must be one of the
// node structs of this package (not a pointer to one); Insert enforces it.
type NodeID[T Node] struct {
	Raw RawID
}

func (id NodeID[T]) IsValid() bool { return id.Raw.IsValid() }

// Kind returns the variant T names, whether or not id is valid.
func (id NodeID[T]) Kind() NodeKind {
	var zero T
	return zero.Kind()
}

// Erased forgets the static variant of id. It never fails.
func (id NodeID[T]) Erased() AnyNodeID {
	if !id.IsValid() {
		return AnyNodeID{}
	}
	return AnyNodeID{Raw: id.Raw, Kind: id.Kind()}
}

func (id NodeID[T]) String() string { return id.Erased().String() }

// ErasedID is implemented by every handle type.
type ErasedID interface {
	Erased() AnyNodeID
}

// AnyNodeID is a handle that only remembers its node's kind at runtime.
type AnyNodeID struct {
	Raw  RawID
	Kind NodeKind
}

func (id AnyNodeID) IsValid() bool      { return id.Raw.IsValid() && id.Kind != KindInvalid }
func (id AnyNodeID) Erased() AnyNodeID  { return id }
func (id AnyNodeID) Category() Category { return id.Kind.Category() }
func (id AnyNodeID) String() string {
	if !id.IsValid() {
		return "<none>"
	}
	return fmt.Sprintf("%s#%d", id.Kind, id.Raw)
}

// Category-erased handles. Their zero values mean "none".
type (
	AnyDeclID     struct{ AnyNodeID }
	AnyExprID     struct{ AnyNodeID }
	AnyStmtID     struct{ AnyNodeID }
	AnyTypeExprID struct{ AnyNodeID }
	AnyPatternID  struct{ AnyNodeID }
)

func AnyDecl[T Decl](id NodeID[T]) AnyDeclID             { return AnyDeclID{id.Erased()} }
func AnyExpr[T Expr](id NodeID[T]) AnyExprID             { return AnyExprID{id.Erased()} }
func AnyStmt[T Stmt](id NodeID[T]) AnyStmtID             { return AnyStmtID{id.Erased()} }
func AnyTypeExpr[T TypeExpr](id NodeID[T]) AnyTypeExprID { return AnyTypeExprID{id.Erased()} }
func AnyPattern[T Pattern](id NodeID[T]) AnyPatternID    { return AnyPatternID{id.Erased()} }

// Downcast recovers a typed handle from an erased one. It reports false when
// id is invalid or names a node of another variant.
func Downcast[T Node](id ErasedID) (NodeID[T], bool) {
	e := id.Erased()
	var zero T
	if !e.IsValid() || e.Kind != zero.Kind() {
		return NodeID[T]{}, false
	}
	return NodeID[T]{Raw: e.Raw}, true
}

// MustDowncast is Downcast for callers that already checked the kind.
func MustDowncast[T Node](id ErasedID) NodeID[T] {
	n, ok := Downcast[T](id)
	if !ok {
		var zero T
		panic(fmt.Sprintf("ast: %s is not a %s", id.Erased(), zero.Kind()))
	}
	return n
}

func AsDecl(id ErasedID) (AnyDeclID, bool) {
	e := id.Erased()
	return AnyDeclID{e}, e.IsValid() && e.Category() == CategoryDecl
}

func AsExpr(id ErasedID) (AnyExprID, bool) {
	e := id.Erased()
	return AnyExprID{e}, e.IsValid() && e.Category() == CategoryExpr
}

func AsStmt(id ErasedID) (AnyStmtID, bool) {
	e := id.Erased()
	return AnyStmtID{e}, e.IsValid() && e.Category() == CategoryStmt
}

func AsTypeExpr(id ErasedID) (AnyTypeExprID, bool) {
	e := id.Erased()
	return AnyTypeExprID{e}, e.IsValid() && e.Category() == CategoryTypeExpr
}

func AsPattern(id ErasedID) (AnyPatternID, bool) {
	e := id.Erased()
	return AnyPatternID{e}, e.IsValid() && e.Category() == CategoryPattern
}
