package ast

import "valc/internal/source"

type BooleanLiteralExpr struct {
	NodeBase
	Value bool
}

// IntegerLiteralExpr keeps the literal's source text; its value is
// interpreted against the type the checker assigned.
type IntegerLiteralExpr struct {
	NodeBase
	Value string
}

// NameExpr refers to a declaration by name, optionally qualified by Domain.
// The checker records what it resolves to.
type NameExpr struct {
	NodeBase
	Domain    AnyExprID
	Name      string
	Labels    []string
	Arguments []AnyTypeExprID
}

type TupleExprElement struct {
	Label string
	Value AnyExprID
}

type TupleExpr struct {
	NodeBase
	Elements []TupleExprElement
}

// InoutExpr is `&subexpr`, a mutable borrow passed to an inout parameter.
type InoutExpr struct {
	NodeBase
	OperatorSpan source.Span
	Subexpr      AnyExprID
}

// AsyncExpr runs Body's function concurrently.
type AsyncExpr struct {
	NodeBase
	Body NodeID[FunDecl]
}

type CallArgument struct {
	Label string
	Value AnyExprID
}

type FunCallExpr struct {
	NodeBase
	Callee    AnyExprID
	Arguments []CallArgument
}

type AssignExpr struct {
	NodeBase
	Left  AnyExprID
	Right AnyExprID
}

func (BooleanLiteralExpr) Kind() NodeKind { return KindBooleanLiteralExpr }
func (IntegerLiteralExpr) Kind() NodeKind { return KindIntegerLiteralExpr }
func (NameExpr) Kind() NodeKind           { return KindNameExpr }
func (TupleExpr) Kind() NodeKind          { return KindTupleExpr }
func (InoutExpr) Kind() NodeKind          { return KindInoutExpr }
func (AsyncExpr) Kind() NodeKind          { return KindAsyncExpr }
func (FunCallExpr) Kind() NodeKind        { return KindFunCallExpr }
func (AssignExpr) Kind() NodeKind         { return KindAssignExpr }

func (BooleanLiteralExpr) exprNode() {}
func (IntegerLiteralExpr) exprNode() {}
func (NameExpr) exprNode()           {}
func (TupleExpr) exprNode()          {}
func (InoutExpr) exprNode()          {}
func (AsyncExpr) exprNode()          {}
func (FunCallExpr) exprNode()        {}
func (AssignExpr) exprNode()         {}
