package ast

type BraceStmt struct {
	NodeBase
	Stmts []AnyStmtID
}

type DeclStmt struct {
	NodeBase
	Decl AnyDeclID
}

// DiscardStmt is `_ = expr`.
type DiscardStmt struct {
	NodeBase
	Expr AnyExprID
}

// DoWhileStmt runs Body, then repeats while Condition holds. Condition sees
// the bindings of Body.
type DoWhileStmt struct {
	NodeBase
	Body      NodeID[BraceStmt]
	Condition AnyExprID
}

type ReturnStmt struct {
	NodeBase
	Value AnyExprID
}

type ExprStmt struct {
	NodeBase
	Expr AnyExprID
}

func (BraceStmt) Kind() NodeKind   { return KindBraceStmt }
func (DeclStmt) Kind() NodeKind    { return KindDeclStmt }
func (DiscardStmt) Kind() NodeKind { return KindDiscardStmt }
func (DoWhileStmt) Kind() NodeKind { return KindDoWhileStmt }
func (ReturnStmt) Kind() NodeKind  { return KindReturnStmt }
func (ExprStmt) Kind() NodeKind    { return KindExprStmt }

func (BraceStmt) stmtNode()   {}
func (DeclStmt) stmtNode()    {}
func (DiscardStmt) stmtNode() {}
func (DoWhileStmt) stmtNode() {}
func (ReturnStmt) stmtNode()  {}
func (ExprStmt) stmtNode()    {}
