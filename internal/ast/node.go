package ast

import "valc/internal/source"

// Node is implemented by every node variant. Variants use value receivers,
// so both T and *T satisfy Node; the tables store *T.
type Node interface {
	Kind() NodeKind
	Site() source.Span
}

// Category markers. The unexported method pins a variant to one category.
type (
	Decl interface {
		Node
		declNode()
	}
	Expr interface {
		Node
		exprNode()
	}
	Stmt interface {
		Node
		stmtNode()
	}
	TypeExpr interface {
		Node
		typeExprNode()
	}
	Pattern interface {
		Node
		patternNode()
	}
)

// NodeBase carries the fields every node has.
type NodeBase struct {
	Span source.Span
}

func (b NodeBase) Site() source.Span { return b.Span }
