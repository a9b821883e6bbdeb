package ast

// Children returns the handles of the direct sub-nodes of id in source order.
// Invalid (absent) optional children are skipped.
func (a *AST) Children(id ErasedID) []AnyNodeID {
	var out []AnyNodeID
	add := func(ids ...ErasedID) {
		for _, c := range ids {
			if e := c.Erased(); e.IsValid() {
				out = append(out, e)
			}
		}
	}

	switch n := a.Node(id).(type) {
	case *ModuleDecl:
		addAll(add, n.Members)
	case *FunDecl:
		addAll(add, n.GenericParameters)
		addAll(add, n.Parameters)
		add(n.Output, n.Body)
	case *ParameterDecl:
		add(n.Annotation, n.Default)
	case *VarDecl:
	case *BindingDecl:
		add(n.Pattern, n.Annotation, n.Initializer)
	case *ProductTypeDecl:
		addAll(add, n.GenericParameters)
		addAll(add, n.Conformances)
		addAll(add, n.Members)
	case *TraitDecl:
		addAll(add, n.Refinements)
		addAll(add, n.Members)
	case *ExtensionDecl:
		add(n.Subject)
		addAll(add, n.Members)
	case *ConformanceDecl:
		add(n.Subject)
		addAll(add, n.Conformances)
		addAll(add, n.Members)
	case *InitializerDecl:
		addAll(add, n.GenericParameters)
		addAll(add, n.Parameters)
		add(n.Body)
	case *GenericParameterDecl:
		addAll(add, n.Conformances)

	case *BooleanLiteralExpr, *IntegerLiteralExpr:
	case *NameExpr:
		add(n.Domain)
		addAll(add, n.Arguments)
	case *TupleExpr:
		for _, e := range n.Elements {
			add(e.Value)
		}
	case *InoutExpr:
		add(n.Subexpr)
	case *AsyncExpr:
		add(n.Body)
	case *FunCallExpr:
		add(n.Callee)
		for _, arg := range n.Arguments {
			add(arg.Value)
		}
	case *AssignExpr:
		add(n.Left, n.Right)

	case *BraceStmt:
		addAll(add, n.Stmts)
	case *DeclStmt:
		add(n.Decl)
	case *DiscardStmt:
		add(n.Expr)
	case *DoWhileStmt:
		add(n.Body, n.Condition)
	case *ReturnStmt:
		add(n.Value)
	case *ExprStmt:
		add(n.Expr)

	case *NameTypeExpr:
		add(n.Domain)
		addAll(add, n.Arguments)
	case *TupleTypeExpr:
		for _, e := range n.Elements {
			add(e.Type)
		}
	case *ParameterTypeExpr:
		add(n.BareType)
	case *LambdaTypeExpr:
		add(n.Environment)
		for _, p := range n.Parameters {
			add(p.Type)
		}
		add(n.Output)

	case *NamePattern:
		add(n.Decl)
	case *TuplePattern:
		for _, e := range n.Elements {
			add(e.Pattern)
		}
	case *WildcardPattern:
	}
	return out
}

func addAll[I ErasedID](add func(...ErasedID), ids []I) {
	for _, id := range ids {
		add(id)
	}
}

// Walk visits root and its descendants in pre-order. visit receives each
// node with its parent (invalid for root); returning false skips the
// node's children.
func (a *AST) Walk(root ErasedID, visit func(id, parent AnyNodeID) bool) {
	var rec func(id, parent AnyNodeID)
	rec = func(id, parent AnyNodeID) {
		if !visit(id, parent) {
			return
		}
		for _, c := range a.Children(id) {
			rec(c, id)
		}
	}
	rec(root.Erased(), AnyNodeID{})
}
