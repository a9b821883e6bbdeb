package ast

import "fmt"

// Category partitions node kinds; each category has its own storage table.
type Category uint8

const (
	CategoryInvalid Category = iota
	CategoryDecl
	CategoryExpr
	CategoryStmt
	CategoryTypeExpr
	CategoryPattern
)

func (c Category) String() string {
	switch c {
	case CategoryDecl:
		return "decl"
	case CategoryExpr:
		return "expr"
	case CategoryStmt:
		return "stmt"
	case CategoryTypeExpr:
		return "type-expr"
	case CategoryPattern:
		return "pattern"
	default:
		return "invalid"
	}
}

// NodeKind identifies the concrete variant of a node. It is stored next to
// every erased handle and checked on downcast.
type NodeKind uint8

const (
	KindInvalid NodeKind = iota

	// decls
	KindModuleDecl
	KindFunDecl
	KindParameterDecl
	KindVarDecl
	KindProductTypeDecl
	KindTraitDecl
	KindExtensionDecl
	KindConformanceDecl
	KindInitializerDecl
	KindGenericParameterDecl
	KindBindingDecl

	// exprs
	KindBooleanLiteralExpr
	KindIntegerLiteralExpr
	KindNameExpr
	KindTupleExpr
	KindInoutExpr
	KindAsyncExpr
	KindFunCallExpr
	KindAssignExpr

	// stmts
	KindBraceStmt
	KindDeclStmt
	KindDiscardStmt
	KindDoWhileStmt
	KindReturnStmt
	KindExprStmt

	// type exprs
	KindNameTypeExpr
	KindTupleTypeExpr
	KindParameterTypeExpr
	KindLambdaTypeExpr

	// patterns
	KindNamePattern
	KindTuplePattern
	KindWildcardPattern

	kindCount
)

var kindInfo = [kindCount]struct {
	name     string
	category Category
}{
	KindInvalid: {"Invalid", CategoryInvalid},

	KindModuleDecl:           {"ModuleDecl", CategoryDecl},
	KindFunDecl:              {"FunDecl", CategoryDecl},
	KindParameterDecl:        {"ParameterDecl", CategoryDecl},
	KindVarDecl:              {"VarDecl", CategoryDecl},
	KindProductTypeDecl:      {"ProductTypeDecl", CategoryDecl},
	KindTraitDecl:            {"TraitDecl", CategoryDecl},
	KindExtensionDecl:        {"ExtensionDecl", CategoryDecl},
	KindConformanceDecl:      {"ConformanceDecl", CategoryDecl},
	KindInitializerDecl:      {"InitializerDecl", CategoryDecl},
	KindGenericParameterDecl: {"GenericParameterDecl", CategoryDecl},
	KindBindingDecl:          {"BindingDecl", CategoryDecl},

	KindBooleanLiteralExpr: {"BooleanLiteralExpr", CategoryExpr},
	KindIntegerLiteralExpr: {"IntegerLiteralExpr", CategoryExpr},
	KindNameExpr:           {"NameExpr", CategoryExpr},
	KindTupleExpr:          {"TupleExpr", CategoryExpr},
	KindInoutExpr:          {"InoutExpr", CategoryExpr},
	KindAsyncExpr:          {"AsyncExpr", CategoryExpr},
	KindFunCallExpr:        {"FunCallExpr", CategoryExpr},
	KindAssignExpr:         {"AssignExpr", CategoryExpr},

	KindBraceStmt:   {"BraceStmt", CategoryStmt},
	KindDeclStmt:    {"DeclStmt", CategoryStmt},
	KindDiscardStmt: {"DiscardStmt", CategoryStmt},
	KindDoWhileStmt: {"DoWhileStmt", CategoryStmt},
	KindReturnStmt:  {"ReturnStmt", CategoryStmt},
	KindExprStmt:    {"ExprStmt", CategoryStmt},

	KindNameTypeExpr:      {"NameTypeExpr", CategoryTypeExpr},
	KindTupleTypeExpr:     {"TupleTypeExpr", CategoryTypeExpr},
	KindParameterTypeExpr: {"ParameterTypeExpr", CategoryTypeExpr},
	KindLambdaTypeExpr:    {"LambdaTypeExpr", CategoryTypeExpr},

	KindNamePattern:     {"NamePattern", CategoryPattern},
	KindTuplePattern:    {"TuplePattern", CategoryPattern},
	KindWildcardPattern: {"WildcardPattern", CategoryPattern},
}

// Category returns the fixed category of k.
func (k NodeKind) Category() Category {
	if k >= kindCount {
		return CategoryInvalid
	}
	return kindInfo[k].category
}

func (k NodeKind) String() string {
	if k >= kindCount {
		return fmt.Sprintf("NodeKind(%d)", uint8(k))
	}
	return kindInfo[k].name
}
