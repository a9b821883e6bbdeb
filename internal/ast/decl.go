package ast

// ModuleDecl is the root of a compilation unit.
type ModuleDecl struct {
	NodeBase
	Name    string
	Members []AnyDeclID
}

// FunDecl is a named function, a method, or an anonymous function when Name
// is empty.
type FunDecl struct {
	NodeBase
	Access            AccessModifier
	Name              string
	IsStatic          bool
	ReceiverEffect    AccessEffect
	GenericParameters []NodeID[GenericParameterDecl]
	Parameters        []NodeID[ParameterDecl]
	Output            AnyTypeExprID
	Body              NodeID[BraceStmt]
	IsInExprContext   bool
}

// Labels returns the argument labels of f, "_" standing for no label.
func (f *FunDecl) Labels(a *AST) []string {
	return parameterLabels(a, f.Parameters)
}

type ParameterDecl struct {
	NodeBase
	Label      string
	Name       string
	Annotation NodeID[ParameterTypeExpr]
	Default    AnyExprID
}

// VarDecl is a variable introduced by a NamePattern.
type VarDecl struct {
	NodeBase
	Name string
}

type BindingIntroducer uint8

const (
	IntroducerLet BindingIntroducer = iota
	IntroducerVar
	IntroducerSinkLet
	IntroducerInout
)

func (i BindingIntroducer) String() string {
	switch i {
	case IntroducerVar:
		return "var"
	case IntroducerSinkLet:
		return "sink let"
	case IntroducerInout:
		return "inout"
	default:
		return "let"
	}
}

// BindingDecl binds the variables of Pattern, optionally to Initializer.
type BindingDecl struct {
	NodeBase
	Access      AccessModifier
	Introducer  BindingIntroducer
	Pattern     AnyPatternID
	Annotation  AnyTypeExprID
	Initializer AnyExprID
}

type ProductTypeDecl struct {
	NodeBase
	Access            AccessModifier
	Name              string
	GenericParameters []NodeID[GenericParameterDecl]
	Conformances      []NodeID[NameTypeExpr]
	Members           []AnyDeclID
}

type TraitDecl struct {
	NodeBase
	Access      AccessModifier
	Name        string
	Refinements []NodeID[NameTypeExpr]
	Members     []AnyDeclID
}

// ExtensionDecl adds members to the type denoted by Subject.
type ExtensionDecl struct {
	NodeBase
	Access  AccessModifier
	Subject AnyTypeExprID
	Members []AnyDeclID
}

// ConformanceDecl declares that Subject conforms to Conformances.
type ConformanceDecl struct {
	NodeBase
	Access       AccessModifier
	Subject      AnyTypeExprID
	Conformances []NodeID[NameTypeExpr]
	Members      []AnyDeclID
}

// InitializerDecl is an `init`. A memberwise initializer has no parameters
// or body of its own; they are synthesized from the stored properties.
type InitializerDecl struct {
	NodeBase
	Access            AccessModifier
	IsMemberwise      bool
	GenericParameters []NodeID[GenericParameterDecl]
	Parameters        []NodeID[ParameterDecl]
	Body              NodeID[BraceStmt]
}

func (d *InitializerDecl) Labels(a *AST) []string {
	return parameterLabels(a, d.Parameters)
}

type GenericParameterDecl struct {
	NodeBase
	Name         string
	Conformances []NodeID[NameTypeExpr]
}

func parameterLabels(a *AST, params []NodeID[ParameterDecl]) []string {
	out := make([]string, len(params))
	for i, p := range params {
		label := Get(a, p).Label
		if label == "" {
			label = "_"
		}
		out[i] = label
	}
	return out
}

func (ModuleDecl) Kind() NodeKind           { return KindModuleDecl }
func (FunDecl) Kind() NodeKind              { return KindFunDecl }
func (ParameterDecl) Kind() NodeKind        { return KindParameterDecl }
func (VarDecl) Kind() NodeKind              { return KindVarDecl }
func (BindingDecl) Kind() NodeKind          { return KindBindingDecl }
func (ProductTypeDecl) Kind() NodeKind      { return KindProductTypeDecl }
func (TraitDecl) Kind() NodeKind            { return KindTraitDecl }
func (ExtensionDecl) Kind() NodeKind        { return KindExtensionDecl }
func (ConformanceDecl) Kind() NodeKind      { return KindConformanceDecl }
func (InitializerDecl) Kind() NodeKind      { return KindInitializerDecl }
func (GenericParameterDecl) Kind() NodeKind { return KindGenericParameterDecl }

func (ModuleDecl) declNode()           {}
func (FunDecl) declNode()              {}
func (ParameterDecl) declNode()        {}
func (VarDecl) declNode()              {}
func (BindingDecl) declNode()          {}
func (ProductTypeDecl) declNode()      {}
func (TraitDecl) declNode()            {}
func (ExtensionDecl) declNode()        {}
func (ConformanceDecl) declNode()      {}
func (InitializerDecl) declNode()      {}
func (GenericParameterDecl) declNode() {}
