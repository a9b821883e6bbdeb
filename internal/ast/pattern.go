package ast

// NamePattern introduces the variable Decl.
type NamePattern struct {
	NodeBase
	Decl NodeID[VarDecl]
}

type TuplePatternElement struct {
	Label   string
	Pattern AnyPatternID
}

type TuplePattern struct {
	NodeBase
	Elements []TuplePatternElement
}

type WildcardPattern struct {
	NodeBase
}

func (NamePattern) Kind() NodeKind     { return KindNamePattern }
func (TuplePattern) Kind() NodeKind    { return KindTuplePattern }
func (WildcardPattern) Kind() NodeKind { return KindWildcardPattern }

func (NamePattern) patternNode()     {}
func (TuplePattern) patternNode()    {}
func (WildcardPattern) patternNode() {}
