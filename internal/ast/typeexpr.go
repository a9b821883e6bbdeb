package ast

type NameTypeExpr struct {
	NodeBase
	Domain    AnyTypeExprID
	Name      string
	Arguments []AnyTypeExprID
}

type TupleTypeElement struct {
	Label string
	Type  AnyTypeExprID
}

type TupleTypeExpr struct {
	NodeBase
	Elements []TupleTypeElement
}

// ParameterTypeExpr is `convention T` in a parameter annotation.
type ParameterTypeExpr struct {
	NodeBase
	Convention PassingConvention
	BareType   AnyTypeExprID
}

type LambdaTypeParameter struct {
	Label string
	Type  NodeID[ParameterTypeExpr]
}

type LambdaTypeExpr struct {
	NodeBase
	ReceiverEffect AccessEffect
	Environment    AnyTypeExprID
	Parameters     []LambdaTypeParameter
	Output         AnyTypeExprID
}

func (NameTypeExpr) Kind() NodeKind      { return KindNameTypeExpr }
func (TupleTypeExpr) Kind() NodeKind     { return KindTupleTypeExpr }
func (ParameterTypeExpr) Kind() NodeKind { return KindParameterTypeExpr }
func (LambdaTypeExpr) Kind() NodeKind    { return KindLambdaTypeExpr }

func (NameTypeExpr) typeExprNode()      {}
func (TupleTypeExpr) typeExprNode()     {}
func (ParameterTypeExpr) typeExprNode() {}
func (LambdaTypeExpr) typeExprNode()    {}
