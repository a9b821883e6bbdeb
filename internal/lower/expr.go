package lower

import (
	"fmt"

	"valc/internal/ast"
	"valc/internal/diag"
	"valc/internal/ir"
	"valc/internal/types"
)

func (l *funcLowerer) lowerExpr(id ast.AnyExprID) (ir.Operand, error) {
	n := l.p.AST.Node(id)
	switch e := n.(type) {
	case *ast.BooleanLiteralExpr:
		return ir.Const(ir.BoolConstant(e.Value)), nil
	case *ast.IntegerLiteralExpr:
		t := l.p.ExprType(id)
		if b, ok := t.(types.BuiltinType); ok && b.Kind.IsInteger() {
			return ir.Const(ir.IntegerConstant(b.Kind, e.Value)), nil
		}
		return ir.Operand{}, unsupported(e, "integer literal of type %s", t)
	case *ast.NameExpr:
		return l.lowerName(id, e)
	case *ast.TupleExpr:
		parts := make([]ir.Operand, len(e.Elements))
		for i, el := range e.Elements {
			v, err := l.lowerExpr(el.Value)
			if err != nil {
				return ir.Operand{}, err
			}
			parts[i] = v
		}
		return l.emit(ir.NewRecord(l.p.ExprType(id), parts...), e.Site()).Result(), nil
	case *ast.InoutExpr:
		return l.borrow(ast.EffectInout, e.Subexpr)
	case *ast.FunCallExpr:
		return l.lowerCall(id, e)
	case *ast.AssignExpr:
		target, _, err := l.lowerPlace(e.Left)
		if err != nil {
			return ir.Operand{}, err
		}
		v, err := l.lowerExpr(e.Right)
		if err != nil {
			return ir.Operand{}, err
		}
		l.emit(ir.NewStore(v, target), e.Site())
		return ir.Const(ir.VoidConstant()), nil
	default:
		return ir.Operand{}, unsupported(n, "expression %s", n.Kind())
	}
}

func (l *funcLowerer) lowerName(id ast.AnyExprID, e *ast.NameExpr) (ir.Operand, error) {
	if e.Domain.IsValid() {
		return ir.Operand{}, unsupported(e, "member reference %s", e.Name)
	}
	d, ok := l.p.Referred.Get(id)
	if !ok {
		return l.poison(id, diag.LowerUnknownName, fmt.Sprintf("%s does not refer to a declaration", e.Name)), nil
	}
	if loc, ok := l.locals[d]; ok {
		if !loc.address {
			return loc.value, nil
		}
		return l.emit(ir.NewLoad(loc.typ, loc.value), e.Site()).Result(), nil
	}
	switch d.Kind {
	case ast.KindFunDecl, ast.KindInitializerDecl:
		fn := l.m.GetOrCreateFunction(d, l.p)
		f := l.m.Function(fn)
		return ir.Const(ir.FunctionRef(fn, f.Name, f.Type())), nil
	}
	return l.poison(id, diag.LowerUnknownName, fmt.Sprintf("%s refers to %s, which has no value here", e.Name, d.Kind)), nil
}

// lowerPlace returns the address of the storage id denotes.
func (l *funcLowerer) lowerPlace(id ast.AnyExprID) (ir.Operand, types.AnyType, error) {
	n := l.p.AST.Node(id)
	switch e := n.(type) {
	case *ast.NameExpr:
		if d, ok := l.p.Referred.Get(id); ok && !e.Domain.IsValid() {
			if loc, ok := l.locals[d]; ok && loc.address {
				return loc.value, loc.typ, nil
			}
		}
	case *ast.InoutExpr:
		return l.lowerPlace(e.Subexpr)
	}
	return ir.Operand{}, nil, unsupported(n, "%s as a place", n.Kind())
}

// borrow opens an access to the place id denotes. It lasts until the
// statement completes.
func (l *funcLowerer) borrow(capability ast.AccessEffect, id ast.AnyExprID) (ir.Operand, error) {
	place, t, err := l.lowerPlace(id)
	if err != nil {
		return ir.Operand{}, err
	}
	n := l.p.AST.Node(id)
	b := l.emit(ir.NewBorrow(capability, t, place), n.Site()).Result()
	l.borrows = append(l.borrows, b)
	return b, nil
}

func (l *funcLowerer) lowerCall(id ast.AnyExprID, e *ast.FunCallExpr) (ir.Operand, error) {
	callee, err := l.lowerExpr(e.Callee)
	if err != nil {
		return ir.Operand{}, err
	}
	lambda, ok := l.m.TypeOf(callee).AST.(types.LambdaType)
	switch {
	case !ok:
		return l.poison(id, diag.LowerInvalidCallee, fmt.Sprintf("callee of type %s is not a function", l.m.TypeOf(callee))), nil
	case !lambda.IsThin():
		return l.poison(id, diag.LowerInvalidCallee, "calls to closures with captures cannot be lowered"), nil
	case len(lambda.Inputs()) != len(e.Arguments):
		return l.poison(id, diag.LowerInvalidCallee, fmt.Sprintf("callee takes %d arguments, %d given", len(lambda.Inputs()), len(e.Arguments))), nil
	}

	args := make([]ir.Operand, len(e.Arguments))
	for i, a := range e.Arguments {
		convention := ast.ConventionLet
		if p, ok := lambda.Inputs()[i].Type.(types.ParameterType); ok {
			convention = p.Convention()
		}
		if args[i], err = l.lowerArgument(convention, a.Value); err != nil {
			return ir.Operand{}, err
		}
	}
	return l.emit(ir.NewCall(l.p.ExprType(id), callee, args...), e.Site()).Result(), nil
}

// lowerArgument passes sink arguments by value and every other convention
// by borrowing. A let argument that is not a place is spilled first.
func (l *funcLowerer) lowerArgument(convention ast.PassingConvention, id ast.AnyExprID) (ir.Operand, error) {
	n := l.p.AST.Node(id)
	switch convention {
	case ast.ConventionSink:
		return l.lowerExpr(id)
	case ast.ConventionInout:
		if _, ok := n.(*ast.InoutExpr); ok {
			return l.lowerExpr(id)
		}
		return l.borrow(ast.EffectInout, id)
	case ast.ConventionSet:
		return l.borrow(ast.EffectSet, id)
	case ast.ConventionLet:
		if _, _, err := l.lowerPlace(id); err == nil {
			return l.borrow(ast.EffectLet, id)
		}
		v, err := l.lowerExpr(id)
		if err != nil {
			return ir.Operand{}, err
		}
		t := l.p.ExprType(id)
		tmp := l.allocate(t, n.Site())
		l.emit(ir.NewStore(v, tmp), n.Site())
		b := l.emit(ir.NewBorrow(ast.EffectLet, t, tmp), n.Site()).Result()
		l.borrows = append(l.borrows, b)
		return b, nil
	default:
		return ir.Operand{}, unsupported(n, "%s argument", convention)
	}
}

// poison reports a recoverable error at id and stands in for its value.
func (l *funcLowerer) poison(id ast.AnyExprID, code diag.Code, msg string) ir.Operand {
	diag.ReportError(l.r, code, l.p.AST.Node(id).Site(), msg)
	return ir.Const(ir.Poison(ir.Object(l.p.ExprType(id))))
}
