// Package lower translates checked modules into IR, one function per
// declaration with a body.
package lower

import (
	"context"
	"errors"
	"fmt"

	"valc/internal/ast"
	"valc/internal/diag"
	"valc/internal/ir"
	"valc/internal/program"
	"valc/internal/source"
	"valc/internal/trace"
	"valc/internal/types"
)

// maxDiagnostics caps the diagnostics collected for one module.
const maxDiagnostics = 256

// ErrMalformed is returned when a module fails form validation. The
// diagnostics say why.
var ErrMalformed = errors.New("lower: module is malformed")

// unsupportedError aborts the lowering of one function.
type unsupportedError struct {
	site source.Span
	what string
}

func (e *unsupportedError) Error() string {
	return fmt.Sprintf("lower: %s is not supported", e.what)
}

func unsupported(n ast.Node, format string, args ...any) error {
	return &unsupportedError{site: n.Site(), what: fmt.Sprintf(format, args...)}
}

type moduleLowerer struct {
	p *program.Program
	m *ir.Module
	r diag.Reporter
}

// LowerModule lowers every function and initializer with a body declared
// anywhere in module, nested declarations included.
//
// Constructs lowering does not handle are reported as diagnostics and the
// affected function ends in unreachable; the module is still returned. A
// missing type annotation is a checker bug and panics.
func LowerModule(ctx context.Context, p *program.Program, module ast.NodeID[ast.ModuleDecl]) (*ir.Module, *diag.Bag, error) {
	decl := ast.Get(p.AST, module)
	span, ctx := trace.StartSpan(ctx, trace.ScopeModule, "module:"+decl.Name)
	defer span.End("")

	bag := diag.NewBag(maxDiagnostics)
	r := diag.BagReporter{Bag: bag}
	if !ast.ValidateForm(p.AST, module, r) {
		return nil, bag, ErrMalformed
	}

	l := &moduleLowerer{p: p, m: ir.NewModule(decl.Name), r: r}
	for _, d := range l.bodies(module) {
		if err := ctx.Err(); err != nil {
			return nil, bag, err
		}
		if err := l.lowerFunction(ctx, d); err != nil {
			return nil, bag, fmt.Errorf("lower: module %s: %w", decl.Name, err)
		}
	}

	if err := ir.Validate(l.m); err != nil {
		diag.ReportError(r, diag.LowerValidationFailed, decl.Site(), err.Error())
		return l.m, bag, fmt.Errorf("lower: module %s: %w", decl.Name, err)
	}
	span.WithExtra("functions", fmt.Sprint(len(l.m.Functions)))
	return l.m, bag, nil
}

// bodies lists the declarations to lower in source order. Functions in
// expression position are lowered with their expression, never alone.
func (l *moduleLowerer) bodies(module ast.NodeID[ast.ModuleDecl]) []ast.AnyDeclID {
	var out []ast.AnyDeclID
	l.p.AST.Walk(module, func(id, _ ast.AnyNodeID) bool {
		switch n := l.p.AST.Node(id).(type) {
		case *ast.FunDecl:
			if n.Body.IsValid() && !n.IsInExprContext {
				out = append(out, ast.AnyDeclID{AnyNodeID: id})
			}
			return !n.IsInExprContext
		case *ast.InitializerDecl:
			if n.Body.IsValid() {
				out = append(out, ast.AnyDeclID{AnyNodeID: id})
			}
		}
		return true
	})
	return out
}

// lowerFunction fills the body of the function lowering d.
func (l *moduleLowerer) lowerFunction(ctx context.Context, d ast.AnyDeclID) error {
	fn := l.m.GetOrCreateFunction(d, l.p)
	f := l.m.Function(fn)
	span, _ := trace.StartSpan(ctx, trace.ScopeFunction, "fn:"+f.Name)
	defer span.End("")

	var (
		params []ast.NodeID[ast.ParameterDecl]
		body   ast.NodeID[ast.BraceStmt]
	)
	switch n := l.p.AST.Node(d).(type) {
	case *ast.FunDecl:
		params, body = n.Parameters, n.Body
	case *ast.InitializerDecl:
		params, body = n.Parameters, n.Body
	}

	fl := &funcLowerer{
		moduleLowerer: l,
		fn:            fn,
		locals:        make(map[ast.AnyDeclID]local),
	}
	fl.cur = l.m.AppendEntryBlock(fn)

	// Captures and an initializer's self come before the declared parameters.
	offset := len(f.Inputs) - len(params)
	if offset < 0 {
		return fmt.Errorf("%s declares %d parameters, its type takes %d", f.Name, len(params), len(f.Inputs))
	}
	for i, p := range params {
		in := f.Inputs[offset+i]
		fl.locals[ast.AnyDecl(p)] = local{
			value:   fl.cur.Parameter(offset + i),
			address: in.Lowered().IsAddress,
			typ:     in.Type,
		}
	}

	err := fl.lowerBrace(ast.Get(l.p.AST, body))
	var unsup *unsupportedError
	switch {
	case errors.As(err, &unsup):
		diag.ReportError(l.r, diag.LowerUnsupported, unsup.site, unsup.Error())
		span.WithExtra("unsupported", unsup.what)
		fl.seal()
		return nil
	case err != nil:
		return fmt.Errorf("%s: %w", f.Name, err)
	}

	// Implicit fallthrough.
	if !fl.terminated() && types.IsVoid(f.Output) {
		fl.emit(ir.NewReturn(ir.Const(ir.VoidConstant())), f.Site)
	}
	fl.seal()
	return nil
}
