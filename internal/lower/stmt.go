package lower

import (
	"slices"

	"valc/internal/ast"
	"valc/internal/ir"
	"valc/internal/source"
	"valc/internal/types"
)

// local is a name bound in the function being lowered. Addresses hold the
// object; sink parameters are the object itself.
type local struct {
	value   ir.Operand
	address bool
	typ     types.AnyType
}

type funcLowerer struct {
	*moduleLowerer
	fn  ir.FunctionID
	cur ir.BlockID

	locals map[ast.AnyDeclID]local
	// frames holds the stack allocations of each open scope.
	frames [][]ir.Operand
	// borrows are ended when the statement that opened them completes.
	borrows []ir.Operand
}

func (l *funcLowerer) emit(inst ir.Inst, site source.Span) ir.InstID {
	return l.m.Insert(inst.WithSite(site), ir.AtEnd(l.cur))
}

func (l *funcLowerer) terminated() bool {
	_, ok := l.m.Terminator(l.cur)
	return ok
}

// seal ends every block that control can still fall out of.
func (l *funcLowerer) seal() {
	site := l.m.Function(l.fn).Site
	for _, b := range l.m.Blocks(l.fn) {
		if _, ok := l.m.Terminator(b); !ok {
			l.m.Insert(ir.NewUnreachable().WithSite(site), ir.AtEnd(b))
		}
	}
}

func (l *funcLowerer) allocate(t types.AnyType, site source.Span) ir.Operand {
	r := l.emit(ir.NewAllocStack(t), site).Result()
	top := len(l.frames) - 1
	l.frames[top] = append(l.frames[top], r)
	return r
}

// popFrame releases the innermost scope's allocations, latest first.
func (l *funcLowerer) popFrame(site source.Span) {
	top := len(l.frames) - 1
	if !l.terminated() {
		for _, a := range slices.Backward(l.frames[top]) {
			l.emit(ir.NewDeallocStack(a), site)
		}
	}
	l.frames = l.frames[:top]
}

func (l *funcLowerer) endBorrows(site source.Span) {
	if !l.terminated() {
		for _, b := range slices.Backward(l.borrows) {
			l.emit(ir.NewEndBorrow(b), site)
		}
	}
	l.borrows = l.borrows[:0]
}

func (l *funcLowerer) lowerBrace(b *ast.BraceStmt) error {
	l.frames = append(l.frames, nil)
	if err := l.lowerStmts(b.Stmts); err != nil {
		return err
	}
	l.popFrame(b.Site())
	return nil
}

// lowerStmts lowers stmts into the current scope. Statements after one
// that leaves the block are dead and skipped.
func (l *funcLowerer) lowerStmts(stmts []ast.AnyStmtID) error {
	for _, s := range stmts {
		if l.terminated() {
			return nil
		}
		if err := l.lowerStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (l *funcLowerer) lowerStmt(id ast.AnyStmtID) error {
	n := l.p.AST.Node(id)
	var err error
	switch s := n.(type) {
	case *ast.BraceStmt:
		err = l.lowerBrace(s)
	case *ast.DeclStmt:
		err = l.lowerDeclStmt(s)
	case *ast.ExprStmt:
		_, err = l.lowerExpr(s.Expr)
	case *ast.DiscardStmt:
		_, err = l.lowerExpr(s.Expr)
	case *ast.ReturnStmt:
		err = l.lowerReturn(s)
	case *ast.DoWhileStmt:
		err = l.lowerDoWhile(s)
	default:
		return unsupported(n, "statement %s", n.Kind())
	}
	if err != nil {
		return err
	}
	l.endBorrows(n.Site())
	return nil
}

func (l *funcLowerer) lowerDeclStmt(s *ast.DeclStmt) error {
	switch d := l.p.AST.Node(s.Decl).(type) {
	case *ast.VarDecl:
		t := l.p.DeclType(s.Decl)
		l.locals[s.Decl] = local{value: l.allocate(t, d.Site()), address: true, typ: t}
		return nil
	case *ast.BindingDecl:
		return l.lowerBinding(d)
	case *ast.FunDecl:
		// Lowered on its own; references go through the module.
		return nil
	default:
		return unsupported(d, "local %s", d.Kind())
	}
}

func (l *funcLowerer) lowerBinding(d *ast.BindingDecl) error {
	switch p := l.p.AST.Node(d.Pattern).(type) {
	case *ast.NamePattern:
		v := ast.AnyDecl(p.Decl)
		t := l.p.DeclType(v)
		addr := l.allocate(t, d.Site())
		if d.Initializer.IsValid() {
			value, err := l.lowerExpr(d.Initializer)
			if err != nil {
				return err
			}
			l.emit(ir.NewStore(value, addr), d.Site())
		}
		l.locals[v] = local{value: addr, address: true, typ: t}
		return nil
	case *ast.WildcardPattern:
		if d.Initializer.IsValid() {
			_, err := l.lowerExpr(d.Initializer)
			return err
		}
		return nil
	default:
		return unsupported(p, "binding pattern %s", p.Kind())
	}
}

func (l *funcLowerer) lowerReturn(s *ast.ReturnStmt) error {
	value := ir.Const(ir.VoidConstant())
	if s.Value.IsValid() {
		v, err := l.lowerExpr(s.Value)
		if err != nil {
			return err
		}
		value = v
	}
	l.endBorrows(s.Site())
	for i := len(l.frames) - 1; i >= 0; i-- {
		for _, a := range slices.Backward(l.frames[i]) {
			l.emit(ir.NewDeallocStack(a), s.Site())
		}
	}
	l.emit(ir.NewReturn(value), s.Site())
	return nil
}

// lowerDoWhile emits the body in its own block and branches back to it
// while the condition holds. The condition sees the body's locals.
func (l *funcLowerer) lowerDoWhile(s *ast.DoWhileStmt) error {
	loop := l.m.AppendBlock(l.fn)
	l.emit(ir.NewBranch(loop), s.Site())
	l.cur = loop

	body := ast.Get(l.p.AST, s.Body)
	l.frames = append(l.frames, nil)
	if err := l.lowerStmts(body.Stmts); err != nil {
		return err
	}
	if l.terminated() {
		l.frames = l.frames[:len(l.frames)-1]
		return nil
	}
	cond, err := l.lowerExpr(s.Condition)
	if err != nil {
		return err
	}
	l.endBorrows(s.Site())
	l.popFrame(body.Site())

	exit := l.m.AppendBlock(l.fn)
	l.emit(ir.NewCondBranch(cond, loop, exit), s.Site())
	l.cur = exit
	return nil
}
