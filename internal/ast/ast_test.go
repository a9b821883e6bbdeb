package ast

import (
	"slices"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"valc/internal/diag"
	"valc/internal/source"
)

func TestDowncastRoundTrip(t *testing.T) {
	a := New(Hints{})
	f := Insert(a, FunDecl{Name: "f"})
	v := Insert(a, VarDecl{Name: "x"})
	lit := Insert(a, IntegerLiteralExpr{Value: "1"})

	got, ok := Downcast[FunDecl](AnyDecl(f))
	if !ok || got != f {
		t.Fatalf("Downcast(AnyDecl(f)) = %v,%v, want %v", got, ok, f)
	}
	if got, ok := Downcast[VarDecl](AnyDecl(v)); !ok || got != v {
		t.Fatalf("var round trip = %v,%v", got, ok)
	}
	if _, ok := Downcast[VarDecl](AnyDecl(f)); ok {
		t.Fatalf("downcast to the wrong variant must fail")
	}
	if _, ok := Downcast[FunDecl](AnyDeclID{}); ok {
		t.Fatalf("downcast of the null handle must fail")
	}
	if _, ok := AsExpr(f); ok {
		t.Fatalf("decl handle must not convert to an expr handle")
	}
	if e, ok := AsExpr(lit.Erased()); !ok || e != AnyExpr(lit) {
		t.Fatalf("AsExpr = %v,%v", e, ok)
	}
}

func TestHandlesAreIdentities(t *testing.T) {
	a := New(Hints{})
	x := Insert(a, VarDecl{Name: "x"})
	y := Insert(a, VarDecl{Name: "x"})
	if x == y {
		t.Fatalf("structurally equal nodes must get distinct handles")
	}
	if AnyDecl(x) == AnyDecl(y) {
		t.Fatalf("erased handles of distinct nodes must differ")
	}
	if a.KindOf(AnyDecl(x)) != KindVarDecl {
		t.Fatalf("KindOf = %s", a.KindOf(AnyDecl(x)))
	}
}

func TestGetReturnsSharedNode(t *testing.T) {
	a := New(Hints{})
	id := Insert(a, FunDecl{Name: "f"})
	Get(a, id).Name = "g"
	if Get(a, id).Name != "g" {
		t.Fatalf("mutation through Get must be visible")
	}
	n, ok := a.Node(AnyDecl(id)).(*FunDecl)
	if !ok || n.Name != "g" {
		t.Fatalf("Node = %#v", a.Node(AnyDecl(id)))
	}
}

func TestLookupPanics(t *testing.T) {
	a := New(Hints{})
	Insert(a, VarDecl{Name: "x"})
	tests := []struct {
		name string
		id   ErasedID
	}{
		{"null", AnyDeclID{}},
		{"out of range", AnyNodeID{Raw: 9, Kind: KindVarDecl}},
		{"kind mismatch", AnyNodeID{Raw: 1, Kind: KindFunDecl}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic")
				}
			}()
			a.Node(tt.id)
		})
	}
	if a.Contains(AnyNodeID{Raw: 1, Kind: KindFunDecl}) {
		t.Fatalf("Contains must check the stored kind")
	}
}

func TestInsertRejectsPointers(t *testing.T) {
	a := New(Hints{})
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic")
		} else if a.Len(CategoryDecl) != 0 {
			t.Errorf("nothing may be stored, have %d nodes", a.Len(CategoryDecl))
		}
	}()
	Insert(a, &FunDecl{Name: "f"})
}

// sample builds:
//
//	module Main {
//	  fun f(x, y) { do { } while true }
//	  extension T { extension U {}; memberwise init }
//	  trait P { fun req() }
//	}
func sample(t *testing.T) (*AST, NodeID[ModuleDecl]) {
	t.Helper()
	a := New(Hints{})
	sp := func(n uint32) source.Span { return source.Span{File: 1, Start: n, End: n + 1} }

	xt := Insert(a, ParameterTypeExpr{Convention: ConventionLet, BareType: AnyTypeExpr(Insert(a, NameTypeExpr{Name: "Int"}))})
	x := Insert(a, ParameterDecl{Label: "x", Name: "x", Annotation: xt})
	y := Insert(a, ParameterDecl{NodeBase: NodeBase{Span: sp(5)}, Name: "x", Annotation: xt})
	cond := Insert(a, BooleanLiteralExpr{Value: true})
	loop := Insert(a, DoWhileStmt{Body: Insert(a, BraceStmt{}), Condition: AnyExpr(cond)})
	body := Insert(a, BraceStmt{Stmts: []AnyStmtID{AnyStmt(loop)}})
	f := Insert(a, FunDecl{Name: "f", Parameters: []NodeID[ParameterDecl]{x, y}, Body: body})

	inner := Insert(a, ExtensionDecl{NodeBase: NodeBase{Span: sp(10)}, Subject: AnyTypeExpr(Insert(a, NameTypeExpr{Name: "U"}))})
	mw := Insert(a, InitializerDecl{NodeBase: NodeBase{Span: sp(20)}, IsMemberwise: true})
	ext := Insert(a, ExtensionDecl{
		Subject: AnyTypeExpr(Insert(a, NameTypeExpr{Name: "T"})),
		Members: []AnyDeclID{AnyDecl(inner), AnyDecl(mw)},
	})
	req := Insert(a, FunDecl{Name: "req"})
	trait := Insert(a, TraitDecl{Name: "P", Members: []AnyDeclID{AnyDecl(req)}})

	m := Insert(a, ModuleDecl{Name: "Main", Members: []AnyDeclID{AnyDecl(f), AnyDecl(ext), AnyDecl(trait)}})
	return a, m
}

func TestScopeHierarchy(t *testing.T) {
	a, m := sample(t)
	s := BuildScopeHierarchy(a)

	var loop NodeID[DoWhileStmt]
	for id := range Each[DoWhileStmt](a) {
		loop = id
	}
	var f NodeID[FunDecl]
	for id, n := range Each[FunDecl](a) {
		if n.Name == "f" {
			f = id
		}
	}

	scope, ok := s.Scope(loop)
	if !ok || scope.Kind != KindBraceStmt {
		t.Fatalf("scope of loop = %v,%v", scope, ok)
	}
	decl, ok := s.EnclosingDecl(loop)
	if !ok || decl != AnyDecl(f) {
		t.Fatalf("enclosing decl = %v,%v", decl, ok)
	}
	if got, ok := s.Module(loop); !ok || got != m {
		t.Fatalf("module of loop = %v,%v", got, ok)
	}
	if !s.IsContained(loop, f) || s.IsContained(f, loop) {
		t.Fatalf("containment is directional")
	}
	if _, ok := s.Parent(m); ok {
		t.Fatalf("module must have no parent")
	}
}

func TestValidateForm(t *testing.T) {
	a, m := sample(t)
	bag := diag.NewBag(0)
	if ValidateForm(a, m, diag.BagReporter{Bag: bag}) {
		t.Fatalf("sample has form errors")
	}
	bag.Sort()
	var codes []diag.Code
	for _, d := range bag.Items() {
		codes = append(codes, d.Code)
	}
	want := []diag.Code{diag.SemaDuplicateParameterName, diag.SemaUnexpectedExtension, diag.SemaUnexpectedMemberwise}
	if !slices.Equal(codes, want) {
		t.Fatalf("codes = %v, want %v", codes, want)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	a, m := sample(t)
	data, err := msgpack.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out AST
	if err := msgpack.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !slices.Equal(out.Modules, []NodeID[ModuleDecl]{m}) {
		t.Fatalf("modules = %v", out.Modules)
	}
	for c := CategoryDecl; c <= CategoryPattern; c++ {
		if out.Len(c) != a.Len(c) {
			t.Fatalf("%s table: %d nodes, want %d", c, out.Len(c), a.Len(c))
		}
	}
	mod := Get(&out, m)
	if mod.Name != "Main" || len(mod.Members) != 3 {
		t.Fatalf("module = %#v", mod)
	}
	f, ok := Downcast[FunDecl](mod.Members[0])
	if !ok {
		t.Fatalf("first member is %s", mod.Members[0].Kind)
	}
	if got := Get(&out, f).Labels(&out); !slices.Equal(got, []string{"x", "_"}) {
		t.Fatalf("labels = %v", got)
	}
	if got := Get(&out, Get(&out, f).Parameters[1]).Span; got != (source.Span{File: 1, Start: 5, End: 6}) {
		t.Fatalf("span = %v", got)
	}
}

func TestMapsIterateInHandleOrder(t *testing.T) {
	a := New(Hints{})
	var m ExprMap[string]
	ids := make([]AnyExprID, 0, 3)
	for _, v := range []string{"1", "2", "3"} {
		ids = append(ids, AnyExpr(Insert(a, IntegerLiteralExpr{Value: v})))
	}
	m.Set(ids[2], "c")
	m.Set(ids[0], "a")
	m.Set(ids[1], "b")

	var got []string
	for _, v := range m.All() {
		got = append(got, v)
	}
	if !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Fatalf("order = %v", got)
	}
	if _, ok := m.Get(AnyExprID{}); ok {
		t.Fatalf("null handle must miss")
	}
}
