package program

import (
	"testing"

	"valc/internal/ast"
	"valc/internal/types"
)

func TestSnapshotRoundTrip(t *testing.T) {
	a := ast.New(ast.Hints{})
	lit := ast.Insert(a, ast.IntegerLiteralExpr{Value: "42"})
	v := ast.Insert(a, ast.VarDecl{Name: "x"})
	name := ast.Insert(a, ast.NameExpr{Name: "x"})
	ast.Insert(a, ast.ModuleDecl{Name: "M", Members: []ast.AnyDeclID{ast.AnyDecl(v)}})

	i64 := types.BuiltinType{Kind: types.BuiltinI64}
	p := New(a)
	p.ExprTypes.Set(ast.AnyExpr(lit), i64)
	p.ExprTypes.Set(ast.AnyExpr(name), i64)
	p.DeclTypes.Set(ast.AnyDecl(v), i64)
	p.Referred.Set(ast.AnyExpr(name), ast.AnyDecl(v))

	data, err := Encode(p)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	again, err := Encode(p)
	if err != nil || string(again) != string(data) {
		t.Fatalf("encoding must be deterministic")
	}

	q, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := q.ExprType(ast.AnyExpr(lit)); !types.Equal(got, i64) {
		t.Fatalf("expr type = %s", got)
	}
	if got, ok := q.Referred.Get(ast.AnyExpr(name)); !ok || got != ast.AnyDecl(v) {
		t.Fatalf("referred = %v,%v", got, ok)
	}
	if len(q.AST.Modules) != 1 {
		t.Fatalf("modules = %v", q.AST.Modules)
	}
	if _, ok := q.Scopes().Parent(v); !ok {
		t.Fatalf("decoded program must rebuild scopes")
	}

	fp1, _ := Fingerprint(p)
	fp2, _ := Fingerprint(q)
	if fp1 != fp2 {
		t.Fatalf("fingerprint changed across a round trip")
	}
}

func TestMissingAnnotationPanics(t *testing.T) {
	p := New(ast.New(ast.Hints{}))
	lit := ast.Insert(p.AST, ast.BooleanLiteralExpr{Value: true})
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	p.ExprType(ast.AnyExpr(lit))
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte{0xc1}); err == nil {
		t.Fatalf("expected error")
	}
}
