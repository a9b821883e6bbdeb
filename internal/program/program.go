// Package program bundles an AST with what the checker learned about it:
// the type of every expression and declaration and the declaration each
// name refers to. It is the input of lowering.
package program

import (
	"crypto/sha256"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"valc/internal/ast"
	"valc/internal/types"
)

type Program struct {
	AST       *ast.AST
	ExprTypes ast.ExprMap[types.AnyType]
	DeclTypes ast.DeclMap[types.AnyType]
	Referred  ast.ExprMap[ast.AnyDeclID]

	scopes *ast.ScopeHierarchy
}

func New(a *ast.AST) *Program {
	return &Program{AST: a}
}

func (p *Program) Syntax() *ast.AST { return p.AST }

// Scopes returns the scope hierarchy of the AST, built on first use. The
// AST must not grow afterwards.
func (p *Program) Scopes() *ast.ScopeHierarchy {
	if p.scopes == nil {
		p.scopes = ast.BuildScopeHierarchy(p.AST)
	}
	return p.scopes
}

// ExprType returns the checked type of e. A miss means the checker did not
// run over e, which is a bug upstream of the caller.
func (p *Program) ExprType(e ast.AnyExprID) types.AnyType {
	t, ok := p.ExprTypes.Get(e)
	if !ok {
		panic(fmt.Sprintf("program: missing type annotation for %s", e))
	}
	return t
}

func (p *Program) DeclType(d ast.AnyDeclID) types.AnyType {
	t, ok := p.DeclTypes.Get(d)
	if !ok {
		panic(fmt.Sprintf("program: missing type annotation for %s", d))
	}
	return t
}

type typeEntry[K any] struct {
	ID   K
	Type types.Record
}

type referredEntry struct {
	Expr ast.AnyExprID
	Decl ast.AnyDeclID
}

type programWire struct {
	AST       *ast.AST
	ExprTypes []typeEntry[ast.AnyExprID]
	DeclTypes []typeEntry[ast.AnyDeclID]
	Referred  []referredEntry
}

// Encode serializes p. Equal programs encode to equal bytes.
func Encode(p *Program) ([]byte, error) {
	w := programWire{AST: p.AST}
	for id, t := range p.ExprTypes.All() {
		w.ExprTypes = append(w.ExprTypes, typeEntry[ast.AnyExprID]{ID: id, Type: types.Encode(t)})
	}
	for id, t := range p.DeclTypes.All() {
		w.DeclTypes = append(w.DeclTypes, typeEntry[ast.AnyDeclID]{ID: id, Type: types.Encode(t)})
	}
	for e, d := range p.Referred.All() {
		w.Referred = append(w.Referred, referredEntry{Expr: e, Decl: d})
	}
	data, err := msgpack.Marshal(&w)
	if err != nil {
		return nil, fmt.Errorf("program: encode: %w", err)
	}
	return data, nil
}

func Decode(data []byte) (*Program, error) {
	var w programWire
	if err := msgpack.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("program: decode: %w", err)
	}
	if w.AST == nil {
		return nil, fmt.Errorf("program: snapshot has no AST")
	}
	p := New(w.AST)
	for _, e := range w.ExprTypes {
		t, err := types.Decode(e.Type)
		if err != nil {
			return nil, fmt.Errorf("program: type of %s: %w", e.ID, err)
		}
		p.ExprTypes.Set(e.ID, t)
	}
	for _, e := range w.DeclTypes {
		t, err := types.Decode(e.Type)
		if err != nil {
			return nil, fmt.Errorf("program: type of %s: %w", e.ID, err)
		}
		p.DeclTypes.Set(e.ID, t)
	}
	for _, r := range w.Referred {
		p.Referred.Set(r.Expr, r.Decl)
	}
	return p, nil
}

// Fingerprint is the SHA-256 of p's encoding.
func Fingerprint(p *Program) ([sha256.Size]byte, error) {
	data, err := Encode(p)
	if err != nil {
		return [sha256.Size]byte{}, err
	}
	return sha256.Sum256(data), nil
}
