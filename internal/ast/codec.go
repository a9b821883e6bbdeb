package ast

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

type nodeWire struct {
	Kind NodeKind
	Data msgpack.RawMessage
}

// astWire lists the tables in category order. Raw ids are positions, so the
// layout alone preserves every handle.
type astWire struct {
	Tables [][]nodeWire
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (a *AST) EncodeMsgpack(enc *msgpack.Encoder) error {
	w := astWire{Tables: make([][]nodeWire, CategoryPattern)}
	for c := CategoryDecl; c <= CategoryPattern; c++ {
		nodes := a.table(c).Slice()
		out := make([]nodeWire, len(nodes))
		for i, n := range nodes {
			data, err := msgpack.Marshal(n)
			if err != nil {
				return fmt.Errorf("ast: encode %s#%d: %w", n.Kind(), i+1, err)
			}
			out[i] = nodeWire{Kind: n.Kind(), Data: data}
		}
		w.Tables[c-1] = out
	}
	return enc.Encode(&w)
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (a *AST) DecodeMsgpack(dec *msgpack.Decoder) error {
	var w astWire
	if err := dec.Decode(&w); err != nil {
		return err
	}
	if len(w.Tables) != int(CategoryPattern) {
		return fmt.Errorf("ast: snapshot has %d tables, want %d", len(w.Tables), CategoryPattern)
	}
	decoded := New(Hints{})
	for c := CategoryDecl; c <= CategoryPattern; c++ {
		t := decoded.table(c)
		for i, nw := range w.Tables[c-1] {
			if nw.Kind.Category() != c {
				return fmt.Errorf("ast: %s node in %s table at %d", nw.Kind, c, i+1)
			}
			n := newNode(nw.Kind)
			if err := msgpack.Unmarshal(nw.Data, n); err != nil {
				return fmt.Errorf("ast: decode %s#%d: %w", nw.Kind, i+1, err)
			}
			raw := t.Allocate(n)
			if nw.Kind == KindModuleDecl {
				decoded.Modules = append(decoded.Modules, NodeID[ModuleDecl]{Raw: RawID(raw)})
			}
		}
	}
	*a = *decoded
	return nil
}

func newNode(k NodeKind) Node {
	switch k {
	case KindModuleDecl:
		return new(ModuleDecl)
	case KindFunDecl:
		return new(FunDecl)
	case KindParameterDecl:
		return new(ParameterDecl)
	case KindVarDecl:
		return new(VarDecl)
	case KindProductTypeDecl:
		return new(ProductTypeDecl)
	case KindTraitDecl:
		return new(TraitDecl)
	case KindExtensionDecl:
		return new(ExtensionDecl)
	case KindConformanceDecl:
		return new(ConformanceDecl)
	case KindInitializerDecl:
		return new(InitializerDecl)
	case KindGenericParameterDecl:
		return new(GenericParameterDecl)
	case KindBindingDecl:
		return new(BindingDecl)
	case KindBooleanLiteralExpr:
		return new(BooleanLiteralExpr)
	case KindIntegerLiteralExpr:
		return new(IntegerLiteralExpr)
	case KindNameExpr:
		return new(NameExpr)
	case KindTupleExpr:
		return new(TupleExpr)
	case KindInoutExpr:
		return new(InoutExpr)
	case KindAsyncExpr:
		return new(AsyncExpr)
	case KindFunCallExpr:
		return new(FunCallExpr)
	case KindAssignExpr:
		return new(AssignExpr)
	case KindBraceStmt:
		return new(BraceStmt)
	case KindDeclStmt:
		return new(DeclStmt)
	case KindDiscardStmt:
		return new(DiscardStmt)
	case KindDoWhileStmt:
		return new(DoWhileStmt)
	case KindReturnStmt:
		return new(ReturnStmt)
	case KindExprStmt:
		return new(ExprStmt)
	case KindNameTypeExpr:
		return new(NameTypeExpr)
	case KindTupleTypeExpr:
		return new(TupleTypeExpr)
	case KindParameterTypeExpr:
		return new(ParameterTypeExpr)
	case KindLambdaTypeExpr:
		return new(LambdaTypeExpr)
	case KindNamePattern:
		return new(NamePattern)
	case KindTuplePattern:
		return new(TuplePattern)
	case KindWildcardPattern:
		return new(WildcardPattern)
	}
	panic(fmt.Sprintf("ast: no node variant for kind %d", k))
}
