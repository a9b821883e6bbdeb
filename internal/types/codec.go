package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"valc/internal/ast"
)

// Kind tags the variant of a Record.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBuiltin
	KindError
	KindTuple
	KindSum
	KindProduct
	KindTrait
	KindGenericTypeParameter
	KindVariable
	KindLambda
	KindMethod
	KindParameter
	KindRemote
	KindMetatype
	KindAssociated
	KindTypeAlias
	KindExistential
	KindBoundGeneric
	// KindValueArgument encodes a generic value argument inside a bound
	// generic record; it is not a type.
	KindValueArgument
)

// Record is a plain tree form of a type, used for snapshots and keys.
type Record struct {
	Kind   Kind
	Name   string    `msgpack:",omitempty"`
	Num    uint64    `msgpack:",omitempty"`
	Decl   ast.RawID `msgpack:",omitempty"`
	Labels []string  `msgpack:",omitempty"`
	Parts  []Record  `msgpack:",omitempty"`
}

// Encode converts t to its record form. A nil type encodes as KindInvalid.
func Encode(t AnyType) Record {
	switch t := t.(type) {
	case nil:
		return Record{}
	case BuiltinType:
		return Record{Kind: KindBuiltin, Num: uint64(t.Kind)}
	case ErrorType:
		return Record{Kind: KindError}
	case TupleType:
		r := Record{Kind: KindTuple}
		for _, e := range t.elements {
			r.Labels = append(r.Labels, e.Label)
			r.Parts = append(r.Parts, Encode(e.Type))
		}
		return r
	case SumType:
		return Record{Kind: KindSum, Parts: encodeAll(t.elements)}
	case ProductType:
		return Record{Kind: KindProduct, Decl: t.Decl.Raw, Name: t.Name}
	case TraitType:
		return Record{Kind: KindTrait, Decl: t.Decl.Raw, Name: t.Name}
	case GenericTypeParameterType:
		return Record{Kind: KindGenericTypeParameter, Decl: t.Decl.Raw, Name: t.Name}
	case TypeVariable:
		return Record{Kind: KindVariable, Num: t.ID}
	case LambdaType:
		r := Record{Kind: KindLambda, Num: uint64(t.receiverEffect)}
		r.Parts = []Record{Encode(t.environment), Encode(t.output)}
		encodeParams(&r, t.inputs)
		return r
	case MethodType:
		r := Record{Kind: KindMethod, Num: uint64(t.capabilities)}
		r.Parts = []Record{Encode(t.receiver), Encode(t.output)}
		encodeParams(&r, t.inputs)
		return r
	case ParameterType:
		return Record{Kind: KindParameter, Num: uint64(t.convention), Parts: []Record{Encode(t.bareType)}}
	case RemoteType:
		return Record{Kind: KindRemote, Num: uint64(t.access), Parts: []Record{Encode(t.bareType)}}
	case MetatypeType:
		return Record{Kind: KindMetatype, Parts: []Record{Encode(t.instance)}}
	case AssociatedType:
		return Record{Kind: KindAssociated, Name: t.name, Parts: []Record{Encode(t.domain)}}
	case TypeAliasType:
		return Record{Kind: KindTypeAlias, Name: t.name, Parts: []Record{Encode(t.aliased)}}
	case ExistentialType:
		r := Record{Kind: KindExistential}
		for _, tr := range t.traits {
			r.Parts = append(r.Parts, Encode(tr))
		}
		return r
	case BoundGenericType:
		r := Record{Kind: KindBoundGeneric, Parts: []Record{Encode(t.base)}}
		for _, a := range t.arguments {
			if a.Type != nil {
				r.Parts = append(r.Parts, Encode(a.Type))
			} else {
				r.Parts = append(r.Parts, Record{Kind: KindValueArgument, Decl: a.Value.Raw, Name: a.Name})
			}
		}
		return r
	}
	panic(fmt.Sprintf("types: cannot encode %T", t))
}

func encodeAll(ts []AnyType) []Record {
	out := make([]Record, len(ts))
	for i, t := range ts {
		out[i] = Encode(t)
	}
	return out
}

func encodeParams(r *Record, ps []CallableParameter) {
	for _, p := range ps {
		r.Labels = append(r.Labels, p.Label)
		r.Parts = append(r.Parts, Encode(p.Type))
	}
}

var errEmptyPart = errors.New("types: empty part")

// Decode rebuilds a type from its record form, recomputing flags.
func Decode(r Record) (AnyType, error) {
	parts := make([]AnyType, 0, len(r.Parts))
	if r.Kind != KindBoundGeneric && r.Kind != KindExistential {
		for i, p := range r.Parts {
			t, err := Decode(p)
			if err != nil {
				return nil, fmt.Errorf("%s part %d: %w", r.Kind, i, err)
			}
			if t == nil {
				return nil, fmt.Errorf("types: %s part %d is empty", r.Kind, i)
			}
			parts = append(parts, t)
		}
	}
	arity := func(n int) error {
		if len(parts) != n {
			return fmt.Errorf("types: %s record has %d parts, want %d", r.Kind, len(parts), n)
		}
		return nil
	}
	labels := func(offset int) error {
		if len(r.Labels) != len(parts)-offset {
			return fmt.Errorf("types: %s record has %d labels for %d elements", r.Kind, len(r.Labels), len(parts)-offset)
		}
		return nil
	}

	switch r.Kind {
	case KindInvalid:
		return nil, nil
	case KindBuiltin:
		return BuiltinType{Kind: BuiltinKind(r.Num)}, nil
	case KindError:
		return ErrorType{}, nil
	case KindTuple:
		if err := labels(0); err != nil {
			return nil, err
		}
		es := make([]TupleElement, len(parts))
		for i, p := range parts {
			es[i] = TupleElement{Label: r.Labels[i], Type: p}
		}
		return NewTuple(es...), nil
	case KindSum:
		return NewSum(parts...), nil
	case KindProduct:
		return ProductType{Decl: ast.NodeID[ast.ProductTypeDecl]{Raw: r.Decl}, Name: r.Name}, nil
	case KindTrait:
		return TraitType{Decl: ast.NodeID[ast.TraitDecl]{Raw: r.Decl}, Name: r.Name}, nil
	case KindGenericTypeParameter:
		return GenericTypeParameterType{Decl: ast.NodeID[ast.GenericParameterDecl]{Raw: r.Decl}, Name: r.Name}, nil
	case KindVariable:
		return TypeVariable{ID: r.Num}, nil
	case KindLambda, KindMethod:
		if len(parts) < 2 {
			return nil, fmt.Errorf("types: %s record has %d parts", r.Kind, len(parts))
		}
		if err := labels(2); err != nil {
			return nil, err
		}
		ps := make([]CallableParameter, len(parts)-2)
		for i := range ps {
			ps[i] = CallableParameter{Label: r.Labels[i], Type: parts[i+2]}
		}
		if r.Kind == KindLambda {
			return NewLambda(ast.AccessEffect(r.Num), parts[0], ps, parts[1]), nil
		}
		return NewMethod(ast.AccessEffectSet(r.Num), parts[0], ps, parts[1]), nil
	case KindParameter:
		if err := arity(1); err != nil {
			return nil, err
		}
		return NewParameter(ast.PassingConvention(r.Num), parts[0]), nil
	case KindRemote:
		if err := arity(1); err != nil {
			return nil, err
		}
		return NewRemote(ast.AccessEffect(r.Num), parts[0]), nil
	case KindMetatype:
		if err := arity(1); err != nil {
			return nil, err
		}
		return NewMetatype(parts[0]), nil
	case KindAssociated:
		if err := arity(1); err != nil {
			return nil, err
		}
		return NewAssociated(parts[0], r.Name), nil
	case KindTypeAlias:
		if err := arity(1); err != nil {
			return nil, err
		}
		return NewTypeAlias(r.Name, parts[0]), nil
	case KindExistential:
		traits := make([]TraitType, len(r.Parts))
		for i, p := range r.Parts {
			if p.Kind != KindTrait {
				return nil, fmt.Errorf("types: existential part %d is a %s", i, p.Kind)
			}
			traits[i] = TraitType{Decl: ast.NodeID[ast.TraitDecl]{Raw: p.Decl}, Name: p.Name}
		}
		return NewExistential(traits...), nil
	case KindBoundGeneric:
		if len(r.Parts) == 0 {
			return nil, fmt.Errorf("types: bound generic record has no base")
		}
		base, err := Decode(r.Parts[0])
		if err == nil && base == nil {
			err = errEmptyPart
		}
		if err != nil {
			return nil, fmt.Errorf("bound generic base: %w", err)
		}
		args := make([]GenericArgument, len(r.Parts)-1)
		for i, p := range r.Parts[1:] {
			if p.Kind == KindValueArgument {
				args[i] = GenericArgument{Value: ast.NodeID[ast.GenericParameterDecl]{Raw: p.Decl}, Name: p.Name}
				continue
			}
			t, err := Decode(p)
			if err == nil && t == nil {
				err = errEmptyPart
			}
			if err != nil {
				return nil, fmt.Errorf("bound generic argument %d: %w", i, err)
			}
			args[i] = GenericArgument{Type: t}
		}
		return NewBoundGeneric(base, args...), nil
	}
	return nil, fmt.Errorf("types: unknown record kind %d", r.Kind)
}

// Key is an injective encoding of a type's structure. Two types have the
// same key exactly when they are structurally equal.
type Key string

func KeyOf(t AnyType) Key {
	var b strings.Builder
	writeKey(&b, Encode(t))
	return Key(b.String())
}

// writeKey emits kind, scalars, and length-prefixed strings and lists, so
// no two records share an encoding.
func writeKey(b *strings.Builder, r Record) {
	b.WriteString(strconv.Itoa(int(r.Kind)))
	b.WriteByte('(')
	writeString(b, r.Name)
	b.WriteString(strconv.FormatUint(r.Num, 10))
	b.WriteByte(',')
	b.WriteString(strconv.FormatUint(uint64(r.Decl), 10))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(len(r.Labels)))
	b.WriteByte('[')
	for _, l := range r.Labels {
		writeString(b, l)
	}
	b.WriteByte(']')
	b.WriteString(strconv.Itoa(len(r.Parts)))
	b.WriteByte('[')
	for _, p := range r.Parts {
		writeKey(b, p)
	}
	b.WriteString("])")
}

func writeString(b *strings.Builder, s string) {
	b.WriteString(strconv.Itoa(len(s)))
	b.WriteByte(':')
	b.WriteString(s)
}

func (k Kind) String() string {
	switch k {
	case KindBuiltin:
		return "builtin"
	case KindError:
		return "error"
	case KindTuple:
		return "tuple"
	case KindSum:
		return "sum"
	case KindProduct:
		return "product"
	case KindTrait:
		return "trait"
	case KindGenericTypeParameter:
		return "generic-type-parameter"
	case KindVariable:
		return "variable"
	case KindLambda:
		return "lambda"
	case KindMethod:
		return "method"
	case KindParameter:
		return "parameter"
	case KindRemote:
		return "remote"
	case KindMetatype:
		return "metatype"
	case KindAssociated:
		return "associated"
	case KindTypeAlias:
		return "alias"
	case KindExistential:
		return "existential"
	case KindBoundGeneric:
		return "bound-generic"
	case KindValueArgument:
		return "value-argument"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}
