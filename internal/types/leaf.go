package types

import (
	"fmt"

	"valc/internal/ast"
)

type BuiltinKind uint8

const (
	BuiltinI1 BuiltinKind = iota
	BuiltinI8
	BuiltinI16
	BuiltinI32
	BuiltinI64
	BuiltinI128
	BuiltinWord
	BuiltinFloat32
	BuiltinFloat64
	BuiltinPtr
	BuiltinModule
)

var builtinNames = [...]string{
	BuiltinI1:      "i1",
	BuiltinI8:      "i8",
	BuiltinI16:     "i16",
	BuiltinI32:     "i32",
	BuiltinI64:     "i64",
	BuiltinI128:    "i128",
	BuiltinWord:    "word",
	BuiltinFloat32: "float32",
	BuiltinFloat64: "float64",
	BuiltinPtr:     "ptr",
	BuiltinModule:  "module",
}

func (k BuiltinKind) String() string {
	if int(k) < len(builtinNames) {
		return builtinNames[k]
	}
	return fmt.Sprintf("builtin(%d)", uint8(k))
}

// IsInteger reports whether k is one of the iN types or word.
func (k BuiltinKind) IsInteger() bool { return k <= BuiltinWord }

// BuiltinType is a machine type exposed by the Builtin module.
type BuiltinType struct {
	Kind BuiltinKind
}

func (BuiltinType) Flags() Flags { return 0 }
func (t BuiltinType) TransformParts(func(AnyType) TransformAction) AnyType { return t }
func (t BuiltinType) String() string { return "Builtin." + t.Kind.String() }

// ErrorType stands in for a type the checker could not determine.
type ErrorType struct{}

func (ErrorType) Flags() Flags { return HasError }
func (t ErrorType) TransformParts(func(AnyType) TransformAction) AnyType { return t }
func (ErrorType) String() string { return "_" }

// ProductType is a nominal struct-like type.
type ProductType struct {
	Decl ast.NodeID[ast.ProductTypeDecl]
	Name string
}

func (ProductType) Flags() Flags { return 0 }
func (t ProductType) TransformParts(func(AnyType) TransformAction) AnyType { return t }
func (t ProductType) String() string { return t.Name }

type TraitType struct {
	Decl ast.NodeID[ast.TraitDecl]
	Name string
}

func (TraitType) Flags() Flags { return 0 }
func (t TraitType) TransformParts(func(AnyType) TransformAction) AnyType { return t }
func (t TraitType) String() string { return t.Name }

// GenericTypeParameterType is a reference to a generic type parameter.
type GenericTypeParameterType struct {
	Decl ast.NodeID[ast.GenericParameterDecl]
	Name string
}

func (GenericTypeParameterType) Flags() Flags { return HasGenericTypeParam }
func (t GenericTypeParameterType) TransformParts(func(AnyType) TransformAction) AnyType {
	return t
}
func (t GenericTypeParameterType) String() string { return t.Name }

// TypeVariable is an unknown solved by the checker's inference.
type TypeVariable struct {
	ID uint64
}

func (TypeVariable) Flags() Flags { return HasVariable }
func (t TypeVariable) TransformParts(func(AnyType) TransformAction) AnyType { return t }
func (t TypeVariable) String() string { return fmt.Sprintf("%%τ%d", t.ID) }

func (BuiltinType) isType()              {}
func (ErrorType) isType()                {}
func (ProductType) isType()              {}
func (TraitType) isType()                {}
func (GenericTypeParameterType) isType() {}
func (TypeVariable) isType()             {}
