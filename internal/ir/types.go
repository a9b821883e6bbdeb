package ir

import (
	"valc/internal/ast"
	"valc/internal/types"
)

// LoweredType is a source type tagged with whether IR values of it are
// the object itself or its address.
type LoweredType struct {
	AST       types.AnyType
	IsAddress bool
}

func Object(t types.AnyType) LoweredType  { return LoweredType{AST: t} }
func Address(t types.AnyType) LoweredType { return LoweredType{AST: t, IsAddress: true} }

// VoidType is the type of instructions producing no value.
var VoidType = Object(types.Void)

func (t LoweredType) IsVoid() bool { return !t.IsAddress && types.IsVoid(t.AST) }

func (t LoweredType) Equal(u LoweredType) bool {
	return t.IsAddress == u.IsAddress && types.Equal(t.AST, u.AST)
}

func (t LoweredType) String() string {
	if t.IsAddress {
		return "&" + t.AST.String()
	}
	return t.AST.String()
}

// FunctionInput is a parameter of a lowered function.
type FunctionInput struct {
	Convention ast.PassingConvention
	Type       types.AnyType
}

// Lowered returns how the callee receives the input: sink parameters are
// owned values, every other convention passes an address.
func (in FunctionInput) Lowered() LoweredType {
	if in.Convention == ast.ConventionSink {
		return Object(in.Type)
	}
	return Address(in.Type)
}
