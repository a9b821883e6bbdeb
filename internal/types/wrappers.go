package types

import (
	"fmt"
	"strings"

	"valc/internal/ast"
)

// ParameterType is the type of a parameter: a bare type with the convention
// arguments are passed with.
type ParameterType struct {
	convention ast.PassingConvention
	bareType   AnyType
}

func NewParameter(convention ast.PassingConvention, bare AnyType) ParameterType {
	return ParameterType{convention: convention, bareType: bare}
}

func (p ParameterType) Convention() ast.PassingConvention { return p.convention }
func (p ParameterType) BareType() AnyType                 { return p.bareType }
func (p ParameterType) Flags() Flags                      { return p.bareType.Flags() }

func (p ParameterType) TransformParts(f func(AnyType) TransformAction) AnyType {
	return NewParameter(p.convention, Transform(p.bareType, f))
}

func (p ParameterType) String() string { return fmt.Sprintf("%s %s", p.convention, p.bareType) }

// RemoteType is a reference to a value of BareType accessed with an effect.
type RemoteType struct {
	access   ast.AccessEffect
	bareType AnyType
}

func NewRemote(access ast.AccessEffect, bare AnyType) RemoteType {
	return RemoteType{access: access, bareType: bare}
}

func (r RemoteType) Access() ast.AccessEffect { return r.access }
func (r RemoteType) BareType() AnyType        { return r.bareType }
func (r RemoteType) Flags() Flags             { return r.bareType.Flags() }

func (r RemoteType) TransformParts(f func(AnyType) TransformAction) AnyType {
	return NewRemote(r.access, Transform(r.bareType, f))
}

func (r RemoteType) String() string { return fmt.Sprintf("remote %s %s", r.access, r.bareType) }

// MetatypeType is the type of a type.
type MetatypeType struct {
	instance AnyType
}

func NewMetatype(instance AnyType) MetatypeType { return MetatypeType{instance: instance} }

func (m MetatypeType) Instance() AnyType { return m.instance }
func (m MetatypeType) Flags() Flags      { return m.instance.Flags() }

func (m MetatypeType) TransformParts(f func(AnyType) TransformAction) AnyType {
	return NewMetatype(Transform(m.instance, f))
}

func (m MetatypeType) String() string { return fmt.Sprintf("Metatype<%s>", m.instance) }

// AssociatedType names an associated type requirement of Domain.
type AssociatedType struct {
	domain AnyType
	name   string
}

func NewAssociated(domain AnyType, name string) AssociatedType {
	return AssociatedType{domain: domain, name: name}
}

func (a AssociatedType) Domain() AnyType { return a.domain }
func (a AssociatedType) Name() string    { return a.name }
func (a AssociatedType) Flags() Flags    { return a.domain.Flags() }

func (a AssociatedType) TransformParts(f func(AnyType) TransformAction) AnyType {
	return NewAssociated(Transform(a.domain, f), a.name)
}

func (a AssociatedType) String() string { return fmt.Sprintf("%s.%s", a.domain, a.name) }

// TypeAliasType is a named alias. It is never canonical.
type TypeAliasType struct {
	name    string
	aliased AnyType
}

func NewTypeAlias(name string, aliased AnyType) TypeAliasType {
	return TypeAliasType{name: name, aliased: aliased}
}

func (a TypeAliasType) Name() string     { return a.name }
func (a TypeAliasType) Aliased() AnyType { return a.aliased }
func (a TypeAliasType) Flags() Flags     { return a.aliased.Flags().Merge(HasNonCanonical) }

func (a TypeAliasType) TransformParts(f func(AnyType) TransformAction) AnyType {
	return NewTypeAlias(a.name, Transform(a.aliased, f))
}

func (a TypeAliasType) String() string { return a.name }

// ExistentialType is `any P & Q`: some value whose type conforms to all
// of Traits.
type ExistentialType struct {
	traits []TraitType
}

func NewExistential(traits ...TraitType) ExistentialType {
	return ExistentialType{traits: traits}
}

func (e ExistentialType) Traits() []TraitType { return e.traits }
func (ExistentialType) Flags() Flags          { return 0 }

func (e ExistentialType) TransformParts(func(AnyType) TransformAction) AnyType { return e }

func (e ExistentialType) String() string {
	if len(e.traits) == 0 {
		return "Any"
	}
	names := make([]string, len(e.traits))
	for i, t := range e.traits {
		names[i] = t.Name
	}
	return "any " + strings.Join(names, " & ")
}

// GenericArgument is either a type or a reference to a generic value
// parameter.
type GenericArgument struct {
	Type  AnyType
	Value ast.NodeID[ast.GenericParameterDecl]
	Name  string
}

func (a GenericArgument) flags() Flags {
	if a.Type != nil {
		return a.Type.Flags()
	}
	return HasGenericValueParam
}

func (a GenericArgument) String() string {
	if a.Type != nil {
		return a.Type.String()
	}
	return a.Name
}

// BoundGenericType is a generic type applied to arguments.
type BoundGenericType struct {
	base      AnyType
	arguments []GenericArgument
	flags     Flags
}

func NewBoundGeneric(base AnyType, arguments ...GenericArgument) BoundGenericType {
	b := BoundGenericType{base: base, arguments: arguments, flags: base.Flags()}
	for _, a := range arguments {
		b.flags = b.flags.Merge(a.flags())
	}
	return b
}

func (b BoundGenericType) Base() AnyType { return b.base }
func (b BoundGenericType) Flags() Flags  { return b.flags }

// Arguments must not be modified.
func (b BoundGenericType) Arguments() []GenericArgument { return b.arguments }

func (b BoundGenericType) TransformParts(f func(AnyType) TransformAction) AnyType {
	args := make([]GenericArgument, len(b.arguments))
	for i, a := range b.arguments {
		if a.Type != nil {
			a.Type = Transform(a.Type, f)
		}
		args[i] = a
	}
	return NewBoundGeneric(Transform(b.base, f), args...)
}

func (b BoundGenericType) String() string {
	parts := make([]string, len(b.arguments))
	for i, a := range b.arguments {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", b.base, strings.Join(parts, ", "))
}

func (ParameterType) isType()    {}
func (RemoteType) isType()       {}
func (MetatypeType) isType()     {}
func (AssociatedType) isType()   {}
func (TypeAliasType) isType()    {}
func (ExistentialType) isType()  {}
func (BoundGenericType) isType() {}
