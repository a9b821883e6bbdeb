// Package types is the structural type algebra shared by the checker and the
// lowering pass. Types are immutable values; every variant caches the union
// of its parts' flags when it is built.
package types

import (
	"fmt"
	"strings"
)

// AnyType is implemented by the variants of this package only.
type AnyType interface {
	// Flags returns the cached properties of the type and all its parts.
	Flags() Flags
	// TransformParts rebuilds the type with Transform(part, f) applied to
	// each immediate part.
	TransformParts(f func(AnyType) TransformAction) AnyType
	String() string

	isType()
}

// TransformAction tells Transform what to do with a visited type.
type TransformAction struct {
	Type    AnyType
	Recurse bool
}

// StepInto replaces the visited type with t and continues into t's parts.
func StepInto(t AnyType) TransformAction { return TransformAction{Type: t, Recurse: true} }

// StepOver replaces the visited type with t and does not look inside it.
func StepOver(t AnyType) TransformAction { return TransformAction{Type: t} }

// Transform applies f to t, then to t's parts for as long as f asks to
// recurse.
func Transform(t AnyType, f func(AnyType) TransformAction) AnyType {
	act := f(t)
	if !act.Recurse {
		return act.Type
	}
	return act.Type.TransformParts(f)
}

// Void is the empty tuple.
var Void AnyType = TupleType{}

// Never is the empty sum.
var Never AnyType = SumType{}

func IsVoid(t AnyType) bool {
	tt, ok := t.(TupleType)
	return ok && len(tt.elements) == 0
}

func IsNever(t AnyType) bool {
	s, ok := t.(SumType)
	return ok && len(s.elements) == 0
}

// Equal reports structural equality.
func Equal(a, b AnyType) bool {
	return KeyOf(a) == KeyOf(b)
}

// Canonical expands type aliases. Canonical parts are not visited.
func Canonical(t AnyType) AnyType {
	return Transform(t, func(u AnyType) TransformAction {
		if u.Flags().IsCanonical() {
			return StepOver(u)
		}
		if a, ok := u.(TypeAliasType); ok {
			return StepOver(Canonical(a.aliased))
		}
		return StepInto(u)
	})
}

func joinTypes(ts []AnyType, sep string) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, sep)
}

func labeled(label string, t AnyType) string {
	if label == "" {
		return t.String()
	}
	return fmt.Sprintf("%s: %s", label, t)
}

func transformAll(ts []AnyType, f func(AnyType) TransformAction) []AnyType {
	if ts == nil {
		return nil
	}
	out := make([]AnyType, len(ts))
	for i, t := range ts {
		out[i] = Transform(t, f)
	}
	return out
}

func unionFlags(ts ...AnyType) Flags {
	var f Flags
	for _, t := range ts {
		f = f.Merge(t.Flags())
	}
	return f
}
