package types

import (
	"fmt"

	"valc/internal/ast"
)

// Parts returns the immediate parts of t.
func Parts(t AnyType) []AnyType {
	var parts []AnyType
	t.TransformParts(func(p AnyType) TransformAction {
		parts = append(parts, p)
		return StepOver(p)
	})
	return parts
}

// Substitute replaces generic type parameters with their arguments
// throughout t. Parameters missing from args are kept.
func Substitute(t AnyType, args map[ast.NodeID[ast.GenericParameterDecl]]AnyType) AnyType {
	return Transform(t, func(u AnyType) TransformAction {
		if !u.Flags().Contains(HasGenericTypeParam) {
			return StepOver(u)
		}
		if p, ok := u.(GenericTypeParameterType); ok {
			if r, ok := args[p.Decl]; ok {
				return StepOver(r)
			}
			return StepOver(u)
		}
		return StepInto(u)
	})
}

// ownFlags is what the variant of t contributes regardless of its parts.
func ownFlags(t AnyType) Flags {
	switch t := t.(type) {
	case ErrorType:
		return HasError
	case TypeVariable:
		return HasVariable
	case GenericTypeParameterType:
		return HasGenericTypeParam
	case TypeAliasType:
		return HasNonCanonical
	case BoundGenericType:
		var f Flags
		for _, a := range t.arguments {
			if a.Type == nil {
				f |= HasGenericValueParam
			}
		}
		return f
	}
	return 0
}

// VerifyFlags recomputes the flags of t and each of its parts from scratch
// and reports the first type whose cached flags differ.
func VerifyFlags(t AnyType) error {
	want := ownFlags(t)
	for _, p := range Parts(t) {
		if err := VerifyFlags(p); err != nil {
			return err
		}
		want = want.Merge(p.Flags())
	}
	if got := t.Flags(); got != want {
		return fmt.Errorf("types: %s has flags %s, parts give %s", t, got, want)
	}
	return nil
}
