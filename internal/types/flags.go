package types

import "strings"

// Flags are properties of a type that hold when they hold for any part.
// They merge by union, so a type's flags are always the union of its
// parts' flags plus whatever its own variant contributes.
type Flags uint8

const (
	HasError Flags = 1 << iota
	HasVariable
	HasGenericTypeParam
	HasGenericValueParam
	// HasNonCanonical marks types that contain a sugar form such as an alias.
	HasNonCanonical
)

func (f Flags) Merge(other Flags) Flags   { return f | other }
func (f Flags) Contains(other Flags) bool { return f&other == other }
func (f Flags) IsCanonical() bool         { return f&HasNonCanonical == 0 }
func (f Flags) HasGenericParams() bool    { return f&(HasGenericTypeParam|HasGenericValueParam) != 0 }

func (f Flags) String() string {
	if f == 0 {
		return "[]"
	}
	var parts []string
	for _, x := range []struct {
		bit  Flags
		name string
	}{
		{HasError, "error"},
		{HasVariable, "variable"},
		{HasGenericTypeParam, "generic-type-param"},
		{HasGenericValueParam, "generic-value-param"},
		{HasNonCanonical, "non-canonical"},
	} {
		if f&x.bit != 0 {
			parts = append(parts, x.name)
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
