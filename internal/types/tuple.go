package types

import "strings"

type TupleElement struct {
	Label string
	Type  AnyType
}

func (e TupleElement) String() string { return labeled(e.Label, e.Type) }

// TupleType is a structural record of labeled elements.
type TupleType struct {
	elements []TupleElement
	flags    Flags
}

func NewTuple(elements ...TupleElement) TupleType {
	t := TupleType{elements: elements}
	for _, e := range elements {
		t.flags = t.flags.Merge(e.Type.Flags())
	}
	return t
}

// NewUnlabeledTuple builds a tuple whose elements have no labels.
func NewUnlabeledTuple(ts ...AnyType) TupleType {
	es := make([]TupleElement, len(ts))
	for i, t := range ts {
		es[i] = TupleElement{Type: t}
	}
	return NewTuple(es...)
}

// Elements must not be modified.
func (t TupleType) Elements() []TupleElement { return t.elements }
func (t TupleType) Flags() Flags             { return t.flags }

func (t TupleType) TransformParts(f func(AnyType) TransformAction) AnyType {
	if len(t.elements) == 0 {
		return t
	}
	es := make([]TupleElement, len(t.elements))
	for i, e := range t.elements {
		es[i] = TupleElement{Label: e.Label, Type: Transform(e.Type, f)}
	}
	return NewTuple(es...)
}

func (t TupleType) String() string {
	parts := make([]string, len(t.elements))
	for i, e := range t.elements {
		parts[i] = e.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// SumType is a union of its elements.
type SumType struct {
	elements []AnyType
	flags    Flags
}

func NewSum(elements ...AnyType) SumType {
	return SumType{elements: elements, flags: unionFlags(elements...)}
}

func (t SumType) Elements() []AnyType { return t.elements }
func (t SumType) Flags() Flags        { return t.flags }

func (t SumType) TransformParts(f func(AnyType) TransformAction) AnyType {
	if len(t.elements) == 0 {
		return t
	}
	return NewSum(transformAll(t.elements, f)...)
}

func (t SumType) String() string {
	if len(t.elements) == 0 {
		return "Never"
	}
	return "Union<" + joinTypes(t.elements, ", ") + ">"
}

func (TupleType) isType() {}
func (SumType) isType()   {}
