package types

import (
	"fmt"

	"fortio.org/safecast"
)

// TypeID uniquely identifies a type inside an Interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Builtins stores TypeIDs for common types.
type Builtins struct {
	Void  TypeID
	Never TypeID
	Error TypeID
	Bool  TypeID
	Int   TypeID
	Word  TypeID
}

// Interner gives structurally equal types the same TypeID.
type Interner struct {
	types    []AnyType
	index    map[Key]TypeID
	builtins Builtins
}

// NewInterner constructs an interner seeded with the builtins.
func NewInterner() *Interner {
	in := &Interner{
		types: []AnyType{nil}, // reserve 0 as invalid sentinel
		index: make(map[Key]TypeID, 64),
	}
	in.builtins.Void = in.Intern(Void)
	in.builtins.Never = in.Intern(Never)
	in.builtins.Error = in.Intern(ErrorType{})
	in.builtins.Bool = in.Intern(BuiltinType{Kind: BuiltinI1})
	in.builtins.Int = in.Intern(BuiltinType{Kind: BuiltinI64})
	in.builtins.Word = in.Intern(BuiltinType{Kind: BuiltinWord})
	return in
}

func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern returns the ID of t, registering it on first sight.
func (in *Interner) Intern(t AnyType) TypeID {
	if t == nil {
		return NoTypeID
	}
	key := KeyOf(t)
	if id, ok := in.index[key]; ok {
		return id
	}
	n, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(n)
	in.types = append(in.types, t)
	in.index[key] = id
	return id
}

// Lookup returns the type for a TypeID.
func (in *Interner) Lookup(id TypeID) (AnyType, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return nil, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) AnyType {
	t, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return t
}

// Len returns the number of interned types, not counting the sentinel.
func (in *Interner) Len() int { return len(in.types) - 1 }
