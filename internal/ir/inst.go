package ir

import (
	"fmt"
	"strings"

	"valc/internal/ast"
	"valc/internal/source"
	"valc/internal/types"
)

// InstKind enumerates instruction kinds.
type InstKind uint8

const (
	// InstAllocStack reserves storage for a local; the result is its address.
	InstAllocStack InstKind = iota
	// InstBorrow projects an access with a given capability from an address.
	InstBorrow
	// InstEndBorrow ends the access started by a borrow.
	InstEndBorrow
	// InstLoad copies the object stored at an address.
	InstLoad
	// InstStore writes a value to an address.
	InstStore
	// InstRecord builds a product or tuple from its parts.
	InstRecord
	// InstCall calls its first operand with the rest.
	InstCall
	// InstBranch jumps unconditionally.
	InstBranch
	// InstCondBranch jumps to one of two targets.
	InstCondBranch
	// InstReturn leaves the function.
	InstReturn
	// InstDeallocStack releases storage reserved by alloc_stack.
	InstDeallocStack
	// InstUnreachable marks a point control never reaches.
	InstUnreachable
)

var instNames = [...]string{
	InstAllocStack:   "alloc_stack",
	InstBorrow:       "borrow",
	InstEndBorrow:    "end_borrow",
	InstLoad:         "load",
	InstStore:        "store",
	InstRecord:       "record",
	InstCall:         "call",
	InstBranch:       "branch",
	InstCondBranch:   "cond_branch",
	InstReturn:       "return",
	InstDeallocStack: "dealloc_stack",
	InstUnreachable:  "unreachable",
}

func (k InstKind) String() string {
	if int(k) < len(instNames) {
		return instNames[k]
	}
	return fmt.Sprintf("inst(%d)", uint8(k))
}

// IsTerminator reports whether k ends a block.
func (k InstKind) IsTerminator() bool {
	switch k {
	case InstBranch, InstCondBranch, InstReturn, InstUnreachable:
		return true
	default:
		return false
	}
}

// arity returns the exact operand count of k, or -1 when it varies.
func (k InstKind) arity() int {
	switch k {
	case InstAllocStack, InstBranch, InstUnreachable:
		return 0
	case InstBorrow, InstEndBorrow, InstLoad, InstCondBranch, InstReturn, InstDeallocStack:
		return 1
	case InstStore:
		return 2
	default:
		return -1
	}
}

// targets returns how many successor blocks k names.
func (k InstKind) targets() int {
	switch k {
	case InstBranch:
		return 1
	case InstCondBranch:
		return 2
	default:
		return 0
	}
}

// Inst is an IR instruction. Type is the type of its result, void for
// instructions that produce nothing.
type Inst struct {
	Kind       InstKind
	Type       LoweredType
	Operands   []Operand
	Targets    []BlockID
	Capability ast.AccessEffect
	Site       source.Span
}

// WithSite returns i anchored at s.
func (i Inst) WithSite(s source.Span) Inst {
	i.Site = s
	return i
}

func NewAllocStack(t types.AnyType) Inst {
	return Inst{Kind: InstAllocStack, Type: Address(t)}
}

// NewBorrow borrows the object of type t stored at location.
func NewBorrow(capability ast.AccessEffect, t types.AnyType, location Operand) Inst {
	return Inst{Kind: InstBorrow, Type: Address(t), Operands: []Operand{location}, Capability: capability}
}

func NewEndBorrow(borrow Operand) Inst {
	return Inst{Kind: InstEndBorrow, Type: VoidType, Operands: []Operand{borrow}}
}

func NewLoad(t types.AnyType, from Operand) Inst {
	return Inst{Kind: InstLoad, Type: Object(t), Operands: []Operand{from}}
}

func NewStore(value, target Operand) Inst {
	return Inst{Kind: InstStore, Type: VoidType, Operands: []Operand{value, target}}
}

func NewRecord(t types.AnyType, parts ...Operand) Inst {
	return Inst{Kind: InstRecord, Type: Object(t), Operands: parts}
}

// NewCall calls callee with args. The callee is the first operand.
func NewCall(output types.AnyType, callee Operand, args ...Operand) Inst {
	ops := make([]Operand, 0, len(args)+1)
	ops = append(ops, callee)
	ops = append(ops, args...)
	return Inst{Kind: InstCall, Type: Object(output), Operands: ops}
}

func NewBranch(target BlockID) Inst {
	return Inst{Kind: InstBranch, Type: VoidType, Targets: []BlockID{target}}
}

func NewCondBranch(condition Operand, then, otherwise BlockID) Inst {
	return Inst{Kind: InstCondBranch, Type: VoidType, Operands: []Operand{condition}, Targets: []BlockID{then, otherwise}}
}

func NewReturn(value Operand) Inst {
	return Inst{Kind: InstReturn, Type: VoidType, Operands: []Operand{value}}
}

func NewDeallocStack(location Operand) Inst {
	return Inst{Kind: InstDeallocStack, Type: VoidType, Operands: []Operand{location}}
}

func NewUnreachable() Inst {
	return Inst{Kind: InstUnreachable, Type: VoidType}
}

// wellFormed reports whether i has the operand and target counts its
// kind requires.
func (i Inst) wellFormed() bool {
	if n := i.Kind.arity(); n >= 0 && len(i.Operands) != n {
		return false
	}
	if i.Kind == InstCall && len(i.Operands) == 0 {
		return false
	}
	return len(i.Targets) == i.Kind.targets()
}

// render writes i using name to print operands.
func (i Inst) render(b *strings.Builder, name func(Operand) string) {
	b.WriteString(i.Kind.String())
	operands := func(ops []Operand) {
		for j, op := range ops {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(name(op))
		}
	}
	if !i.wellFormed() {
		b.WriteString(" <malformed>")
		if len(i.Operands) > 0 {
			b.WriteByte(' ')
			operands(i.Operands)
		}
		for _, t := range i.Targets {
			fmt.Fprintf(b, ", %s", t)
		}
		return
	}
	switch i.Kind {
	case InstAllocStack:
		fmt.Fprintf(b, " %s", i.Type.AST)
	case InstBorrow:
		fmt.Fprintf(b, " [%s] %s", i.Capability, name(i.Operands[0]))
	case InstRecord:
		if len(i.Operands) > 0 {
			b.WriteByte(' ')
			operands(i.Operands)
		}
		fmt.Fprintf(b, " : %s", i.Type)
	case InstCall:
		fmt.Fprintf(b, " %s(", name(i.Operands[0]))
		operands(i.Operands[1:])
		b.WriteByte(')')
	case InstBranch:
		fmt.Fprintf(b, " %s", i.Targets[0])
	case InstCondBranch:
		fmt.Fprintf(b, " %s, %s, %s", name(i.Operands[0]), i.Targets[0], i.Targets[1])
	default:
		if len(i.Operands) > 0 {
			b.WriteByte(' ')
			operands(i.Operands)
		}
	}
}
