package ir

import (
	"fmt"

	"fortio.org/safecast"

	"valc/internal/arena"
)

// FunctionID is the index of a function in its module.
type FunctionID uint32

// BlockID names a block by its function and its index in that function.
type BlockID struct {
	Function FunctionID
	Index    uint32
}

func (b BlockID) String() string { return fmt.Sprintf("bb%d", b.Index) }

// Parameter returns the operand denoting the i-th input of b.
func (b BlockID) Parameter(i int) Operand {
	return Operand{Kind: OperandParameter, Block: b, Index: i}
}

// InstID names an instruction by function, block, and address within the
// block's instruction list. It stays valid until the instruction is removed.
type InstID struct {
	Function FunctionID
	Block    uint32
	Address  arena.Address
}

func (i InstID) BlockID() BlockID { return BlockID{Function: i.Function, Index: i.Block} }

// Result returns the operand denoting the value i produces.
func (i InstID) Result() Operand {
	return Operand{Kind: OperandResult, Inst: i}
}

func (i InstID) String() string {
	return fmt.Sprintf("fn%d.bb%d.%d", i.Function, i.Block, i.Address)
}

func index32(n int, what string) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("ir: %s index overflow: %w", what, err))
	}
	return v
}
