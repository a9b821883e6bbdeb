package ir

import (
	"errors"
	"fmt"
)

// Validate checks module invariants.
// Returns error if any invariant is violated.
func Validate(m *Module) error {
	if m == nil {
		return nil
	}
	var errs []error
	for fi, f := range m.Functions {
		if err := validateFunc(m, FunctionID(index32(fi, "function"))); err != nil {
			errs = append(errs, fmt.Errorf("function %s: %w", f.Name, err))
		}
	}
	return errors.Join(errs...)
}

func validateFunc(m *Module, fn FunctionID) error {
	f := m.Function(fn)
	if f.IsDeclared() {
		return nil
	}
	var errs []error

	entry := f.Blocks[0].Inputs
	want := f.EntryInputs()
	if len(entry) != len(want) {
		errs = append(errs, fmt.Errorf("entry block takes %d inputs, function has %d", len(entry), len(want)))
	} else {
		for i := range want {
			if !entry[i].Equal(want[i]) {
				errs = append(errs, fmt.Errorf("entry input %d is %s, want %s", i, entry[i], want[i]))
			}
		}
	}

	for bi := range f.Blocks {
		b := BlockID{Function: fn, Index: index32(bi, "block")}
		if err := validateBlock(m, b); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", b, err))
		}
	}
	return errors.Join(errs...)
}

func validateBlock(m *Module, b BlockID) error {
	var errs []error
	ids := m.Instructions(b)
	if len(ids) == 0 {
		return errors.New("empty block")
	}
	for n, id := range ids {
		inst := m.Inst(id)
		last := n == len(ids)-1
		switch {
		case last && !inst.Kind.IsTerminator():
			errs = append(errs, fmt.Errorf("unterminated block, ends with %s", inst.Kind))
		case !last && inst.Kind.IsTerminator():
			errs = append(errs, fmt.Errorf("%s in the middle of the block", inst.Kind))
		}
		if !inst.wellFormed() {
			errs = append(errs, fmt.Errorf("%s has %d operands and %d targets", inst.Kind, len(inst.Operands), len(inst.Targets)))
		}
		for i, op := range inst.Operands {
			if err := validateOperand(m, b.Function, op); err != nil {
				errs = append(errs, fmt.Errorf("operand %d of %s: %w", i, inst.Kind, err))
			}
		}
		for _, t := range inst.Targets {
			if t.Function != b.Function || int(t.Index) >= len(m.Function(b.Function).Blocks) {
				errs = append(errs, fmt.Errorf("%s targets missing block %s", inst.Kind, t))
			} else if len(m.Block(t).Inputs) > 0 {
				errs = append(errs, fmt.Errorf("%s targets %s, which takes inputs", inst.Kind, t))
			}
		}
	}
	return errors.Join(errs...)
}

// validateOperand checks that op is a constant or a live value of fn.
func validateOperand(m *Module, fn FunctionID, op Operand) error {
	switch op.Kind {
	case OperandConstant:
		if op.Const.Kind == ConstFunction && int(op.Const.Function) >= len(m.Functions) {
			return fmt.Errorf("reference to unknown function %d", op.Const.Function)
		}
		return nil
	case OperandResult:
		if op.Inst.Function != fn {
			return fmt.Errorf("result of %s escapes its function", op.Inst)
		}
		f := m.Function(fn)
		if int(op.Inst.Block) >= len(f.Blocks) || !f.Blocks[op.Inst.Block].Instructions.Contains(op.Inst.Address) {
			return fmt.Errorf("result of removed instruction %s", op.Inst)
		}
		return nil
	case OperandParameter:
		if op.Block.Function != fn {
			return fmt.Errorf("parameter of %s escapes its function", op.Block)
		}
		f := m.Function(fn)
		if int(op.Block.Index) >= len(f.Blocks) {
			return fmt.Errorf("parameter of missing block %s", op.Block)
		}
		if op.Index < 0 || op.Index >= len(f.Blocks[op.Block.Index].Inputs) {
			return fmt.Errorf("parameter %d of %s out of range", op.Index, op.Block)
		}
		return nil
	default:
		return fmt.Errorf("unknown operand kind %d", op.Kind)
	}
}
