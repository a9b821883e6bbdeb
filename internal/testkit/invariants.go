package testkit

import (
	"errors"
	"fmt"
	"slices"

	"fortio.org/safecast"

	"valc/internal/ir"
	"valc/internal/types"
)

// CheckModuleInvariants runs the checks a well-formed lowered module must
// pass, beyond ir.Validate:
// 1) every block's instruction list is internally consistent
// 2) every operand is recorded as a use of the value it names
// 3) the flags cached in every type match its parts
// 4) a snapshot round trip renders to the same text
func CheckModuleInvariants(m *ir.Module) error {
	if m == nil {
		return fmt.Errorf("nil module")
	}
	if err := ir.Validate(m); err != nil {
		return err
	}

	var errs []error
	for fi, f := range m.Functions {
		raw, err := safecast.Conv[uint32](fi)
		if err != nil {
			return fmt.Errorf("function index overflow: %w", err)
		}
		fn := ir.FunctionID(raw)
		for _, in := range f.Inputs {
			if err := types.VerifyFlags(in.Type); err != nil {
				errs = append(errs, fmt.Errorf("%s: input %s: %w", f.Name, in.Type, err))
			}
		}
		if err := types.VerifyFlags(f.Output); err != nil {
			errs = append(errs, fmt.Errorf("%s: output: %w", f.Name, err))
		}
		if f.IsDeclared() {
			continue
		}
		for _, b := range m.Blocks(fn) {
			if err := m.Block(b).Instructions.CheckInvariants(); err != nil {
				errs = append(errs, fmt.Errorf("%s %s: %w", f.Name, b, err))
				continue
			}
			for _, id := range m.Instructions(b) {
				inst := m.Inst(id)
				if err := types.VerifyFlags(inst.Type.AST); err != nil {
					errs = append(errs, fmt.Errorf("%s %s: %w", f.Name, id, err))
				}
				for i, op := range inst.Operands {
					if op.Kind == ir.OperandConstant {
						continue
					}
					if !slices.Contains(m.Uses(op), ir.Use{User: id, Index: i}) {
						errs = append(errs, fmt.Errorf("%s %s: operand %d is not recorded as a use", f.Name, id, i))
					}
				}
			}
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	data, err := ir.Encode(m)
	if err != nil {
		return err
	}
	decoded, err := ir.Decode(data)
	if err != nil {
		return err
	}
	if got, want := decoded.String(), m.String(); got != want {
		return fmt.Errorf("snapshot renders differently:\n%s\nwant\n%s", got, want)
	}
	return nil
}
