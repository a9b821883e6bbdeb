package ir

import (
	"fmt"
	"io"
	"strings"
)

// String renders m. Rendering is a pure function of m's contents: it does
// not depend on where instructions sit in storage.
func (m *Module) String() string {
	var b strings.Builder
	b.WriteString("// module ")
	b.WriteString(m.Name)
	for fi := range m.Functions {
		m.renderFunction(&b, FunctionID(index32(fi, "function")))
	}
	return b.String()
}

// Render writes m's text to w.
func (m *Module) Render(w io.Writer) error {
	_, err := io.WriteString(w, m.String())
	return err
}

// valueNames assigns display names to the values of one function: every
// block's parameters, then its instructions, numbered across blocks.
type valueNames struct {
	params map[useKey]int
	insts  map[InstID]int
}

func (m *Module) nameValues(fn FunctionID) valueNames {
	n := valueNames{params: make(map[useKey]int), insts: make(map[InstID]int)}
	next := 0
	for bi, blk := range m.Function(fn).Blocks {
		b := BlockID{Function: fn, Index: index32(bi, "block")}
		for i := range blk.Inputs {
			k, _ := b.Parameter(i).key()
			n.params[k] = next
			next++
		}
		for _, id := range m.Instructions(b) {
			n.insts[id] = next
			next++
		}
	}
	return n
}

func (n valueNames) name(op Operand) string {
	switch op.Kind {
	case OperandResult:
		if i, ok := n.insts[op.Inst]; ok {
			return fmt.Sprintf("%%%d", i)
		}
		return "<dangling " + op.Inst.String() + ">"
	case OperandParameter:
		k, _ := op.key()
		if i, ok := n.params[k]; ok {
			return fmt.Sprintf("%%%d", i)
		}
		return fmt.Sprintf("<dangling %s#%d>", op.Block, op.Index)
	default:
		return op.Const.String()
	}
}

func (m *Module) renderFunction(b *strings.Builder, fn FunctionID) {
	f := m.Function(fn)
	names := m.nameValues(fn)

	b.WriteString("\n\n")
	if f.DebugName != "" {
		fmt.Fprintf(b, "// %s\n", f.DebugName)
	}
	fmt.Fprintf(b, "@lowered fun %s {\n", f.Name)
	for bi, blk := range f.Blocks {
		id := BlockID{Function: fn, Index: index32(bi, "block")}
		fmt.Fprintf(b, "%s(", id)
		for i, t := range blk.Inputs {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%s: %s", names.name(id.Parameter(i)), t)
		}
		b.WriteString("):\n")
		for _, inst := range m.Instructions(id) {
			fmt.Fprintf(b, "  %%%d = ", names.insts[inst])
			m.Inst(inst).render(b, names.name)
			b.WriteByte('\n')
		}
	}
	b.WriteString("}")
}
