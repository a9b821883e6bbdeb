package ir

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"valc/internal/arena"
	"valc/internal/ast"
	"valc/internal/source"
	"valc/internal/types"
)

// Wire forms. Instruction lists keep their bucket layout so that InstIDs
// held in operands stay valid across a round trip.
type moduleWire struct {
	Name      string
	Functions []functionWire
}

type functionWire struct {
	Name      string
	DebugName string
	Decl      ast.AnyDeclID
	Site      source.Span
	Inputs    []inputWire
	Output    types.Record
	Blocks    []blockWire
}

type inputWire struct {
	Convention ast.PassingConvention
	Type       types.Record
}

type blockWire struct {
	Inputs       []loweredWire
	Instructions *arena.List[instWire]
}

type loweredWire struct {
	Type      types.Record
	IsAddress bool
}

type instWire struct {
	Kind       InstKind
	Type       loweredWire
	Operands   []operandWire
	Targets    []BlockID
	Capability ast.AccessEffect
	Site       source.Span
}

type operandWire struct {
	Kind     OperandKind
	Inst     InstID
	Block    BlockID
	Index    int
	Constant constantWire
}

type constantWire struct {
	Kind     ConstantKind
	Type     loweredWire
	Text     string
	Function FunctionID
}

var errNoType = errors.New("ir: missing type")

// Encode serializes m. Rendering the decoded module gives the same text.
func Encode(m *Module) ([]byte, error) {
	w := moduleWire{Name: m.Name, Functions: make([]functionWire, len(m.Functions))}
	for i, f := range m.Functions {
		fw := functionWire{
			Name:      f.Name,
			DebugName: f.DebugName,
			Decl:      f.Decl,
			Site:      f.Site,
			Output:    types.Encode(f.Output),
			Inputs:    make([]inputWire, len(f.Inputs)),
			Blocks:    make([]blockWire, len(f.Blocks)),
		}
		for j, in := range f.Inputs {
			fw.Inputs[j] = inputWire{Convention: in.Convention, Type: types.Encode(in.Type)}
		}
		for j, b := range f.Blocks {
			fw.Blocks[j] = blockWire{
				Inputs:       encodeLoweredAll(b.Inputs),
				Instructions: arena.Map(&b.Instructions, encodeInst),
			}
		}
		w.Functions[i] = fw
	}
	data, err := msgpack.Marshal(&w)
	if err != nil {
		return nil, fmt.Errorf("ir: encode: %w", err)
	}
	return data, nil
}

// Decode rebuilds a module from its encoding, including the declaration
// table and def-use chains.
func Decode(data []byte) (*Module, error) {
	var w moduleWire
	if err := msgpack.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("ir: decode: %w", err)
	}
	m := NewModule(w.Name)
	for i, fw := range w.Functions {
		f, err := decodeFunction(fw)
		if err != nil {
			return nil, fmt.Errorf("ir: function %d: %w", i, err)
		}
		if _, taken := m.names[f.Name]; taken {
			return nil, fmt.Errorf("ir: duplicate function name %q", f.Name)
		}
		id := m.AddFunction(f)
		if f.Decl.IsValid() {
			m.lowered[f.Decl] = id
		}
	}
	m.rebuildUses()
	return m, nil
}

func decodeFunction(fw functionWire) (*Function, error) {
	out, err := decodeType(fw.Output)
	if err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}
	f := &Function{
		Name:      fw.Name,
		DebugName: fw.DebugName,
		Decl:      fw.Decl,
		Site:      fw.Site,
		Output:    out,
		Inputs:    make([]FunctionInput, len(fw.Inputs)),
		Blocks:    make([]*Block, len(fw.Blocks)),
	}
	for i, in := range fw.Inputs {
		t, err := decodeType(in.Type)
		if err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		f.Inputs[i] = FunctionInput{Convention: in.Convention, Type: t}
	}
	for i, bw := range fw.Blocks {
		inputs := make([]LoweredType, len(bw.Inputs))
		for j, in := range bw.Inputs {
			if inputs[j], err = decodeLowered(in); err != nil {
				return nil, fmt.Errorf("bb%d input %d: %w", i, j, err)
			}
		}
		b := &Block{Inputs: inputs}
		if bw.Instructions != nil {
			insts, err := arena.TryMap(bw.Instructions, decodeInst)
			if err != nil {
				return nil, fmt.Errorf("bb%d: %w", i, err)
			}
			b.Instructions = *insts
		}
		f.Blocks[i] = b
	}
	return f, nil
}

func encodeLowered(t LoweredType) loweredWire {
	return loweredWire{Type: types.Encode(t.AST), IsAddress: t.IsAddress}
}

func encodeLoweredAll(ts []LoweredType) []loweredWire {
	out := make([]loweredWire, len(ts))
	for i, t := range ts {
		out[i] = encodeLowered(t)
	}
	return out
}

func encodeInst(i Inst) instWire {
	w := instWire{
		Kind:       i.Kind,
		Type:       encodeLowered(i.Type),
		Operands:   make([]operandWire, len(i.Operands)),
		Targets:    i.Targets,
		Capability: i.Capability,
		Site:       i.Site,
	}
	for j, op := range i.Operands {
		w.Operands[j] = operandWire{Kind: op.Kind, Inst: op.Inst, Block: op.Block, Index: op.Index}
		if op.Kind == OperandConstant {
			c := op.Const
			w.Operands[j].Constant = constantWire{Kind: c.Kind, Type: encodeLowered(c.Type), Text: c.Text, Function: c.Function}
		}
	}
	return w
}

func decodeInst(w instWire) (Inst, error) {
	t, err := decodeLowered(w.Type)
	if err != nil {
		return Inst{}, fmt.Errorf("%s: %w", w.Kind, err)
	}
	i := Inst{
		Kind:       w.Kind,
		Type:       t,
		Operands:   make([]Operand, len(w.Operands)),
		Targets:    w.Targets,
		Capability: w.Capability,
		Site:       w.Site,
	}
	for j, ow := range w.Operands {
		op := Operand{Kind: ow.Kind, Inst: ow.Inst, Block: ow.Block, Index: ow.Index}
		if ow.Kind == OperandConstant {
			ct, err := decodeLowered(ow.Constant.Type)
			if err != nil {
				return Inst{}, fmt.Errorf("%s operand %d: %w", w.Kind, j, err)
			}
			op.Const = Constant{Kind: ow.Constant.Kind, Type: ct, Text: ow.Constant.Text, Function: ow.Constant.Function}
		}
		i.Operands[j] = op
	}
	return i, nil
}

func decodeLowered(w loweredWire) (LoweredType, error) {
	t, err := decodeType(w.Type)
	if err != nil {
		return LoweredType{}, err
	}
	return LoweredType{AST: t, IsAddress: w.IsAddress}, nil
}

func decodeType(r types.Record) (types.AnyType, error) {
	t, err := types.Decode(r)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, errNoType
	}
	return t, nil
}
