package ir

import (
	"valc/internal/arena"
	"valc/internal/ast"
	"valc/internal/source"
	"valc/internal/types"
)

// Block is a basic block: typed inputs and a list of instructions whose
// addresses stay stable while other instructions come and go.
type Block struct {
	Inputs       []LoweredType
	Instructions arena.List[Inst]
}

// Function is a lowered declaration. Its blocks only grow; the first one,
// once created, is the entry.
type Function struct {
	Name      string
	DebugName string
	Decl      ast.AnyDeclID
	Site      source.Span
	Inputs    []FunctionInput
	Output    types.AnyType
	Blocks    []*Block
}

// IsDeclared reports whether f has no body yet.
func (f *Function) IsDeclared() bool { return len(f.Blocks) == 0 }

// EntryInputs returns the inputs of f's entry block as lowering creates it.
func (f *Function) EntryInputs() []LoweredType {
	out := make([]LoweredType, len(f.Inputs))
	for i, in := range f.Inputs {
		out[i] = in.Lowered()
	}
	return out
}

// Type returns the thin lambda type of f as seen by callers.
func (f *Function) Type() types.LambdaType {
	params := make([]types.CallableParameter, len(f.Inputs))
	for i, in := range f.Inputs {
		params[i] = types.CallableParameter{Type: types.NewParameter(in.Convention, in.Type)}
	}
	return types.NewLambda(ast.EffectLet, types.Void, params, f.Output)
}
