// Package ir holds lowered code: functions made of basic blocks whose
// instructions live in arena lists, so an instruction keeps its identity
// while the code around it is edited.
package ir

import (
	"fmt"
	"slices"

	"valc/internal/arena"
	"valc/internal/ast"
	"valc/internal/types"
)

// Use records that operand Index of instruction User reads a value.
type Use struct {
	User  InstID
	Index int
}

// Module is a program unit lowered to IR.
type Module struct {
	Name      string
	Functions []*Function

	lowered map[ast.AnyDeclID]FunctionID
	names   map[string]FunctionID
	uses    map[useKey][]Use
}

func NewModule(name string) *Module {
	return &Module{
		Name:    name,
		lowered: make(map[ast.AnyDeclID]FunctionID),
		names:   make(map[string]FunctionID),
		uses:    make(map[useKey][]Use),
	}
}

// Function returns the function id names. Unknown ids are a bug in the caller.
func (m *Module) Function(id FunctionID) *Function {
	if int(id) >= len(m.Functions) {
		panic(fmt.Sprintf("ir: unknown function %d", id))
	}
	return m.Functions[id]
}

func (m *Module) Block(id BlockID) *Block {
	f := m.Function(id.Function)
	if int(id.Index) >= len(f.Blocks) {
		panic(fmt.Sprintf("ir: unknown block %s in function %d", id, id.Function))
	}
	return f.Blocks[id.Index]
}

// Inst returns the instruction id names. It panics when id has been removed.
func (m *Module) Inst(id InstID) Inst {
	return m.Block(id.BlockID()).Instructions.At(id.Address)
}

// LookupFunction returns the function lowering decl, if it was created.
func (m *Module) LookupFunction(decl ast.AnyDeclID) (FunctionID, bool) {
	id, ok := m.lowered[decl]
	return id, ok
}

// TypeOf returns the type of the value op denotes.
func (m *Module) TypeOf(op Operand) LoweredType {
	switch op.Kind {
	case OperandResult:
		return m.Inst(op.Inst).Type
	case OperandParameter:
		return m.Block(op.Block).Inputs[op.Index]
	default:
		return op.Const.Type
	}
}

// AddFunction appends f under its own name and returns its id. The name
// gets a discriminator if another function already uses it.
func (m *Module) AddFunction(f *Function) FunctionID {
	id := FunctionID(index32(len(m.Functions), "function"))
	if _, taken := m.names[f.Name]; taken {
		f.Name = fmt.Sprintf("%s.d%d", f.Name, id)
	}
	m.names[f.Name] = id
	m.Functions = append(m.Functions, f)
	return id
}

// GetOrCreateFunction returns the function lowering decl, declaring it
// without blocks on first request. decl must be a function or initializer
// whose checked type is a lambda.
func (m *Module) GetOrCreateFunction(decl ast.AnyDeclID, src Source) FunctionID {
	if id, ok := m.lowered[decl]; ok {
		return id
	}
	t, ok := src.DeclType(decl).(types.LambdaType)
	if !ok {
		panic(fmt.Sprintf("ir: %s does not have a lambda type", decl))
	}

	f := &Function{
		Name:   Locate(src, decl),
		Decl:   decl,
		Output: t.Output(),
	}
	switch n := src.Syntax().Node(decl).(type) {
	case *ast.FunDecl:
		f.DebugName = n.Name
		f.Site = n.Site()
	case *ast.InitializerDecl:
		f.DebugName = "init"
		f.Site = n.Site()
	default:
		panic(fmt.Sprintf("ir: cannot lower %s to a function", decl))
	}
	for _, c := range t.Captures() {
		if r, ok := c.Type.(types.RemoteType); ok {
			f.Inputs = append(f.Inputs, FunctionInput{Convention: ast.ConventionOf(r.Access()), Type: r.BareType()})
		} else {
			f.Inputs = append(f.Inputs, FunctionInput{Convention: ast.ConventionSink, Type: c.Type})
		}
	}
	for _, p := range t.Inputs() {
		if pt, ok := p.Type.(types.ParameterType); ok {
			f.Inputs = append(f.Inputs, FunctionInput{Convention: pt.Convention(), Type: pt.BareType()})
		} else {
			f.Inputs = append(f.Inputs, FunctionInput{Convention: ast.ConventionLet, Type: p.Type})
		}
	}

	id := m.AddFunction(f)
	m.lowered[decl] = id
	return id
}

// AppendBlock adds a block with the given inputs at the end of fn.
func (m *Module) AppendBlock(fn FunctionID, inputs ...LoweredType) BlockID {
	f := m.Function(fn)
	id := BlockID{Function: fn, Index: index32(len(f.Blocks), "block")}
	f.Blocks = append(f.Blocks, &Block{Inputs: inputs})
	return id
}

// AppendEntryBlock adds a block taking fn's inputs. It must be fn's first.
func (m *Module) AppendEntryBlock(fn FunctionID) BlockID {
	f := m.Function(fn)
	if !f.IsDeclared() {
		panic(fmt.Sprintf("ir: function %s already has an entry block", f.Name))
	}
	return m.AppendBlock(fn, f.EntryInputs()...)
}

// InsertionPoint names where Insert puts an instruction: at the end of
// Block, or right after the instruction at After when After is set.
type InsertionPoint struct {
	Block BlockID
	After arena.Address
}

func AtEnd(b BlockID) InsertionPoint { return InsertionPoint{Block: b} }

func After(i InstID) InsertionPoint { return InsertionPoint{Block: i.BlockID(), After: i.Address} }

// Insert adds inst at ip and returns its id. Every operand must belong to
// the function of ip or be a constant.
func (m *Module) Insert(inst Inst, ip InsertionPoint) InstID {
	for i, op := range inst.Operands {
		if fn, ok := op.Function(); ok && fn != ip.Block.Function {
			panic(fmt.Sprintf("ir: operand %d of %s belongs to function %d, not %d", i, inst.Kind, fn, ip.Block.Function))
		}
	}
	for _, t := range inst.Targets {
		if t.Function != ip.Block.Function {
			panic(fmt.Sprintf("ir: %s targets a block of function %d", inst.Kind, t.Function))
		}
	}

	b := m.Block(ip.Block)
	var addr arena.Address
	if ip.After.IsValid() {
		addr = b.Instructions.InsertAfter(inst, ip.After)
	} else {
		addr = b.Instructions.Append(inst)
	}
	id := InstID{Function: ip.Block.Function, Block: ip.Block.Index, Address: addr}
	for i, op := range inst.Operands {
		if k, ok := op.key(); ok {
			m.uses[k] = append(m.uses[k], Use{User: id, Index: i})
		}
	}
	return id
}

// Remove deletes the instruction id names and returns it. Its result must
// have no uses left.
func (m *Module) Remove(id InstID) Inst {
	if us := m.uses[useKey{kind: OperandResult, inst: id}]; len(us) > 0 {
		panic(fmt.Sprintf("ir: cannot remove %s, its result has %d uses", id, len(us)))
	}
	inst := m.Block(id.BlockID()).Instructions.Remove(id.Address)
	delete(m.uses, useKey{kind: OperandResult, inst: id})
	for _, op := range inst.Operands {
		k, ok := op.key()
		if !ok {
			continue
		}
		m.uses[k] = slices.DeleteFunc(m.uses[k], func(u Use) bool { return u.User == id })
		if len(m.uses[k]) == 0 {
			delete(m.uses, k)
		}
	}
	return inst
}

// Uses returns the uses of the value op denotes, in insertion order.
// Constants have none.
func (m *Module) Uses(op Operand) []Use {
	k, ok := op.key()
	if !ok {
		return nil
	}
	return slices.Clone(m.uses[k])
}

// Blocks returns the ids of fn's blocks in order.
func (m *Module) Blocks(fn FunctionID) []BlockID {
	f := m.Function(fn)
	out := make([]BlockID, len(f.Blocks))
	for i := range f.Blocks {
		out[i] = BlockID{Function: fn, Index: index32(i, "block")}
	}
	return out
}

// Instructions returns the ids of b's instructions in list order.
func (m *Module) Instructions(b BlockID) []InstID {
	addrs := m.Block(b).Instructions.Addresses()
	out := make([]InstID, len(addrs))
	for i, a := range addrs {
		out[i] = InstID{Function: b.Function, Block: b.Index, Address: a}
	}
	return out
}

// Terminator returns the last instruction of b if it ends the block.
func (m *Module) Terminator(b BlockID) (InstID, bool) {
	l := &m.Block(b).Instructions
	a, ok := l.Last()
	if !ok || !l.At(a).Kind.IsTerminator() {
		return InstID{}, false
	}
	return InstID{Function: b.Function, Block: b.Index, Address: a}, true
}

// rebuildUses recomputes def-use chains from the instructions.
func (m *Module) rebuildUses() {
	m.uses = make(map[useKey][]Use)
	for fi, f := range m.Functions {
		for bi := range f.Blocks {
			b := BlockID{Function: FunctionID(index32(fi, "function")), Index: index32(bi, "block")}
			for _, id := range m.Instructions(b) {
				for i, op := range m.Inst(id).Operands {
					if k, ok := op.key(); ok {
						m.uses[k] = append(m.uses[k], Use{User: id, Index: i})
					}
				}
			}
		}
	}
}
