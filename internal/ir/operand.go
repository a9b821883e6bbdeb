package ir

import (
	"fmt"

	"valc/internal/types"
)

// OperandKind distinguishes what an operand refers to.
type OperandKind uint8

const (
	// OperandResult is the value produced by an instruction.
	OperandResult OperandKind = iota
	// OperandParameter is an input of a block.
	OperandParameter
	// OperandConstant is a value that does not live in any function.
	OperandConstant
)

// Operand is a value reference inside a function.
type Operand struct {
	Kind  OperandKind
	Inst  InstID
	Block BlockID
	Index int
	Const Constant
}

// Const returns an operand holding c.
func Const(c Constant) Operand { return Operand{Kind: OperandConstant, Const: c} }

// Function returns the function that o belongs to. Constants belong to none.
func (o Operand) Function() (FunctionID, bool) {
	switch o.Kind {
	case OperandResult:
		return o.Inst.Function, true
	case OperandParameter:
		return o.Block.Function, true
	default:
		return 0, false
	}
}

// useKey identifies the value an operand denotes, for def-use bookkeeping.
// Constants have no key: they are not defined anywhere.
type useKey struct {
	kind  OperandKind
	inst  InstID
	block BlockID
	index int
}

func (o Operand) key() (useKey, bool) {
	switch o.Kind {
	case OperandResult:
		return useKey{kind: OperandResult, inst: o.Inst}, true
	case OperandParameter:
		return useKey{kind: OperandParameter, block: o.Block, index: o.Index}, true
	default:
		return useKey{}, false
	}
}

// ConstantKind enumerates constant forms.
type ConstantKind uint8

const (
	ConstInteger ConstantKind = iota
	ConstBool
	ConstVoid
	ConstFunction
	ConstPoison
)

// Constant is a process-wide value. Type is fixed at construction.
type Constant struct {
	Kind     ConstantKind
	Type     LoweredType
	Text     string
	Function FunctionID
}

// IntegerConstant is an integer literal of the given builtin width. The
// text is kept as written so wide literals survive unchanged.
func IntegerConstant(k types.BuiltinKind, text string) Constant {
	return Constant{Kind: ConstInteger, Type: Object(types.BuiltinType{Kind: k}), Text: text}
}

func BoolConstant(v bool) Constant {
	return Constant{Kind: ConstBool, Type: Object(types.BuiltinType{Kind: types.BuiltinI1}), Text: fmt.Sprint(v)}
}

func VoidConstant() Constant {
	return Constant{Kind: ConstVoid, Type: VoidType}
}

// FunctionRef refers to a function of the module by its mangled name.
func FunctionRef(id FunctionID, name string, t types.LambdaType) Constant {
	return Constant{Kind: ConstFunction, Type: Object(t), Text: name, Function: id}
}

// Poison stands for a value that could not be computed.
func Poison(t LoweredType) Constant {
	return Constant{Kind: ConstPoison, Type: t}
}

func (c Constant) String() string {
	switch c.Kind {
	case ConstInteger:
		if b, ok := c.Type.AST.(types.BuiltinType); ok {
			return fmt.Sprintf("%s %s", b.Kind, c.Text)
		}
		return fmt.Sprintf("%s %s", c.Type, c.Text)
	case ConstBool:
		return "i1 " + c.Text
	case ConstVoid:
		return "void"
	case ConstFunction:
		return "@" + c.Text
	case ConstPoison:
		return "poison " + c.Type.String()
	default:
		return fmt.Sprintf("<constant %d>", c.Kind)
	}
}
