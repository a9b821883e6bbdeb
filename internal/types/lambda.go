package types

import (
	"fmt"
	"strings"

	"valc/internal/ast"
)

// CallableParameter is an input of a lambda or method type. Type is a
// ParameterType once the checker has resolved conventions.
type CallableParameter struct {
	Label string
	Type  AnyType
}

func (p CallableParameter) String() string { return labeled(p.Label, p.Type) }

// LambdaType is the type of a function or closure.
type LambdaType struct {
	receiverEffect ast.AccessEffect
	environment    AnyType
	inputs         []CallableParameter
	output         AnyType
	flags          Flags
}

// NewLambda builds a lambda type. The environment describes the captures,
// usually as a tuple.
func NewLambda(effect ast.AccessEffect, environment AnyType, inputs []CallableParameter, output AnyType) LambdaType {
	l := LambdaType{
		receiverEffect: effect,
		environment:    environment,
		inputs:         inputs,
		output:         output,
	}
	l.flags = environment.Flags().Merge(output.Flags())
	for _, p := range inputs {
		l.flags = l.flags.Merge(p.Type.Flags())
	}
	return l
}

// NewThinLambda builds a lambda that captures nothing, taking each input
// unlabeled with the let convention.
func NewThinLambda(output AnyType, inputs ...AnyType) LambdaType {
	ps := make([]CallableParameter, len(inputs))
	for i, t := range inputs {
		if _, ok := t.(ParameterType); !ok {
			t = NewParameter(ast.ConventionLet, t)
		}
		ps[i] = CallableParameter{Type: t}
	}
	return NewLambda(ast.EffectLet, Void, ps, output)
}

// LambdaFromBundle projects the variant of bundle selected by effect. The
// variant's environment holds `self`: the receiver itself for sink, a
// remote reference with that effect otherwise. It reports false when the
// bundle does not declare the variant.
//
// Requesting EffectYielded is a programming error.
func LambdaFromBundle(bundle MethodType, effect ast.AccessEffect) (LambdaType, bool) {
	if effect == ast.EffectYielded {
		panic("types: yielded effect cannot select a bundle variant")
	}
	if !bundle.capabilities.Contains(effect) {
		return LambdaType{}, false
	}
	self := bundle.receiver
	if effect != ast.EffectSink {
		self = NewRemote(effect, bundle.receiver)
	}
	env := NewTuple(TupleElement{Label: "self", Type: self})
	return NewLambda(effect, env, bundle.inputs, bundle.output), true
}

func (l LambdaType) ReceiverEffect() ast.AccessEffect { return l.receiverEffect }
func (l LambdaType) Environment() AnyType             { return l.environment }
func (l LambdaType) Output() AnyType                  { return l.output }
func (l LambdaType) Flags() Flags                     { return l.flags }

// Inputs must not be modified.
func (l LambdaType) Inputs() []CallableParameter { return l.inputs }

// Labels returns the argument labels, "_" standing for no label.
func (l LambdaType) Labels() []string {
	out := make([]string, len(l.inputs))
	for i, p := range l.inputs {
		out[i] = p.Label
		if out[i] == "" {
			out[i] = "_"
		}
	}
	return out
}

// IsThin reports whether l captures nothing.
func (l LambdaType) IsThin() bool { return IsVoid(l.environment) }

// Captures returns the elements of the environment. An environment that
// is not a tuple captures nothing.
func (l LambdaType) Captures() []TupleElement {
	if t, ok := l.environment.(TupleType); ok {
		return t.elements
	}
	return nil
}

// Ctor returns the constructor form of an initializer type: a lambda with
// void environment and output whose first input is `set T`. The result
// takes the remaining inputs and returns T.
func (l LambdaType) Ctor() (LambdaType, bool) {
	if !IsVoid(l.environment) || !IsVoid(l.output) || len(l.inputs) == 0 {
		return LambdaType{}, false
	}
	p, ok := l.inputs[0].Type.(ParameterType)
	if !ok || p.convention != ast.ConventionSet {
		return LambdaType{}, false
	}
	return NewLambda(ast.EffectLet, Void, l.inputs[1:], p.bareType), true
}

func (l LambdaType) TransformParts(f func(AnyType) TransformAction) AnyType {
	return NewLambda(l.receiverEffect, Transform(l.environment, f), transformParams(l.inputs, f), Transform(l.output, f))
}

func (l LambdaType) String() string {
	return fmt.Sprintf("[%s] (%s) %s -> %s", l.environment, joinParams(l.inputs), l.receiverEffect, l.output)
}

// MethodType is a method bundle: one signature implemented by a variant
// per receiver effect in its capability set.
type MethodType struct {
	capabilities ast.AccessEffectSet
	receiver     AnyType
	inputs       []CallableParameter
	output       AnyType
	flags        Flags
}

func NewMethod(capabilities ast.AccessEffectSet, receiver AnyType, inputs []CallableParameter, output AnyType) MethodType {
	m := MethodType{
		capabilities: capabilities,
		receiver:     receiver,
		inputs:       inputs,
		output:       output,
	}
	m.flags = receiver.Flags().Merge(output.Flags())
	for _, p := range inputs {
		m.flags = m.flags.Merge(p.Type.Flags())
	}
	return m
}

func (m MethodType) Capabilities() ast.AccessEffectSet { return m.capabilities }
func (m MethodType) Receiver() AnyType                 { return m.receiver }
func (m MethodType) Output() AnyType                   { return m.output }
func (m MethodType) Flags() Flags                      { return m.flags }

// Inputs must not be modified.
func (m MethodType) Inputs() []CallableParameter { return m.inputs }

func (m MethodType) TransformParts(f func(AnyType) TransformAction) AnyType {
	return NewMethod(m.capabilities, Transform(m.receiver, f), transformParams(m.inputs, f), Transform(m.output, f))
}

func (m MethodType) String() string {
	effects := m.capabilities.Elements()
	names := make([]string, len(effects))
	for i, e := range effects {
		names[i] = e.String()
	}
	return fmt.Sprintf("method[%s] %s (%s) -> %s", strings.Join(names, ", "), m.receiver, joinParams(m.inputs), m.output)
}

func transformParams(ps []CallableParameter, f func(AnyType) TransformAction) []CallableParameter {
	if ps == nil {
		return nil
	}
	out := make([]CallableParameter, len(ps))
	for i, p := range ps {
		out[i] = CallableParameter{Label: p.Label, Type: Transform(p.Type, f)}
	}
	return out
}

func joinParams(ps []CallableParameter) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}

func (LambdaType) isType() {}
func (MethodType) isType() {}
