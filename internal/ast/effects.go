package ast

import "strings"

// AccessEffect is the effect a receiver or projection has on the accessed value.
type AccessEffect uint8

const (
	EffectLet AccessEffect = iota
	EffectInout
	EffectSet
	EffectSink
	EffectYielded
)

func (e AccessEffect) String() string {
	switch e {
	case EffectLet:
		return "let"
	case EffectInout:
		return "inout"
	case EffectSet:
		return "set"
	case EffectSink:
		return "sink"
	case EffectYielded:
		return "yielded"
	default:
		return "?"
	}
}

// AccessEffectSet is a set of access effects, e.g. the variants a method
// bundle declares.
type AccessEffectSet uint8

func EffectSetOf(effects ...AccessEffect) AccessEffectSet {
	var s AccessEffectSet
	for _, e := range effects {
		s |= 1 << e
	}
	return s
}

func (s AccessEffectSet) Contains(e AccessEffect) bool { return s&(1<<e) != 0 }
func (s AccessEffectSet) IsEmpty() bool                { return s == 0 }

// Elements lists the members of s in effect order.
func (s AccessEffectSet) Elements() []AccessEffect {
	var out []AccessEffect
	for e := EffectLet; e <= EffectYielded; e++ {
		if s.Contains(e) {
			out = append(out, e)
		}
	}
	return out
}

func (s AccessEffectSet) String() string {
	parts := make([]string, 0, 5)
	for _, e := range s.Elements() {
		parts = append(parts, e.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// PassingConvention is how an argument is passed to a parameter.
type PassingConvention uint8

const (
	ConventionLet PassingConvention = iota
	ConventionInout
	ConventionSink
	ConventionSet
	ConventionYielded
)

func (c PassingConvention) String() string {
	switch c {
	case ConventionLet:
		return "let"
	case ConventionInout:
		return "inout"
	case ConventionSink:
		return "sink"
	case ConventionSet:
		return "set"
	case ConventionYielded:
		return "yielded"
	default:
		return "?"
	}
}

// ConventionOf returns the passing convention a receiver with effect e gets.
func ConventionOf(e AccessEffect) PassingConvention {
	switch e {
	case EffectInout:
		return ConventionInout
	case EffectSet:
		return ConventionSet
	case EffectSink:
		return ConventionSink
	case EffectYielded:
		return ConventionYielded
	default:
		return ConventionLet
	}
}

type AccessModifier uint8

const (
	AccessDefault AccessModifier = iota
	AccessPrivate
	AccessPublic
)
