// Package trace records what the lowering pipeline is doing: which
// programs, modules and functions are processed, in what nesting and for
// how long.
//
// A Tracer is attached to a context and spans nest through it:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span, ctx := trace.StartSpan(ctx, trace.ScopeModule, "module:Main")
//	defer span.End("")
//
// The Level decides the finest Scope that is recorded (phase: driver and
// pass; detail: + modules; debug: + functions). StreamTracer writes text
// or NDJSON as events happen, RingTracer keeps the newest events for a
// dump after a crash, and MultiTracer does both.
//
// Trace output never feeds into rendered IR.
package trace
