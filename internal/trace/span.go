package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var seq, spanIDs atomic.Uint64

// Span is an open interval of work. A span that is not traced has ID 0 and
// all of its methods are no-ops.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

// Begin starts a span under parent (0 for a root) and emits its begin
// event when t lets scope through.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return &Span{}
	}
	s := &Span{
		tracer:  t,
		id:      spanIDs.Add(1),
		parent:  parent,
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	s.emit(KindSpanBegin, s.started, "")
	return s
}

func (s *Span) emit(kind Kind, at time.Time, detail string) {
	ev := Event{
		Time:     at,
		Seq:      seq.Add(1),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Name:     s.name,
		Detail:   detail,
	}
	if kind == KindSpanEnd {
		ev.Extra = s.extra
	}
	s.tracer.Emit(&ev)
}

// End emits the end event with detail and the extras collected so far,
// and returns how long the span was open.
func (s *Span) End(detail string) time.Duration {
	if s.ID() == 0 {
		return 0
	}
	now := time.Now()
	s.emit(KindSpanEnd, now, detail)
	return now.Sub(s.started)
}

// WithExtra records key=value for the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s.ID() == 0 {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

type (
	tracerKey struct{}
	spanKey   struct{}
)

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}

// WithTracer attaches t to ctx. A nil t detaches tracing.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// CurrentSpan returns the id of the span ctx runs under, 0 at the root.
func CurrentSpan(ctx context.Context) uint64 {
	if ctx != nil {
		if id, ok := ctx.Value(spanKey{}).(uint64); ok {
			return id
		}
	}
	return 0
}

// StartSpan begins a span under the one recorded in ctx and returns a
// context in which the new span is current.
func StartSpan(ctx context.Context, scope Scope, name string) (*Span, context.Context) {
	span := Begin(FromContext(ctx), scope, name, CurrentSpan(ctx))
	if span.ID() == 0 {
		return span, ctx
	}
	return span, context.WithValue(ctx, spanKey{}, span.ID())
}

// Point emits an instant event under the current span.
func Point(ctx context.Context, scope Scope, name, detail string) {
	t := FromContext(ctx)
	if !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      seq.Add(1),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: CurrentSpan(ctx),
		Name:     name,
		Detail:   detail,
	})
}
