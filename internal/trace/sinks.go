package trace

import (
	"bufio"
	"errors"
	"io"
	"os"
	"sync"
)

// Tracer receives trace events. Implementations are safe for concurrent
// use.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error // flushes first
	Level() Level
	Enabled() bool
}

// gate holds the level shared by every tracer implementation.
type gate struct{ level Level }

func (g gate) Level() Level  { return g.level }
func (g gate) Enabled() bool { return g.level > LevelOff }
func (g gate) admits(ev *Event) bool {
	return ev.Kind == KindHeartbeat || g.level.ShouldEmit(ev.Scope)
}

type nopTracer struct{ gate }

func (nopTracer) Emit(*Event)  {}
func (nopTracer) Flush() error { return nil }
func (nopTracer) Close() error { return nil }

// Nop drops everything. It is what FromContext returns when no tracer is
// attached.
var Nop Tracer = nopTracer{}

// StreamTracer formats each event as it arrives and writes it through a
// buffer.
type StreamTracer struct {
	gate
	mu     sync.Mutex
	buf    *bufio.Writer
	dst    io.Writer
	format Format
}

// NewStreamTracer creates a StreamTracer writing to w. Close closes w
// unless it is stdout or stderr.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{gate: gate{level}, buf: bufio.NewWriter(w), dst: w, format: format}
}

func (t *StreamTracer) Emit(ev *Event) {
	if !t.admits(ev) {
		return
	}
	line := FormatEvent(*ev, t.format)
	t.mu.Lock()
	defer t.mu.Unlock()
	// trace output never fails the traced work
	_, _ = t.buf.Write(line)
}

func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.Flush()
}

func (t *StreamTracer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	if t.dst == os.Stdout || t.dst == os.Stderr {
		return nil
	}
	if c, ok := t.dst.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// RingTracer keeps the newest events in memory for crash dumps.
type RingTracer struct {
	gate
	mu     sync.Mutex
	events []Event
	total  uint64 // events ever stored
}

// NewRingTracer creates a RingTracer holding up to capacity events
// (4096 when capacity is not positive).
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = defaultRingSize
	}
	return &RingTracer{gate: gate{level}, events: make([]Event, capacity)}
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.admits(ev) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events[t.total%uint64(len(t.events))] = *ev
	t.total++
}

// Snapshot returns the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	size := uint64(len(t.events))
	if t.total <= size {
		return append([]Event(nil), t.events[:t.total]...)
	}
	start := t.total % size
	return append(append(make([]Event, 0, size), t.events[start:]...), t.events[:start]...)
}

// Dump writes the stored events to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }
func (t *RingTracer) Close() error { return nil }

// MultiTracer hands every event to each of its tracers.
type MultiTracer struct {
	gate
	tracers []Tracer
}

func NewMultiTracer(level Level, tracers ...Tracer) *MultiTracer {
	return &MultiTracer{gate: gate{level}, tracers: tracers}
}

func (t *MultiTracer) Emit(ev *Event) {
	for _, tr := range t.tracers {
		cp := *ev
		tr.Emit(&cp)
	}
}

func (t *MultiTracer) Flush() error {
	var errs []error
	for _, tr := range t.tracers {
		errs = append(errs, tr.Flush())
	}
	return errors.Join(errs...)
}

func (t *MultiTracer) Close() error {
	var errs []error
	for _, tr := range t.tracers {
		errs = append(errs, tr.Close())
	}
	return errors.Join(errs...)
}

// Ring returns the first RingTracer among t's tracers.
func (t *MultiTracer) Ring() (*RingTracer, bool) {
	for _, tr := range t.tracers {
		if r, ok := tr.(*RingTracer); ok {
			return r, true
		}
	}
	return nil, false
}
