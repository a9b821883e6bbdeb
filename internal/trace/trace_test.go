package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestStartSpanNestsUnderCurrent(t *testing.T) {
	ring := NewRingTracer(16, LevelDebug)
	ctx := WithTracer(context.Background(), ring)

	outer, ctx := StartSpan(ctx, ScopePass, "lower")
	inner, _ := StartSpan(ctx, ScopeModule, "module:Main")
	inner.WithExtra("functions", "2").End("")
	outer.End("done")

	evs := ring.Snapshot()
	if len(evs) != 4 {
		t.Fatalf("got %d events, want 4", len(evs))
	}
	if evs[1].Kind != KindSpanBegin || evs[1].ParentID != outer.ID() {
		t.Errorf("inner begin = %+v, want parent %d", evs[1], outer.ID())
	}
	if evs[2].Extra["functions"] != "2" {
		t.Errorf("inner end extra = %v", evs[2].Extra)
	}
	if evs[3].Kind != KindSpanEnd || evs[3].Detail != "done" || evs[3].ParentID != 0 {
		t.Errorf("outer end = %+v", evs[3])
	}
	for i := 1; i < len(evs); i++ {
		if evs[i].Seq <= evs[i-1].Seq {
			t.Errorf("sequence not increasing at %d", i)
		}
	}
}

func TestLevelFiltersScopes(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		emit  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeModule, false},
		{LevelDetail, ScopeModule, true},
		{LevelDetail, ScopeFunction, false},
		{LevelDebug, ScopeFunction, true},
	}
	for _, tt := range tests {
		t.Run(tt.level.String()+"/"+tt.scope.String(), func(t *testing.T) {
			ring := NewRingTracer(8, tt.level)
			span, _ := StartSpan(WithTracer(context.Background(), ring), tt.scope, "x")
			span.End("")
			if got := len(ring.Snapshot()) == 2; got != tt.emit {
				t.Errorf("emitted = %v, want %v", got, tt.emit)
			}
			if (span.ID() != 0) != tt.emit {
				t.Errorf("span id = %d", span.ID())
			}
		})
	}
}

func TestRingKeepsNewest(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		ring.Emit(&Event{Kind: KindPoint, Scope: ScopeDriver, Name: name})
	}
	var names []string
	for _, ev := range ring.Snapshot() {
		names = append(names, ev.Name)
	}
	if got := strings.Join(names, ""); got != "cde" {
		t.Fatalf("snapshot = %q, want %q", got, "cde")
	}
}

func TestFormatEvent(t *testing.T) {
	ev := Event{
		Time:   processStart.Add(1500 * time.Microsecond),
		Kind:   KindSpanEnd,
		Scope:  ScopeModule,
		SpanID: 7,
		Name:   "module:Main",
		Detail: "ok",
		Extra:  map[string]string{"b": "2", "a": "1"},
	}

	text := string(FormatEvent(ev, FormatText))
	if want := "[    1.500ms]     ← module:Main (ok) {a=1, b=2}\n"; text != want {
		t.Errorf("text = %q, want %q", text, want)
	}

	var decoded map[string]any
	line := FormatEvent(ev, FormatNDJSON)
	if !bytes.HasSuffix(line, []byte("\n")) {
		t.Fatalf("ndjson line %q is not newline terminated", line)
	}
	if err := json.Unmarshal(line, &decoded); err != nil {
		t.Fatalf("ndjson: %v", err)
	}
	if decoded["kind"] != "end" || decoded["scope"] != "module" || decoded["span_id"] != float64(7) {
		t.Errorf("ndjson = %v", decoded)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatAuto, "TEXT": FormatText, "ndjson": FormatNDJSON} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("chrome"); err == nil {
		t.Error("ParseFormat(chrome) succeeded")
	}
}

func TestStreamTracerBuffersUntilFlush(t *testing.T) {
	var out bytes.Buffer
	stream := NewStreamTracer(&out, LevelPhase, FormatNDJSON)
	ctx := WithTracer(context.Background(), stream)

	span, ctx := StartSpan(ctx, ScopePass, "program:a")
	Point(ctx, ScopePass, "cache", "read-only")
	Point(ctx, ScopeFunction, "ignored", "")
	span.End("")
	if out.Len() != 0 {
		t.Fatalf("wrote before Flush: %q", out.String())
	}
	if err := stream.Close(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), out.String())
	}
	var point jsonEvent
	if err := json.Unmarshal([]byte(lines[1]), &point); err != nil {
		t.Fatal(err)
	}
	if point.Kind != "point" || point.Detail != "read-only" || point.ParentID != span.ID() {
		t.Errorf("point = %+v", point)
	}
}

func TestNewPicksSinks(t *testing.T) {
	off, err := New(Config{Level: LevelOff, Mode: ModeStream})
	if err != nil || off.Enabled() {
		t.Fatalf("off: %v %v", off, err)
	}

	ring, err := New(Config{Level: LevelDebug, Mode: ModeRing, RingSize: 2})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := ring.(*RingTracer); !ok {
		t.Errorf("ring mode built %T", ring)
	}

	var out bytes.Buffer
	both, err := New(Config{Level: LevelDebug, Mode: ModeBoth, Output: &out})
	if err != nil {
		t.Fatal(err)
	}
	multi, ok := both.(*MultiTracer)
	if !ok {
		t.Fatalf("both mode built %T", both)
	}
	span, _ := StartSpan(WithTracer(context.Background(), both), ScopeFunction, "fn:f")
	span.End("")
	if err := both.Flush(); err != nil {
		t.Fatal(err)
	}
	r, ok := multi.Ring()
	if !ok || len(r.Snapshot()) != 2 || !strings.Contains(out.String(), "fn:f") {
		t.Errorf("ring=%v stream=%q", ok, out.String())
	}

	if _, err := New(Config{Level: LevelDebug}); err == nil {
		t.Error("New without a mode succeeded")
	}
}

func TestParseNames(t *testing.T) {
	if l, err := ParseLevel("Detail"); err != nil || l != LevelDetail {
		t.Errorf("ParseLevel(Detail) = %v, %v", l, err)
	}
	if m, err := ParseMode("BOTH"); err != nil || m != ModeBoth {
		t.Errorf("ParseMode(BOTH) = %v, %v", m, err)
	}
	_, err := ParseLevel("loud")
	if err == nil || !strings.Contains(err.Error(), "off|error|phase|detail|debug") {
		t.Errorf("ParseLevel(loud) error = %v", err)
	}
	if Scope(9).String() != "unknown" || KindHeartbeat.String() != "heartbeat" {
		t.Error("names")
	}
}

func TestHeartbeat(t *testing.T) {
	ring := NewRingTracer(64, LevelError)
	h := StartHeartbeat(ring, time.Millisecond)
	deadline := time.Now().Add(5 * time.Second)
	for len(ring.Snapshot()) < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	h.Stop()
	h.Stop()

	evs := ring.Snapshot()
	if len(evs) < 2 || evs[0].Kind != KindHeartbeat || evs[0].Detail != "#1" {
		t.Fatalf("events = %+v", evs)
	}
	if StartHeartbeat(Nop, time.Millisecond) != nil {
		t.Error("heartbeat started on a disabled tracer")
	}
}
