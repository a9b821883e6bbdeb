package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"

	"valc/internal/driver"
)

func TestApplyEventTracksPrograms(t *testing.T) {
	m := NewProgressModel("lowering", []string{"a.valp", "b.valp"}, nil).(*progressModel)

	steps := []struct {
		ev       driver.Event
		status   string
		fraction float64
	}{
		{driver.Event{Name: "a.valp", Stage: driver.StageLower, Status: driver.StatusWorking}, "lowering", 0.2},
		{driver.Event{Name: "b.valp", Stage: driver.StageLower, Status: driver.StatusCached}, "cached", 0.7},
		{driver.Event{Name: "a.valp", Stage: driver.StageLower, Status: driver.StatusDone, Elapsed: 3 * time.Millisecond}, "done", 1},
		{driver.Event{Name: "unknown", Status: driver.StatusError}, "done", 1},
	}
	for _, s := range steps {
		m.applyEvent(s.ev)
		idx, ok := m.index[s.ev.Name]
		if !ok {
			idx = 0
		}
		if got := m.items[idx].status; got != s.status {
			t.Errorf("after %+v: status = %q, want %q", s.ev, got, s.status)
		}
		if got := m.fraction(); got < s.fraction-1e-9 || got > s.fraction+1e-9 {
			t.Errorf("after %+v: fraction = %v, want %v", s.ev, got, s.fraction)
		}
	}

	view := m.View()
	if !strings.Contains(view, "[2/2]") || !strings.Contains(view, "(3ms)") {
		t.Errorf("view:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"programs/long-name.valp", 10, "program..."},
		{"abcdef", 3, "abc"},
		{"anything", 0, "anything"},
		{"日本語のファイル", 9, "日本語..."},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.width)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
		if tt.width > 0 && runewidth.StringWidth(got) > tt.width {
			t.Errorf("truncate(%q, %d) is %d columns wide", tt.in, tt.width, runewidth.StringWidth(got))
		}
	}
}
