package observ

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestTimerReport(t *testing.T) {
	timer := NewTimer()
	if err := timer.Time("decode", func() error { return nil }); err != nil {
		t.Fatal(err)
	}
	boom := errors.New("boom")
	if err := timer.Time("lower", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("Time returned %v, want %v", err, boom)
	}
	timer.End(42, "ignored")

	report := timer.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("phases = %+v", report.Phases)
	}
	if report.Phases[0].Name != "decode" || report.Phases[0].Note != "" {
		t.Errorf("phase 0 = %+v", report.Phases[0])
	}
	if report.Phases[1].Note != "boom" {
		t.Errorf("phase 1 note = %q, want boom", report.Phases[1].Note)
	}
	summary := timer.Summary()
	for _, want := range []string{"timings:\n", "decode", "lower", "// boom", "total"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary lacks %q:\n%s", want, summary)
		}
	}
}

func TestTimerConcurrentPhases(t *testing.T) {
	timer := NewTimer()
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			timer.End(timer.Begin("module"), "")
		}()
	}
	wg.Wait()
	if got := len(timer.Report().Phases); got != 16 {
		t.Fatalf("recorded %d phases, want 16", got)
	}
}

func TestEmptyTimerReport(t *testing.T) {
	if r := NewTimer().Report(); r.TotalMS != 0 || r.Phases != nil {
		t.Fatalf("report = %+v", r)
	}
}
