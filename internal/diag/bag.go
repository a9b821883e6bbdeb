package diag

import (
	"sort"
	"sync"
)

// Bag accumulates diagnostics up to a limit. It is safe for concurrent use
// so one bag can collect findings from modules lowered in parallel.
type Bag struct {
	mu    sync.Mutex
	items []Diagnostic
	max   int
}

// NewBag returns a bag holding at most max diagnostics; max <= 0 means no limit.
func NewBag(max int) *Bag {
	return &Bag{max: max}
}

// Add stores d and reports whether it fit under the limit.
func (b *Bag) Add(d Diagnostic) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.max > 0 && len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) HasErrors() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.items {
		if b.items[i].Severity.AtLeast(SevError) {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Items returns a copy of the stored diagnostics.
func (b *Bag) Items() []Diagnostic {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Diagnostic(nil), b.items...)
}

// Merge appends every diagnostic of other, growing the limit if needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil || other == b {
		return
	}
	items := other.Items()
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.max > 0 && len(b.items)+len(items) > b.max {
		b.max = len(b.items) + len(items)
	}
	b.items = append(b.items, items...)
}

// Sort orders by file, start, end, severity (desc), then code.
func (b *Bag) Sort() {
	b.mu.Lock()
	defer b.mu.Unlock()
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}

// Dedup drops diagnostics repeating an earlier code, span and message.
func (b *Bag) Dedup() {
	type key struct {
		code Code
		span string
		msg  string
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	seen := make(map[key]bool, len(b.items))
	kept := b.items[:0]
	for _, d := range b.items {
		k := key{d.Code, d.Primary.String(), d.Message}
		if seen[k] {
			continue
		}
		seen[k] = true
		kept = append(kept, d)
	}
	b.items = kept
}
