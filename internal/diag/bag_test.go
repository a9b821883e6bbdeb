package diag

import (
	"testing"

	"valc/internal/source"
)

func TestBagLimitSortDedup(t *testing.T) {
	b := NewBag(3)
	r := BagReporter{Bag: b}
	ReportError(r, LowerUnsupported, source.Span{File: 1, Start: 9, End: 10}, "async")
	ReportWarning(r, SemaInfo, source.Span{File: 1, Start: 1, End: 2}, "info")
	ReportError(r, LowerUnsupported, source.Span{File: 1, Start: 9, End: 10}, "async")
	if b.Add(NewError(UnknownCode, source.NoSpan, "overflow")) {
		t.Fatalf("limit must reject a fourth diagnostic")
	}

	b.Sort()
	b.Dedup()
	items := b.Items()
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if items[0].Code != SemaInfo || items[1].Code != LowerUnsupported {
		t.Fatalf("unexpected order: %v", items)
	}
	if !b.HasErrors() {
		t.Fatalf("HasErrors = false")
	}
}

func TestBagMergeGrowsLimit(t *testing.T) {
	a, b := NewBag(1), NewBag(1)
	a.Add(NewError(LowerUnknownName, source.NoSpan, "x"))
	b.Add(NewError(LowerInvalidCallee, source.NoSpan, "y"))
	a.Merge(b)
	if a.Len() != 2 {
		t.Fatalf("len = %d", a.Len())
	}
}

func TestDiagnosticString(t *testing.T) {
	d := NewError(SemaUnexpectedConformance, source.Span{File: 1, Start: 4, End: 9}, "conformance declaration in extension").
		WithNote(source.Span{File: 1, Start: 0, End: 3}, "enclosing extension")
	want := "1:4-9: ERROR SEM3001: conformance declaration in extension\n  1:0-3: note: enclosing extension"
	if got := d.String(); got != want {
		t.Fatalf("String =\n%s\nwant\n%s", got, want)
	}
}
