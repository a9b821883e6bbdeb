package diag

import "valc/internal/source"

// Reporter receives diagnostics from a phase without tying it to storage.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note)
}

// BagReporter adds reported diagnostics to Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary, Notes: notes})
}

// ReportError is a shortcut for SevError diagnostics.
func ReportError(r Reporter, code Code, primary source.Span, msg string, notes ...Note) {
	if r != nil {
		r.Report(code, SevError, primary, msg, notes)
	}
}

// ReportWarning is a shortcut for SevWarning diagnostics.
func ReportWarning(r Reporter, code Code, primary source.Span, msg string, notes ...Note) {
	if r != nil {
		r.Report(code, SevWarning, primary, msg, notes)
	}
}
