package diag

import (
	"fmt"
	"strings"

	"valc/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Primary: primary, Message: msg}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

// String renders the diagnostic on one line per note, e.g.
//
//	1:4-9: ERROR SEM3001: conformance declaration in extension
func (d Diagnostic) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s %s: %s", d.Primary, d.Severity, d.Code, d.Message)
	for _, n := range d.Notes {
		fmt.Fprintf(&sb, "\n  %s: note: %s", n.Span, n.Msg)
	}
	return sb.String()
}
