// Package source holds the source positions attached to AST nodes and
// diagnostics. Files themselves are loaded by the front end.
package source

import "fmt"

// FileID identifies a source file. Zero means "no file".
type FileID uint32

// Span is a half-open byte range [Start, End) in one file.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

// NoSpan is attached to synthesized nodes.
var NoSpan = Span{}

func (s Span) IsValid() bool { return s.File != 0 }

func (s Span) Empty() bool { return s.Start == s.End }

func (s Span) Len() uint32 { return s.End - s.Start }

func (s Span) String() string {
	if !s.IsValid() {
		return "<synthesized>"
	}
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover returns the smallest span containing both s and other. Spans from
// different files are not merged.
func (s Span) Cover(other Span) Span {
	if !s.IsValid() {
		return other
	}
	if s.File != other.File {
		return s
	}
	s.Start = min(s.Start, other.Start)
	s.End = max(s.End, other.End)
	return s
}
