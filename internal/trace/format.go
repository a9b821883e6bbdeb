package trace

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// Format represents the output format for trace events.
type Format uint8

const (
	FormatAuto   Format = iota // pick by output file extension
	FormatText                 // human-readable text
	FormatNDJSON               // newline-delimited JSON
)

// ParseFormat converts a string to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
}

// FormatEvent renders ev as one newline-terminated line.
func FormatEvent(ev Event, format Format) []byte {
	if format == FormatNDJSON {
		return formatNDJSON(ev)
	}
	return formatText(ev)
}

type jsonEvent struct {
	Time     string            `json:"time"`
	Seq      uint64            `json:"seq"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	SpanID   uint64            `json:"span_id"`
	ParentID uint64            `json:"parent_id,omitempty"`
	Name     string            `json:"name"`
	Detail   string            `json:"detail,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

func formatNDJSON(ev Event) []byte {
	data, err := json.Marshal(jsonEvent{
		Time:     ev.Time.Format(time.RFC3339Nano),
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		Name:     ev.Name,
		Detail:   ev.Detail,
		Extra:    ev.Extra,
	})
	if err != nil {
		return nil
	}
	return append(data, '\n')
}

var processStart = time.Now()

var kindMarks = [...]string{KindSpanBegin: "→ ", KindSpanEnd: "← ", KindPoint: "• ", KindHeartbeat: "♡ "}

// formatText writes
//
//	[elapsed] <indent><mark> name (detail) {k=v, ...}
//
// indenting two spaces per scope below the driver.
func formatText(ev Event) []byte {
	var sb strings.Builder
	ms := float64(ev.Time.Sub(processStart).Microseconds()) / 1000
	fmt.Fprintf(&sb, "[%9.3fms] ", ms)
	if ev.Scope > ScopeDriver {
		sb.WriteString(strings.Repeat("  ", int(ev.Scope-ScopeDriver)))
	}
	if int(ev.Kind) < len(kindMarks) {
		sb.WriteString(kindMarks[ev.Kind])
	}
	sb.WriteString(ev.Name)
	if ev.Detail != "" {
		fmt.Fprintf(&sb, " (%s)", ev.Detail)
	}
	if len(ev.Extra) > 0 {
		pairs := make([]string, 0, len(ev.Extra))
		for _, k := range slices.Sorted(maps.Keys(ev.Extra)) {
			pairs = append(pairs, k+"="+ev.Extra[k])
		}
		fmt.Fprintf(&sb, " {%s}", strings.Join(pairs, ", "))
	}
	sb.WriteByte('\n')
	return []byte(sb.String())
}
