package trace

import (
	"fmt"
	"strings"
	"time"
)

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat
)

// Scope is the granularity of an event. Smaller values are coarser.
type Scope uint8

const (
	ScopeDriver   Scope = iota + 1 // one CLI invocation
	ScopePass                      // one program: fingerprint, lower, encode
	ScopeModule                    // one module declaration
	ScopeFunction                  // one lowered function
)

// Level controls which scopes reach a tracer.
type Level uint8

const (
	LevelOff    Level = iota // no tracing
	LevelError               // only crash dumps
	LevelPhase               // driver + pass boundaries
	LevelDetail              // + modules
	LevelDebug               // + functions
)

var (
	kindNames  = [...]string{KindSpanBegin: "begin", KindSpanEnd: "end", KindPoint: "point", KindHeartbeat: "heartbeat"}
	scopeNames = [...]string{ScopeDriver: "driver", ScopePass: "pass", ScopeModule: "module", ScopeFunction: "function"}
	levelNames = [...]string{LevelOff: "off", LevelError: "error", LevelPhase: "phase", LevelDetail: "detail", LevelDebug: "debug"}

	// finest scope each level lets through; 0 lets nothing through
	levelReach = [...]Scope{LevelPhase: ScopePass, LevelDetail: ScopeModule, LevelDebug: ScopeFunction}
)

func nameOf[T ~uint8](names []string, v T) string {
	if int(v) < len(names) && names[v] != "" {
		return names[v]
	}
	return "unknown"
}

// parseName finds s among names, ignoring case.
func parseName[T ~uint8](what string, names []string, s string) (T, error) {
	for i, n := range names {
		if n != "" && strings.EqualFold(n, s) {
			return T(i), nil
		}
	}
	return 0, fmt.Errorf("invalid trace %s: %q (expected: %s)", what, s, strings.Join(nonEmpty(names), "|"))
}

func nonEmpty(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}

func (k Kind) String() string  { return nameOf(kindNames[:], k) }
func (s Scope) String() string { return nameOf(scopeNames[:], s) }
func (l Level) String() string { return nameOf(levelNames[:], l) }

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	return parseName[Level]("level", levelNames[:], s)
}

// ShouldEmit reports whether events of scope pass a tracer at level l.
// LevelError lets no span through; it only keeps a ring for crash dumps.
func (l Level) ShouldEmit(scope Scope) bool {
	return int(l) < len(levelReach) && scope <= levelReach[l]
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time
	Seq      uint64 // process-wide, increasing
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for a root span
	Name     string // e.g. "lower-all", "module:Main", "fn:f"
	Detail   string
	Extra    map[string]string
}
