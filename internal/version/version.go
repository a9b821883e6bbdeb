package version

import (
	"strings"

	"github.com/fatih/color"
)

// Version information for the valc CLI.
// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var partColors = []*color.Color{
	color.New(color.FgYellow, color.Bold),
	color.New(color.FgGreen, color.Bold),
	color.New(color.FgBlue, color.Bold),
}

// Colored returns v with its major, minor and patch numbers highlighted.
// A pre-release or build suffix is left plain. Colors are dropped when
// color.NoColor is set.
func Colored(v string) string {
	core, suffix := v, ""
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		core, suffix = v[:i], v[i:]
	}
	parts := strings.Split(core, ".")
	if len(parts) != len(partColors) {
		return v
	}
	for i, p := range parts {
		parts[i] = partColors[i].Sprint(p)
	}
	return strings.Join(parts, ".") + suffix
}
