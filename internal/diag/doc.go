// Package diag defines the user-facing diagnostic model of the IR core.
//
// Only recoverable findings are diagnostics: malformed declarations found by
// form validation, and source constructs the lowering pass does not support.
// Broken invariants inside the core are programming errors and panic instead.
//
// Producers report through a Reporter; BagReporter collects into a Bag which
// the driver sorts and deduplicates before printing.
package diag
