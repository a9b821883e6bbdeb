package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"valc/internal/diag"
	"valc/internal/lower"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <snapshot>...",
	Short: "Validate program snapshots and the IR lowered from them",
	Long: `Check runs AST form validation on every module of each snapshot, lowers it
and validates the resulting IR. Nothing is written; diagnostics are printed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "diagnostic output format (pretty|json)")
	checkCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
}

type jsonDiagnostic struct {
	File     string   `json:"file"`
	Severity string   `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Span     string   `json:"span"`
	Notes    []string `json:"notes,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	strict, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	failed := 0
	report := []jsonDiagnostic{}
	for _, path := range args {
		bag, ok, err := checkSnapshot(cmd, path, maxDiagnostics)
		if err != nil {
			return err
		}
		if !ok || (strict && hasWarnings(bag)) {
			failed++
		}
		if format == "json" {
			report = append(report, toJSON(path, bag)...)
			continue
		}
		if err := printDiagnostics(cmd.OutOrStdout(), path, bag); err != nil {
			return err
		}
	}
	if format == "json" {
		if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d snapshots have errors", failed, len(args))
	}
	return nil
}

// checkSnapshot lowers every module of the snapshot at path. ok is false
// when any module is malformed or lowers to invalid IR.
func checkSnapshot(cmd *cobra.Command, path string, maxDiagnostics int) (*diag.Bag, bool, error) {
	p, err := readProgram(path)
	if err != nil {
		return nil, false, err
	}
	bag := diag.NewBag(maxDiagnostics)
	ok := true
	for _, mod := range p.AST.Modules {
		_, modBag, err := lower.LowerModule(cmd.Context(), p, mod)
		bag.Merge(modBag)
		switch {
		case err == nil:
		case cmd.Context().Err() != nil:
			return nil, false, err
		default:
			ok = false
		}
	}
	return bag, ok && !bag.HasErrors(), nil
}

func hasWarnings(bag *diag.Bag) bool {
	for _, d := range bag.Items() {
		if d.Severity == diag.SevWarning {
			return true
		}
	}
	return false
}

func toJSON(file string, bag *diag.Bag) []jsonDiagnostic {
	bag.Sort()
	bag.Dedup()
	items := bag.Items()
	out := make([]jsonDiagnostic, 0, len(items))
	for _, d := range items {
		jd := jsonDiagnostic{
			File:     file,
			Severity: strings.ToLower(d.Severity.String()),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Span:     d.Primary.String(),
		}
		for _, n := range d.Notes {
			jd.Notes = append(jd.Notes, n.Msg)
		}
		out = append(out, jd)
	}
	return out
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
