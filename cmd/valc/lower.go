package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"valc/internal/driver"
	"valc/internal/ir"
)

var lowerCmd = &cobra.Command{
	Use:   "lower [flags] <snapshot>...",
	Short: "Lower checked program snapshots to IR",
	Long: `Lower decodes checked program snapshots, lowers each of their modules
concurrently and prints the IR text, or writes IR snapshots with --emit snapshot.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLower,
}

func init() {
	lowerCmd.Flags().Int("jobs", 0, "max programs lowered in parallel (0=auto)")
	lowerCmd.Flags().String("out", "", "directory for lowered modules (default: stdout for text)")
	lowerCmd.Flags().String("emit", "text", "output kind (text|snapshot)")
	lowerCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	lowerCmd.Flags().Bool("timings", false, "report per-program phase timings")
	lowerCmd.Flags().Bool("no-cache", false, "do not read or write the snapshot cache")
	lowerCmd.Flags().Bool("clear-cache", false, "drop every cached entry before lowering")
}

func runLower(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	jobs, err := jobsSetting(cmd)
	if err != nil {
		return err
	}
	var fileEmit, fileOut string
	if manifest != nil {
		fileEmit, fileOut = manifest.Config.Lower.Emit, manifest.outputDir()
	}
	emitValue, err := stringSetting(cmd.Flags(), "emit", fileEmit)
	if err != nil {
		return err
	}
	emit, err := readEmitMode(emitValue)
	if err != nil {
		return err
	}
	outDir, err := stringSetting(cmd.Flags(), "out", fileOut)
	if err != nil {
		return err
	}
	if emit == emitSnapshot && outDir == "" {
		outDir = "."
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	timings, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return err
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return err
	}
	clearCache, err := cmd.Flags().GetBool("clear-cache")
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	inputs := make([]driver.Input, 0, len(args))
	for _, path := range args {
		p, err := readProgram(path)
		if err != nil {
			return err
		}
		inputs = append(inputs, driver.Input{Name: path, Program: p})
	}

	opts := driver.Options{Jobs: jobs, MaxDiagnostics: maxDiagnostics, Timings: timings}
	if !noCache {
		opts.Cache = openCache(cmd.ErrOrStderr(), clearCache)
	}

	var results []driver.Result
	if shouldUseTUI(mode, os.Stderr, emit == emitText && outDir == "") {
		results, err = runLowerWithUI(cmd.Context(), "valc lower", inputs, opts)
	} else {
		results, err = driver.LowerAll(cmd.Context(), inputs, opts)
	}
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if err := printDiagnostics(cmd.ErrOrStderr(), r.Name, r.Bag); err != nil {
			return err
		}
		if r.Err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", r.Name, r.Err)
			continue
		}
		for _, m := range r.Modules {
			if err := writeModule(cmd.OutOrStdout(), outDir, emit, m); err != nil {
				return err
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d programs failed to lower", failed, len(results))
	}
	return nil
}

// openCache returns the user's snapshot cache, or nil when it cannot be
// opened.
func openCache(errOut io.Writer, drop bool) *driver.SnapshotCache {
	cache, err := driver.OpenSnapshotCache("valc")
	if err != nil {
		fmt.Fprintf(errOut, "cache disabled: %v\n", err)
		return nil
	}
	if drop {
		if err := cache.DropAll(); err != nil {
			fmt.Fprintf(errOut, "cache disabled: %v\n", err)
			return nil
		}
	}
	return cache
}

// writeModule prints m's text to out, or writes it under dir as
// <module>.ir (text) or <module>.ir.mp (snapshot).
func writeModule(out io.Writer, dir string, emit emitMode, m *ir.Module) error {
	if emit == emitText && dir == "" {
		if err := m.Render(out); err != nil {
			return err
		}
		_, err := fmt.Fprintln(out)
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	var (
		data []byte
		ext  string
	)
	switch emit {
	case emitSnapshot:
		encoded, err := ir.Encode(m)
		if err != nil {
			return fmt.Errorf("module %s: %w", m.Name, err)
		}
		data, ext = encoded, ".ir.mp"
	case emitText:
		data, ext = []byte(m.String()+"\n"), ".ir"
	default:
		return errors.New("unknown emit mode")
	}
	return os.WriteFile(filepath.Join(dir, moduleFileName(m.Name)+ext), data, 0o644)
}

func moduleFileName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		return "module"
	}
	return name
}
