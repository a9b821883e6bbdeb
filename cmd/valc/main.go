// Package main implements the valc CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"valc/internal/version"
)

var rootCmd = &cobra.Command{
	Use:               "valc",
	Short:             "Val compiler middle end",
	Long:              `valc lowers checked Val programs to the basic-block IR and inspects the result`,
	SilenceUsage:      true,
	PersistentPreRunE: prepareRun,
}

// manifest is the valc.toml in effect, nil when there is none.
var manifest *projectManifest

var traceCleanup = func() {}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(lowerCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("config", "", "path to valc.toml (default: search upward from the working directory)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics kept per program")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (\"-\" for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "events kept in ring mode")
	rootCmd.PersistentFlags().Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval (0 disables)")
}

// main executes the root command. Interrupts cancel the command's context.
// If command execution returns an error, the process exits with status code 1.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	traceCleanup()
	if err != nil {
		os.Exit(1)
	}
}

// prepareRun loads the project config and the tracer before any command.
func prepareRun(cmd *cobra.Command, _ []string) error {
	colorMode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch strings.ToLower(colorMode) {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorMode)
	}

	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	m, _, err := loadProjectManifest(".", configPath)
	if err != nil {
		return err
	}
	manifest = m

	cleanup, err := setupTracing(cmd, manifest)
	if err != nil {
		return err
	}
	traceCleanup = cleanup
	return nil
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
