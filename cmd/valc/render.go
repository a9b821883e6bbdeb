package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"valc/internal/ir"
)

var renderCmd = &cobra.Command{
	Use:   "render <module.ir.mp>...",
	Short: "Print IR snapshots as text",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRender,
}

func runRender(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for i, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		m, err := ir.Decode(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if i > 0 {
			if _, err := fmt.Fprintln(out); err != nil {
				return err
			}
		}
		if err := m.Render(out); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out); err != nil {
			return err
		}
	}
	return nil
}
