package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"valc/internal/driver"
	"valc/internal/ui"
)

type lowerOutcome struct {
	results []driver.Result
	err     error
}

// runLowerWithUI runs LowerAll while a progress model draws its events on
// stderr. Quitting the UI early does not stop the lowering.
func runLowerWithUI(ctx context.Context, title string, inputs []driver.Input, opts driver.Options) ([]driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan lowerOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		results, err := driver.LowerAll(ctx, inputs, opts)
		close(events)
		outcomeCh <- lowerOutcome{results: results, err: err}
	}()

	names := make([]string, len(inputs))
	for i, in := range inputs {
		names[i] = in.Name
	}
	model := ui.NewProgressModel(title, names, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// drain so workers never block on a UI that is gone
	for range events {
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
