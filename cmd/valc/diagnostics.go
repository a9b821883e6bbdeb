package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"valc/internal/diag"
	"valc/internal/program"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
)

// printDiagnostics writes bag sorted and without repeats, one diagnostic
// per line, prefixed by name.
func printDiagnostics(out io.Writer, name string, bag *diag.Bag) error {
	if bag == nil {
		return nil
	}
	bag.Sort()
	bag.Dedup()
	for _, d := range bag.Items() {
		c := infoColor
		switch d.Severity {
		case diag.SevError:
			c = errorColor
		case diag.SevWarning:
			c = warningColor
		}
		if _, err := fmt.Fprintf(out, "%s:%s\n", name, c.Sprint(d.String())); err != nil {
			return err
		}
	}
	return nil
}

// readProgram decodes the checked program snapshot at path.
func readProgram(path string) (*program.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := program.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
