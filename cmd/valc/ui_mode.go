package main

import (
	"fmt"
	"os"
	"strings"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// shouldUseTUI decides whether progress is drawn on out. In auto mode that
// takes a terminal that is not dumb, and IR text must not be going there.
func shouldUseTUI(mode uiMode, out *os.File, printsIR bool) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return !printsIR && isTerminal(out) && os.Getenv("TERM") != "dumb"
	}
}

type emitMode string

const (
	emitText     emitMode = "text"
	emitSnapshot emitMode = "snapshot"
)

func readEmitMode(value string) (emitMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "text":
		return emitText, nil
	case "snapshot":
		return emitSnapshot, nil
	default:
		return "", fmt.Errorf("invalid emit mode %q (expected text|snapshot)", value)
	}
}
