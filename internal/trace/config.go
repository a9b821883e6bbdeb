package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

const defaultRingSize = 4096

// StorageMode selects where events go.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // written as they happen
	ModeRing                          // kept in memory
	ModeBoth
)

var modeNames = [...]string{ModeStream: "stream", ModeRing: "ring", ModeBoth: "both"}

func (m StorageMode) String() string { return nameOf(modeNames[:], m) }

// ParseMode converts a string to StorageMode.
func ParseMode(s string) (StorageMode, error) {
	return parseName[StorageMode]("mode", modeNames[:], s)
}

// Config holds tracer configuration.
type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format        // FormatAuto picks by OutputPath's extension
	Output     io.Writer     // stream destination; OutputPath when nil
	OutputPath string        // "" or "-" is stderr
	RingSize   int           // defaults to 4096
	Heartbeat  time.Duration // 0 disables
}

// New builds the tracer cfg describes. LevelOff gives Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	var ring *RingTracer
	if cfg.Mode == ModeRing || cfg.Mode == ModeBoth {
		ring = NewRingTracer(cfg.RingSize, cfg.Level)
	}
	var stream *StreamTracer
	if cfg.Mode == ModeStream || cfg.Mode == ModeBoth {
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		stream = NewStreamTracer(w, cfg.Level, cfg.resolvedFormat())
	}

	switch {
	case ring != nil && stream != nil:
		return NewMultiTracer(cfg.Level, stream, ring), nil
	case ring != nil:
		return ring, nil
	case stream != nil:
		return stream, nil
	}
	return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
}

func (cfg Config) resolvedFormat() Format {
	if cfg.Format != FormatAuto {
		return cfg.Format
	}
	switch filepath.Ext(cfg.OutputPath) {
	case ".ndjson", ".json":
		return FormatNDJSON
	}
	return FormatText
}

func openOutput(cfg Config) (io.Writer, error) {
	switch {
	case cfg.Output != nil:
		return cfg.Output, nil
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		return os.Stderr, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}
