package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"valc/internal/trace"
)

// ringTracer is the tracer's in-memory ring, if it keeps one. It is dumped
// on panic, and on exit in ring mode when --trace names an output.
var ringTracer *trace.RingTracer

// setupTracing inspects trace-related flags, with [trace] from the
// manifest filling in flags left unset, and initializes the tracer.
// It returns a cleanup function and an error if initialization fails.
func setupTracing(cmd *cobra.Command, m *projectManifest) (func(), error) {
	flags := cmd.Root().PersistentFlags()
	var file traceConfig
	if m != nil {
		file = m.Config.Trace
	}

	traceOutput, err := stringSetting(flags, "trace", file.Output)
	if err != nil {
		return nil, err
	}
	levelStr, err := stringSetting(flags, "trace-level", file.Level)
	if err != nil {
		return nil, err
	}
	modeStr, err := stringSetting(flags, "trace-mode", file.Mode)
	if err != nil {
		return nil, err
	}
	formatStr, err := flags.GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	ringSize, err := flags.GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	heartbeatInterval, err := flags.GetDuration("trace-heartbeat")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}
	// Output without a level means phase tracing.
	if level == trace.LevelOff {
		if traceOutput == "" {
			cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
			return func() {}, nil
		}
		level = trace.LevelPhase
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace mode: %w", err)
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, err
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: traceOutput,
		RingSize:   ringSize,
		Heartbeat:  heartbeatInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	switch tr := tracer.(type) {
	case *trace.RingTracer:
		ringTracer = tr
	case *trace.MultiTracer:
		ringTracer, _ = tr.Ring()
	}

	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)

	var heartbeat *trace.Heartbeat
	if heartbeatInterval > 0 {
		heartbeat = trace.StartHeartbeat(tracer, heartbeatInterval)
	}

	cleanup := func() {
		if heartbeat != nil {
			heartbeat.Stop()
		}
		if mode == trace.ModeRing && ringTracer != nil && traceOutput != "" {
			if err := dumpRing(traceOutput, format); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
			}
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return cleanup, nil
}

// dumpRing writes the ring's events to path, or stderr for "-".
func dumpRing(path string, format trace.Format) error {
	if format == trace.FormatAuto {
		format = trace.FormatText
	}
	if path == "-" {
		return ringTracer.Dump(os.Stderr, format)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ringTracer.Dump(f, format); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// dumpTraceOnPanic writes the ring to stderr before letting a panic
// continue. Deferred by commands that run the lowering pass.
func dumpTraceOnPanic() {
	r := recover()
	if r == nil {
		return
	}
	if ringTracer != nil {
		fmt.Fprintln(os.Stderr, "panic; last trace events:")
		_ = ringTracer.Dump(os.Stderr, trace.FormatText)
	}
	panic(r)
}
