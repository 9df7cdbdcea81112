package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ploy/internal/prof"
	"ploy/internal/trace"
)

// startSession enables tracing and profiling for cmd. The returned cleanup
// must run before the command returns; it is safe to call more than once.
func startSession(cmd *cobra.Command) (func(), error) {
	stopTrace, err := setupTracing(cmd)
	if err != nil {
		return nil, err
	}
	stopProf, err := setupProfiling(cmd)
	if err != nil {
		stopTrace()
		return nil, err
	}
	done := false
	return func() {
		if done {
			return
		}
		done = true
		stopProf()
		stopTrace()
	}, nil
}

// setupTracing inspects trace-related flags and attaches a tracer to the
// command context.
func setupTracing(cmd *cobra.Command) (func(), error) {
	flags := cmd.Root().PersistentFlags()

	output, err := flags.GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	formatStr, err := flags.GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	modeStr, err := flags.GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	ringSize, err := flags.GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	heartbeatEvery, err := flags.GetDuration("trace-heartbeat")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	cfg, err := traceConfig(output, levelStr, formatStr, modeStr, flags.Changed("trace-level"))
	if err != nil {
		return nil, err
	}
	cfg.RingSize = ringSize
	cfg.Heartbeat = heartbeatEvery

	ctx := cmd.Context()
	if cfg.Level == trace.LevelOff {
		ctx = trace.WithTracer(ctx, trace.Nop)
		cmd.SetContext(ctx)
		return func() {}, nil
	}

	tracer, err := trace.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	ctx = trace.WithTracer(ctx, tracer)
	cmd.SetContext(ctx)

	heartbeat := trace.StartHeartbeat(tracer, heartbeatEvery)

	return func() {
		heartbeat.Stop()
		if cfg.Mode == trace.ModeRing {
			if err := dumpRing(tracer, cfg); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
			}
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}, nil
}

// traceConfig turns flag values into a tracer config. A --trace path without
// an explicit level traces phases.
func traceConfig(output, levelStr, formatStr, modeStr string, levelSet bool) (trace.Config, error) {
	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return trace.Config{}, err
	}
	if output != "" && level == trace.LevelOff && !levelSet {
		level = trace.LevelPhase
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return trace.Config{}, err
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return trace.Config{}, err
	}
	return trace.Config{Level: level, Mode: mode, Format: format, OutputPath: output}, nil
}

// dumpRing writes the ring contents to the trace output; ring mode keeps
// events in memory only until here.
func dumpRing(t trace.Tracer, cfg trace.Config) error {
	ring, ok := t.(*trace.RingTracer)
	if !ok {
		return nil
	}
	format := cfg.Format
	if format == trace.FormatAuto {
		format = trace.FormatText
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return ring.Dump(os.Stderr, format)
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return err
	}
	return errors.Join(ring.Dump(f, format), f.Close())
}

// setupProfiling starts the profiles named by the profiling flags.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	flags := cmd.Root().PersistentFlags()

	cpuProfile, err := flags.GetString("cpuprofile")
	if err != nil {
		return nil, fmt.Errorf("failed to get cpuprofile flag: %w", err)
	}
	memProfile, err := flags.GetString("memprofile")
	if err != nil {
		return nil, fmt.Errorf("failed to get memprofile flag: %w", err)
	}
	tracePath, err := flags.GetString("runtime-trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}

	session, err := prof.Start(prof.Options{CPU: cpuProfile, Mem: memProfile, Trace: tracePath})
	if err != nil {
		return nil, err
	}
	return func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
		}
	}, nil
}
