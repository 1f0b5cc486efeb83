package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jvmlower/internal/trace"
)

// traceConfig turns the persistent --trace* flags into a tracer config.
// configLevel is the [lower] trace value from jvmlower.toml and applies when
// --trace-level is empty. Naming an output file without any level traces
// the passes.
func traceConfig(cmd *cobra.Command, configLevel string) (trace.Config, error) {
	var cfg trace.Config
	flags := cmd.Root().PersistentFlags()
	var (
		levelStr, modeStr string
		err               error
	)
	if cfg.OutputPath, err = flags.GetString("trace"); err != nil {
		return cfg, fmt.Errorf("failed to get trace flag: %w", err)
	}
	if levelStr, err = flags.GetString("trace-level"); err != nil {
		return cfg, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	if modeStr, err = flags.GetString("trace-mode"); err != nil {
		return cfg, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	if cfg.RingSize, err = flags.GetInt("trace-ring-size"); err != nil {
		return cfg, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}

	if levelStr == "" {
		levelStr = configLevel
	}
	if cfg.Level, err = trace.ParseLevel(levelStr); err != nil {
		return cfg, err
	}
	if cfg.Level == trace.LevelOff && cfg.OutputPath != "" {
		cfg.Level = trace.LevelPhase
	}
	if cfg.Mode, err = trace.ParseMode(modeStr); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// setupTracing attaches the configured tracer to the command context. The
// returned cleanup flushes and closes it.
func setupTracing(cmd *cobra.Command, configLevel string) (func(), error) {
	cfg, err := traceConfig(cmd, configLevel)
	if err != nil {
		return nil, err
	}
	tracer, err := trace.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))
	if !tracer.Enabled() {
		return func() {}, nil
	}
	return func() {
		for _, step := range []struct {
			name string
			run  func() error
		}{{"flush", tracer.Flush}, {"close", tracer.Close}} {
			if err := step.run(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: %s error: %v\n", step.name, err)
			}
		}
	}, nil
}
