// ============================================================================
// cmdcore - command resolution and argument binding
// ============================================================================
//
// Package:     logging
// Description: Factory functions that build foundation loggers for hosts
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"
	"path/filepath"

	mdwerror "github.com/msto63/cmdcore/foundation/core/error"
	mdwlog "github.com/msto63/cmdcore/foundation/core/log"
	"github.com/msto63/cmdcore/pkg/core/config"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Logger name
	Name string

	// Log level (trace, debug, info, warn, error)
	Level string

	// Output format: json, text, console or logfmt (default: json)
	Format string

	// Output is stdout, stderr or a file path (default: stdout)
	Output string

	EnableCaller bool

	// Additional outputs besides Output
	AdditionalOutputs []io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(name string) LoggerConfig {
	return LoggerConfig{
		Name:   name,
		Level:  "info",
		Format: "json",
		Output: "stdout",
	}
}

// FromConfig maps the [log] section of the application config
func FromConfig(name string, cfg config.LogConfig) LoggerConfig {
	return LoggerConfig{
		Name:         name,
		Level:        cfg.Level,
		Format:       cfg.Format,
		Output:       cfg.Output,
		EnableCaller: cfg.EnableCaller,
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger creates a foundation logger. The returned closer releases a
// log file opened for Output and must be called on shutdown.
func NewLogger(cfg LoggerConfig) (*mdwlog.Logger, io.Closer, error) {
	level, err := mdwlog.ParseLevel(orDefault(cfg.Level, "info"))
	if err != nil {
		return nil, nil, mdwerror.Wrap(err, "invalid log level").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("logging.NewLogger")
	}
	format, err := mdwlog.ParseFormat(orDefault(cfg.Format, "json"))
	if err != nil {
		return nil, nil, mdwerror.Wrap(err, "invalid log format").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("logging.NewLogger")
	}

	var (
		output io.Writer
		closer io.Closer = nopCloser{}
	)
	switch cfg.Output {
	case "", "stdout":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.Output), 0o755); err != nil {
			return nil, nil, mdwerror.Wrap(err, "cannot create log directory").
				WithCode(mdwerror.CodeEnvironmentError).
				WithOperation("logging.NewLogger").
				WithDetail("path", cfg.Output)
		}
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, mdwerror.Wrap(err, "cannot open log file").
				WithCode(mdwerror.CodeEnvironmentError).
				WithOperation("logging.NewLogger").
				WithDetail("path", cfg.Output)
		}
		output, closer = f, f
	}

	if len(cfg.AdditionalOutputs) > 0 {
		writers := append([]io.Writer{output}, cfg.AdditionalOutputs...)
		output = io.MultiWriter(writers...)
	}

	logger := mdwlog.NewWithConfig(mdwlog.Config{
		Level:        level,
		Format:       format,
		Output:       output,
		Name:         cfg.Name,
		EnableCaller: cfg.EnableCaller,
	})
	return logger, closer, nil
}

// NewSimpleLogger creates a JSON logger on stdout
func NewSimpleLogger(name string) *mdwlog.Logger {
	logger, _, err := NewLogger(DefaultLoggerConfig(name))
	if err != nil {
		return mdwlog.New().WithName(name)
	}
	return logger
}

// KV converts key-value pairs to mdwlog.Fields. Non-string keys and a
// trailing key without value are skipped.
func KV(keysAndValues ...interface{}) mdwlog.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}

	fields := make(mdwlog.Fields)
	for i := 0; i < len(keysAndValues)-1; i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
