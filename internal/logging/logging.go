// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the application logger.
//
// The TUI owns the terminal, so log output always goes to a file
// (~/.trackbets/trackbets.log by default) and never to stderr.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects where and how much to log.
type Options struct {
	// Path is the log file. Empty disables logging.
	Path string
	// Level is a zap level name ("debug", "info", ...).
	Level string
	// Debug forces debug level regardless of Level.
	Debug bool
}

// New builds a JSON file logger. An empty Path returns a no-op logger.
func New(opts Options) (*zap.Logger, error) {
	if opts.Path == "" {
		return zap.NewNop(), nil
	}

	level, err := zap.ParseAtomicLevel(orDefault(opts.Level, "info"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}
	if opts.Debug {
		level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	config := zap.NewProductionConfig()
	config.Level = level
	config.Sampling = nil
	config.EncoderConfig.TimeKey = "ts"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{opts.Path}
	config.ErrorOutputPaths = []string{opts.Path}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.With(zap.Int("pid", os.Getpid())), nil
}

// Named returns a child logger, tolerating a nil parent.
func Named(parent *zap.Logger, name string) *zap.Logger {
	if parent == nil {
		return zap.NewNop()
	}
	return parent.Named(name)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
