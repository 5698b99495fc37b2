// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/jeranaias/trackbets-tui/internal/analysis"
	"github.com/jeranaias/trackbets-tui/internal/assistant"
	"github.com/jeranaias/trackbets-tui/internal/config"
	"github.com/jeranaias/trackbets-tui/internal/gemini"
	"github.com/jeranaias/trackbets-tui/internal/logging"
	"github.com/jeranaias/trackbets-tui/internal/profile"
	"github.com/jeranaias/trackbets-tui/internal/storage"
)

// GlobalOptions are the flags shared by every command.
type GlobalOptions struct {
	ConfigPath string
	Debug      bool
	Plain      bool
}

// Runtime is everything a session needs, built once per process.
type Runtime struct {
	Config *config.Config

	// ConfigPath is the file to watch for edits; empty when running on
	// defaults.
	ConfigPath string

	Logger    *zap.Logger
	Store     storage.Store
	Profile   *profile.Manager
	Analysis  *analysis.Client
	Gemini    *gemini.Client
	Assistant *assistant.Client
}

// loadConfig resolves the config file named by opts, or the default one.
func loadConfig(opts GlobalOptions) (*config.Config, string, error) {
	if opts.ConfigPath != "" {
		cfg, err := config.LoadFromPath(opts.ConfigPath)
		if err != nil {
			return nil, "", err
		}
		return cfg, opts.ConfigPath, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, "", err
	}
	path, err := config.ConfigPath()
	if err != nil {
		return cfg, "", nil
	}
	if _, err := os.Stat(path); err != nil {
		path = ""
	}
	return cfg, path, nil
}

// Bootstrap loads configuration and wires the clients and stores.
func Bootstrap(opts GlobalOptions) (*Runtime, error) {
	cfg, path, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Options{
		Path:  cfg.Log.Path,
		Level: cfg.Log.Level,
		Debug: opts.Debug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (logging disabled)\n", err)
		logger = zap.NewNop()
	}

	var store storage.Store
	sqlite, err := storage.OpenSQLite(cfg.Storage.Path)
	if err != nil {
		logger.Warn("profile store unavailable, using memory", zap.String("path", cfg.Storage.Path), zap.Error(err))
		store = storage.NewMemoryStore()
	} else {
		store = sqlite
	}

	gem := gemini.NewClientWithConfig(cfg.GeminiClientConfig(logger))
	if !gem.IsConfigured() {
		logger.Warn("no Gemini API key; assistant replies will use the fallback message")
	}

	rt := &Runtime{
		Config:     cfg,
		ConfigPath: path,
		Logger:     logger,
		Store:      store,
		Profile:    profile.NewManager(store),
		Analysis:   analysis.NewClientWithConfig(cfg.AnalysisClientConfig(logger)),
		Gemini:     gem,
		Assistant:  assistant.New(gem, assistant.WithLogger(logger)),
	}
	logger.Info("runtime ready",
		zap.String("analysis", rt.Analysis.BaseURL()),
		zap.String("model", gem.Model()),
		zap.String("config", path),
	)
	return rt, nil
}

// Close releases the store and flushes the log.
func (r *Runtime) Close() error {
	var errs []error
	if r.Store != nil {
		errs = append(errs, r.Store.Close())
	}
	if r.Logger != nil {
		// stdout/stderr syncs fail with EINVAL on some platforms; file sinks do not
		_ = r.Logger.Sync()
	}
	return errors.Join(errs...)
}
