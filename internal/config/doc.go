// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads, validates and watches the TrackBets configuration.
//
// # Configuration Precedence
//
// Configuration is resolved from (highest first):
//   - Environment variables (TRACKBETS_*, GEMINI_API_KEY), including a .env
//     file in the working directory
//   - ~/.trackbets/config.toml, or an explicit --config path ending in
//     .toml, .json, .yaml or .yml
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	client := analysis.NewClientWithConfig(cfg.AnalysisClientConfig(logger))
//
// Watch reports edits to the file while the TUI is running; only UI
// settings are re-applied live.
package config
