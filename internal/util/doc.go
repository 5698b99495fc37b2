// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util holds small helpers shared by the config, profile and UI
// packages: crash-safe file writes and terminal-width-aware text shaping.
package util
