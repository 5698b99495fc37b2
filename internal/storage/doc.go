// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the small key/value persistence used for
// profile and preference state.
//
// # Key Types
//
//   - Store: key/value interface
//   - SQLiteStore: file-backed store (pure Go SQLite driver)
//   - MemoryStore: in-process store for tests and --no-persist runs
//
// # Usage
//
//	store, err := storage.OpenSQLite(storage.DefaultPath())
//	if err != nil { ... }
//	defer store.Close()
//
//	_ = store.Set(ctx, "trackbets_theme", "light")
//	theme, ok, err := store.Get(ctx, "trackbets_theme")
//
// # Storage Location
//
// State is kept in ~/.trackbets/state.db.
package storage
