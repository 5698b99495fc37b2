// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	file, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "state.db"))
	require.NoError(t, err)
	mem, err := OpenSQLite(MemoryPath)
	require.NoError(t, err)
	return map[string]Store{
		"sqlite-file":   file,
		"sqlite-memory": mem,
		"memory":        NewMemoryStore(),
	}
}

func TestStore_Contract(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()

			_, ok, err := s.Get(ctx, "trackbets_email")
			require.NoError(t, err)
			assert.False(t, ok, "missing key reported present")

			require.NoError(t, s.Set(ctx, "trackbets_email", "a@b.co"))
			require.NoError(t, s.Set(ctx, "trackbets_verification", "true"))
			require.NoError(t, s.Set(ctx, "trackbets_email", "c@d.io"))

			v, ok, err := s.Get(ctx, "trackbets_email")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "c@d.io", v)

			require.NoError(t, s.Delete(ctx, "trackbets_email", "trackbets_verification", "absent"))
			_, ok, _ = s.Get(ctx, "trackbets_verification")
			assert.False(t, ok)
			require.NoError(t, s.Delete(ctx))

			require.NoError(t, s.Close())
			require.NoError(t, s.Close())
			_, _, err = s.Get(ctx, "x")
			assert.ErrorIs(t, err, ErrClosed)
			assert.ErrorIs(t, s.Set(ctx, "x", "y"), ErrClosed)
			assert.ErrorIs(t, s.Delete(ctx, "x"), ErrClosed)
		})
	}
}

func TestSQLiteStore_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "trackbets_theme", "light"))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()
	v, ok, err := s.Get(ctx, "trackbets_theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "light", v)
	assert.Equal(t, path, s.Path())
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, "state.db", filepath.Base(DefaultPath()))
}
