// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package profile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/trackbets-tui/internal/storage"
)

func TestLoad_Defaults(t *testing.T) {
	m := NewManager(storage.NewMemoryStore())
	p, err := m.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Profile{Theme: ThemeDark}, p)
}

func TestVerify_PersistsAndSignOutKeepsEmail(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	m := NewManager(store, WithVerifyDelay(0))

	require.NoError(t, m.Verify(ctx, "  trader@desk.io "))
	p, err := m.Load(ctx)
	require.NoError(t, err)
	assert.True(t, p.Verified)
	assert.Equal(t, "trader@desk.io", p.Email)

	raw, _, _ := store.Get(ctx, KeyVerified)
	assert.Equal(t, "true", raw)

	require.NoError(t, m.SignOut(ctx))
	p, err = m.Load(ctx)
	require.NoError(t, err)
	assert.False(t, p.Verified)
	assert.Equal(t, "trader@desk.io", p.Email)
}

func TestVerify_InvalidEmail(t *testing.T) {
	m := NewManager(storage.NewMemoryStore(), WithVerifyDelay(0))
	for _, email := range []string{"", "trader", "trader@desk", "desk.io"} {
		assert.ErrorIs(t, m.Verify(context.Background(), email), ErrInvalidEmail, email)
	}
}

func TestVerify_CancelledDuringDelay(t *testing.T) {
	store := storage.NewMemoryStore()
	m := NewManager(store, WithVerifyDelay(time.Minute))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, m.Verify(ctx, "a@b.co"), context.Canceled)
	_, ok, _ := store.Get(context.Background(), KeyVerified)
	assert.False(t, ok)
}

func TestTheme(t *testing.T) {
	ctx := context.Background()
	m := NewManager(storage.NewMemoryStore())
	require.NoError(t, m.SetTheme(ctx, ThemeLight))
	p, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, p.Theme)
	assert.True(t, p.ThemeSaved)

	assert.Equal(t, ThemeDark, ParseTheme("neon"))
	assert.Equal(t, ThemeLight, ParseTheme(" LIGHT "))
	assert.Equal(t, ThemeDark, ThemeLight.Toggle())
	assert.True(t, ThemeDark.IsDark())
}

func TestLoad_ClosedStore(t *testing.T) {
	store := storage.NewMemoryStore()
	store.Close()
	_, err := NewManager(store).Load(context.Background())
	assert.ErrorIs(t, err, storage.ErrClosed)
}
