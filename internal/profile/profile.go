// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package profile persists the small amount of user state that survives a
// restart: the mock identity verification, the verified email and the
// preferred color theme.
//
// Nothing here gates the analysis flow; a missing or unreadable profile is
// simply the unverified default.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/trackbets-tui/internal/storage"
)

// Storage keys.
const (
	KeyVerified = "trackbets_verification"
	KeyEmail    = "trackbets_email"
	KeyTheme    = "trackbets_theme"
)

// DefaultVerifyDelay is the simulated verification round trip.
const DefaultVerifyDelay = 2 * time.Second

// ErrInvalidEmail is returned by Verify for an address without '@' and '.'.
var ErrInvalidEmail = errors.New("profile: enter a valid email address")

// =============================================================================
// THEME
// =============================================================================

// Theme is the color scheme preference.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ParseTheme returns the theme named s, or ThemeDark for anything unknown.
func ParseTheme(s string) Theme {
	if Theme(strings.ToLower(strings.TrimSpace(s))) == ThemeLight {
		return ThemeLight
	}
	return ThemeDark
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// IsDark reports whether t is the dark theme.
func (t Theme) IsDark() bool {
	return t != ThemeLight
}

// =============================================================================
// PROFILE
// =============================================================================

// Profile is the persisted user state.
type Profile struct {
	Verified bool
	Email    string
	Theme    Theme

	// ThemeSaved is false when Theme is only the default.
	ThemeSaved bool
}

// ValidateEmail applies the loose check used by the verification form.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return ErrInvalidEmail
	}
	return nil
}

// Manager reads and writes the profile keys.
type Manager struct {
	store       storage.Store
	verifyDelay time.Duration
}

// Option configures a Manager.
type Option func(*Manager)

// WithVerifyDelay overrides DefaultVerifyDelay.
func WithVerifyDelay(d time.Duration) Option {
	return func(m *Manager) { m.verifyDelay = d }
}

// NewManager creates a manager over store.
func NewManager(store storage.Store, opts ...Option) *Manager {
	m := &Manager{store: store, verifyDelay: DefaultVerifyDelay}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load reads the profile. Absent keys yield the unverified, dark default.
func (m *Manager) Load(ctx context.Context) (Profile, error) {
	p := Profile{Theme: ThemeDark}

	verified, _, err := m.store.Get(ctx, KeyVerified)
	if err != nil {
		return p, fmt.Errorf("load profile: %w", err)
	}
	p.Verified = verified == "true"

	if p.Email, _, err = m.store.Get(ctx, KeyEmail); err != nil {
		return p, fmt.Errorf("load profile: %w", err)
	}

	theme, ok, err := m.store.Get(ctx, KeyTheme)
	if err != nil {
		return p, fmt.Errorf("load profile: %w", err)
	}
	if ok {
		p.Theme = ParseTheme(theme)
		p.ThemeSaved = true
	}
	return p, nil
}

// Verify validates email, waits out the simulated round trip and marks the
// profile verified. It returns early if ctx is cancelled.
func (m *Manager) Verify(ctx context.Context, email string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	email = strings.TrimSpace(email)

	if m.verifyDelay > 0 {
		timer := time.NewTimer(m.verifyDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := m.store.Set(ctx, KeyVerified, "true"); err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	if err := m.store.Set(ctx, KeyEmail, email); err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	return nil
}

// SignOut clears the verification flag. The email is kept to prefill the
// form next time.
func (m *Manager) SignOut(ctx context.Context) error {
	if err := m.store.Delete(ctx, KeyVerified); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// SetTheme persists the theme preference.
func (m *Manager) SetTheme(ctx context.Context, theme Theme) error {
	if err := m.store.Set(ctx, KeyTheme, string(theme)); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}
