// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "trackbets.log")
	logger, err := New(Options{Path: path, Level: "info"})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("analysis settled", zap.String("ticker", "NVDA"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"ticker":"NVDA"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNew_DebugOverridesLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trackbets.log")
	logger, err := New(Options{Path: path, Level: "error", Debug: true})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestNew_EmptyPathIsNop(t *testing.T) {
	logger, err := New(Options{})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.ErrorLevel))
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(Options{Path: filepath.Join(t.TempDir(), "x.log"), Level: "loud"})
	assert.Error(t, err)
}

func TestNamed_NilParent(t *testing.T) {
	assert.NotNil(t, Named(nil, "flow"))
}
