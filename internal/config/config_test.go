// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/trackbets-tui/internal/loading"
)

// isolate points HOME at a temp dir and clears every override variable.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{EnvAPIURL, EnvGeminiKey, EnvViteGeminiKey, EnvModel, EnvTheme, EnvLogLevel, EnvRPM} {
		t.Setenv(k, "")
	}
	return home
}

func TestConfig_Default(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "http://127.0.0.1:8000", cfg.Analysis.BaseURL)
	assert.Equal(t, 30, cfg.Analysis.TimeoutSecs)
	assert.Equal(t, "gemini-2.0-flash-exp", cfg.Assistant.Model)
	assert.Equal(t, []int{1100, 2200, 3300}, cfg.Loading.StageOffsetsMs)
	assert.Equal(t, loading.DefaultSchedule(), cfg.Loading.Schedule())
	assert.Equal(t, "auto", cfg.UI.Theme)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad analysis scheme", func(c *Config) { c.Analysis.BaseURL = "ftp://x" }, "analysis.base_url"},
		{"missing host", func(c *Config) { c.Assistant.BaseURL = "https://" }, "assistant.base_url"},
		{"timeout too large", func(c *Config) { c.Analysis.TimeoutSecs = 301 }, "analysis.timeout_secs"},
		{"empty model", func(c *Config) { c.Assistant.Model = " " }, "assistant.model"},
		{"offsets out of order", func(c *Config) { c.Loading.StageOffsetsMs = []int{2000, 1000, 3000} }, "loading"},
		{"wrong offset count", func(c *Config) { c.Loading.StageOffsetsMs = []int{1000} }, "loading"},
		{"unknown theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme"},
		{"narrow chat", func(c *Config) { c.UI.ChatWidth = 10 }, "ui.chat_width"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)

			var verrs ValidateErrors
			require.True(t, errors.As(err, &verrs))
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.field, verrs[0].Field)
		})
	}
}

func TestConfig_ValidateCollectsAll(t *testing.T) {
	cfg := Default()
	cfg.UI.Theme = "neon"
	cfg.Log.Level = "loud"
	err := cfg.Validate()
	var verrs ValidateErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)
	assert.Contains(t, err.Error(), "; ")
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default().Analysis, cfg.Analysis)
}

func TestLoadFromPath_Formats(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	files := map[string]string{
		"config.toml": "[analysis]\nbase_url = \"http://desk:9000\"\n\n[ui]\ntheme = \"light\"\n",
		"config.json": `{"analysis":{"base_url":"http://desk:9000"},"ui":{"theme":"light"}}`,
		"config.yaml": "analysis:\n  base_url: http://desk:9000\nui:\n  theme: light\n",
	}
	for name, body := range files {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

			cfg, err := LoadFromPath(path)
			require.NoError(t, err)
			assert.Equal(t, "http://desk:9000", cfg.Analysis.BaseURL)
			assert.Equal(t, "light", cfg.UI.Theme)
			// unset fields are filled
			assert.Equal(t, 30, cfg.Analysis.TimeoutSecs)
			assert.Equal(t, DefaultChatWidth, cfg.UI.ChatWidth)
		})
	}
}

func TestLoadFromPath_Invalid(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui]\ntheme = \"neon\"\n"), 0o600))
	_, err := LoadFromPath(path)
	var verrs ValidateErrors
	assert.ErrorAs(t, err, &verrs)

	require.NoError(t, os.WriteFile(path, []byte("[ui\n"), 0o600))
	_, err = LoadFromPath(path)
	assert.ErrorContains(t, err, "decode toml")

	_, err = LoadFromPath(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestApplyEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv(EnvAPIURL, "https://api.trackbets.example")
	t.Setenv(EnvViteGeminiKey, "vite-key")
	t.Setenv(EnvModel, "gemini-1.5-pro")
	t.Setenv(EnvTheme, "light")
	t.Setenv(EnvRPM, "-1")

	cfg := Default()
	cfg.ApplyEnvOverrides()
	assert.Equal(t, "https://api.trackbets.example", cfg.Analysis.BaseURL)
	assert.Equal(t, "vite-key", cfg.Assistant.APIKey)
	assert.Equal(t, "gemini-1.5-pro", cfg.Assistant.Model)
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.Equal(t, -1, cfg.Assistant.RequestsPerMinute)

	t.Setenv(EnvGeminiKey, "primary-key")
	cfg.ApplyEnvOverrides()
	assert.Equal(t, "primary-key", cfg.Assistant.APIKey)
}

func TestSaveToPath_RoundTrip(t *testing.T) {
	isolate(t)
	for _, name := range []string{"out.toml", "out.json", "out.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			cfg := Default()
			cfg.UI.Theme = "dark"
			cfg.Loading.TotalMs = 3000
			cfg.Loading.StageOffsetsMs = []int{500, 1000, 2000}
			require.NoError(t, SaveToPath(cfg, path))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

			got, err := LoadFromPath(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, got)
		})
	}
}

func TestString_RedactsKey(t *testing.T) {
	cfg := Default()
	cfg.Assistant.APIKey = "AIza-secret"
	assert.NotContains(t, cfg.String(), "AIza-secret")
	assert.Contains(t, cfg.String(), "[REDACTED]")
	assert.Equal(t, "AIza-secret", cfg.Assistant.APIKey)
}

func TestClone_Independent(t *testing.T) {
	cfg := Default()
	clone := cfg.Clone()
	clone.Loading.StageOffsetsMs[0] = 1
	assert.Equal(t, 1100, cfg.Loading.StageOffsetsMs[0])
}

func TestConfig_GetSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("assistant.model", "gemini-pro"))
	v, err := cfg.Get("assistant.model")
	require.NoError(t, err)
	assert.Equal(t, "gemini-pro", v)

	require.NoError(t, cfg.Set("loading.stage_offsets_ms", "100, 200,300"))
	assert.Equal(t, []int{100, 200, 300}, cfg.Loading.StageOffsetsMs)

	require.NoError(t, cfg.Set("loading.min_step", "0.75"))
	assert.Equal(t, 0.75, cfg.Loading.MinStep)

	assert.Error(t, cfg.Set("ui.chat_width", "wide"))
	assert.ErrorIs(t, cfg.Set("ui.colour", "x"), ErrUnknownKey)
	_, err = cfg.Get("ui")
	assert.ErrorIs(t, err, ErrUnknownKey)
	_, err = cfg.Get("version.x")
	assert.ErrorIs(t, err, ErrUnknownKey)

	keys := Keys()
	assert.Contains(t, keys, "analysis.base_url")
	assert.Contains(t, keys, "log.level")
	for _, k := range keys {
		_, err := cfg.Get(k)
		assert.NoError(t, err, k)
	}
}

func TestWatch_ReportsEdits(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, SaveToPath(Default(), path))

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan *Config, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, 20*time.Millisecond, func(cfg *Config, err error) {
			if err != nil {
				return
			}
			select {
			case changes <- cfg:
			default:
			}
		})
	}()

	edited := Default()
	edited.UI.Theme = "light"
	require.Eventually(t, func() bool {
		// rewrite until the watcher has registered and reports the edit
		_ = SaveToPath(edited, path)
		select {
		case cfg := <-changes:
			return cfg.UI.Theme == "light"
		case <-time.After(100 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
