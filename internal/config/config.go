// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/trackbets-tui/internal/analysis"
	"github.com/jeranaias/trackbets-tui/internal/gemini"
	"github.com/jeranaias/trackbets-tui/internal/loading"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete TrackBets configuration.
type Config struct {
	Version string `toml:"version" json:"version" yaml:"version"`

	Analysis  AnalysisConfig  `toml:"analysis" json:"analysis" yaml:"analysis"`
	Assistant AssistantConfig `toml:"assistant" json:"assistant" yaml:"assistant"`
	Loading   LoadingConfig   `toml:"loading" json:"loading" yaml:"loading"`
	UI        UIConfig        `toml:"ui" json:"ui" yaml:"ui"`
	Storage   StorageConfig   `toml:"storage" json:"storage" yaml:"storage"`
	Log       LogConfig       `toml:"log" json:"log" yaml:"log"`
}

// AnalysisConfig points at the market analysis service.
type AnalysisConfig struct {
	// BaseURL is the service root; the client appends /api/analyze.
	BaseURL     string `toml:"base_url" json:"base_url" yaml:"base_url"`
	TimeoutSecs int    `toml:"timeout_secs" json:"timeout_secs" yaml:"timeout_secs"`
}

// AssistantConfig configures the Gemini-backed analyst.
type AssistantConfig struct {
	BaseURL string `toml:"base_url" json:"base_url" yaml:"base_url"`
	// APIKey is normally supplied through GEMINI_API_KEY rather than the file.
	APIKey            string `toml:"api_key" json:"api_key" yaml:"api_key"`
	Model             string `toml:"model" json:"model" yaml:"model"`
	TimeoutSecs       int    `toml:"timeout_secs" json:"timeout_secs" yaml:"timeout_secs"`
	RequestsPerMinute int    `toml:"requests_per_minute" json:"requests_per_minute" yaml:"requests_per_minute"`
}

// LoadingConfig tunes the simulated analysis progress.
type LoadingConfig struct {
	TotalMs        int     `toml:"total_ms" json:"total_ms" yaml:"total_ms"`
	TickMs         int     `toml:"tick_ms" json:"tick_ms" yaml:"tick_ms"`
	StageOffsetsMs []int   `toml:"stage_offsets_ms" json:"stage_offsets_ms" yaml:"stage_offsets_ms"`
	MinStep        float64 `toml:"min_step" json:"min_step" yaml:"min_step"`
	MaxStep        float64 `toml:"max_step" json:"max_step" yaml:"max_step"`
}

// UIConfig contains UI preferences.
type UIConfig struct {
	// Theme is "dark", "light" or "auto" (follow the terminal background).
	Theme string `toml:"theme" json:"theme" yaml:"theme"`
	// ChatWidth caps the assistant panel width in columns.
	ChatWidth int `toml:"chat_width" json:"chat_width" yaml:"chat_width"`
}

// StorageConfig locates the profile database.
type StorageConfig struct {
	// Path is the SQLite file. ":memory:" keeps nothing between runs.
	Path string `toml:"path" json:"path" yaml:"path"`
}

// LogConfig controls the file logger.
type LogConfig struct {
	Path  string `toml:"path" json:"path" yaml:"path"`
	Level string `toml:"level" json:"level" yaml:"level"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	// CurrentVersion is written into saved config files.
	CurrentVersion = "2"

	DefaultTheme     = "auto"
	DefaultChatWidth = 48
	DefaultLogLevel  = "info"
)

// Default returns the built-in configuration.
func Default() *Config {
	sched := loading.DefaultSchedule()
	offsets := make([]int, len(sched.StageOffsets))
	for i, d := range sched.StageOffsets {
		offsets[i] = int(d / time.Millisecond)
	}

	return &Config{
		Version: CurrentVersion,
		Analysis: AnalysisConfig{
			BaseURL:     analysis.DefaultBaseURL,
			TimeoutSecs: int(analysis.DefaultTimeout / time.Second),
		},
		Assistant: AssistantConfig{
			BaseURL:           gemini.DefaultBaseURL,
			Model:             gemini.DefaultModel,
			TimeoutSecs:       int(gemini.DefaultTimeout / time.Second),
			RequestsPerMinute: gemini.DefaultRequestsPerMinute,
		},
		Loading: LoadingConfig{
			TotalMs:        int(sched.Total / time.Millisecond),
			TickMs:         int(sched.Tick / time.Millisecond),
			StageOffsetsMs: offsets,
			MinStep:        sched.MinStep,
			MaxStep:        sched.MaxStep,
		},
		UI: UIConfig{
			Theme:     DefaultTheme,
			ChatWidth: DefaultChatWidth,
		},
		Storage: StorageConfig{Path: defaultStoragePath()},
		Log: LogConfig{
			Path:  defaultLogPath(),
			Level: DefaultLogLevel,
		},
	}
}

// SetDefaults fills in any zero values with their defaults.
func (c *Config) SetDefaults() {
	d := Default()

	if c.Version == "" {
		c.Version = d.Version
	}

	if c.Analysis.BaseURL == "" {
		c.Analysis.BaseURL = d.Analysis.BaseURL
	}
	if c.Analysis.TimeoutSecs == 0 {
		c.Analysis.TimeoutSecs = d.Analysis.TimeoutSecs
	}

	if c.Assistant.BaseURL == "" {
		c.Assistant.BaseURL = d.Assistant.BaseURL
	}
	if c.Assistant.Model == "" {
		c.Assistant.Model = d.Assistant.Model
	}
	if c.Assistant.TimeoutSecs == 0 {
		c.Assistant.TimeoutSecs = d.Assistant.TimeoutSecs
	}
	if c.Assistant.RequestsPerMinute == 0 {
		c.Assistant.RequestsPerMinute = d.Assistant.RequestsPerMinute
	}

	if c.Loading.TotalMs == 0 {
		c.Loading.TotalMs = d.Loading.TotalMs
	}
	if c.Loading.TickMs == 0 {
		c.Loading.TickMs = d.Loading.TickMs
	}
	if len(c.Loading.StageOffsetsMs) == 0 {
		c.Loading.StageOffsetsMs = d.Loading.StageOffsetsMs
	}
	if c.Loading.MinStep == 0 && c.Loading.MaxStep == 0 {
		c.Loading.MinStep = d.Loading.MinStep
		c.Loading.MaxStep = d.Loading.MaxStep
	}

	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	if c.UI.ChatWidth == 0 {
		c.UI.ChatWidth = d.UI.ChatWidth
	}

	if c.Storage.Path == "" {
		c.Storage.Path = d.Storage.Path
	}
	if c.Log.Path == "" {
		c.Log.Path = d.Log.Path
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// Environment variables consulted by ApplyEnvOverrides.
const (
	EnvAPIURL        = "TRACKBETS_API_URL"
	EnvGeminiKey     = "GEMINI_API_KEY"
	EnvViteGeminiKey = "VITE_GEMINI_API_KEY"
	EnvModel         = "TRACKBETS_MODEL"
	EnvTheme         = "TRACKBETS_THEME"
	EnvLogLevel      = "TRACKBETS_LOG_LEVEL"
	EnvRPM           = "TRACKBETS_GEMINI_RPM"
)

// ApplyEnvOverrides applies environment variable overrides to the config.
func (c *Config) ApplyEnvOverrides() {
	if u := os.Getenv(EnvAPIURL); u != "" {
		c.Analysis.BaseURL = u
	}

	// GEMINI_API_KEY wins; the VITE_ name is accepted for .env files shared
	// with the web build.
	if key := os.Getenv(EnvGeminiKey); key != "" {
		c.Assistant.APIKey = key
	} else if key := os.Getenv(EnvViteGeminiKey); key != "" {
		c.Assistant.APIKey = key
	}

	if model := os.Getenv(EnvModel); model != "" {
		c.Assistant.Model = model
	}
	if theme := os.Getenv(EnvTheme); theme != "" {
		c.UI.Theme = theme
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Log.Level = level
	}
	if rpm := os.Getenv(EnvRPM); rpm != "" {
		if n, err := strconv.Atoi(rpm); err == nil {
			c.Assistant.RequestsPerMinute = n
		}
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration and returns ValidateErrors listing every
// problem found, or nil.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if err := validateHTTPURL(c.Analysis.BaseURL); err != nil {
		add("analysis.base_url", "%v", err)
	}
	if c.Analysis.TimeoutSecs < 1 || c.Analysis.TimeoutSecs > 300 {
		add("analysis.timeout_secs", "must be between 1 and 300, got %d", c.Analysis.TimeoutSecs)
	}

	if err := validateHTTPURL(c.Assistant.BaseURL); err != nil {
		add("assistant.base_url", "%v", err)
	}
	if strings.TrimSpace(c.Assistant.Model) == "" {
		add("assistant.model", "must not be empty")
	}
	if c.Assistant.TimeoutSecs < 1 || c.Assistant.TimeoutSecs > 300 {
		add("assistant.timeout_secs", "must be between 1 and 300, got %d", c.Assistant.TimeoutSecs)
	}

	if err := c.Loading.Schedule().Validate(); err != nil {
		add("loading", "%v", err)
	}

	switch strings.ToLower(c.UI.Theme) {
	case "auto", "dark", "light":
	default:
		add("ui.theme", "invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme)
	}
	if c.UI.ChatWidth < 24 {
		add("ui.chat_width", "must be at least 24, got %d", c.UI.ChatWidth)
	}

	if _, err := zap.ParseAtomicLevel(c.Log.Level); err != nil {
		add("log.level", "invalid level '%s'", c.Log.Level)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got '%s'", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in '%s'", raw)
	}
	return nil
}

// =============================================================================
// COMPONENT CONFIGS
// =============================================================================

// Schedule converts the loading section into a sequencer schedule.
func (l LoadingConfig) Schedule() loading.Schedule {
	offsets := make([]time.Duration, len(l.StageOffsetsMs))
	for i, ms := range l.StageOffsetsMs {
		offsets[i] = time.Duration(ms) * time.Millisecond
	}
	return loading.Schedule{
		Total:        time.Duration(l.TotalMs) * time.Millisecond,
		Tick:         time.Duration(l.TickMs) * time.Millisecond,
		StageOffsets: offsets,
		MinStep:      l.MinStep,
		MaxStep:      l.MaxStep,
	}
}

// AnalysisClientConfig returns the analysis client settings.
func (c *Config) AnalysisClientConfig(logger *zap.Logger) analysis.ClientConfig {
	return analysis.ClientConfig{
		BaseURL: c.Analysis.BaseURL,
		Timeout: time.Duration(c.Analysis.TimeoutSecs) * time.Second,
		Logger:  logger,
	}
}

// GeminiClientConfig returns the Gemini client settings.
func (c *Config) GeminiClientConfig(logger *zap.Logger) gemini.ClientConfig {
	return gemini.ClientConfig{
		BaseURL:           c.Assistant.BaseURL,
		APIKey:            c.Assistant.APIKey,
		Model:             c.Assistant.Model,
		Timeout:           time.Duration(c.Assistant.TimeoutSecs) * time.Second,
		RequestsPerMinute: c.Assistant.RequestsPerMinute,
		Logger:            logger,
	}
}

// =============================================================================
// COPY / DISPLAY
// =============================================================================

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Loading.StageOffsetsMs = append([]int(nil), c.Loading.StageOffsetsMs...)
	return &clone
}

// String renders the config as JSON with the API key redacted.
func (c *Config) String() string {
	safe := c.Clone()
	if safe.Assistant.APIKey != "" {
		safe.Assistant.APIKey = "[REDACTED]"
	}
	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}
