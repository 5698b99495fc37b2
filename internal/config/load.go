// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/trackbets-tui/internal/util"
)

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the TrackBets configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".trackbets"), nil
}

// ConfigPath returns the path to the default TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o700)
}

func defaultStoragePath() string {
	if dir, err := ConfigDir(); err == nil {
		return filepath.Join(dir, "state.db")
	}
	return filepath.Join(".trackbets", "state.db")
}

func defaultLogPath() string {
	if dir, err := ConfigDir(); err == nil {
		return filepath.Join(dir, "trackbets.log")
	}
	return filepath.Join(".trackbets", "trackbets.log")
}

// Format is a config file encoding.
type Format int

const (
	FormatTOML Format = iota
	FormatJSON
	FormatYAML
)

// FormatForPath picks the encoding from the file extension. Anything that is
// not .json, .yaml or .yml is read as TOML.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "toml"
	}
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// LoadDotEnv loads a .env file from the working directory if one exists.
// Variables already set in the environment are not replaced.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// Load reads ~/.trackbets/config.toml if it exists, otherwise starts from
// defaults. Environment overrides are applied last and the result is
// validated.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return LoadFromPath(path)
		}
	}

	LoadDotEnv()
	cfg := Default()
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file with full
// validation. The format follows the file extension.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg, err := Decode(data, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	LoadDotEnv()
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Decode parses data in the given format. Missing fields stay zero; callers
// run SetDefaults afterwards.
func Decode(data []byte, format Format) (*Config, error) {
	cfg := &Config{}
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, cfg)
	case FormatYAML:
		err = yaml.Unmarshal(data, cfg)
	default:
		_, err = toml.Decode(string(data), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", format, err)
	}
	return cfg, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes cfg to the default TOML path.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return SaveToPath(cfg, path)
}

// Encode renders cfg in the given format.
func Encode(cfg *Config, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(cfg, "", "  ")
	case FormatYAML:
		return yaml.Marshal(cfg)
	}

	var buf bytes.Buffer
	buf.WriteString("# TrackBets configuration file\n")
	buf.WriteString("# API keys are better kept in GEMINI_API_KEY or a .env file\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveToPath writes cfg to path in the format its extension names. The file
// is replaced atomically with 0600 permissions.
func SaveToPath(cfg *Config, path string) error {
	data, err := Encode(cfg, FormatForPath(path))
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
