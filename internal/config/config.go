// Copyright (c) 2025 Platefront Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for the assistant widget.
//
// TOML configuration with built-in defaults and environment variable
// overrides. File location: ~/.platefront/assist.toml.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete widget configuration.
type Config struct {
	// Backend holds AI backend connection settings.
	Backend BackendConfig `toml:"backend"`

	// Widget holds widget behavior settings.
	Widget WidgetConfig `toml:"widget"`
}

// BackendConfig configures the AI backend call.
type BackendConfig struct {
	// URL is the assistant endpoint.
	URL string `toml:"url"`
	// TenantID is the business-unit identifier sent with every turn.
	TenantID string `toml:"tenant_id"`
	// TimeoutSecs bounds a single turn request. One request per turn; no
	// retries.
	TimeoutSecs int `toml:"timeout_secs"`
}

// WidgetConfig configures widget presentation and timing.
type WidgetConfig struct {
	// NudgeDelaySecs is how long after startup the one-shot unread nudge
	// fires when the widget is still closed and the transcript empty.
	NudgeDelaySecs int `toml:"nudge_delay_secs"`
	// MaxHeight caps the chat surface height in rows. 0 keeps the built-in
	// layout default.
	MaxHeight int `toml:"max_height"`
	// Title is the widget header title.
	Title string `toml:"title"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:         "http://127.0.0.1:8600/api/assistant",
			TenantID:    "platefront",
			TimeoutSecs: 30,
		},
		Widget: WidgetConfig{
			NudgeDelaySecs: 5,
			Title:          "Platefront Assistant",
		},
	}
}

// =============================================================================
// LOADING
// =============================================================================

// DefaultPath returns the default config file path.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".platefront", "assist.toml")
}

// Load reads the config file at path, falling back to defaults for a missing
// file, then applies environment overrides. A malformed file is an error; a
// missing one is not.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, err
			}
		}
	}

	applyEnv(cfg)
	cfg.normalize()
	return cfg, nil
}

// applyEnv applies PLATEFRONT_* environment overrides.
func applyEnv(cfg *Config) {
	if v := os.Getenv("PLATEFRONT_BACKEND_URL"); v != "" {
		cfg.Backend.URL = v
	}
	if v := os.Getenv("PLATEFRONT_TENANT_ID"); v != "" {
		cfg.Backend.TenantID = v
	}
	if v := os.Getenv("PLATEFRONT_TIMEOUT_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Backend.TimeoutSecs = n
		}
	}
}

// normalize clamps nonsense values back to defaults.
func (c *Config) normalize() {
	if c.Backend.TimeoutSecs <= 0 {
		c.Backend.TimeoutSecs = 30
	}
	if c.Widget.NudgeDelaySecs <= 0 {
		c.Widget.NudgeDelaySecs = 5
	}
	if c.Widget.MaxHeight < 0 {
		c.Widget.MaxHeight = 0
	}
	if c.Widget.Title == "" {
		c.Widget.Title = "Platefront Assistant"
	}
}

// =============================================================================
// GLOBAL ACCESS
// =============================================================================

var (
	globalMu  sync.RWMutex
	globalCfg *Config
)

// SetGlobal installs the process-wide config.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalCfg = cfg
}

// Global returns the process-wide config, or defaults if none was installed.
func Global() *Config {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalCfg == nil {
		return Default()
	}
	return globalCfg
}
