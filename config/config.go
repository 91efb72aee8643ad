// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/config.go
// Summary: JSON configuration store for texelstyle.
// Usage: config.System() for the user file, config.Load(path) for explicit files.

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

const configName = "texelstyle.json"

// Config stores configuration sections as JSON-compatible data.
type Config map[string]interface{}

// Section stores key/value pairs for a configuration section.
type Section map[string]interface{}

var (
	mu      sync.RWMutex
	once    sync.Once
	system  Config
	loadErr error
)

// Err returns the most recent load error of the user config.
func Err() error {
	once.Do(initStore)
	mu.RLock()
	defer mu.RUnlock()
	return loadErr
}

// System returns the user configuration at Path(). A missing file is
// created from the embedded defaults.
func System() Config {
	once.Do(initStore)
	mu.RLock()
	defer mu.RUnlock()
	return system
}

// SetSystem replaces the in-memory user config with a copy of cfg.
func SetSystem(cfg Config) {
	once.Do(initStore)
	mu.Lock()
	defer mu.Unlock()
	if cfg == nil {
		cfg = make(Config)
	}
	system = Clone(cfg)
}

// SaveSystem persists the in-memory user config to Path().
func SaveSystem() error {
	once.Do(initStore)
	mu.Lock()
	defer mu.Unlock()
	path, err := Path()
	if err != nil {
		return err
	}
	return writeConfig(path, system)
}

// Load reads the config at path and fills in defaults. A missing file is
// not an error and yields Default().
func Load(path string) (Config, error) {
	cfg, exists, err := readConfig(path)
	if err != nil {
		return Default(), err
	}
	if !exists || cfg == nil {
		return Default(), nil
	}
	applyDefaults(cfg)
	return cfg, nil
}

// Save writes cfg to path as indented JSON, creating parent directories.
func Save(path string, cfg Config) error {
	return writeConfig(path, cfg)
}

// Default returns a fresh copy of the built-in configuration.
func Default() Config {
	cfg := defaultConfig()
	if cfg == nil {
		cfg = make(Config)
	}
	applyDefaults(cfg)
	return cfg
}

// Clone returns a copy of cfg. Sections and nested maps are copied one
// level deep so callers can edit keys without touching the original.
func Clone(cfg Config) Config {
	if cfg == nil {
		return nil
	}
	clone := make(Config, len(cfg))
	for name, raw := range cfg {
		switch v := raw.(type) {
		case Section:
			clone[name] = cloneSection(v)
		case map[string]interface{}:
			clone[name] = cloneSection(v)
		default:
			clone[name] = v
		}
	}
	return clone
}

func cloneSection(src map[string]interface{}) Section {
	out := make(Section, len(src))
	for key, value := range src {
		if nested, ok := value.(map[string]interface{}); ok {
			copied := make(map[string]interface{}, len(nested))
			for k, v := range nested {
				copied[k] = v
			}
			value = copied
		}
		out[key] = value
	}
	return out
}

func initStore() {
	mu.Lock()
	defer mu.Unlock()
	system = make(Config)
	loadErr = loadSystemLocked()
}

func readConfig(path string) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, true, err
	}
	return cfg, true, nil
}

func writeConfig(path string, cfg Config) error {
	if cfg == nil {
		cfg = make(Config)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
