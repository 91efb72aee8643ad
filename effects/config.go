// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: effects/config.go
// Summary: Effect factories configured from loosely typed maps.

package effects

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/framegrace/texelstyle/styled"
)

// EffectConfig is the JSON-compatible configuration of one effect.
type EffectConfig map[string]interface{}

// Factory constructs an effect given its configuration map.
type Factory func(EffectConfig) (styled.Effect, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register associates an effect ID with a factory. It panics on duplicate IDs.
func Register(id string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[id]; exists {
		panic("effects: duplicate registration for " + id)
	}
	registry[id] = factory
}

// Lookup fetches a factory by ID.
func Lookup(id string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[id]
	return f, ok
}

// Replace installs factory for id, registered or not, and returns the
// factory it displaced. Hosts use it to swap a built-in effect.
func Replace(id string, factory Factory) Factory {
	registryMu.Lock()
	defer registryMu.Unlock()
	prev := registry[id]
	if factory == nil {
		delete(registry, id)
	} else {
		registry[id] = factory
	}
	return prev
}

// New builds the effect registered under id.
func New(id string, cfg EffectConfig) (styled.Effect, error) {
	factory, ok := Lookup(id)
	if !ok {
		return nil, fmt.Errorf("effects: no factory for %q", id)
	}
	return factory(cfg)
}

// SpeedMatcher is implemented by timed handles that can be shared between
// commands asking for the same speed.
type SpeedMatcher interface {
	styled.Effect
	Matches(speed time.Duration) bool
}

// Restarter is implemented by handles whose phase can be reset.
type Restarter interface {
	Restart()
}

// ParseDurationOrDefault reads cfg[key] as a time.Duration or as a number
// of milliseconds.
func ParseDurationOrDefault(cfg EffectConfig, key string, fallback time.Duration) time.Duration {
	if cfg == nil {
		return fallback
	}
	if raw, ok := cfg[key]; ok {
		switch v := raw.(type) {
		case time.Duration:
			return v
		case int:
			return time.Duration(v) * time.Millisecond
		case int64:
			return time.Duration(v) * time.Millisecond
		case float64:
			return time.Duration(v * float64(time.Millisecond))
		case string:
			if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
				return time.Duration(parsed) * time.Millisecond
			}
		}
	}
	return fallback
}

func init() {
	Register("blink", func(cfg EffectConfig) (styled.Effect, error) {
		speed := ParseDurationOrDefault(cfg, "speed_ms", DefaultBlinkSpeed)
		return NewBlink(ParseDurationOrDefault(cfg, "speed", speed)), nil
	})
}
