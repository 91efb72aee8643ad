// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/types.go
// Summary: Typed access helpers for config data.
// Notes: Values may come from JSON (float64, json.Number) or from Go
// literals (int), so every getter accepts the numeric kinds and strings.

package config

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Section returns the named section or nil if missing. The empty name is
// the top level.
func (c Config) Section(sectionName string) Section {
	if c == nil {
		return nil
	}
	if sectionName == "" {
		return Section(c)
	}
	switch v := c[sectionName].(type) {
	case Section:
		return v
	case map[string]interface{}:
		return Section(v)
	}
	return nil
}

// RegisterDefaults adds any keys of defaults missing from the section,
// creating the section when absent.
func (c Config) RegisterDefaults(sectionName string, defaults Section) {
	if c == nil || defaults == nil {
		return
	}
	section := c.Section(sectionName)
	if section == nil {
		section = make(Section, len(defaults))
		c[sectionName] = section
	}
	for key, value := range defaults {
		if _, ok := section[key]; !ok {
			section[key] = value
		}
	}
}

func (c Config) lookup(sectionName, key string) (interface{}, bool) {
	section := c.Section(sectionName)
	if section == nil {
		return nil, false
	}
	v, ok := section[key]
	return v, ok
}

// GetString retrieves a string value.
func (c Config) GetString(sectionName, key, defaultValue string) string {
	if v, ok := c.lookup(sectionName, key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return defaultValue
}

// GetFloat retrieves a float value.
func (c Config) GetFloat(sectionName, key string, defaultValue float64) float64 {
	v, ok := c.lookup(sectionName, key)
	if !ok {
		return defaultValue
	}
	if f, ok := toFloat(v); ok {
		return f
	}
	return defaultValue
}

// GetInt retrieves an integer value. Fractions are truncated.
func (c Config) GetInt(sectionName, key string, defaultValue int) int {
	v, ok := c.lookup(sectionName, key)
	if !ok {
		return defaultValue
	}
	if s, isString := v.(string); isString {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		return defaultValue
	}
	if f, ok := toFloat(v); ok {
		return int(f)
	}
	return defaultValue
}

// GetBool retrieves a boolean value. Numbers are true when non-zero.
func (c Config) GetBool(sectionName, key string, defaultValue bool) bool {
	v, ok := c.lookup(sectionName, key)
	if !ok {
		return defaultValue
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		if parsed, err := strconv.ParseBool(b); err == nil {
			return parsed
		}
		return defaultValue
	}
	if f, ok := toFloat(v); ok {
		return f != 0
	}
	return defaultValue
}

// GetStringMap retrieves a nested object as strings. Non-string values are
// formatted with %v.
func (c Config) GetStringMap(sectionName, key string) map[string]string {
	v, ok := c.lookup(sectionName, key)
	if !ok {
		return nil
	}
	var raw map[string]interface{}
	switch m := v.(type) {
	case map[string]interface{}:
		raw = m
	case Section:
		raw = m
	case map[string]string:
		out := make(map[string]string, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out
	default:
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, item := range raw {
		if s, ok := item.(string); ok {
			out[k] = s
		} else {
			out[k] = fmt.Sprint(item)
		}
	}
	return out
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}
