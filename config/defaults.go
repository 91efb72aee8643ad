// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/defaults.go
// Summary: Default values filled into partially written config files.

package config

func applyDefaults(cfg Config) {
	if cfg == nil {
		return
	}
	cfg.RegisterDefaults("markup", Section{
		"debug":               false,
		"bold_offset":         1,
		"italic_offset":       -1,
		"underline_glyph":     95,
		"strikethrough_glyph": 196,
		"decorator_color":     "170,170,170",
		"blink_speed_ms":      350,
		"case_language":       "und",
		"colors":              map[string]interface{}{},
	})
	cfg.RegisterDefaults("cli", Section{
		"grammar":         "code",
		"highlight_style": "catppuccin-mocha",
	})
}
