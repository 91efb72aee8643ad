// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func resetStore() {
	once = sync.Once{}
	system = nil
	loadErr = nil
}

func TestSystemDefaultsWritten(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetStore()

	cfg := System()
	if got := cfg.GetInt("markup", "underline_glyph", 0); got != 95 {
		t.Fatalf("expected underline_glyph 95, got %d", got)
	}

	path, err := Path()
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	var disk Config
	if err := json.Unmarshal(data, &disk); err != nil {
		t.Fatalf("unmarshal config: %v", err)
	}
	if disk.Section("markup") == nil {
		t.Fatalf("expected markup section on disk")
	}
}

func TestSaveSystemWritesUpdates(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	resetStore()

	SetSystem(Config{
		"markup": map[string]interface{}{"bold_offset": 128},
	})
	if err := SaveSystem(); err != nil {
		t.Fatalf("SaveSystem: %v", err)
	}
	resetStore()
	if err := Err(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	cfg := System()
	if got := cfg.GetInt("markup", "bold_offset", 0); got != 128 {
		t.Fatalf("expected bold_offset 128, got %d", got)
	}
	if got := cfg.GetInt("markup", "italic_offset", 0); got != -1 {
		t.Fatalf("expected italic_offset default filled in, got %d", got)
	}
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.GetString("cli", "grammar", ""); got != "code" {
		t.Fatalf("expected grammar code, got %q", got)
	}
}

func TestLoadReportsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err == nil {
		t.Fatalf("expected an error for malformed JSON")
	}
	if cfg.Section("markup") == nil {
		t.Fatalf("expected defaults alongside the error")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "texelstyle.json")
	cfg := Default()
	cfg.Section("markup")["colors"] = map[string]interface{}{"brand": "#336699"}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := loaded.GetStringMap("markup", "colors")["brand"]; got != "#336699" {
		t.Fatalf("expected brand color, got %q", got)
	}
}

func TestGettersCoerceTypes(t *testing.T) {
	cfg := Config{
		"s": map[string]interface{}{
			"int_str":   "7",
			"float":     2.5,
			"num":       json.Number("3"),
			"bool_str":  "true",
			"bool_num":  1.0,
			"wrongtype": []interface{}{},
		},
	}
	if got := cfg.GetInt("s", "int_str", 0); got != 7 {
		t.Fatalf("GetInt string = %d", got)
	}
	if got := cfg.GetInt("s", "float", 0); got != 2 {
		t.Fatalf("GetInt float = %d", got)
	}
	if got := cfg.GetFloat("s", "num", 0); got != 3 {
		t.Fatalf("GetFloat number = %v", got)
	}
	if !cfg.GetBool("s", "bool_str", false) || !cfg.GetBool("s", "bool_num", false) {
		t.Fatalf("GetBool coercion failed")
	}
	if got := cfg.GetInt("s", "wrongtype", 9); got != 9 {
		t.Fatalf("expected default for wrong type, got %d", got)
	}
	if got := cfg.GetString("missing", "k", "d"); got != "d" {
		t.Fatalf("expected default for missing section, got %q", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	cfg := Default()
	clone := Clone(cfg)
	clone.Section("markup")["debug"] = true
	clone.Section("markup")["colors"].(map[string]interface{})["x"] = "red"
	if cfg.GetBool("markup", "debug", false) {
		t.Fatalf("clone shares section storage")
	}
	if _, ok := cfg.GetStringMap("markup", "colors")["x"]; ok {
		t.Fatalf("clone shares nested map storage")
	}
}

func TestRegisterDefaultsKeepsExisting(t *testing.T) {
	cfg := Config{"markup": map[string]interface{}{"bold_offset": 5}}
	applyDefaults(cfg)
	if got := cfg.GetInt("markup", "bold_offset", 0); got != 5 {
		t.Fatalf("existing key overwritten: %d", got)
	}
	if got := cfg.GetInt("markup", "strikethrough_glyph", 0); got != 196 {
		t.Fatalf("missing key not filled: %d", got)
	}
}
