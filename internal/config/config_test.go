// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// =============================================================================
// DEFAULTS & VALIDATION
// =============================================================================

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config failed validation: %v", err)
	}
	if cfg.Server.URL != "http://localhost:5000" {
		t.Errorf("Default server URL = %q", cfg.Server.URL)
	}
	if cfg.Input.MaxChars != 1000 {
		t.Errorf("Default max_chars = %d, want 1000", cfg.Input.MaxChars)
	}
	if !cfg.Archive.Enabled {
		t.Error("Archive should be enabled by default")
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty server url", func(c *Config) { c.Server.URL = "" }, "server.url"},
		{"bad server url", func(c *Config) { c.Server.URL = "not a url" }, "server.url"},
		{"negative timeout", func(c *Config) { c.Server.RequestTimeoutSecs = -1 }, "server.request_timeout_secs"},
		{"negative typing interval", func(c *Config) { c.Stream.TypingIntervalMs = -5 }, "stream.typing_interval_ms"},
		{"zero fps", func(c *Config) { c.Stream.FlushFPS = 0 }, "stream.flush_fps"},
		{"absurd fps", func(c *Config) { c.Stream.FlushFPS = 500 }, "stream.flush_fps"},
		{"zero max chars", func(c *Config) { c.Input.MaxChars = 0 }, "input.max_chars"},
		{"bad theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme"},
		{"negative max stories", func(c *Config) { c.Archive.MaxStories = -1 }, "archive.max_stories"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Errorf("Error %q does not mention field %q", err.Error(), tc.field)
			}
		})
	}
}

func TestSetDefaults_FillsZeroValues(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()
	if cfg.Server.URL == "" {
		t.Error("SetDefaults left server URL empty")
	}
	if cfg.Input.MaxChars != 1000 {
		t.Errorf("SetDefaults max_chars = %d", cfg.Input.MaxChars)
	}
	if cfg.UI.Intro == "" {
		t.Error("SetDefaults left intro empty")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Config invalid after SetDefaults: %v", err)
	}
}

// =============================================================================
// LOAD / SAVE ROUND TRIP
// =============================================================================

func TestLoadFromPath_TOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
version = "1.0.0"

[server]
url = "http://story.example:8080"
request_timeout_secs = 10

[input]
max_chars = 500

[ui]
theme = "light"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Server.URL != "http://story.example:8080" {
		t.Errorf("Server URL = %q", cfg.Server.URL)
	}
	if cfg.Input.MaxChars != 500 {
		t.Errorf("MaxChars = %d", cfg.Input.MaxChars)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme = %q", cfg.UI.Theme)
	}
	// Unspecified fields get defaults
	if cfg.Stream.FlushFPS != 30 {
		t.Errorf("FlushFPS = %d, want default 30", cfg.Stream.FlushFPS)
	}
}

func TestLoadFromPath_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{"server": {"url": "http://localhost:9000"}, "ui": {"theme": "auto"}}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.Server.URL != "http://localhost:9000" {
		t.Errorf("Server URL = %q", cfg.Server.URL)
	}
	if cfg.UI.Theme != "auto" {
		t.Errorf("Theme = %q", cfg.UI.Theme)
	}
}

func TestLoadFromPath_InvalidConfigRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[ui]
theme = "neon"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFromPath(path); err == nil {
		t.Error("Expected validation error for bad theme")
	}
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default()
	cfg.Server.URL = "http://roundtrip.example:5000"
	cfg.Input.MaxChars = 750

	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML failed: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if loaded.Server.URL != cfg.Server.URL {
		t.Errorf("Round trip URL = %q", loaded.Server.URL)
	}
	if loaded.Input.MaxChars != 750 {
		t.Errorf("Round trip MaxChars = %d", loaded.Input.MaxChars)
	}
}

// =============================================================================
// ENV OVERRIDES
// =============================================================================

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("FABLE_SERVER_URL", "http://env.example:5001")
	t.Setenv("FABLE_THEME", "light")
	t.Setenv("FABLE_MAX_INPUT", "250")
	t.Setenv("FABLE_NO_ARCHIVE", "true")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Server.URL != "http://env.example:5001" {
		t.Errorf("Server URL = %q", cfg.Server.URL)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme = %q", cfg.UI.Theme)
	}
	if cfg.Input.MaxChars != 250 {
		t.Errorf("MaxChars = %d", cfg.Input.MaxChars)
	}
	if cfg.Archive.Enabled {
		t.Error("Archive should be disabled via FABLE_NO_ARCHIVE")
	}
}

func TestApplyEnvOverrides_BadValuesIgnored(t *testing.T) {
	t.Setenv("FABLE_MAX_INPUT", "not-a-number")
	t.Setenv("FABLE_TIMEOUT_SECS", "-5")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.Input.MaxChars != 1000 {
		t.Errorf("MaxChars = %d, want default kept", cfg.Input.MaxChars)
	}
	if cfg.Server.RequestTimeoutSecs != 30 {
		t.Errorf("RequestTimeoutSecs = %d, want default kept", cfg.Server.RequestTimeoutSecs)
	}
}

// =============================================================================
// DOT NOTATION GET/SET
// =============================================================================

func TestGetSet_DotNotation(t *testing.T) {
	cfg := Default()

	val, err := cfg.Get("server.url")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if val != "http://localhost:5000" {
		t.Errorf("Get(server.url) = %v", val)
	}

	if err := cfg.Set("ui.theme", "light"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme = %q after Set", cfg.UI.Theme)
	}

	// String to int conversion
	if err := cfg.Set("input.max_chars", "640"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if cfg.Input.MaxChars != 640 {
		t.Errorf("MaxChars = %d after Set", cfg.Input.MaxChars)
	}

	if _, err := cfg.Get("no.such.key"); err == nil {
		t.Error("Get of unknown key should fail")
	}
	if err := cfg.Set("server.nope", "x"); err == nil {
		t.Error("Set of unknown key should fail")
	}
}

func TestGetAllKeys_Resolvable(t *testing.T) {
	cfg := Default()
	for _, key := range GetAllKeys() {
		if _, err := cfg.Get(key); err != nil {
			t.Errorf("Key %q not resolvable: %v", key, err)
		}
	}
}

// =============================================================================
// WATCHER
// =============================================================================

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[ui]\ntheme = \"dark\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	reloaded := make(chan *Config, 1)
	w, err := NewWatcherForPath(path, 50*time.Millisecond, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewWatcherForPath failed: %v", err)
	}
	defer w.Close()

	if err := w.Watch(); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	if err := os.WriteFile(path, []byte("[ui]\ntheme = \"light\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.UI.Theme != "light" {
			t.Errorf("Reloaded theme = %q", cfg.UI.Theme)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Watcher did not reload within 3s")
	}
}

// =============================================================================
// GLOBAL SINGLETON
// =============================================================================

// TestConfig_ConcurrentAccess tests that Global(), SetGlobal(), and
// ReloadGlobal() can be safely called concurrently without race conditions.
// Run with: go test -race -v ./internal/config/
func TestConfig_ConcurrentAccess(t *testing.T) {
	ResetGlobalForTesting()

	var wg sync.WaitGroup

	// 50 writers using SetGlobal, 50 readers using Global
	for i := 0; i < 50; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			SetGlobal(Default())
		}()

		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}

	wg.Wait()
}
