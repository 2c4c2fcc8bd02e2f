package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestGetDefaultOpener(t *testing.T) {
	expected := map[string]string{
		"darwin":  "open",
		"linux":   "xdg-open",
		"windows": "start",
	}

	opener := getDefaultOpener()

	if expectedOpener, ok := expected[runtime.GOOS]; ok {
		if opener != expectedOpener {
			t.Errorf("getDefaultOpener() = %s, want %s for %s", opener, expectedOpener, runtime.GOOS)
		}
	} else {
		// For unknown OS, should default to "open"
		if opener != "open" {
			t.Errorf("getDefaultOpener() = %s, want 'open' for unknown OS", opener)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	// Test upstream defaults
	if cfg.Upstream.BaseURL != "https://dev.to/api" {
		t.Errorf("Upstream.BaseURL = %s, want 'https://dev.to/api'", cfg.Upstream.BaseURL)
	}
	if cfg.Upstream.PerPage != 100 {
		t.Errorf("Upstream.PerPage = %d, want 100", cfg.Upstream.PerPage)
	}
	if cfg.Upstream.MaxPages != 10 {
		t.Errorf("Upstream.MaxPages = %d, want 10", cfg.Upstream.MaxPages)
	}
	if cfg.Upstream.HTTPTimeout != 30*time.Second {
		t.Errorf("Upstream.HTTPTimeout = %v, want 30s", cfg.Upstream.HTTPTimeout)
	}

	// Test server defaults
	if cfg.Server.ListenAddr != "127.0.0.1:3000" {
		t.Errorf("Server.ListenAddr = %s, want '127.0.0.1:3000'", cfg.Server.ListenAddr)
	}
	if cfg.Server.RefreshInterval != 24*time.Hour {
		t.Errorf("Server.RefreshInterval = %v, want 24h", cfg.Server.RefreshInterval)
	}
	if cfg.Server.MaxPosts != 27 {
		t.Errorf("Server.MaxPosts = %d, want 27", cfg.Server.MaxPosts)
	}

	// Test client defaults
	if cfg.Client.ServerURL != "http://127.0.0.1:3000" {
		t.Errorf("Client.ServerURL = %s, want 'http://127.0.0.1:3000'", cfg.Client.ServerURL)
	}
	if cfg.Client.Opener == "" {
		t.Error("Client.Opener should not be empty")
	}

	// Test key bindings
	if cfg.Keys.Quit != "q" {
		t.Errorf("Keys.Quit = %s, want 'q'", cfg.Keys.Quit)
	}
	if cfg.Keys.Refresh != "r" {
		t.Errorf("Keys.Refresh = %s, want 'r'", cfg.Keys.Refresh)
	}
	if cfg.Keys.Open != "enter" {
		t.Errorf("Keys.Open = %s, want 'enter'", cfg.Keys.Open)
	}
}

func TestLoad_DefaultConfig(t *testing.T) {
	// Test loading without a config file (should use defaults)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}

	// Should have default values
	if cfg.Server.RefreshInterval != 24*time.Hour {
		t.Errorf("Server.RefreshInterval = %v, want 24h", cfg.Server.RefreshInterval)
	}
}

func TestLoad_FromFile(t *testing.T) {
	// Create a temporary config file
	tmpDir, err := os.MkdirTemp("", "config-test-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	configPath := filepath.Join(tmpDir, "test-config.toml")
	configContent := `
[upstream]
base_url = "https://example.test/api"
per_page = 50
http_timeout = "60s"

[server]
listen_addr = "0.0.0.0:8080"
refresh_interval = "1h"
max_posts = 10

[client]
server_url = "http://feed.local:8080"

[ui.colors]
primary = "#FF0000"
`

	if writeErr := os.WriteFile(configPath, []byte(configContent), 0o644); writeErr != nil {
		t.Fatal(writeErr)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Check loaded values
	if cfg.Upstream.BaseURL != "https://example.test/api" {
		t.Errorf("Upstream.BaseURL = %s, want 'https://example.test/api'", cfg.Upstream.BaseURL)
	}
	if cfg.Upstream.PerPage != 50 {
		t.Errorf("Upstream.PerPage = %d, want 50", cfg.Upstream.PerPage)
	}
	if cfg.Upstream.HTTPTimeout != 60*time.Second {
		t.Errorf("Upstream.HTTPTimeout = %v, want 60s", cfg.Upstream.HTTPTimeout)
	}
	if cfg.Server.ListenAddr != "0.0.0.0:8080" {
		t.Errorf("Server.ListenAddr = %s, want '0.0.0.0:8080'", cfg.Server.ListenAddr)
	}
	if cfg.Server.RefreshInterval != 1*time.Hour {
		t.Errorf("Server.RefreshInterval = %v, want 1h", cfg.Server.RefreshInterval)
	}
	if cfg.Server.MaxPosts != 10 {
		t.Errorf("Server.MaxPosts = %d, want 10", cfg.Server.MaxPosts)
	}
	if cfg.Client.ServerURL != "http://feed.local:8080" {
		t.Errorf("Client.ServerURL = %s, want 'http://feed.local:8080'", cfg.Client.ServerURL)
	}
	if cfg.UI.Colors.Primary != "#FF0000" {
		t.Errorf("UI.Colors.Primary = %s, want '#FF0000'", cfg.UI.Colors.Primary)
	}

	// Unset sections keep their defaults
	if cfg.Keys.Quit != "q" {
		t.Errorf("Keys.Quit = %s, want default 'q'", cfg.Keys.Quit)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "config-env-test-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	configPath := filepath.Join(tmpDir, "config.toml")
	configContent := `
[server]
listen_addr = "127.0.0.1:4000"

[upstream]
base_url = "https://file.example/api"
`
	if writeErr := os.WriteFile(configPath, []byte(configContent), 0o644); writeErr != nil {
		t.Fatal(writeErr)
	}

	t.Setenv("DEVTOP_SERVER_LISTEN_ADDR", "127.0.0.1:9999")
	t.Setenv("DEVTOP_UPSTREAM_API_KEY", "env-key")
	t.Setenv("DEVTOP_SERVER_REFRESH_INTERVAL", "2h")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Env beats the file value
	if cfg.Server.ListenAddr != "127.0.0.1:9999" {
		t.Errorf("Server.ListenAddr = %s, want env override '127.0.0.1:9999'", cfg.Server.ListenAddr)
	}
	// Env beats the default when the file is silent
	if cfg.Upstream.APIKey != "env-key" {
		t.Errorf("Upstream.APIKey = %s, want env override 'env-key'", cfg.Upstream.APIKey)
	}
	if cfg.Server.RefreshInterval != 2*time.Hour {
		t.Errorf("Server.RefreshInterval = %v, want env override 2h", cfg.Server.RefreshInterval)
	}
	// File values without an env override still apply
	if cfg.Upstream.BaseURL != "https://file.example/api" {
		t.Errorf("Upstream.BaseURL = %s, want file value", cfg.Upstream.BaseURL)
	}
}

func TestSave(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "config-save-test-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	cfg := &Config{
		Upstream: UpstreamConfig{
			BaseURL:     "https://example.test/api",
			APIKey:      "sekret",
			PerPage:     25,
			MaxPages:    4,
			HTTPTimeout: 45 * time.Second,
			RequestGap:  time.Second,
		},
		Server: ServerConfig{
			ListenAddr:      "127.0.0.1:9999",
			RefreshInterval: 20 * time.Minute,
			MaxPosts:        5,
			ContentCacheTTL: 10 * time.Minute,
		},
		Client: ClientConfig{
			ServerURL:   "http://127.0.0.1:9999",
			HTTPTimeout: 2 * time.Second,
			Opener:      "test-opener",
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary: "#00FF00",
			},
		},
		Keys: KeyBindings{
			Quit: "x",
		},
	}

	savePath := filepath.Join(tmpDir, "saved-config.toml")
	if saveErr := Save(cfg, savePath); saveErr != nil {
		t.Fatalf("Save() error = %v", saveErr)
	}

	// Verify file was created
	if _, statErr := os.Stat(savePath); os.IsNotExist(statErr) {
		t.Fatal("Save() did not create config file")
	}

	// Load it back and verify
	loaded, err := Load(savePath)
	if err != nil {
		t.Fatalf("Failed to load saved config: %v", err)
	}

	if loaded.Upstream.BaseURL != cfg.Upstream.BaseURL {
		t.Errorf("Loaded Upstream.BaseURL = %s, want %s", loaded.Upstream.BaseURL, cfg.Upstream.BaseURL)
	}
	if loaded.Upstream.APIKey != cfg.Upstream.APIKey {
		t.Errorf("Loaded Upstream.APIKey = %s, want %s", loaded.Upstream.APIKey, cfg.Upstream.APIKey)
	}
	if loaded.Server.RefreshInterval != cfg.Server.RefreshInterval {
		t.Errorf("Loaded Server.RefreshInterval = %v, want %v", loaded.Server.RefreshInterval, cfg.Server.RefreshInterval)
	}
	if loaded.Server.MaxPosts != cfg.Server.MaxPosts {
		t.Errorf("Loaded Server.MaxPosts = %d, want %d", loaded.Server.MaxPosts, cfg.Server.MaxPosts)
	}
	if loaded.Client.Opener != cfg.Client.Opener {
		t.Errorf("Loaded Client.Opener = %s, want %s", loaded.Client.Opener, cfg.Client.Opener)
	}
	if loaded.UI.Colors.Primary != cfg.UI.Colors.Primary {
		t.Errorf("Loaded UI.Colors.Primary = %s, want %s", loaded.UI.Colors.Primary, cfg.UI.Colors.Primary)
	}
	if loaded.Keys.Quit != cfg.Keys.Quit {
		t.Errorf("Loaded Keys.Quit = %s, want %s", loaded.Keys.Quit, cfg.Keys.Quit)
	}
}

func TestGenerateDefaultConfig(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "config-gen-test-*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "nested", "config.toml")
	if genErr := GenerateDefaultConfig(path); genErr != nil {
		t.Fatalf("GenerateDefaultConfig() error = %v", genErr)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load generated config: %v", err)
	}

	defaults := defaultConfig()
	if loaded.Upstream.BaseURL != defaults.Upstream.BaseURL {
		t.Errorf("Generated Upstream.BaseURL = %s, want %s", loaded.Upstream.BaseURL, defaults.Upstream.BaseURL)
	}
	if loaded.Server.MaxPosts != defaults.Server.MaxPosts {
		t.Errorf("Generated Server.MaxPosts = %d, want %d", loaded.Server.MaxPosts, defaults.Server.MaxPosts)
	}
}
