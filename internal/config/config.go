package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Server   ServerConfig   `mapstructure:"server"`
	Client   ClientConfig   `mapstructure:"client"`
	UI       UIConfig       `mapstructure:"ui"`
	Keys     KeyBindings    `mapstructure:"keys"`
}

type UpstreamConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	PerPage     int           `mapstructure:"per_page"`
	MaxPages    int           `mapstructure:"max_pages"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	RequestGap  time.Duration `mapstructure:"request_gap"`
}

type ServerConfig struct {
	ListenAddr      string        `mapstructure:"listen_addr"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	MaxPosts        int           `mapstructure:"max_posts"`
	ContentCacheTTL time.Duration `mapstructure:"content_cache_ttl"`
}

type ClientConfig struct {
	ServerURL   string        `mapstructure:"server_url"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	Opener      string        `mapstructure:"opener"`
}

type UIConfig struct {
	Colors UIColors `mapstructure:"colors"`
}

type UIColors struct {
	Primary string `mapstructure:"primary"`
	Accent  string `mapstructure:"accent"`
	Text    string `mapstructure:"text"`
	Muted   string `mapstructure:"muted"`
	Error   string `mapstructure:"error"`
}

type KeyBindings struct {
	Quit    string `mapstructure:"quit"`
	Refresh string `mapstructure:"refresh"`
	Up      string `mapstructure:"up"`
	Down    string `mapstructure:"down"`
	Open    string `mapstructure:"open"`
	Browser string `mapstructure:"browser"`
	Back    string `mapstructure:"back"`
}

func defaultConfig() *Config {
	return &Config{
		Upstream: UpstreamConfig{
			BaseURL:     "https://dev.to/api",
			PerPage:     100,
			MaxPages:    10,
			HTTPTimeout: 30 * time.Second,
			RequestGap:  500 * time.Millisecond,
		},
		Server: ServerConfig{
			ListenAddr:      "127.0.0.1:3000",
			RefreshInterval: 24 * time.Hour,
			MaxPosts:        27,
			ContentCacheTTL: 1 * time.Hour,
		},
		Client: ClientConfig{
			ServerURL:   "http://127.0.0.1:3000",
			HTTPTimeout: 5 * time.Second,
			Opener:      getDefaultOpener(),
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary: "#FF6B6B",
				Accent:  "#4ECDC4",
				Text:    "#EAEAEA",
				Muted:   "#94A3B8",
				Error:   "#F87171",
			},
		},
		Keys: KeyBindings{
			Quit:    "q",
			Refresh: "r",
			Up:      "k",
			Down:    "j",
			Open:    "enter",
			Browser: "o",
			Back:    "esc",
		},
	}
}

func getDefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return "open"
	}
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Defaults are registered per leaf key, not per section struct, so viper
	// knows every key and AutomaticEnv can match it.
	cfg := defaultConfig()
	v.SetDefault("upstream.base_url", cfg.Upstream.BaseURL)
	v.SetDefault("upstream.api_key", cfg.Upstream.APIKey)
	v.SetDefault("upstream.per_page", cfg.Upstream.PerPage)
	v.SetDefault("upstream.max_pages", cfg.Upstream.MaxPages)
	v.SetDefault("upstream.http_timeout", cfg.Upstream.HTTPTimeout)
	v.SetDefault("upstream.request_gap", cfg.Upstream.RequestGap)
	v.SetDefault("server.listen_addr", cfg.Server.ListenAddr)
	v.SetDefault("server.refresh_interval", cfg.Server.RefreshInterval)
	v.SetDefault("server.max_posts", cfg.Server.MaxPosts)
	v.SetDefault("server.content_cache_ttl", cfg.Server.ContentCacheTTL)
	v.SetDefault("client.server_url", cfg.Client.ServerURL)
	v.SetDefault("client.http_timeout", cfg.Client.HTTPTimeout)
	v.SetDefault("client.opener", cfg.Client.Opener)
	v.SetDefault("ui.colors.primary", cfg.UI.Colors.Primary)
	v.SetDefault("ui.colors.accent", cfg.UI.Colors.Accent)
	v.SetDefault("ui.colors.text", cfg.UI.Colors.Text)
	v.SetDefault("ui.colors.muted", cfg.UI.Colors.Muted)
	v.SetDefault("ui.colors.error", cfg.UI.Colors.Error)
	v.SetDefault("keys.quit", cfg.Keys.Quit)
	v.SetDefault("keys.refresh", cfg.Keys.Refresh)
	v.SetDefault("keys.up", cfg.Keys.Up)
	v.SetDefault("keys.down", cfg.Keys.Down)
	v.SetDefault("keys.open", cfg.Keys.Open)
	v.SetDefault("keys.browser", cfg.Keys.Browser)
	v.SetDefault("keys.back", cfg.Keys.Back)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "devtop")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	// DEVTOP_SERVER_LISTEN_ADDR overrides server.listen_addr, and so on.
	v.SetEnvPrefix("DEVTOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &config, nil
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Convert durations to strings for TOML readability
	upstreamCfg := map[string]interface{}{
		"base_url":     config.Upstream.BaseURL,
		"api_key":      config.Upstream.APIKey,
		"per_page":     config.Upstream.PerPage,
		"max_pages":    config.Upstream.MaxPages,
		"http_timeout": config.Upstream.HTTPTimeout.String(),
		"request_gap":  config.Upstream.RequestGap.String(),
	}

	serverCfg := map[string]interface{}{
		"listen_addr":       config.Server.ListenAddr,
		"refresh_interval":  config.Server.RefreshInterval.String(),
		"max_posts":         config.Server.MaxPosts,
		"content_cache_ttl": config.Server.ContentCacheTTL.String(),
	}

	clientCfg := map[string]interface{}{
		"server_url":   config.Client.ServerURL,
		"http_timeout": config.Client.HTTPTimeout.String(),
		"opener":       config.Client.Opener,
	}

	v.Set("upstream", upstreamCfg)
	v.Set("server", serverCfg)
	v.Set("client", clientCfg)
	v.Set("ui", config.UI)
	v.Set("keys", config.Keys)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
