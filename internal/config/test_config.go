package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	return &Config{
		Upstream: UpstreamConfig{
			BaseURL:     "http://127.0.0.1:0/api",
			PerPage:     50,
			MaxPages:    3,
			HTTPTimeout: 1 * time.Second,
		},
		Server: ServerConfig{
			ListenAddr:      "127.0.0.1:0",
			RefreshInterval: 1 * time.Minute,
			MaxPosts:        20,
			ContentCacheTTL: 1 * time.Minute,
		},
		Client: ClientConfig{
			ServerURL:   "http://127.0.0.1:0",
			HTTPTimeout: 1 * time.Second,
			Opener:      "true", // no-op command in tests
		},
		UI:   defaultConfig().UI,
		Keys: defaultConfig().Keys,
	}
}
