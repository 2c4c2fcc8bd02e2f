package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/pders01/devtop/internal/config"
	"github.com/pders01/devtop/internal/rank"
	"github.com/pders01/devtop/internal/server"
	"github.com/pders01/devtop/internal/upstream"
	"github.com/pders01/devtop/internal/validation"
)

// Version is the version of the application, set at build time
var Version = "dev"

func main() {
	var (
		configPath     = flag.String("config", "", "Path to configuration file")
		listenAddr     = flag.String("listen", "", "Listen address (overrides config)")
		generateConfig = flag.Bool("generate-config", false, "Generate default config file")
		version        = flag.Bool("version", false, "Show version information")
		quiet          = flag.Bool("quiet", false, "Skip startup banner")
	)
	flag.Parse()

	if *version {
		fmt.Printf("devtopd %s\n", Version)
		fmt.Println("developer news aggregator")
		fmt.Println("github.com/pders01/devtop")
		return
	}

	if *generateConfig {
		home, _ := os.UserHomeDir()
		configFile := filepath.Join(home, ".config", "devtop", "config.toml")

		if err := config.GenerateDefaultConfig(configFile); err != nil {
			log.Fatalf("Failed to generate config: %v", err)
		}
		fmt.Printf("Generated default configuration at: %s\n", configFile)
		return
	}

	// An optional .env next to the binary can carry the upstream API key.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if key := os.Getenv("DEVTOP_API_KEY"); key != "" {
		cfg.Upstream.APIKey = key
	}
	if *listenAddr != "" {
		cfg.Server.ListenAddr = *listenAddr
	}

	baseURL, err := validation.ValidateBaseURL(cfg.Upstream.BaseURL)
	if err != nil {
		log.Fatalf("Invalid upstream base URL: %v", err)
	}
	cfg.Upstream.BaseURL = baseURL

	if !*quiet {
		showBanner()
	}

	client := upstream.NewClient(upstream.Config{
		BaseURL:       cfg.Upstream.BaseURL,
		APIKey:        cfg.Upstream.APIKey,
		PerPage:       cfg.Upstream.PerPage,
		Timeout:       cfg.Upstream.HTTPTimeout,
		MinRequestGap: cfg.Upstream.RequestGap,
	})

	cache := rank.NewCache(client, rank.CacheConfig{
		MaxPosts: cfg.Server.MaxPosts,
		MaxPages: cfg.Upstream.MaxPages,
	})

	app := server.New(&server.Config{
		Cache:      cache,
		Content:    client,
		ContentTTL: cfg.Server.ContentCacheTTL,
	})

	ctx, cancel := context.WithCancel(context.Background())

	go cache.Run(ctx, cfg.Server.RefreshInterval)

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-c
		log.Info("Gracefully shutting down...")
		cancel()
		if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
			log.Errorf("Shutdown error: %v", err)
		}
	}()

	log.WithFields(log.Fields{
		"addr":             cfg.Server.ListenAddr,
		"refresh_interval": cfg.Server.RefreshInterval,
		"max_posts":        cfg.Server.MaxPosts,
	}).Info("Starting devtopd")

	if err := app.Listen(cfg.Server.ListenAddr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func showBanner() {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF6B6B")).
		Bold(true).
		Render("devtopd")
	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#94A3B8")).
		Render("ranked developer news, fresh daily")

	banner := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#4ECDC4")).
		Padding(0, 3).
		Render(lipgloss.JoinVertical(lipgloss.Center, title, tagline))

	fmt.Println(banner)
}
