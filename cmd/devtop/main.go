package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/devtop/internal/config"
	"github.com/pders01/devtop/internal/feedclient"
	"github.com/pders01/devtop/internal/tui"
	"github.com/pders01/devtop/internal/validation"
)

// Version is the version of the application, set at build time
var Version = "dev"

func main() {
	var (
		configPath     = flag.String("config", "", "Path to configuration file")
		serverURL      = flag.String("server", "", "Feed server URL (overrides config)")
		generateConfig = flag.Bool("generate-config", false, "Generate default config file")
		version        = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *version {
		fmt.Printf("devtop %s\n", Version)
		fmt.Println("terminal browser for the day's top developer news")
		fmt.Println("github.com/pders01/devtop")
		return
	}

	if *generateConfig {
		home, _ := os.UserHomeDir()
		configFile := filepath.Join(home, ".config", "devtop", "config.toml")

		if err := config.GenerateDefaultConfig(configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Generated default configuration at: %s\n", configFile)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *serverURL != "" {
		cfg.Client.ServerURL = *serverURL
	}

	baseURL, err := validation.ValidateBaseURL(cfg.Client.ServerURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid server URL %q: %v\n", cfg.Client.ServerURL, err)
		os.Exit(1)
	}
	cfg.Client.ServerURL = baseURL

	client := feedclient.New(cfg.Client.ServerURL, cfg.Client.HTTPTimeout)

	app := tui.NewApp(client, cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
