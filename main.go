// Copyright (c) 2025 Platefront Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Platefront assistant widget. An embeddable conversational assistant for the
// Platefront delivery platform, run here as a standalone terminal client
// against the assistant backend.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/platefront/assist-tui/internal/assist"
	"github.com/platefront/assist-tui/internal/backend"
	"github.com/platefront/assist-tui/internal/config"
	"github.com/platefront/assist-tui/internal/ui/widget"
)

// stderrNotifier surfaces turn failures outside the transcript. The embedding
// host would route these to its toast layer; the standalone client prints
// them to stderr so they survive the alternate screen.
type stderrNotifier struct{}

func (stderrNotifier) NotifyError(title, body string) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", title, body)
}

// stderrNavigator stands in for the host's router.
type stderrNavigator struct{}

func (stderrNavigator) GoToRestaurant(restaurantID string) {
	fmt.Fprintf(os.Stderr, "navigate: /restaurants/%s\n", restaurantID)
}

func main() {
	configPath := flag.String("config", "", "path to config file (default ~/.platefront/assist.toml)")
	backendURL := flag.String("backend", "", "assistant backend URL (overrides config)")
	flag.Parse()

	path := *configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load config: %v\n", err)
		os.Exit(1)
	}
	if *backendURL != "" {
		cfg.Backend.URL = *backendURL
	}
	config.SetGlobal(cfg)

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: the assistant widget requires an interactive terminal")
		os.Exit(1)
	}

	client := backend.NewClient(&backend.ClientConfig{
		URL:     cfg.Backend.URL,
		Timeout: time.Duration(cfg.Backend.TimeoutSecs) * time.Second,
	})

	m := widget.New(client, stderrNotifier{}, stderrNavigator{}, assist.StaticIdentity(cfg.Backend.TenantID))
	defer m.Teardown()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
