// Package main is the entry point for the gateway admin TUI. It loads
// configuration, starts the service manager, and runs the Bubble Tea program.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/inference-gw/admin-tui/internal/app"
	"github.com/inference-gw/admin-tui/internal/config"
	"github.com/inference-gw/admin-tui/internal/services"
	"github.com/inference-gw/admin-tui/internal/ui/tabs/batches"
	"github.com/inference-gw/admin-tui/internal/ui/tabs/billing"
	"github.com/inference-gw/admin-tui/internal/ui/tabs/dashboard"
	"github.com/inference-gw/admin-tui/internal/ui/tabs/deployments"
	"github.com/inference-gw/admin-tui/internal/ui/tabs/info"
	"github.com/inference-gw/admin-tui/internal/ui/tabs/users"
	"github.com/inference-gw/admin-tui/internal/version"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		printUsage()
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run contains the main application logic, separated for cleaner error handling.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Starts the batch poller, request log sync, and credential watcher.
	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	model := app.NewModel(svcManager)

	// Each tab shares the application state and issues loads through the
	// commands helper.
	state := model.GetState()
	cmds := model.GetCommands()
	tabs := []app.Tab{
		dashboard.New(state, cmds),
		users.New(state, cmds),
		deployments.New(state, cmds),
		batches.New(state, cmds),
		billing.New(state, cmds),
		info.New(state, cfg, cmds),
	}
	model.SetTabs(tabs)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`gwadmin - terminal admin console for the inference gateway

Usage:
  gwadmin [flags]

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Keyboard Shortcuts:
  1-6             Switch tabs (Dashboard, Users, Models, Batches, Billing, Info)
  Tab/Shift+Tab   Navigate between tabs
  j/k, Up/Down    Navigate lists
  Enter           Select/confirm
  /               Search (where available)
  r               Refresh data
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  GWADMIN_BASE_URL        Gateway admin API base URL
  GWADMIN_TOKEN           Platform API token
  GWADMIN_DEMO            Run against built-in fixtures (1/true)
  GWADMIN_POLL_INTERVAL   Batch polling interval (default: 2s)
  DATABASE_PATH           SQLite request log path
  CREDENTIALS_PATH        Credentials JSON file path

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/gwadmin/.env
  - ~/.gwadmin/.env`)
}
