package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mujigae/boardwalk/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	baseURL := flag.String("base-url", "", "override board API base URL (optional)")
	flag.Parse()

	if os.Getenv("BOARDWALK_DEBUG") != "" {
		f, err := tea.LogToFile("boardwalk-debug.log", "boardwalk")
		if err != nil {
			fmt.Fprintf(os.Stderr, "boardwalk: open debug log: %v\n", err)
			return 1
		}
		defer func() { _ = f.Close() }()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		BaseURL:    *baseURL,
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "boardwalk: %v\n", err)
		return 1
	}
	return 0
}
