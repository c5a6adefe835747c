// Package app wires configuration, the session store, the board client, and
// the terminal UI together.
package app

import (
	"context"
	"fmt"

	"github.com/mujigae/boardwalk/internal/board"
	"github.com/mujigae/boardwalk/internal/config"
	"github.com/mujigae/boardwalk/internal/prefs"
	"github.com/mujigae/boardwalk/internal/session"
	"github.com/mujigae/boardwalk/internal/ui"
)

// Options carries the command-line overrides into startup.
type Options struct {
	// ConfigPath overrides the default config file location.
	ConfigPath string
	// BaseURL overrides the configured board API base URL. It wins over
	// both the config file and the environment.
	BaseURL string
}

// Run starts the application and blocks until quit or context cancellation.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}

	sessions, err := session.Open(session.DefaultPath())
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}

	client, err := board.NewClient(cfg.BaseURL, cfg.Timeout, sessions)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	userPrefs := prefs.Load(prefs.DefaultPath())

	return ui.Run(ui.Options{
		Context:   ctx,
		Client:    client,
		Sessions:  sessions,
		PageSize:  cfg.PageSize,
		ThemeName: userPrefs.Theme,
		PrefsPath: prefs.DefaultPath(),
	})
}
