package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the settings boardwalk needs to reach the board service.
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	PageSize int
}

const (
	defaultConfigPath = "~/.config/boardwalk/config.toml"
	defaultBaseURL    = "http://127.0.0.1:8080/api"
	defaultTimeout    = 10 * time.Second
	defaultPageSize   = 20

	// BOARDWALK_BASE_URL overrides base_url from the config file.
	baseURLEnv = "BOARDWALK_BASE_URL"
)

// Load locates and parses the boardwalk config, falling back to defaults when
// the file is missing. The BOARDWALK_BASE_URL environment variable wins over
// the file.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		BaseURL:  defaultBaseURL,
		Timeout:  defaultTimeout,
		PageSize: defaultPageSize,
	}

	bytes, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		BaseURL        string `toml:"base_url"`
		TimeoutSeconds int    `toml:"timeout_seconds"`
		PageSize       int    `toml:"page_size"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if base := strings.TrimSpace(raw.BaseURL); base != "" {
		cfg.BaseURL = base
	}
	if raw.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(raw.TimeoutSeconds) * time.Second
	}
	if raw.PageSize > 0 {
		cfg.PageSize = raw.PageSize
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if base := strings.TrimSpace(os.Getenv(baseURLEnv)); base != "" {
		cfg.BaseURL = base
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
