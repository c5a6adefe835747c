// Package config loads boardwalk's configuration from
// ~/.config/boardwalk/config.toml with sensible defaults and an environment
// override for the API base URL.
package config
