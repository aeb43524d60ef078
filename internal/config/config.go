// Package config handles global Schemapad configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Defaults applied when the config file is absent or partial.
const (
	DefaultListen = "127.0.0.1:5000"
	DefaultURL    = "http://127.0.0.1:5000"
)

// Config represents the global Schemapad configuration.
type Config struct {
	// Server configures `spd serve`.
	Server ServerConfig `toml:"server"`

	// Client configures commands that talk to a running server
	// (search, pick, doc).
	Client ClientConfig `toml:"client"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// ServerConfig configures the local server.
type ServerConfig struct {
	// Listen is the host:port the server binds to.
	Listen string `toml:"listen"`

	// DataDir holds the per-PIN JSON files and the shares file.
	// Defaults to ~/.local/share/schemapad (or the OS equivalent).
	DataDir string `toml:"data_dir"`

	// DocIndex is the path of the SQLite document content index.
	// Defaults to <data_dir>/docindex.db.
	DocIndex string `toml:"doc_index"`
}

// ClientConfig configures client commands.
type ClientConfig struct {
	// URL is the base URL of the server.
	URL string `toml:"url"`

	// PIN is the workspace PIN sent as the session cookie.
	PIN string `toml:"pin"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output and markdown
	// rendering. Supported values are ANSI color codes ("0" to "255")
	// or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`
}

// ListenAddr returns the configured listen address or the default.
func (c *Config) ListenAddr() string {
	if c.Server.Listen != "" {
		return c.Server.Listen
	}
	return DefaultListen
}

// ServerURL returns the configured server base URL or the default.
func (c *Config) ServerURL() string {
	if c.Client.URL != "" {
		return strings.TrimRight(c.Client.URL, "/")
	}
	return DefaultURL
}

// DataDir returns the configured data directory, falling back to the
// user data dir.
func (c *Config) DataDir() (string, error) {
	if c.Server.DataDir != "" {
		return c.Server.DataDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve data dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", "schemapad"), nil
}

// DocIndexPath returns the SQLite index path, defaulting to a file
// inside the data directory.
func (c *Config) DocIndexPath() (string, error) {
	if c.Server.DocIndex != "" {
		return c.Server.DocIndex, nil
	}
	dataDir, err := c.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "docindex.db"), nil
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &Config{}, nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &config, nil
}

// DefaultPath returns the default config file path.
// Checks ~/.config/schemapad/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	// Prefer XDG-style ~/.config/schemapad/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "schemapad", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	// Fall back to XDG config dir or OS-specific location
	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "schemapad", "config.toml")
	}

	// Last resort fallback
	return filepath.Join(".", "config.toml")
}

// CreateDefault creates a default config file if it doesn't exist.
func CreateDefault() (string, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); err == nil {
		return configPath, nil // Already exists
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	defaultConfig := `# Schemapad Configuration

# [server]
# listen = "127.0.0.1:5000"
# data_dir = "/path/to/schemapad/data"
# doc_index = "/path/to/schemapad/data/docindex.db"

# [client]
# url = "http://127.0.0.1:5000"
# pin = "my-workspace"

# Optional UI accent color for headers/entity names in terminal output.
# Supports ANSI color codes (0-255) or hex (#RRGGBB).
# [ui]
# accent = "39"
`

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return configPath, nil
}
