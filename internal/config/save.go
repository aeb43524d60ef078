package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/natefinch/atomic"
)

type persistedConfig struct {
	Server *persistedServer `toml:"server,omitempty"`
	Client *persistedClient `toml:"client,omitempty"`
	UI     *persistedUI     `toml:"ui,omitempty"`
}

type persistedServer struct {
	Listen   *string `toml:"listen,omitempty"`
	DataDir  *string `toml:"data_dir,omitempty"`
	DocIndex *string `toml:"doc_index,omitempty"`
}

type persistedClient struct {
	URL *string `toml:"url,omitempty"`
	PIN *string `toml:"pin,omitempty"`
}

type persistedUI struct {
	Accent *string `toml:"accent,omitempty"`
}

func nonEmptyPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Save writes the global config to the default config path.
func Save(cfg *Config) error {
	return SaveTo(DefaultPath(), cfg)
}

// SaveTo writes the global config to a specific path atomically.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	if cfg == nil {
		cfg = &Config{}
	}

	var out persistedConfig

	listen := nonEmptyPtr(cfg.Server.Listen)
	dataDir := nonEmptyPtr(cfg.Server.DataDir)
	docIndex := nonEmptyPtr(cfg.Server.DocIndex)
	if listen != nil || dataDir != nil || docIndex != nil {
		out.Server = &persistedServer{Listen: listen, DataDir: dataDir, DocIndex: docIndex}
	}

	url := nonEmptyPtr(cfg.Client.URL)
	pin := nonEmptyPtr(cfg.Client.PIN)
	if url != nil || pin != nil {
		out.Client = &persistedClient{URL: url, PIN: pin}
	}

	if accent := nonEmptyPtr(cfg.UI.Accent); accent != nil {
		out.UI = &persistedUI{Accent: accent}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}

	return nil
}
