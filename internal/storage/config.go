package storage

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nikbrunner/kiosk/internal/model"
)

// Storage backends.
const (
	BackendAuto   = "auto"
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendHTTP   = "http"
)

// Config holds application configuration.
type Config struct {
	Listen            string          `toml:"listen"`
	Storage           string          `toml:"storage"`
	DataDir           string          `toml:"data_dir"`
	Remote            string          `toml:"remote"`
	DashboardTemplate string          `toml:"dashboard_template"`
	LogFile           string          `toml:"log_file"`
	Watch             *bool           `toml:"watch"`
	Features          map[string]bool `toml:"features"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	dataDir, err := DefaultDataDir()
	if err != nil {
		dataDir = "."
	}
	watch := true
	return Config{
		Listen:   ":8080",
		Storage:  BackendAuto,
		DataDir:  dataDir,
		Watch:    &watch,
		Features: defaultFeatures(),
	}
}

func defaultFeatures() map[string]bool {
	features := map[string]bool{}
	for f, on := range model.AllEnabled(model.DefaultRegistry()) {
		features[string(f)] = on
	}
	return features
}

// WatchEnabled reports whether the dashboard follows storage file changes.
func (c *Config) WatchEnabled() bool {
	return c.Watch == nil || *c.Watch
}

// Toggles returns the feature toggles as an Enablement.
func (c *Config) Toggles() model.Toggles {
	t := model.Toggles{}
	for f, on := range c.Features {
		t[model.FeatureID(f)] = on
	}
	return t
}

// LoadConfig reads config from the TOML file.
// Creates the file with defaults if it doesn't exist.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			config := DefaultConfig()
			// Non-fatal: return defaults even if the file can't be written
			_ = SaveConfig(path, &config)
			applyEnv(&config)
			return &config, nil
		}
		return nil, err
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Apply defaults for missing fields
	defaults := DefaultConfig()
	if config.Listen == "" {
		config.Listen = defaults.Listen
	}
	if config.Storage == "" {
		config.Storage = defaults.Storage
	}
	if config.DataDir == "" {
		config.DataDir = defaults.DataDir
	}
	config.DataDir = expandHome(config.DataDir)
	config.DashboardTemplate = expandHome(config.DashboardTemplate)
	config.LogFile = expandHome(config.LogFile)
	if config.Watch == nil {
		config.Watch = defaults.Watch
	}
	if config.Features == nil {
		config.Features = defaults.Features
	}

	applyEnv(&config)
	return &config, nil
}

func applyEnv(c *Config) {
	if v := os.Getenv("KIOSK_LISTEN"); v != "" {
		c.Listen = v
	}
	if v := os.Getenv("KIOSK_STORAGE"); v != "" {
		c.Storage = v
	}
	if v := os.Getenv("KIOSK_REMOTE"); v != "" {
		c.Remote = v
	}
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// SaveConfig writes config to the TOML file.
// Creates the directory if it doesn't exist.
func SaveConfig(path string, config *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return err
	}

	return os.WriteFile(path, buf.Bytes(), 0644)
}

// DefaultConfigFilePath returns the default config path: ~/.config/kiosk/config.toml
func DefaultConfigFilePath() (string, error) {
	dir, err := DefaultDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
