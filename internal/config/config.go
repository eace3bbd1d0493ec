package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	APP_NAME     = "spi"
	CONFIG_FILE  = "config.yaml"
	HISTORY_FILE = "history"
)

type Config struct {
	LogScope bool   `yaml:"log_scope"`
	LogStack bool   `yaml:"log_stack"`
	Format   Format `yaml:"format"`
}

func Default() *Config {
	return &Config{Format: TEXT}
}

// Load reads the configuration at path. An empty path means the file in the
// config dir, which may be missing.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		dir, err := Dir(APP_NAME)
		if err != nil {
			return Default(), nil
		}
		path = filepath.Join(dir, CONFIG_FILE)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: %w", err)
	}
	return Parse(data, path)
}

func Parse(data []byte, path string) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Dir returns the per-user config directory for appName without creating it.
func Dir(appName string) (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory")
	}
	if os.Getenv("OS") == "Windows_NT" {
		return filepath.Join(os.Getenv("APPDATA"), appName), nil
	}
	return filepath.Join(homeDir, ".config", appName), nil
}

// HistoryPath returns the REPL history file, creating the config dir if
// needed.
func HistoryPath() (string, error) {
	dir, err := Dir(APP_NAME)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dir, HISTORY_FILE), nil
}
