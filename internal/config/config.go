// Package config loads application settings from a YAML file in the library
// directory. Everything has a default so a missing file is not an error.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	configFile  = "config.yaml"
	DefaultPort = 7321
)

// Config represents user settings stored on disk.
type Config struct {
	// LibraryPath is the directory holding the snippet store.
	LibraryPath string `yaml:"library_path,omitempty"`
	// Port is the listen port for the HTTP API.
	Port int `yaml:"port,omitempty"`
}

// DefaultLibraryPath returns the library directory, honoring the
// SNIPVAULT_DIR environment override.
func DefaultLibraryPath() (string, error) {
	if dir := os.Getenv("SNIPVAULT_DIR"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".snipvault"), nil
}

// Load reads the config file under libraryPath, applying defaults for any
// missing value. A missing file yields the default config.
func Load(libraryPath string) (*Config, error) {
	cfg := &Config{LibraryPath: libraryPath, Port: DefaultPort}

	data, err := os.ReadFile(filepath.Join(libraryPath, configFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.LibraryPath == "" {
		cfg.LibraryPath = libraryPath
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	return cfg, nil
}

// Save writes the config file under its library path.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.LibraryPath, 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.LibraryPath, configFile), data, 0644)
}
