/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config represents the obbutil configuration
type Config struct {
	Logging Logging `yaml:"logging"`
	Journal Journal `yaml:"journal"`
	Metrics Metrics `yaml:"metrics"`
}

// Logging contains logging configuration
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Journal controls the history of add and remove operations
type Journal struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// Metrics controls the Prometheus textfile written after each command.
// An empty Textfile disables it.
type Metrics struct {
	Textfile string `yaml:"textfile"`
}

const (
	FormatText = "text"
	FormatJSON = "json"
)

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Logging: Logging{
			Level:  "info",
			Format: FormatText,
		},
		Journal: Journal{
			Enabled: true,
			Dir:     GetDefaultJournalDir(),
		},
	}
}

// Validate checks that every field holds a usable value
func (c *Config) Validate() error {
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if c.Logging.Format != FormatText && c.Logging.Format != FormatJSON {
		return fmt.Errorf("invalid log format %q: must be %q or %q", c.Logging.Format, FormatText, FormatJSON)
	}
	if c.Journal.Enabled && c.Journal.Dir == "" {
		return fmt.Errorf("journal is enabled but journal.dir is empty")
	}
	return nil
}

// LogLevel parses the configured logging level
func (c *Config) LogLevel() (logrus.Level, error) {
	level, err := logrus.ParseLevel(c.Logging.Level)
	if err != nil {
		return 0, fmt.Errorf("invalid log level: %w", err)
	}
	return level, nil
}

// LoadConfig loads configuration from the specified path. Fields absent
// from the file keep their default values.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return config, nil
}

// LoadOrDefault loads the configuration at configPath, or returns the
// defaults when no file exists there.
func LoadOrDefault(configPath string) (*Config, error) {
	if !ConfigExists(configPath) {
		return DefaultConfig(), nil
	}
	return LoadConfig(configPath)
}

// SaveConfig saves the configuration to the specified path with secure permissions
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// BootstrapConfig writes the default configuration to configPath. An
// existing file is only replaced when force is set.
func BootstrapConfig(configPath string, force bool) (*Config, error) {
	if ConfigExists(configPath) && !force {
		return nil, fmt.Errorf("config file already exists: %s", configPath)
	}

	config := DefaultConfig()
	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./obbutil.yaml"
	}

	// For Linux/macOS, use ~/.config/obbutil/config.yaml
	return filepath.Join(homeDir, ".config", "obbutil", "config.yaml")
}

// GetDefaultJournalDir returns the default journal location
func GetDefaultJournalDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./obbutil-journal"
	}
	return filepath.Join(homeDir, ".local", "share", "obbutil", "journal")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
