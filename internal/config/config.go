// Package config loads fsim defaults from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds defaults for a run. Command-line flags override it.
type Config struct {
	// Rating is the similarity a pair must exceed to be grouped, in (0, 1)
	Rating float64 `yaml:"rating"`

	// Separator delimits ignore groups and output clusters
	Separator string `yaml:"separator"`

	// IgnoreFile is the ignore file path; empty means <dir>/.fsimignore
	IgnoreFile string `yaml:"ignore_file"`

	// Recursive descends into subdirectories
	Recursive bool `yaml:"recursive"`

	// Cache persists bigrams in <dir>/.fsimcache
	Cache bool `yaml:"cache"`

	// Format is the output format (text, json)
	Format string `yaml:"format"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns a Config with the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Rating:    0.7,
		Separator: "--",
		Format:    FormatText,
		LogLevel:  "warn",
	}
}

// DefaultPath returns $HOME/.config/fsim/config.yaml, or "" if there is no home directory
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "fsim", "config.yaml")
}

// LoadConfig reads path over the defaults.
// A missing file or empty path returns the defaults without error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Fields absent from the file keep their defaults
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Rating <= 0 || c.Rating >= 1 {
		return fmt.Errorf("rating must be between 0 and 1 (exclusive), got %v", c.Rating)
	}
	if strings.TrimSpace(c.Separator) == "" {
		return errors.New("separator must not be empty")
	}
	if c.Separator != strings.TrimSpace(c.Separator) {
		return fmt.Errorf("separator %q must not have surrounding whitespace", c.Separator)
	}

	switch c.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("invalid format %q (valid: text, json)", c.Format)
	}

	switch strings.ToLower(c.LogLevel) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q (valid: trace, debug, info, warn, error)", c.LogLevel)
	}

	return nil
}
