// ABOUTME: Configuration loading and validation for the adventure tracker
// ABOUTME: Supports YAML files with environment variable expansion and sane defaults

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config is the complete tracker configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Catalog CatalogConfig `yaml:"catalog"`
	Logging LoggingConfig `yaml:"logging"`
}

// StorageConfig selects and locates the backing key-value medium.
type StorageConfig struct {
	Driver string `yaml:"driver"` // bolt, sqlite, or memory
	Path   string `yaml:"path"`
}

// CatalogConfig points at an optional catalog override directory. Empty
// means the builtin embedded catalog.
type CatalogConfig struct {
	Dir string `yaml:"dir"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{Driver: "bolt"},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load reads a configuration file from the given path. Environment
// variables in the format ${VAR_NAME} are expanded. A missing file is not
// an error: defaults are returned so first runs need no setup.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := expandEnvVars(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding
// environment variable values. Unset variables become empty strings.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that the configuration fields hold usable values.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "bolt", "sqlite", "memory":
	default:
		return fmt.Errorf("storage.driver must be bolt, sqlite, or memory (got %q)", c.Storage.Driver)
	}

	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json (got %q)", c.Logging.Format)
	}

	return nil
}
