package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default config file names searched in the working directory.
var defaultConfigFiles = []string{
	".rollctx.yaml",
	".rollctx.yml",
	"rollctx.yaml",
	"rollctx.yml",
}

// Load loads configuration from a specific file path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidConfig, path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDefault searches the working directory, then the user config
// directory, for a config file; when none exists it returns the defaults.
func LoadDefault() (*Config, error) {
	for _, name := range defaultConfigFiles {
		if _, err := os.Stat(name); err == nil {
			return Load(name)
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		userPath := filepath.Join(home, ".config", "rollctx", "config.yaml")
		if _, err := os.Stat(userPath); err == nil {
			return Load(userPath)
		}
	}

	cfg := &Config{}
	applyDefaults(cfg)
	return cfg, nil
}
