// Package config provides configuration loading for rollctx.
//
// Configuration Loading Order (later overrides earlier):
// 1. Defaults (hardcoded)
// 2. Config file: ./.rollctx.yaml or $HOME/.config/rollctx/config.yaml
// 3. Command-line flag overrides (applied by the CLI layer)
//
// The API credential may be left out of the file entirely; the Anthropic
// SDK falls back to the ANTHROPIC_API_KEY environment variable.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrInvalidConfig indicates configuration that fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Default configuration values, matching the behavior of the trimming
// engine's upstream defaults.
const (
	DefaultMaxMessages  = 200
	DefaultTrimFraction = 0.40
	DefaultMinRetention = 10
	DefaultBackupKeep   = 10
	DefaultLockTimeout  = 5 * time.Second
)

// Config is the resolved configuration surface the core reads.
type Config struct {
	// ProjectsDir is the root directory containing per-project transcript
	// folders.
	ProjectsDir string `yaml:"projects_dir"`

	// Projects maps a project name to its folder under ProjectsDir.
	Projects map[string]string `yaml:"projects"`

	// MaxMessages is the trimming threshold: transcripts above this count
	// are eligible for trimming.
	MaxMessages int `yaml:"max_messages"`

	// TrimFraction is the fraction of records removed when trimming by
	// fraction.
	TrimFraction float64 `yaml:"trim_fraction"`

	// MinRetention is the count of newest records never removed.
	MinRetention int `yaml:"min_retention"`

	// BackupKeep is the snapshot retention count.
	BackupKeep int `yaml:"backup_keep"`

	// LockTimeout bounds advisory lock acquisition on the live file.
	LockTimeout time.Duration `yaml:"lock_timeout"`

	// Summary configures summary generation.
	Summary SummaryConfig `yaml:"summary"`
}

// SummaryConfig configures the summary provider.
type SummaryConfig struct {
	// Enabled selects remote summarization; when false the deterministic
	// fallback text is used. Defaults to true.
	Enabled *bool `yaml:"enabled"`

	// Model is the model identifier for remote summarization.
	Model string `yaml:"model"`

	// MaxTokens bounds the summary response length.
	MaxTokens int `yaml:"max_tokens"`

	// Timeout bounds the remote call.
	Timeout time.Duration `yaml:"timeout"`

	// Prompt is an optional custom prompt template (text/template with
	// .ProjectName, .RecordCount, .Conversation).
	Prompt string `yaml:"prompt"`

	// APIKey is the API credential. When empty the SDK's environment
	// fallback applies.
	APIKey string `yaml:"api_key"`
}

// SummariesEnabled reports the resolved summary-enable flag.
func (c *Config) SummariesEnabled() bool {
	return c.Summary.Enabled == nil || *c.Summary.Enabled
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.MaxMessages < 0 {
		return fmt.Errorf("%w: max_messages must be non-negative, got %d", ErrInvalidConfig, c.MaxMessages)
	}
	if c.TrimFraction < 0 || c.TrimFraction >= 1 {
		return fmt.Errorf("%w: trim_fraction must be in [0, 1), got %f", ErrInvalidConfig, c.TrimFraction)
	}
	if c.MinRetention < 0 {
		return fmt.Errorf("%w: min_retention must be non-negative, got %d", ErrInvalidConfig, c.MinRetention)
	}
	if c.BackupKeep < 1 {
		return fmt.Errorf("%w: backup_keep must be at least 1, got %d", ErrInvalidConfig, c.BackupKeep)
	}
	for name, folder := range c.Projects {
		if folder == "" {
			return fmt.Errorf("%w: project %q has an empty folder", ErrInvalidConfig, name)
		}
	}
	return nil
}

// applyDefaults fills zero values with defaults.
func applyDefaults(c *Config) {
	if c.MaxMessages == 0 {
		c.MaxMessages = DefaultMaxMessages
	}
	if c.TrimFraction == 0 {
		c.TrimFraction = DefaultTrimFraction
	}
	if c.MinRetention == 0 {
		c.MinRetention = DefaultMinRetention
	}
	if c.BackupKeep == 0 {
		c.BackupKeep = DefaultBackupKeep
	}
	if c.LockTimeout == 0 {
		c.LockTimeout = DefaultLockTimeout
	}
	if c.Projects == nil {
		c.Projects = map[string]string{}
	}
	if c.ProjectsDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.ProjectsDir = filepath.Join(home, ".claude", "projects")
		}
	}
}
