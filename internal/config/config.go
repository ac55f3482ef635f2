// Package config handles TOML configuration loading with environment
// variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Trakt    TraktConfig    `toml:"trakt"`
	Export   ExportConfig   `toml:"export"`
	Database DatabaseConfig `toml:"database"`
	Import   ImportConfig   `toml:"import"`
}

// TraktConfig holds the API application credentials and the account
// the history is imported into.
type TraktConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	Username     string `toml:"username"`
}

// ExportConfig points at the GDPR dump directory.
type ExportConfig struct {
	Dir string `toml:"dir"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// ImportConfig tunes the pipeline's pacing and failure handling.
type ImportConfig struct {
	Delay          time.Duration `toml:"delay"`            // Wait between remote submissions
	RateLimitWait  time.Duration `toml:"rate_limit_wait"`  // Fallback wait when the server gives no Retry-After
	MaxErrorStreak int           `toml:"max_error_streak"` // Consecutive failures before a record is given up on
	LogLevel       string        `toml:"log_level"`
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Substitute environment variables
	content := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Apply defaults
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./tvtime2trakt.db"
	}
	if cfg.Import.Delay == 0 {
		cfg.Import.Delay = time.Second
	}
	if cfg.Import.RateLimitWait == 0 {
		cfg.Import.RateLimitWait = 60 * time.Second
	}
	if cfg.Import.MaxErrorStreak == 0 {
		cfg.Import.MaxErrorStreak = 10
	}
	if cfg.Import.LogLevel == "" {
		cfg.Import.LogLevel = "info"
	}

	return &cfg, nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1] // Strip ${ and }
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		return match // Leave unchanged if not found
	})
}
