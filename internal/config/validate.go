package config

import (
	"fmt"
	"os"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.Trakt.ClientID == "" {
		errs = append(errs, "trakt.client_id: required")
	}
	if c.Trakt.ClientSecret == "" {
		errs = append(errs, "trakt.client_secret: required")
	}
	if c.Trakt.Username == "" {
		errs = append(errs, "trakt.username: required")
	}

	if c.Export.Dir == "" {
		errs = append(errs, "export.dir: required")
	} else if info, err := os.Stat(c.Export.Dir); err != nil || !info.IsDir() {
		errs = append(errs, fmt.Sprintf("export.dir: %q is not a readable directory", c.Export.Dir))
	}

	if c.Import.Delay < 0 {
		errs = append(errs, "import.delay: must not be negative")
	}
	if c.Import.MaxErrorStreak < 1 {
		errs = append(errs, fmt.Sprintf("import.max_error_streak: must be at least 1, got %d", c.Import.MaxErrorStreak))
	}
	if !validLogLevels[c.Import.LogLevel] {
		errs = append(errs, fmt.Sprintf("import.log_level: must be one of debug, info, warn, error; got %q", c.Import.LogLevel))
	}

	return errs
}
