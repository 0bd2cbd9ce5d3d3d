package config

import (
	"fmt"

	"jarpath/internal/logging"
)

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level"`                // debug, info, warn (warning), error
	Format     string          `yaml:"format"`               // console, json
	Categories map[string]bool `yaml:"categories,omitempty"` // Per-category toggles, unlisted ones are on
}

// ValidLogLevels lists the accepted log levels.
var ValidLogLevels = []string{"debug", "info", "warn", "warning", "error"}

// ValidLogFormats lists the accepted log encodings.
var ValidLogFormats = []string{"console", "json"}

// Validate checks level and format against what the logger accepts.
func (c *LoggingConfig) Validate() error {
	if _, err := logging.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Level, ValidLogLevels)
	}
	if c.Format != "" && !contains(ValidLogFormats, c.Format) {
		return fmt.Errorf("invalid log format: %s (valid: %v)", c.Format, ValidLogFormats)
	}
	return nil
}

func contains(xs []string, target string) bool {
	for _, x := range xs {
		if x == target {
			return true
		}
	}
	return false
}
