package config

import "time"

// WatchConfig controls the directory watcher.
type WatchConfig struct {
	// Debounce is how long to wait after the last change before rebuilding.
	Debounce string `yaml:"debounce"`
}

// DefaultWatchConfig returns defaults for the watcher.
func DefaultWatchConfig() WatchConfig {
	return WatchConfig{
		Debounce: "500ms",
	}
}

// GetDebounce returns the debounce window as a duration.
func (c *Config) GetDebounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d <= 0 {
		return 500 * time.Millisecond
	}
	return d
}
