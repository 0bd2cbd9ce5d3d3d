package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"jarpath/internal/classpath"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the config file looked up from the working directory.
const DefaultFileName = "jarpath.yaml"

// Config holds all jarpath configuration.
type Config struct {
	// Installation root the jar directories are relative to.
	BaseDir string `yaml:"base_dir"`

	// Shell variable the classpath entries are prefixed with.
	HomeVar string `yaml:"home_var"`

	// Jar directories, in classpath order.
	Dirs []string `yaml:"dirs"`

	// Entry name suffix that marks a jar.
	Suffix string `yaml:"suffix"`

	// Literal entries appended after the jars.
	Extra []string `yaml:"extra,omitempty"`

	// Entry appended last, unconditionally.
	Trailing string `yaml:"trailing"`

	// Entry order within a directory: lexical or filesystem.
	Order string `yaml:"order"`

	Output  OutputConfig  `yaml:"output"`
	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
}

// OutputConfig configures rendering.
type OutputConfig struct {
	Format string `yaml:"format"` // block, raw, line, expanded, json
}

// DefaultConfig returns the default configuration: a Repast Simphony 2.0.0
// beta install on macOS.
func DefaultConfig() *Config {
	return &Config{
		BaseDir: "/Applications/Repast-Simphony-2.0.0-beta/eclipse/plugins/",
		HomeVar: classpath.DefaultHomeVar,
		Dirs: []string{
			"repast.simphony.runtime_2.0.0/lib/",
			"repast.simphony.core_2.0.0/lib/",
			"repast.simphony.gis_2.0.0/lib/",
		},
		Suffix:   classpath.DefaultSuffix,
		Trailing: classpath.DefaultTrailing,
		Order:    string(classpath.OrderLexical),

		Output: OutputConfig{
			Format: string(classpath.FormatBlock),
		},

		Watch: DefaultWatchConfig(),

		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// FindConfigPath walks up from the working directory looking for
// DefaultFileName. If none is found the path in the working directory is
// returned; Load treats it as absent.
func FindConfigPath() string {
	dir, err := os.Getwd()
	if err != nil {
		return DefaultFileName
	}

	originalDir := dir
	for {
		candidate := filepath.Join(dir, DefaultFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return filepath.Join(originalDir, DefaultFileName)
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	c.ApplyHomeEnv()
	if order := os.Getenv("JARPATH_ORDER"); order != "" {
		c.Order = order
	}
	if level := os.Getenv("JARPATH_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// ApplyHomeEnv sets BaseDir from the variable named by HomeVar when it is
// set. Load calls it; call it again after changing HomeVar.
func (c *Config) ApplyHomeEnv() {
	if home := os.Getenv(c.homeVarName()); home != "" {
		c.BaseDir = home
	}
}

func (c *Config) homeVarName() string {
	if c.HomeVar == "" {
		return classpath.DefaultHomeVar
	}
	return c.HomeVar
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseDir) == "" {
		return fmt.Errorf("base directory not configured (set base_dir or %s)", c.homeVarName())
	}
	if strings.TrimSpace(c.HomeVar) == "" {
		return fmt.Errorf("home variable must not be empty")
	}
	if strings.ContainsAny(c.HomeVar, "$/ ") {
		return fmt.Errorf("invalid home variable: %q", c.HomeVar)
	}
	if c.Suffix == "" {
		return fmt.Errorf("suffix must not be empty")
	}
	if strings.TrimSpace(c.Trailing) == "" {
		return fmt.Errorf("trailing entry must not be empty")
	}
	for i, d := range c.Dirs {
		if strings.TrimSpace(d) == "" {
			return fmt.Errorf("dirs[%d] is blank", i)
		}
	}
	if _, err := classpath.ParseOrder(c.Order); err != nil {
		return err
	}
	if _, err := classpath.ParseFormat(c.Output.Format); err != nil {
		return err
	}
	return c.Logging.Validate()
}

// BuilderOptions converts the configuration into classpath builder options.
// Call Validate first; an invalid order falls back to lexical.
func (c *Config) BuilderOptions() classpath.Options {
	order, err := classpath.ParseOrder(c.Order)
	if err != nil {
		order = classpath.OrderLexical
	}
	return classpath.Options{
		BaseDir:  c.BaseDir,
		HomeVar:  c.HomeVar,
		Dirs:     append([]string(nil), c.Dirs...),
		Suffix:   c.Suffix,
		Extra:    append([]string(nil), c.Extra...),
		Trailing: c.Trailing,
		Order:    order,
	}
}

// GetFormat returns the configured output format, block if invalid.
func (c *Config) GetFormat() classpath.Format {
	f, err := classpath.ParseFormat(c.Output.Format)
	if err != nil {
		return classpath.FormatBlock
	}
	return f
}

// YAML returns the configuration as a YAML document.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}
