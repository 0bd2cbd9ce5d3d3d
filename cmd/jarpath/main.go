package main

import (
	"fmt"
	"os"

	"jarpath/internal/config"
	"jarpath/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	configPath string
	verbose    bool
	quiet      bool
	logFormat  string

	// Config overrides
	baseDir string
	homeVar string
	order   string
	format  string
	dirs    []string
	extra   []string

	// Set up by PersistentPreRunE
	cfg    *config.Config
	logger *logging.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "jarpath",
	Short: "Build a Java classpath from the jars in a set of directories",
	Long: `jarpath lists the jar files in an ordered set of directories under an
installation root and prints them as a classpath.

Entries are written relative to a shell variable ($REPASTHOME by default)
so the output can be pasted into a launch script:

  $REPASTHOME/repast.simphony.runtime_2.0.0/lib/foo.jar:\
  ...
  $REPASTHOME/repast.simphony.bin_and_src_2.0.0/repast.simphony.bin_and_src.jar:

Directories, base path and output format come from jarpath.yaml, the
environment and flags, in increasing order of precedence.

Run without a subcommand to build once.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runBuild,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: nearest "+config.DefaultFileName+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log errors")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log encoding: console or json")

	rootCmd.PersistentFlags().StringVar(&baseDir, "base-dir", "", "Installation root (or set $REPASTHOME)")
	rootCmd.PersistentFlags().StringVar(&homeVar, "home-var", "", "Shell variable the entries are prefixed with")
	rootCmd.PersistentFlags().StringVar(&order, "order", "", "Entry order within a directory: lexical or filesystem")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "", "Output format: block, raw, line, expanded or json")
	rootCmd.PersistentFlags().StringArrayVarP(&dirs, "dir", "d", nil, "Jar directory relative to the root (repeatable, replaces the configured list)")
	rootCmd.PersistentFlags().StringArrayVar(&extra, "extra", nil, "Extra entry appended after the jars (repeatable)")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the configuration, applies flag overrides and builds the
// logger.
func setup() error {
	path := configPath
	if path == "" {
		path = config.FindConfigPath()
	}

	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	applyFlagOverrides(loaded)

	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cfg = loaded

	l, err := logging.New(logging.Options{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Categories: cfg.Logging.Categories,
	}, zapcore.Lock(os.Stderr))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = l

	logger.Get(logging.CategoryBoot).Debug("configuration loaded",
		zap.String("path", path),
		zap.String("base_dir", cfg.BaseDir),
		zap.Strings("dirs", cfg.Dirs))
	return nil
}

func applyFlagOverrides(c *config.Config) {
	if homeVar != "" {
		c.HomeVar = homeVar
		c.ApplyHomeEnv()
	}
	if baseDir != "" {
		c.BaseDir = baseDir
	}
	if order != "" {
		c.Order = order
	}
	if format != "" {
		c.Output.Format = format
	}
	if dirs != nil {
		c.Dirs = append([]string(nil), dirs...)
	}
	if extra != nil {
		c.Extra = append([]string(nil), extra...)
	}
	if logFormat != "" {
		c.Logging.Format = logFormat
	}
	switch {
	case verbose:
		c.Logging.Level = "debug"
	case quiet:
		c.Logging.Level = "error"
	}
}
