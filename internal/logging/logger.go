// Package logging builds the categorized zap loggers jarpath writes its
// diagnostics with. All output goes to the writer handed to New (stderr in
// the CLI) so that stdout carries nothing but the classpath.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot  Category = "boot"  // Config loading, startup
	CategoryScan  Category = "scan"  // Directory listing, found/skipped entries
	CategoryWatch Category = "watch" // Watcher events and rebuilds
)

// Options configures New. It mirrors config.LoggingConfig so this package
// stays free of the config import.
type Options struct {
	Level      string // debug, info, warn, error
	Format     string // console, json
	Categories map[string]bool
}

// Logger hands out one named zap logger per category.
type Logger struct {
	base       *zap.Logger
	categories map[string]bool
}

// New builds a Logger writing to w.
func New(opts Options, w zapcore.WriteSyncer) (*Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch strings.ToLower(opts.Format) {
	case "", "console":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	case "json":
		enc = zapcore.NewJSONEncoder(encCfg)
	default:
		return nil, fmt.Errorf("invalid log format: %s", opts.Format)
	}

	core := zapcore.NewCore(enc, w, zap.NewAtomicLevelAt(level))
	return &Logger{
		base:       zap.New(core),
		categories: opts.Categories,
	}, nil
}

// NewNop returns a Logger that discards everything.
func NewNop() *Logger {
	return &Logger{base: zap.NewNop()}
}

// ParseLevel maps a config level name onto a zap level.
// The empty string means info.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("invalid log level: %s", s)
}

// IsCategoryEnabled reports whether the category is switched on.
// Categories not listed are enabled.
func (l *Logger) IsCategoryEnabled(category Category) bool {
	if l.categories == nil {
		return true
	}
	enabled, exists := l.categories[string(category)]
	if !exists {
		return true
	}
	return enabled
}

// Get returns the logger for a category, or a no-op logger if the category
// is disabled.
func (l *Logger) Get(category Category) *zap.Logger {
	if !l.IsCategoryEnabled(category) {
		return zap.NewNop()
	}
	return l.base.Named(string(category))
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.base.Sync()
}
