// Package logging provides config-driven categorized logging for calmkit.
// Every category is a named child of one zap logger. Categories switched off
// in the logging config get a no-op logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"calmkit/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot     Category = "boot"     // Startup, config loading
	CategoryIcons    Category = "icons"    // Launcher icon generation
	CategoryAPI      Category = "api"      // Generative API calls
	CategoryDiagnose Category = "diagnose" // Diagnostic run
	CategoryAnalyze  Category = "analyze"  // Meal photo analysis
)

// Logger hands out category loggers sharing one core.
type Logger struct {
	base *zap.Logger
	cfg  config.LoggingConfig
}

// New builds a Logger writing to w (stderr when nil). verbose forces debug level.
func New(cfg config.LoggingConfig, verbose bool, w io.Writer) (*Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch strings.ToLower(cfg.Format) {
	case "json":
		enc = zapcore.NewJSONEncoder(encCfg)
	case "", "console", "text":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, fmt.Errorf("unknown log format %q (valid: json, console)", cfg.Format)
	}

	if w == nil {
		w = os.Stderr
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(w), zap.NewAtomicLevelAt(level))

	return &Logger{base: zap.New(core), cfg: cfg}, nil
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{base: zap.NewNop()}
}

// ParseLevel maps a config level name to a zap level. Empty means info.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
}

// With returns a Logger whose every category carries fields.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{base: l.base.With(fields...), cfg: l.cfg}
}

// Get returns the logger for a category, or a no-op logger if it is disabled.
func (l *Logger) Get(category Category) *zap.Logger {
	if !l.cfg.IsCategoryEnabled(string(category)) {
		return zap.NewNop()
	}
	return l.base.Named(string(category))
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.base.Sync()
}
