// Package logger wraps zap construction so both binaries configure logging
// the same way.
package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Logger holds the shared zap logger instance.
type Logger struct {
	// Log is the configured zap logger. It is a no-op logger until Init is
	// called.
	Log *zap.Logger
}

// New returns a Logger with a no-op zap instance, safe to use before Init.
func New() *Logger {
	return &Logger{Log: zap.NewNop()}
}

// Init builds a production zap logger at the given level ("debug", "info",
// "warn", "error") and installs it on l.
func (l *Logger) Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl

	log, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	l.Log = log
	return nil
}
