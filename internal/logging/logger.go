// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ServiceName is stamped on every line written through the global logger.
const ServiceName = "bookpath"

// Values of the component field. Each long-lived part of the server tags
// its logger with one of these so lines can be filtered per subsystem.
const (
	ComponentRecommend  = "recommend"
	ComponentExplainer  = "explainer"
	ComponentCatalog    = "catalog"
	ComponentCache      = "cache"
	ComponentBreaker    = "breaker"
	ComponentTextgen    = "textgen"
	ComponentGuide      = "guide"
	ComponentLibrary    = "library"
	ComponentMemoWorker = "memo-worker"
	ComponentSupervisor = "supervisor"
)

// Config holds logging configuration. Output is always JSON with an RFC 3339
// timestamp.
type Config struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string

	// Output receives log lines. Defaults to os.Stderr.
	Output io.Writer
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{Level: "info", Output: os.Stderr}
}

var (
	log zerolog.Logger
	mu  sync.RWMutex
)

//nolint:gochecknoinits // init ensures logging works before explicit Init() call
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	initLogger(DefaultConfig())
}

// Init reconfigures the global logger. It may be called more than once.
func Init(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	initLogger(cfg)
}

// initLogger must be called with mu held.
func initLogger(cfg Config) {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	log = zerolog.New(cfg.Output).With().
		Timestamp().
		Str("service", ServiceName).
		Logger()
}

// parseLevel maps a configured level onto zerolog. Empty and unknown
// values fall back to info; "warning" and "off" are accepted aliases.
func parseLevel(level string) zerolog.Level {
	s := strings.ToLower(strings.TrimSpace(level))
	switch s {
	case "warning":
		return zerolog.WarnLevel
	case "off":
		return zerolog.Disabled
	case "":
		return zerolog.InfoLevel
	}
	l, err := zerolog.ParseLevel(s)
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}

// Logger returns the global logger instance.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// With creates a child logger context with additional fields.
func With() zerolog.Context {
	mu.RLock()
	defer mu.RUnlock()
	return log.With()
}

// WithComponent tags the global logger with a component.
func WithComponent(component string) zerolog.Logger {
	return With().Str("component", component).Logger()
}

// ForComponent tags a constructor-injected logger with a component.
//
//	logger = logging.ForComponent(logger, logging.ComponentCatalog)
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func ForComponent(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

// Info starts a new message with info level.
func Info() *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	return log.Info()
}

// Warn starts a new message with warning level.
func Warn() *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	return log.Warn()
}

// Error starts a new message with error level.
func Error() *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	return log.Error()
}

// NewTestLogger creates a logger that writes to w.
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
