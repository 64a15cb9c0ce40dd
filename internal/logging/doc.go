// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

// Package logging provides centralized zerolog-based structured logging for Bookpath.
//
// # Overview
//
// The package provides:
//   - Zero-allocation structured logging via zerolog
//   - JSON output tagged with service and component fields
//   - Context-aware logging with request and correlation ID propagation
//   - An slog adapter for the suture supervisor
//   - Redaction helpers for API keys that travel in query strings
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info"})
//
//	logging.Info().Str("addr", addr).Msg("HTTP server listening")
//	logging.Ctx(ctx).Warn().Err(err).Msg("catalog lookup failed")
//
// Components receive a zerolog.Logger in their constructor and tag it with
// a component field:
//
//	logger = logging.ForComponent(logger, logging.ComponentCatalog)
//
// # Configuration
//
// Environment Variables:
//
//	LOG_LEVEL - Minimum log level: trace, debug, info, warn, error (default: info)
//
// # Thread Safety
//
// The global logger is guarded by a RWMutex. Init may be called again at any
// time to reconfigure it.
package logging
