// Package logging provides structured logging for luxctl.
//
// This package wraps Go's standard log/slog package so every command logs
// with the same fields and level handling.
//
// # Configuration
//
// Logging is configured via the LoggingConfig in config.yaml:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "text"     # text, json
//	  output: "stderr"   # stderr, stdout
//
// The --verbose flag forces the debug level.
//
// # Usage
//
//	logger := logging.New(cfg.Logging, version)
//	logger.Info("action fired", "scope", "Default", "level", 50)
//	logger.Error("failed to open store", "error", err)
package logging
