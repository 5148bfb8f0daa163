// Package logging provides structured logging helpers built on log/slog.
//
// It defines the common attribute keys used across the codebase so that
// log entries from the CLI, the web server and the aggregator can be
// correlated with a consistent vocabulary.
package logging
