// Package logging provides a minimal logging interface and adapters for statemesh.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that models and dispatchers use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - Transition record logging for state-machine lifecycle events
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelDebug, "json", false)
//	m, err := model.New(cfg, model.WithLogger(logger))
//
// The design intentionally keeps the interface minimal to avoid vendor lock-in
// while supporting structured logging where available.
package logging
