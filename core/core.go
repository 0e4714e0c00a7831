package core

import (
	"github.com/google/uuid"

	"github.com/hupe1980/statemesh/logging"
)

// NewID generates a new unique identifier for models and dispatchers.
func NewID() string { return uuid.NewString() }

// EnsureLogger returns the given logger, substituting a NoOpLogger when l is
// nil so callers never have to nil-check before logging.
func EnsureLogger(l logging.Logger) logging.Logger {
	if l == nil {
		return logging.NoOpLogger{}
	}
	return l
}
