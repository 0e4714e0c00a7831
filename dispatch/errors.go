package dispatch

import (
	"errors"
	"fmt"
)

// ErrNilRegistry is returned by New when no registry is supplied.
var ErrNilRegistry = errors.New("dispatch: registry must not be nil")

// HandlerInvocationFailureError records a located handler whose own trigger
// failed while the event was being forwarded. The dispatcher contains the
// failure by moving to its error state; the error itself stays inspectable
// via Dispatcher.Err.
type HandlerInvocationFailureError struct {
	EventType string
	Action    string
	Err       error
}

func (e *HandlerInvocationFailureError) Error() string {
	return fmt.Sprintf("handler failed for event %q (action %q): %v", e.EventType, e.Action, e.Err)
}

// Unwrap exposes the handler's underlying failure.
func (e *HandlerInvocationFailureError) Unwrap() error { return e.Err }
