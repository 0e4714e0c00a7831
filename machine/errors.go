package machine

import (
	"fmt"
	"strings"
)

// NoMatchingTransitionError is returned by Fire when no declared transition
// for the trigger has a source set containing the current state.
type NoMatchingTransitionError struct {
	Trigger string
	State   State
}

func (e *NoMatchingTransitionError) Error() string {
	return fmt.Sprintf("no transition for trigger %q from state %q", e.Trigger, e.State)
}

// GuardRejectedError is returned by Fire when transitions matched the trigger
// and current state but every candidate was rejected by its guards.
type GuardRejectedError struct {
	Trigger string
	State   State
	Unmet   []error
}

func (e *GuardRejectedError) Error() string {
	if len(e.Unmet) == 0 {
		return fmt.Sprintf("trigger %q from state %q rejected by guards", e.Trigger, e.State)
	}
	msgs := make([]string, len(e.Unmet))
	for i, err := range e.Unmet {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("trigger %q from state %q rejected by guards: %s", e.Trigger, e.State, strings.Join(msgs, "; "))
}

// Unwrap exposes the individual guard rejections for errors.Is/As chains.
func (e *GuardRejectedError) Unwrap() []error { return e.Unmet }

// MachineConfigError is a construction-time defect in the declared states or
// transitions. Configuration defects are fatal at construction and must not
// be silently tolerated at runtime.
type MachineConfigError struct {
	Message string
}

func (e *MachineConfigError) Error() string {
	return fmt.Sprintf("machine configuration error: %s", e.Message)
}

func configErrorf(format string, args ...any) *MachineConfigError {
	return &MachineConfigError{Message: fmt.Sprintf(format, args...)}
}
