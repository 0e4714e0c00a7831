package machine

// State is a symbolic label drawn from the closed set declared per machine.
type State string

// SourceAny is the wildcard source matching every declared state. It is
// expanded to the concrete set of declared states when the transition is
// added, so the matching logic never special-cases it.
const SourceAny State = "*"

// EventContext carries the details of an in-flight trigger into callbacks,
// guards and exception handlers.
type EventContext struct {
	// Machine is the machine executing the transition. Callbacks may fire
	// further triggers on it (chained transitions).
	Machine *Machine

	// Trigger is the name the caller invoked.
	Trigger string

	// Source is the state the machine is leaving.
	Source State

	// Dest is the declared destination of the selected transition.
	Dest State

	// Args are the arguments passed to Fire.
	Args []any

	// Err holds the callback fault when an exception handler is invoked.
	// It is nil in every other callback phase.
	Err error
}

// Callback runs during one phase of a transition. A non-nil error is a fault
// and is routed to the machine's exception handler.
type Callback func(ec *EventContext) error

// Guard is a predicate bracketing a transition. A nil return permits the
// transition; a non-nil error rejects it and explains why.
type Guard func(ec *EventContext) error

// ExceptionHandler receives callback faults. ec.Err carries the fault; the
// handler may fire a recovery trigger on ec.Machine, in which case the fault
// is considered contained and Fire returns nil.
type ExceptionHandler func(ec *EventContext)

// Transition declares a legal move from any of Sources to Dest, attempted
// when Trigger is fired. Multiple transitions may share a trigger name; the
// first declared transition whose source set contains the current state and
// whose guards all pass is selected.
type Transition struct {
	Trigger string
	Sources []State
	Dest    State
	Guards  []Guard
	Prepare []Callback
	Before  []Callback
	After   []Callback
}

func (t *Transition) containsSource(s State) bool {
	for _, src := range t.Sources {
		if src == s {
			return true
		}
	}
	return false
}
