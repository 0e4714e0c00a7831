package dispatch

import (
	"github.com/hupe1980/statemesh/core"
	"github.com/hupe1980/statemesh/logging"
	"github.com/hupe1980/statemesh/machine"
	"github.com/hupe1980/statemesh/model"
)

// Dispatcher lifecycle states.
const (
	StateInvoked     machine.State = "invoked"
	StateDispatching machine.State = "dispatching"
	StateHandled     machine.State = "handled"
	StateDropped     machine.State = "dropped"
	StateError       machine.State = model.ErrorState
)

// Dispatcher lifecycle triggers.
const (
	TriggerDispatch = "dispatch_event"
	TriggerHandle   = "handle"
	TriggerDrop     = "drop"
)

// Options configures a Dispatcher.
type Options struct {
	// Logger receives transition records and fault reports. Defaults to a
	// NoOpLogger if nil.
	Logger logging.Logger
}

// WithLogger sets the logger for the dispatcher.
func WithLogger(logger logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = logger }
}

// Dispatcher routes a single event to its matching handler and records the
// outcome as its own terminal state.
type Dispatcher struct {
	*model.Model

	registry core.Registry
	event    *core.Event
	handler  core.Handler
	failure  error
}

// New constructs a fresh Dispatcher in the invoked state, bound to the given
// registry.
func New(reg core.Registry, optFns ...func(o *Options)) (*Dispatcher, error) {
	if reg == nil {
		return nil, ErrNilRegistry
	}

	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	d := &Dispatcher{registry: reg}

	mdl, err := model.New(model.Config{
		States:  []machine.State{StateInvoked, StateDispatching, StateHandled, StateDropped, StateError},
		Initial: StateInvoked,
		Transitions: []machine.Transition{
			{Trigger: TriggerDispatch, Sources: []machine.State{StateInvoked}, Dest: StateDispatching},
			{Trigger: TriggerHandle, Sources: []machine.State{StateDispatching}, Dest: StateHandled},
			{Trigger: TriggerDrop, Sources: []machine.State{StateDispatching}, Dest: StateDropped},
		},
	}, model.WithLogger(opts.Logger))
	if err != nil {
		return nil, err
	}

	d.Model = mdl
	d.Machine().OnEnter(StateDispatching, d.onEnterDispatching)

	return d, nil
}

// Dispatch routes the event through the dispatcher's lifecycle. The call is
// synchronous: registry lookup, handler forwarding and the resulting
// transitions all complete before it returns.
//
// A Dispatcher is single-use. Dispatching through an instance that already
// reached a terminal state returns a NoMatchingTransitionError and executes
// nothing.
//
// Handler failures do not propagate: the dispatcher moves to its error state
// and the failure stays available via Err. A nil return therefore means the
// dispatcher reached a well-defined terminal state, which Outcome reports.
func (d *Dispatcher) Dispatch(ev core.Event) error {
	if !d.Machine().Is(StateInvoked) {
		return &machine.NoMatchingTransitionError{Trigger: TriggerDispatch, State: d.State()}
	}
	d.event = &ev
	return d.Trigger(TriggerDispatch, ev)
}

// onEnterDispatching consults the registry and forwards the event. It runs
// inside the dispatch_event transition, so a returned fault is funnelled to
// the model's exception handler and lands the dispatcher in the error state.
func (d *Dispatcher) onEnterDispatching(ec *machine.EventContext) error {
	ev := d.event

	h, ok := d.registry.Lookup(ev.Namespace())
	if !ok {
		d.Logger().Debug("no handler registered", "event_type", ev.Type())
		return ec.Machine.Fire(TriggerDrop)
	}

	d.handler = h
	if err := h.Trigger(ev.Action(), *ev); err != nil {
		d.failure = &HandlerInvocationFailureError{EventType: ev.Type(), Action: ev.Action(), Err: err}
		return d.failure
	}

	return ec.Machine.Fire(TriggerHandle)
}

// Outcome returns the dispatcher's current lifecycle state. After Dispatch it
// is one of handled, dropped or error.
func (d *Dispatcher) Outcome() machine.State { return d.State() }

// Event returns the dispatched event, or nil before Dispatch.
func (d *Dispatcher) Event() *core.Event { return d.event }

// Handler returns the matched handler, or nil when none matched.
func (d *Dispatcher) Handler() core.Handler { return d.handler }

// Err returns the handler invocation failure that moved the dispatcher to
// its error state, or nil.
func (d *Dispatcher) Err() error { return d.failure }
