package machine

import (
	"github.com/hupe1980/statemesh/logging"
)

// Machine is a finite-state-machine instance. It owns the declared state set,
// the declared transition table and the single mutable current state.
//
// Configuration (AddStates, AddTransitions, hook registration) is attached
// once at construction time and must not be mutated concurrently with Fire.
type Machine struct {
	states      map[State]struct{}
	declared    []State
	transitions []Transition
	initial     State
	current     State

	onEnter     map[State][]Callback
	onLeave     []Callback
	onFinalize  []Callback
	onException ExceptionHandler

	logger logging.Logger
}

// Options configures a Machine instance.
type Options struct {
	// Logger receives debug records for transition matching and execution.
	// Defaults to a NoOpLogger if nil.
	Logger logging.Logger
}

// WithLogger sets the logger for the machine.
func WithLogger(logger logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = logger }
}

// New creates a Machine whose current state is initial. The initial state
// still has to be declared via AddStates before the machine validates.
func New(initial State, optFns ...func(o *Options)) *Machine {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Machine{
		states:  make(map[State]struct{}),
		initial: initial,
		current: initial,
		onEnter: make(map[State][]Callback),
		logger:  opts.Logger,
	}
}

// AddStates declares states. Re-declaring a state is a no-op, so composed
// models can safely share common states like an error state.
func (m *Machine) AddStates(states ...State) {
	for _, s := range states {
		if _, ok := m.states[s]; ok {
			continue
		}
		m.states[s] = struct{}{}
		m.declared = append(m.declared, s)
	}
}

// States returns the declared states in declaration order.
func (m *Machine) States() []State {
	out := make([]State, len(m.declared))
	copy(out, m.declared)
	return out
}

// HasState reports whether s has been declared.
func (m *Machine) HasState(s State) bool {
	_, ok := m.states[s]
	return ok
}

// AddTransitions declares transitions. A SourceAny entry in a transition's
// source set is expanded to the full set of states declared so far, so
// wildcard sources are stored concretely and never special-cased during
// matching. Transitions referencing undeclared states are rejected with a
// MachineConfigError.
func (m *Machine) AddTransitions(transitions ...Transition) error {
	for _, t := range transitions {
		if t.Trigger == "" {
			return configErrorf("transition to %q has no trigger name", t.Dest)
		}
		if !m.HasState(t.Dest) {
			return configErrorf("transition %q references undeclared destination state %q", t.Trigger, t.Dest)
		}
		if len(t.Sources) == 0 {
			return configErrorf("transition %q has no source states", t.Trigger)
		}

		sources := make([]State, 0, len(t.Sources))
		for _, src := range t.Sources {
			if src == SourceAny {
				sources = append(sources, m.declared...)
				continue
			}
			if !m.HasState(src) {
				return configErrorf("transition %q references undeclared source state %q", t.Trigger, src)
			}
			sources = append(sources, src)
		}

		stored := t
		stored.Sources = sources
		m.transitions = append(m.transitions, stored)
	}

	return nil
}

// OnEnter registers a callback that runs after the machine enters the given
// state, before the transition's after callbacks.
func (m *Machine) OnEnter(s State, cb Callback) {
	m.onEnter[s] = append(m.onEnter[s], cb)
}

// OnLeave registers a machine-wide hook that runs immediately before the
// current state is left on every transition. Models use this to log
// transition records.
func (m *Machine) OnLeave(cb Callback) {
	m.onLeave = append(m.onLeave, cb)
}

// OnFinalize registers a machine-wide callback that runs last on every
// successful transition.
func (m *Machine) OnFinalize(cb Callback) {
	m.onFinalize = append(m.onFinalize, cb)
}

// OnException installs the handler receiving callback faults. With no handler
// installed, faults propagate to the Fire caller and the state is left
// wherever the failure occurred.
func (m *Machine) OnException(h ExceptionHandler) {
	m.onException = h
}

// Current returns the current state.
func (m *Machine) Current() State { return m.current }

// Initial returns the declared initial state.
func (m *Machine) Initial() State { return m.initial }

// Is reports whether the machine is currently in the given state.
func (m *Machine) Is(s State) bool { return m.current == s }

// PermittedTriggers returns the trigger names that have at least one declared
// transition out of the current state, in declaration order. Guards are not
// evaluated.
func (m *Machine) PermittedTriggers() []string {
	seen := make(map[string]struct{})
	var out []string
	for i := range m.transitions {
		t := &m.transitions[i]
		if !t.containsSource(m.current) {
			continue
		}
		if _, ok := seen[t.Trigger]; ok {
			continue
		}
		seen[t.Trigger] = struct{}{}
		out = append(out, t.Trigger)
	}
	return out
}

// Validate checks the attached configuration for construction-time defects:
// an undeclared initial state, or an initial state with no outbound
// transition (a permanently stuck machine).
func (m *Machine) Validate() error {
	if m.initial == "" {
		return configErrorf("no initial state declared")
	}
	if !m.HasState(m.initial) {
		return configErrorf("initial state %q is not a declared state", m.initial)
	}
	for i := range m.transitions {
		if m.transitions[i].containsSource(m.initial) {
			return nil
		}
	}
	return configErrorf("initial state %q has no outbound transition", m.initial)
}

// Fire attempts the transition named trigger. It resolves the first declared
// transition whose source set contains the current state and whose guards all
// pass, then executes the callback phases in order. It returns nil on
// success, a NoMatchingTransitionError when no transition matches, a
// GuardRejectedError when all matching transitions were rejected, or the
// callback fault when a callback fails and no exception handler contains it.
func (m *Machine) Fire(trigger string, args ...any) error {
	var candidates []*Transition
	for i := range m.transitions {
		t := &m.transitions[i]
		if t.Trigger == trigger && t.containsSource(m.current) {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		m.logger.Debug("no matching transition", "trigger", trigger, "state", string(m.current))
		return &NoMatchingTransitionError{Trigger: trigger, State: m.current}
	}

	var selected *Transition
	var unmet []error
	for _, t := range candidates {
		ec := m.eventContext(trigger, t, args)
		if err := runCallbacks(t.Prepare, ec); err != nil {
			return m.raise(ec, err)
		}

		rejected := false
		for _, g := range t.Guards {
			if err := g(ec); err != nil {
				m.logger.Debug("guard rejected transition", "trigger", trigger, "from", string(m.current), "to", string(t.Dest), "reason", err.Error())
				unmet = append(unmet, err)
				rejected = true
				break
			}
		}
		if !rejected {
			selected = t
			break
		}
	}
	if selected == nil {
		return &GuardRejectedError{Trigger: trigger, State: m.current, Unmet: unmet}
	}

	ec := m.eventContext(trigger, selected, args)
	m.logger.Debug("executing transition", "trigger", trigger, "from", string(ec.Source), "to", string(ec.Dest))

	if err := runCallbacks(selected.Before, ec); err != nil {
		return m.raise(ec, err)
	}
	if err := runCallbacks(m.onLeave, ec); err != nil {
		return m.raise(ec, err)
	}

	m.current = selected.Dest

	if err := runCallbacks(m.onEnter[selected.Dest], ec); err != nil {
		return m.raise(ec, err)
	}
	if err := runCallbacks(selected.After, ec); err != nil {
		return m.raise(ec, err)
	}
	if err := runCallbacks(m.onFinalize, ec); err != nil {
		return m.raise(ec, err)
	}

	return nil
}

func (m *Machine) eventContext(trigger string, t *Transition, args []any) *EventContext {
	return &EventContext{
		Machine: m,
		Trigger: trigger,
		Source:  m.current,
		Dest:    t.Dest,
		Args:    args,
	}
}

// raise routes a callback fault to the exception handler. When the handler
// moves the machine to another state the fault is contained and Fire reports
// success; otherwise the fault propagates to the caller.
func (m *Machine) raise(ec *EventContext, err error) error {
	if m.onException == nil {
		return err
	}

	before := m.current
	ec.Err = err
	m.onException(ec)
	if m.current != before {
		return nil
	}
	return err
}

func runCallbacks(cbs []Callback, ec *EventContext) error {
	for _, cb := range cbs {
		if err := cb(ec); err != nil {
			return err
		}
	}
	return nil
}
