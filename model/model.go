package model

import (
	"time"

	"github.com/hupe1980/statemesh/core"
	"github.com/hupe1980/statemesh/logging"
	"github.com/hupe1980/statemesh/machine"
)

// ErrorState is the terminal state every model can reach from anywhere.
const ErrorState machine.State = "error"

// ErrorTrigger names the wildcard transition into ErrorState.
const ErrorTrigger = "error"

// Config is the construction surface of a model: the declared states, the
// transition table and the initial state. This is the only place dynamic
// configuration enters the core.
type Config struct {
	States      []machine.State
	Transitions []machine.Transition
	Initial     machine.State
}

// Options configures optional model collaborators.
type Options struct {
	// Logger receives transition records and fault reports. Defaults to a
	// NoOpLogger if nil.
	Logger logging.Logger
}

// WithLogger sets the logger for the model.
func WithLogger(logger logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = logger }
}

// Model is a domain object bound to one independent state-machine instance.
// Model state is exclusively owned by the instance and never shared, so
// distinct models can be driven from distinct goroutines without
// coordination.
type Model struct {
	id      string
	machine *machine.Machine
	logger  logging.Logger

	// Ctx carries arbitrary per-instance context.
	Ctx map[string]any
}

// Compile-time assertion that a Model can act as a dispatch handler.
var _ core.Handler = (*Model)(nil)

// New constructs a Model and attaches its machine configuration in one step.
// The error state is declared and the wildcard transition into it installed
// when the supplied transition list does not already carry one. Configuration
// defects (undeclared states, an initial state with no outbound transition)
// are fatal here, not at runtime.
func New(cfg Config, optFns ...func(o *Options)) (*Model, error) {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	mdl := &Model{
		id:     core.NewID(),
		logger: core.EnsureLogger(opts.Logger),
		Ctx:    make(map[string]any),
	}
	mdl.machine = machine.New(cfg.Initial, machine.WithLogger(mdl.logger))
	mdl.machine.AddStates(cfg.States...)
	mdl.machine.AddStates(ErrorState)

	transitions := cfg.Transitions
	if !hasErrorTransition(transitions) {
		transitions = append(transitions, machine.Transition{
			Trigger: ErrorTrigger,
			Sources: []machine.State{machine.SourceAny},
			Dest:    ErrorState,
		})
	}
	if err := mdl.machine.AddTransitions(transitions...); err != nil {
		return nil, err
	}

	mdl.machine.OnLeave(mdl.logLeavingState)
	mdl.machine.OnException(mdl.handleException)

	if err := mdl.machine.Validate(); err != nil {
		return nil, err
	}

	// The wildcard error escape counts as an outbound transition for the
	// engine, so the stuck-model check has to ignore it: a model whose only
	// way out of its initial state is the error state is a configuration
	// defect.
	if !hasOutboundFromInitial(cfg.Transitions, cfg.Initial) {
		return nil, &machine.MachineConfigError{
			Message: "initial state " + string(cfg.Initial) + " has no outbound transition besides the error escape",
		}
	}

	return mdl, nil
}

// FromDefinition constructs a Model from a parsed machine definition.
func FromDefinition(def *machine.Definition, optFns ...func(o *Options)) (*Model, error) {
	return New(Config{
		States:      def.States,
		Transitions: def.TransitionTable(),
		Initial:     def.Initial,
	}, optFns...)
}

func hasOutboundFromInitial(transitions []machine.Transition, initial machine.State) bool {
	for _, t := range transitions {
		if t.Trigger == ErrorTrigger {
			continue
		}
		for _, src := range t.Sources {
			if src == initial || src == machine.SourceAny {
				return true
			}
		}
	}
	return false
}

func hasErrorTransition(transitions []machine.Transition) bool {
	for _, t := range transitions {
		if t.Trigger == ErrorTrigger {
			return true
		}
	}
	return false
}

// ID returns the unique identity of this model instance.
func (m *Model) ID() string { return m.id }

// State returns the machine's current state.
func (m *Model) State() machine.State { return m.machine.Current() }

// Machine exposes the underlying machine so concrete models can extend the
// state set, the transition table and the callback hooks after construction.
func (m *Model) Machine() *machine.Machine { return m.machine }

// Logger returns the model's logger.
func (m *Model) Logger() logging.Logger { return m.logger }

// Trigger fires the named trigger on the model's machine. It implements
// core.Handler so any model can be registered as an event handler.
func (m *Model) Trigger(name string, args ...any) error {
	return m.machine.Fire(name, args...)
}

// logLeavingState is the machine-wide leaving-state hook. It emits one
// structured transition record per successful transition.
func (m *Model) logLeavingState(ec *machine.EventContext) error {
	logging.LogTransition(m.logger, logging.TransitionRecord{
		ModelID:   m.id,
		Trigger:   ec.Trigger,
		FromState: string(ec.Source),
		ToState:   string(ec.Dest),
		Timestamp: time.Now().UTC(),
	})
	return nil
}

// handleException logs the fault then forces the model into the error state.
// Callers observe the failure through the resulting state, not through a
// propagated error.
func (m *Model) handleException(ec *machine.EventContext) {
	m.logger.Error("unhandled fault during transition",
		"model_id", m.id,
		"trigger", ec.Trigger,
		"from_state", string(ec.Source),
		"to_state", string(ec.Dest),
		"error", ec.Err.Error(),
	)
	if err := ec.Machine.Fire(ErrorTrigger); err != nil {
		m.logger.Error("failed to enter error state", "model_id", m.id, "error", err.Error())
	}
}
