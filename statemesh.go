// Package statemesh provides a high-level façade over the state-machine
// engine and the event-dispatch layer built on top of it. Most applications
// interact with this package by:
//  1. Creating a StateMesh via New() (optionally overriding the default
//     in-memory registry or supplying a structured logger)
//  2. Registering one or more handler models under a namespace prefix
//  3. Dispatching events, each through a fresh single-use dispatcher
//
// The façade delegates routing to dispatch.Dispatcher while keeping setup and
// usage ergonomics concise. All defaults are safe for local development and
// testing; production deployments typically supply a structured logger and,
// where needed, a custom core.Registry implementation.
package statemesh

import (
	"github.com/hupe1980/statemesh/core"
	"github.com/hupe1980/statemesh/dispatch"
	"github.com/hupe1980/statemesh/logging"
	"github.com/hupe1980/statemesh/machine"
	"github.com/hupe1980/statemesh/registry"
)

// Options configures the StateMesh instance.
type Options struct {
	// Registry routes event namespaces to handlers. Defaults to an in-memory
	// implementation if not provided.
	Registry core.Registry

	// Logger receives transition records and fault reports from every
	// dispatcher constructed by this mesh. Defaults to NoOp logger if nil.
	Logger logging.Logger
}

// WithRegistry overrides the default in-memory handler registry.
func WithRegistry(reg core.Registry) func(o *Options) {
	return func(o *Options) { o.Registry = reg }
}

// WithLogger sets the logger handed to every dispatcher.
func WithLogger(logger logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = logger }
}

// StateMesh is the high-level façade aggregating the handler registry and the
// per-event dispatcher construction.
type StateMesh struct {
	opts Options
}

// New creates a new StateMesh instance with optional overrides. An unset
// registry is initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) *StateMesh {
	opts := Options{
		Registry: registry.NewInMemory(),
		Logger:   logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &StateMesh{opts: opts}
}

// Registry returns the registry shared by all dispatchers of this mesh.
func (m *StateMesh) Registry() core.Registry { return m.opts.Registry }

// RegisterHandler binds a handler model to a namespace prefix.
func (m *StateMesh) RegisterHandler(prefix []string, h core.Handler) {
	m.opts.Registry.Register(prefix, h)
}

// UnregisterHandler removes the binding for the exact prefix, reporting
// whether a binding existed.
func (m *StateMesh) UnregisterHandler(prefix []string) bool {
	return m.opts.Registry.Unregister(prefix)
}

// Dispatch routes one event through a fresh single-use dispatcher and returns
// the dispatcher's terminal state (handled, dropped or error). The returned
// error reports dispatcher construction problems; handler failures surface
// through the error outcome, mirroring the dispatcher's containment policy.
func (m *StateMesh) Dispatch(ev core.Event) (machine.State, error) {
	d, err := dispatch.New(m.opts.Registry, dispatch.WithLogger(m.opts.Logger))
	if err != nil {
		return "", err
	}
	if err := d.Dispatch(ev); err != nil {
		return d.Outcome(), err
	}
	return d.Outcome(), nil
}

// DispatchType is a convenience wrapper that constructs the event from a
// delimited type string and context mapping before dispatching it.
func (m *StateMesh) DispatchType(typeString string, ctx map[string]any) (machine.State, error) {
	ev, err := core.NewEvent(typeString, ctx)
	if err != nil {
		return "", err
	}
	return m.Dispatch(ev)
}
