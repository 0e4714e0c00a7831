package core

// Handler is a model able to fire a named trigger. The dispatcher forwards an
// event by calling Trigger with the event's action segment and the event
// itself as the argument. A nil return means the handler's own machine
// accepted the trigger and completed the transition.
//
// Triggers are declared statically at construction; there is no runtime
// method synthesis. A handler that does not declare a trigger for a given
// action returns a machine.NoMatchingTransitionError.
type Handler interface {
	Trigger(name string, args ...any) error
}

// Registry maps an ordered tuple of namespace segments (a prefix) to the
// handler responsible for events whose namespace begins with that prefix.
//
// Registration typically happens once at application startup while lookups
// occur on every dispatch, so implementations must be safe for concurrent
// registration and lookup.
type Registry interface {
	// Register binds a handler to a prefix. Registering the same exact
	// prefix again replaces the previous handler (last registration wins).
	Register(prefix []string, h Handler)

	// Unregister removes the binding for the exact prefix, reporting whether
	// a binding existed.
	Unregister(prefix []string) bool

	// Has reports whether the exact prefix is currently bound.
	Has(prefix []string) bool

	// Lookup returns the handler bound to the longest registered prefix of
	// the given namespace, or false when no registered prefix matches.
	Lookup(namespace []string) (Handler, bool)
}
