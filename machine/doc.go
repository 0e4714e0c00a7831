// Package machine implements a generic, callback-driven finite-state-machine
// engine. A Machine owns a closed set of declared states and a declared
// transition table keyed by trigger name, and executes the transition
// protocol with ordered callback phases:
//
//	prepare -> guards -> before -> leaving-state hooks -> state change ->
//	enter-state hooks -> after -> finalize
//
// The engine has no knowledge of events or dispatch and is usable standalone.
// All invalid-transition attempts surface as typed errors from Fire; there is
// no silent boolean-false path. Faults raised by callbacks are funnelled to a
// configurable exception handler which may force the machine into a recovery
// state instead of propagating the fault to the caller.
//
// A Machine instance is exclusively owned by its model; it performs no
// internal locking so that callbacks may re-enter Fire on the same machine
// (chained transitions). Callers driving one machine from multiple goroutines
// must serialize access themselves.
package machine
