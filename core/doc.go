// Package core provides the foundational domain types and interfaces used by
// statemesh. It defines the core abstractions for:
//
//   - Events (immutable, delimiter-typed records subject to dispatch)
//   - Handlers (models able to fire a named trigger for an event action)
//   - Registries (prefix-keyed lookup tables routing namespaces to handlers)
//
// The package intentionally keeps implementation concerns (the state-machine
// engine, concrete registries, the dispatcher) out of scope, exposing small
// interfaces to enable custom backends and extensions.
package core
