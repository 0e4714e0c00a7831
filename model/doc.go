// Package model binds the state-machine engine to domain object instances
// ("models as machines"). A Model owns exactly one machine, a unique
// identity, and a free-form context map. Construction installs the standard
// safety net every model carries:
//
//   - the error state and a wildcard transition into it, so the error state
//     is reachable from every declared state
//   - a leaving-state hook emitting a structured transition record
//   - an exception handler that forces the model into the error state when a
//     callback faults, so failures surface as an inspectable terminal state
//     rather than a crash
//
// Concrete models extend the base configuration with their own states and
// transitions, either in code or from a YAML machine definition.
package model
