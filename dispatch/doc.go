// Package dispatch routes events to registered handler models.
//
// A Dispatcher is itself a model: its transition table encodes the dispatch
// lifecycle and its terminal state records the outcome of exactly one event.
//
//	invoked --dispatch_event--> dispatching --handle--> handled
//	                                        --drop----> dropped
//	             any state --error--> error
//
// On entering the dispatching state the registry is consulted with the
// event's namespace segments. A match forwards the event to the handler's
// trigger named after the event's action segment and the dispatcher ends in
// handled; no match ends it in dropped; a handler whose machine rejects the
// trigger moves the dispatcher to error, never silently to dropped.
//
// A Dispatcher instance is single-use: one event per instance. Callers
// needing repeated dispatch construct a fresh Dispatcher per event, or use
// the root package façade which does so for them. The registry is the only
// state shared between dispatchers and is injected at construction, so tests
// and applications can run isolated registries side by side.
package dispatch
