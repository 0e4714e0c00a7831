package core

import (
	"fmt"
	"strings"
)

// DefaultDelimiter separates the segments of an event type string.
const DefaultDelimiter = ":"

// MalformedEventTypeError indicates an event type string that cannot be split
// into a namespace and an action segment.
type MalformedEventTypeError struct {
	Type      string
	Delimiter string
}

func (e *MalformedEventTypeError) Error() string {
	return fmt.Sprintf("malformed event type %q: expected at least two non-empty segments separated by %q", e.Type, e.Delimiter)
}

// Event is the unit of communication between the surrounding application and
// the dispatch layer. After construction it should be treated as immutable.
// The type string is split on a delimiter into namespace segments plus a
// final action segment; the context map carries the arbitrary body of the
// external event.
//
// Two events are equal iff their type strings are equal.
type Event struct {
	segments  []string
	typ       string
	delimiter string
	ctx       map[string]any
}

// EventOptions configures Event construction.
type EventOptions struct {
	// Delimiter separates segments in the type string. Defaults to ":".
	Delimiter string
}

// WithDelimiter overrides the segment delimiter for the type string.
func WithDelimiter(d string) func(o *EventOptions) {
	return func(o *EventOptions) { o.Delimiter = d }
}

// NewEvent constructs an Event from a delimited type string and a context
// mapping. The type string must contain at least two non-empty segments; the
// final segment is the action, everything before it is the namespace.
//
//	ev, err := core.NewEvent("penguin:wake_up", map[string]any{"source": "zoo"})
func NewEvent(typeString string, ctx map[string]any, optFns ...func(o *EventOptions)) (Event, error) {
	opts := EventOptions{Delimiter: DefaultDelimiter}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Delimiter == "" {
		opts.Delimiter = DefaultDelimiter
	}

	segments := strings.Split(typeString, opts.Delimiter)
	if len(segments) < 2 {
		return Event{}, &MalformedEventTypeError{Type: typeString, Delimiter: opts.Delimiter}
	}
	for _, s := range segments {
		if s == "" {
			return Event{}, &MalformedEventTypeError{Type: typeString, Delimiter: opts.Delimiter}
		}
	}

	if ctx == nil {
		ctx = map[string]any{}
	}

	return Event{segments: segments, typ: typeString, delimiter: opts.Delimiter, ctx: ctx}, nil
}

// Type returns the full delimited type string.
func (e Event) Type() string { return e.typ }

// Segments returns a copy of all type segments, namespace plus action.
func (e Event) Segments() []string {
	out := make([]string, len(e.segments))
	copy(out, e.segments)
	return out
}

// Namespace returns the segments preceding the action segment.
func (e Event) Namespace() []string {
	out := make([]string, len(e.segments)-1)
	copy(out, e.segments[:len(e.segments)-1])
	return out
}

// Action returns the final segment of the type string. It names the trigger
// the matched handler is expected to expose.
func (e Event) Action() string { return e.segments[len(e.segments)-1] }

// Context returns the event body. Callers must not mutate the returned map.
func (e Event) Context() map[string]any { return e.ctx }

// Equal reports whether two events carry the same type string.
func (e Event) Equal(other Event) bool { return e.typ == other.typ }
