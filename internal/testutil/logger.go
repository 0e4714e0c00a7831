package testutil

import "sync"

// Entry is one captured log call.
type Entry struct {
	Msg  string
	Args []any
}

// Attrs interprets the variadic args as alternating key/value pairs.
func (e Entry) Attrs() map[string]any {
	attrs := make(map[string]any, len(e.Args)/2)
	for i := 0; i+1 < len(e.Args); i += 2 {
		key, ok := e.Args[i].(string)
		if !ok {
			continue
		}
		attrs[key] = e.Args[i+1]
	}
	return attrs
}

// RecordingLogger implements logging.Logger and captures every call for
// later assertions. Safe for concurrent use.
type RecordingLogger struct {
	mu      sync.Mutex
	entries map[string][]Entry
}

// NewRecordingLogger constructs an empty RecordingLogger.
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{entries: make(map[string][]Entry)}
}

func (r *RecordingLogger) record(level, msg string, args []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[level] = append(r.entries[level], Entry{Msg: msg, Args: args})
}

// Debug captures a debug call.
func (r *RecordingLogger) Debug(msg string, args ...any) { r.record("debug", msg, args) }

// Info captures an info call.
func (r *RecordingLogger) Info(msg string, args ...any) { r.record("info", msg, args) }

// Warn captures a warn call.
func (r *RecordingLogger) Warn(msg string, args ...any) { r.record("warn", msg, args) }

// Error captures an error call.
func (r *RecordingLogger) Error(msg string, args ...any) { r.record("error", msg, args) }

// Entries returns the captured calls for a level ("debug", "info", "warn",
// "error").
func (r *RecordingLogger) Entries(level string) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries[level]))
	copy(out, r.entries[level])
	return out
}

// Find returns the first captured entry with the given message at the given
// level.
func (r *RecordingLogger) Find(level, msg string) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries[level] {
		if e.Msg == msg {
			return e, true
		}
	}
	return Entry{}, false
}
