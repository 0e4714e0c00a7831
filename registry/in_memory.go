package registry

import (
	"strings"
	"sync"

	"github.com/hupe1980/statemesh/core"
)

// InMemory is a volatile core.Registry implementation storing handler
// bindings in a process local table. It is safe for concurrent registration
// and lookup: registration is rare (typically at startup) while lookups occur
// on every dispatch, so a reader-writer lock guards the table.
//
// Lookup policy: the longest registered prefix that prefixes the incoming
// namespace wins. Distinct prefixes of equal length can never both prefix the
// same namespace, but candidates are still scanned in registration order so
// behavior stays deterministic. Registering an already-registered prefix
// replaces the previous handler (last registration wins), mirroring the
// assignment semantics of the reference usage.
type InMemory struct {
	mu      sync.RWMutex
	index   map[string]int
	entries []entry
}

type entry struct {
	prefix  []string
	handler core.Handler
}

// Compile-time assertion (see core.Registry).
var _ core.Registry = (*InMemory)(nil)

// NewInMemory constructs an empty in-memory handler registry.
func NewInMemory() *InMemory {
	return &InMemory{index: make(map[string]int)}
}

// keyOf joins prefix segments with a separator that cannot appear in event
// type segments, so ("a:b") and ("a","b") never collide.
func keyOf(prefix []string) string {
	return strings.Join(prefix, "\x1f")
}

// Register binds a handler to the given prefix tuple. An empty prefix is
// legal and acts as a catch-all matched only when no longer prefix does.
func (r *InMemory) Register(prefix []string, h core.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := keyOf(prefix)
	if i, ok := r.index[key]; ok {
		r.entries[i].handler = h
		return
	}

	owned := make([]string, len(prefix))
	copy(owned, prefix)
	r.index[key] = len(r.entries)
	r.entries = append(r.entries, entry{prefix: owned, handler: h})
}

// Unregister removes the binding for the exact prefix tuple.
func (r *InMemory) Unregister(prefix []string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := keyOf(prefix)
	i, ok := r.index[key]
	if !ok {
		return false
	}

	r.entries = append(r.entries[:i], r.entries[i+1:]...)
	delete(r.index, key)
	for k, pos := range r.index {
		if pos > i {
			r.index[k] = pos - 1
		}
	}
	return true
}

// Has reports whether the exact prefix tuple is currently bound.
func (r *InMemory) Has(prefix []string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.index[keyOf(prefix)]
	return ok
}

// Lookup returns the handler bound to the longest registered prefix of the
// namespace.
func (r *InMemory) Lookup(namespace []string) (core.Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	best := -1
	bestLen := -1
	for i := range r.entries {
		p := r.entries[i].prefix
		if len(p) > len(namespace) || len(p) <= bestLen {
			continue
		}
		if isPrefix(p, namespace) {
			best = i
			bestLen = len(p)
		}
	}
	if best < 0 {
		return nil, false
	}
	return r.entries[best].handler, true
}

func isPrefix(prefix, namespace []string) bool {
	for i, seg := range prefix {
		if namespace[i] != seg {
			return false
		}
	}
	return true
}

// Len returns the number of registered prefixes.
func (r *InMemory) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
