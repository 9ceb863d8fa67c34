// Package shortcut maps keyboard chords to handlers. Bindings are
// matched by key plus modifiers; ctrl and meta are interchangeable so
// one chord works on both common modifier conventions.
package shortcut

import (
	"strings"
	"sync"
)

// KeyEvent is a single keypress with its modifier state.
type KeyEvent struct {
	Key   string
	Ctrl  bool
	Meta  bool
	Shift bool
	Alt   bool
}

// Binding ties a chord to a handler. Ctrl set on a binding matches
// either the ctrl or the meta modifier on the event.
type Binding struct {
	Key         string
	Ctrl        bool
	Meta        bool
	Shift       bool
	Alt         bool
	Description string
	Handler     func(KeyEvent)
}

// Registry dispatches key events to every matching binding. Safe for
// concurrent use.
type Registry struct {
	mu       sync.RWMutex
	bindings []Binding
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Bind registers a binding. Multiple bindings may share a chord; all
// of them fire on dispatch.
func (r *Registry) Bind(b Binding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.Key = strings.ToLower(b.Key)
	r.bindings = append(r.bindings, b)
}

// Rebind swaps the entire binding set for a new one, the way a screen
// replaces its shortcuts when it takes over the keyboard. An empty
// slice clears every binding.
func (r *Registry) Rebind(bindings []Binding) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]Binding, len(bindings))
	copy(next, bindings)
	for i := range next {
		next[i].Key = strings.ToLower(next[i].Key)
	}
	r.bindings = next
}

// Bindings returns a snapshot of the registered bindings, for help
// screens.
func (r *Registry) Bindings() []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Binding, len(r.bindings))
	copy(out, r.bindings)
	return out
}

// Dispatch fires every binding matching the event and returns how many
// handlers ran.
func (r *Registry) Dispatch(ev KeyEvent) int {
	r.mu.RLock()
	matched := make([]Binding, 0, 2)
	for _, b := range r.bindings {
		if matches(b, ev) {
			matched = append(matched, b)
		}
	}
	r.mu.RUnlock()

	for _, b := range matched {
		b.Handler(ev)
	}
	return len(matched)
}

func matches(b Binding, ev KeyEvent) bool {
	if !strings.EqualFold(b.Key, ev.Key) {
		return false
	}
	if b.Shift != ev.Shift || b.Alt != ev.Alt {
		return false
	}

	wantPrimary := b.Ctrl || b.Meta
	havePrimary := ev.Ctrl || ev.Meta
	return wantPrimary == havePrimary
}
