// Package settings bridges the settings screen to the parts of the
// client that have to react to a change: an Applier carries changes
// into the UI shell, and subscribers observe every applied change.
package settings

import (
	"errors"
	"strconv"
	"strings"
	"sync"
)

var ErrNoApplier = errors.New("settings: no applier registered")

// Change is a single applied settings mutation, delivered to
// subscribers.
type Change struct {
	Field string
	Value string
}

// Applier receives settings changes. The UI shell registers one at
// startup; until then Apply* calls fail with ErrNoApplier rather than
// getting silently dropped.
type Applier interface {
	ApplyTheme(theme string) error
	ApplyFontSize(px int) error
	ApplyLocale(locale string) error
}

// Bus routes settings changes to the registered applier and fans them
// out to subscribers. Safe for concurrent use.
type Bus struct {
	mu      sync.Mutex
	applier Applier
	subs    map[chan Change]struct{}
}

func NewBus() *Bus {
	return &Bus{subs: make(map[chan Change]struct{})}
}

// SetApplier registers the active applier, replacing any previous one.
// A nil applier unregisters.
func (b *Bus) SetApplier(a Applier) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.applier = a
}

// Subscribe returns a channel receiving every applied change. Slow
// subscribers miss changes instead of blocking appliers.
func (b *Bus) Subscribe() chan Change {
	ch := make(chan Change, 16)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[ch] = struct{}{}
	return ch
}

// Unsubscribe removes and closes a channel returned by Subscribe.
func (b *Bus) Unsubscribe(ch chan Change) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
}

// ApplyTheme forwards a theme change to the applier.
func (b *Bus) ApplyTheme(theme string) error {
	return b.apply(Change{Field: "theme", Value: theme}, func(a Applier) error {
		return a.ApplyTheme(theme)
	})
}

// ApplyFontSize forwards a font-size change to the applier.
func (b *Bus) ApplyFontSize(px int) error {
	return b.apply(Change{Field: "font_size", Value: strconv.Itoa(px)}, func(a Applier) error {
		return a.ApplyFontSize(px)
	})
}

// ApplyLocale forwards a locale change to the applier.
func (b *Bus) ApplyLocale(locale string) error {
	return b.apply(Change{Field: "locale", Value: locale}, func(a Applier) error {
		return a.ApplyLocale(locale)
	})
}

func (b *Bus) apply(change Change, call func(Applier) error) error {
	b.mu.Lock()
	a := b.applier
	b.mu.Unlock()

	if a == nil {
		return ErrNoApplier
	}
	if err := call(a); err != nil {
		return err
	}

	b.mu.Lock()
	for ch := range b.subs {
		select {
		case ch <- change:
		default:
		}
	}
	b.mu.Unlock()
	return nil
}

// LocalePath rewrites the first path segment that is a known locale
// code, or prepends the locale when no segment matches. known lists
// the locale codes that count as a locale segment.
func LocalePath(path, locale string, known []string) string {
	trimmed := strings.TrimPrefix(path, "/")
	segments := strings.Split(trimmed, "/")

	for i, seg := range segments {
		if isKnownLocale(seg, known) {
			segments[i] = locale
			return "/" + strings.Join(segments, "/")
		}
	}
	if trimmed == "" {
		return "/" + locale
	}
	return "/" + locale + "/" + trimmed
}

func isKnownLocale(segment string, known []string) bool {
	for _, l := range known {
		if segment == l {
			return true
		}
	}
	return false
}
