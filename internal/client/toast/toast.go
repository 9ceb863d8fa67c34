// Package toast holds the client-side notification queue: short-lived
// messages shown to the user, removed explicitly or when their duration
// elapses.
package toast

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a toast for presentation.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// DefaultDuration applies when Push is called with a zero duration.
const DefaultDuration = 5 * time.Second

var ErrNoQueue = errors.New("toast: no queue in context")

// Toast is a single queued message. Title is the headline; Message is
// the optional body text under it.
type Toast struct {
	ID       string
	Kind     Kind
	Title    string
	Message  string
	Duration time.Duration
	PushedAt time.Time
}

// Queue is a FIFO of active toasts. Safe for concurrent use.
type Queue struct {
	mu     sync.Mutex
	toasts []Toast
	now    func() time.Time
}

func NewQueue() *Queue {
	return &Queue{now: time.Now}
}

// Push enqueues a message and returns its generated ID. Message may be
// empty; a zero duration becomes DefaultDuration.
func (q *Queue) Push(kind Kind, title, message string, duration time.Duration) string {
	if duration <= 0 {
		duration = DefaultDuration
	}

	t := Toast{
		ID:       uuid.NewString(),
		Kind:     kind,
		Title:    title,
		Message:  message,
		Duration: duration,
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	t.PushedAt = q.now()
	q.toasts = append(q.toasts, t)
	return t.ID
}

// Remove dismisses a toast by ID. Unknown IDs are a no-op; a toast may
// expire between when the caller saw it and when it dismisses it.
func (q *Queue) Remove(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, t := range q.toasts {
		if t.ID == id {
			q.toasts = append(q.toasts[:i], q.toasts[i+1:]...)
			return
		}
	}
}

// List returns active toasts in push order, dropping any whose
// duration has elapsed.
func (q *Queue) List() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	kept := q.toasts[:0]
	for _, t := range q.toasts {
		if now.Sub(t.PushedAt) < t.Duration {
			kept = append(kept, t)
		}
	}
	q.toasts = kept

	out := make([]Toast, len(q.toasts))
	copy(out, q.toasts)
	return out
}

type ctxKey struct{}

// NewContext attaches the queue to a context so deeply nested client
// code can surface messages without threading the queue explicitly.
func NewContext(ctx context.Context, q *Queue) context.Context {
	return context.WithValue(ctx, ctxKey{}, q)
}

// FromContext retrieves the queue placed by NewContext.
func FromContext(ctx context.Context) (*Queue, error) {
	q, ok := ctx.Value(ctxKey{}).(*Queue)
	if !ok || q == nil {
		return nil, ErrNoQueue
	}
	return q, nil
}
