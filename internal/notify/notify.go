// Package notify implements a fire-and-forget toast notification center.
// Toasts auto-dismiss after a fixed interval or on explicit dismissal by ID.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a toast stays visible unless dismissed earlier.
const DefaultTTL = 4 * time.Second

// Kind classifies a toast for presentation.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Toast is a single notification.
type Toast struct {
	ID      string
	Message string
	Kind    Kind
}

// Center collects active toasts and notifies a single subscriber on every
// change. All methods are safe for concurrent use.
type Center struct {
	ttl time.Duration

	mu     sync.Mutex
	toasts []Toast
	timers map[string]*time.Timer
	onNext func([]Toast)
	closed bool
}

// Option customizes a Center.
type Option func(*Center)

// WithTTL overrides the auto-dismiss interval.
func WithTTL(ttl time.Duration) Option {
	return func(c *Center) { c.ttl = ttl }
}

// NewCenter creates an empty notification center.
func NewCenter(opts ...Option) *Center {
	c := &Center{
		ttl:    DefaultTTL,
		timers: make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnChange registers the subscriber invoked with the active toast list after
// every change. Passing nil removes the subscriber.
func (c *Center) OnChange(fn func([]Toast)) {
	c.mu.Lock()
	c.onNext = fn
	c.mu.Unlock()
}

// Success publishes a success toast.
func (c *Center) Success(message string) { c.push(message, KindSuccess) }

// Error publishes an error toast.
func (c *Center) Error(message string) { c.push(message, KindError) }

// Info publishes an informational toast.
func (c *Center) Info(message string) { c.push(message, KindInfo) }

// Notify publishes a toast of the given kind.
func (c *Center) Notify(message string, kind Kind) { c.push(message, kind) }

// Toasts returns the currently active toasts.
func (c *Center) Toasts() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Toast, len(c.toasts))
	copy(out, c.toasts)
	return out
}

// Dismiss removes a toast by ID before its TTL expires. Unknown IDs are
// ignored.
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	if t, ok := c.timers[id]; ok {
		t.Stop()
		delete(c.timers, id)
	}
	kept := c.toasts[:0:0]
	for _, t := range c.toasts {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	changed := len(kept) != len(c.toasts)
	c.toasts = kept
	fn, snap := c.changeLocked()
	c.mu.Unlock()

	if changed && fn != nil {
		fn(snap)
	}
}

// Close stops all pending auto-dismiss timers. The center accepts no new
// toasts afterwards.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
	c.toasts = nil
}

func (c *Center) push(message string, kind Kind) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	id := uuid.NewString()
	c.toasts = append(c.toasts, Toast{ID: id, Message: message, Kind: kind})
	c.timers[id] = time.AfterFunc(c.ttl, func() { c.Dismiss(id) })
	fn, snap := c.changeLocked()
	c.mu.Unlock()

	if fn != nil {
		fn(snap)
	}
}

func (c *Center) changeLocked() (func([]Toast), []Toast) {
	if c.onNext == nil {
		return nil, nil
	}
	snap := make([]Toast, len(c.toasts))
	copy(snap, c.toasts)
	return c.onNext, snap
}
