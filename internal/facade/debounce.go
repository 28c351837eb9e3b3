package facade

import (
	"sync"
	"time"
)

// debouncer collapses rapid inputs into a single commit after a quiet period,
// and drops values equal to the last committed one. Intermediate values are
// discarded, never queued.
type debouncer struct {
	delay  time.Duration
	commit func(string)

	mu      sync.Mutex
	timer   *time.Timer
	pending string
	last    string
	emitted bool
	closed  bool
}

func newDebouncer(delay time.Duration, commit func(string)) *debouncer {
	return &debouncer{delay: delay, commit: commit}
}

// input records a new raw value and restarts the quiet-period timer.
func (d *debouncer) input(v string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.pending = v
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(v) })
}

// fire commits the value its timer was armed for. A value superseded between
// the timer expiring and the lock being acquired is dropped; the newer input
// has armed its own timer.
func (d *debouncer) fire(v string) {
	d.mu.Lock()
	if d.closed || v != d.pending || (d.emitted && v == d.last) {
		d.mu.Unlock()
		return
	}
	d.last = v
	d.emitted = true
	d.mu.Unlock()

	d.commit(v)
}

// close stops the timer; pending input is dropped.
func (d *debouncer) close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
	}
}
