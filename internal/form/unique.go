package form

import (
	"context"
	"sync"
)

// ExistsFunc reports whether a product ID is already registered.
type ExistsFunc func(ctx context.Context, id string) (bool, error)

// UniqueIDChecker runs asynchronous ID existence checks with stale-result
// suppression. Every Check increments a generation counter; a result is
// applied only when its generation is still the latest, so a slow response
// for a superseded ID can never overwrite the verdict for the current one.
//
// Transport failures are fail-open: the ID is reported as available rather
// than blocking submission on a flaky network.
type UniqueIDChecker struct {
	exists ExistsFunc

	mu  sync.Mutex
	seq uint64
}

// NewUniqueIDChecker creates a checker backed by the given existence lookup.
func NewUniqueIDChecker(exists ExistsFunc) *UniqueIDChecker {
	return &UniqueIDChecker{exists: exists}
}

// Check verifies id in the background and calls apply with the result. Only
// the most recently requested check ever reaches apply; superseded results
// are dropped silently. apply is called from the checker's goroutine.
func (c *UniqueIDChecker) Check(ctx context.Context, id string, apply func(exists bool)) {
	c.mu.Lock()
	c.seq++
	gen := c.seq
	c.mu.Unlock()

	go func() {
		exists, err := c.exists(ctx, id)
		if err != nil {
			exists = false
		}

		c.mu.Lock()
		latest := gen == c.seq
		c.mu.Unlock()
		if latest {
			apply(exists)
		}
	}()
}
