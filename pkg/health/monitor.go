// Package health monitors reachability of a remote dependency from a client
// process. A single probe runs in a background goroutine at a fixed interval
// and uses failure/success thresholds to avoid flapping: the dependency must
// fail consecutively failureThreshold times before being reported down, and
// succeed successThreshold times before being reported up again.
package health

import (
	"context"
	"sync"
	"time"
)

// ProbeFunc checks the dependency once. It should return nil when the
// dependency is reachable, or an error describing the problem.
type ProbeFunc func(ctx context.Context) error

// Status is a point-in-time view of the monitored dependency.
type Status struct {
	Healthy   bool
	LastErr   error
	CheckedAt time.Time
}

// Monitor runs a single reachability probe on a schedule.
type Monitor struct {
	probe            ProbeFunc
	interval         time.Duration
	timeout          time.Duration
	failureThreshold int
	successThreshold int

	mu        sync.Mutex
	healthy   bool
	lastErr   error
	checkedAt time.Time
	fails     int
	oks       int
	cancel    context.CancelFunc
}

// Option customizes a Monitor.
type Option func(*Monitor)

// WithInterval sets the probe interval (default 10s).
func WithInterval(d time.Duration) Option {
	return func(m *Monitor) { m.interval = d }
}

// WithTimeout bounds a single probe run (default 5s).
func WithTimeout(d time.Duration) Option {
	return func(m *Monitor) { m.timeout = d }
}

// WithThresholds sets consecutive failure/success counts needed to flip the
// reported state (defaults 3 and 1).
func WithThresholds(failure, success int) Option {
	return func(m *Monitor) {
		m.failureThreshold = failure
		m.successThreshold = success
	}
}

// NewMonitor creates a Monitor for the given probe. The dependency is assumed
// healthy until proven otherwise.
func NewMonitor(probe ProbeFunc, opts ...Option) *Monitor {
	m := &Monitor{
		probe:            probe,
		interval:         10 * time.Second,
		timeout:          5 * time.Second,
		failureThreshold: 3,
		successThreshold: 1,
		healthy:          true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start launches the probe loop. The first probe runs immediately. The loop
// stops when ctx is cancelled or Stop is called.
func (m *Monitor) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	m.mu.Lock()
	m.cancel = cancel
	m.mu.Unlock()

	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		m.run(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.run(ctx)
			}
		}
	}()
}

// Stop halts the probe loop.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Status returns the current reachability verdict.
func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Status{Healthy: m.healthy, LastErr: m.lastErr, CheckedAt: m.checkedAt}
}

// run executes the probe once and applies the thresholds.
func (m *Monitor) run(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	err := m.probe(probeCtx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastErr = err
	m.checkedAt = time.Now()

	if err != nil {
		m.oks = 0
		m.fails++
		if m.fails >= m.failureThreshold {
			m.healthy = false
		}
		return
	}
	m.fails = 0
	m.oks++
	if m.oks >= m.successThreshold {
		m.healthy = true
	}
}
