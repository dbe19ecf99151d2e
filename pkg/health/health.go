// Package health provides Kubernetes-style liveness and readiness probes.
// Registered checks run periodically in the background; the HTTP endpoints
// only report the latest cached result, so probes stay cheap under load.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// CheckFunc reports nil when the checked component is healthy.
type CheckFunc func(ctx context.Context) error

type check struct {
	name    string
	timeout time.Duration
	fn      CheckFunc

	mu      sync.Mutex
	lastErr error
}

func (c *check) run(ctx context.Context) {
	checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.fn(checkCtx)

	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
}

func (c *check) err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Health manages liveness and readiness checks for a service.
type Health struct {
	mu        sync.Mutex
	ready     bool
	liveness  []*check
	readiness []*check
	cancel    context.CancelFunc
}

// New creates a Health in the not-ready state; call SetReady(true) once
// initialization is done.
func New() *Health {
	return &Health{}
}

// AddLivenessCheck registers a liveness check (is the process functional).
func (h *Health) AddLivenessCheck(name string, timeout time.Duration, fn CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.liveness = append(h.liveness, &check{name: name, timeout: timeout, fn: fn})
}

// AddReadinessCheck registers a readiness check (can we take traffic).
func (h *Health) AddReadinessCheck(name string, timeout time.Duration, fn CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.readiness = append(h.readiness, &check{name: name, timeout: timeout, fn: fn})
}

// SetReady flips the manual readiness gate, used for startup and draining.
func (h *Health) SetReady(ready bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ready = ready
}

// Start launches the background check loop at the given interval. Each
// check also runs once immediately so the first probe sees real results.
func (h *Health) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	h.mu.Lock()
	h.cancel = cancel
	checks := append(append([]*check(nil), h.liveness...), h.readiness...)
	h.mu.Unlock()

	for _, c := range checks {
		c.run(ctx)
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for _, c := range checks {
					c.run(ctx)
				}
			}
		}
	}()
}

// Stop terminates the background check loop.
func (h *Health) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
}

// LiveEndpoint serves the liveness probe.
func (h *Health) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	checks := append([]*check(nil), h.liveness...)
	h.mu.Unlock()
	respond(w, true, checks)
}

// ReadyEndpoint serves the readiness probe. It fails while the manual gate
// is closed or any readiness check is failing.
func (h *Health) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	ready := h.ready
	checks := append([]*check(nil), h.readiness...)
	h.mu.Unlock()
	respond(w, ready, checks)
}

func respond(w http.ResponseWriter, ok bool, checks []*check) {
	results := make(map[string]string, len(checks))
	for _, c := range checks {
		if err := c.err(); err != nil {
			ok = false
			results[c.name] = err.Error()
		} else {
			results[c.name] = "ok"
		}
	}

	status := "ok"
	code := http.StatusOK
	if !ok {
		status = "unavailable"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": status,
		"checks": results,
	})
}
