package rpc

import (
	"fmt"
	"sync"
	"time"
)

// Router selects among the configured ledger providers and tracks their
// recent behavior. Reads may fail over across providers; writes always go
// to the active provider only.
type Router struct {
	mu        sync.RWMutex
	providers []Provider
	active    int
	failures  map[string]int
	successes map[string]int
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{
		failures:  make(map[string]int),
		successes: make(map[string]int),
	}
}

// AddProvider registers a provider. The first registered provider becomes
// the active one.
func (r *Router) AddProvider(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers = append(r.providers, p)
}

// Provider returns the active provider.
func (r *Router) Provider() (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.providers) == 0 {
		return nil, fmt.Errorf("no ledger providers configured")
	}
	return r.providers[r.active], nil
}

// All returns all providers starting from the active one, in rotation
// order. The slice is a copy and safe to iterate without the lock.
func (r *Router) All() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Provider, 0, len(r.providers))
	for i := range r.providers {
		out = append(out, r.providers[(r.active+i)%len(r.providers)])
	}
	return out
}

// Rotate advances the active provider.
func (r *Router) Rotate() (Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.providers) == 0 {
		return nil, fmt.Errorf("no ledger providers configured")
	}
	r.active = (r.active + 1) % len(r.providers)
	return r.providers[r.active], nil
}

// RecordSuccess tracks a successful call against a provider.
func (r *Router) RecordSuccess(name string, latency time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes[name]++
}

// RecordFailure tracks a failed call. Three consecutive failures on the
// active provider rotate away from it.
func (r *Router) RecordFailure(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.failures[name]++
	if len(r.providers) < 2 {
		return
	}
	if r.providers[r.active].GetName() == name && r.failures[name]%3 == 0 {
		r.active = (r.active + 1) % len(r.providers)
	}
}

// Health reports health of every provider keyed by name.
func (r *Router) Health() map[string]HealthStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]HealthStatus, len(r.providers))
	for _, p := range r.providers {
		out[p.GetName()] = p.GetHealth()
	}
	return out
}

// Close closes all providers.
func (r *Router) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var firstErr error
	for _, p := range r.providers {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
