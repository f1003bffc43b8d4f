// Package rpc provides the transport used to reach the remote ledger
// service: pluggable providers (JSON-RPC over HTTP, gRPC), a router with
// failover across providers, and retry with error classification. Retry
// only ever applies to read-only calls; side-effecting calls are pinned
// to a single attempt by their retry config.
package rpc

import (
	"context"
	"time"
)

// Provider is a single endpoint capable of executing ledger calls.
type Provider interface {
	// Call executes a named ledger operation. Params is a JSON-shaped
	// argument object; the result is the decoded JSON value.
	Call(ctx context.Context, method string, params map[string]any) (any, error)

	// GetName returns the provider's configured name.
	GetName() string

	// GetHealth returns current health accounting.
	GetHealth() HealthStatus

	// Close releases transport resources.
	Close() error
}

// HealthStatus tracks a provider's recent behavior.
type HealthStatus struct {
	Available     bool
	Latency       time.Duration
	ErrorRate     float64
	LastSuccessAt time.Time
	LastFailureAt time.Time
}
