// Package workflow implements the marketplace's client-side protocol
// logic: catalog queries, the event submission and moderation state
// machine, and the ticket purchase flow. Every operation is
// all-or-nothing from the caller's viewpoint: either its postcondition
// holds and the result is returned, or nothing changed and the failure
// is reported.
package workflow

import (
	"context"

	"github.com/vietddude/boxoffice/internal/core/domain"
)

// Session exposes the current authentication binding. Implemented by
// session.Handle.
type Session interface {
	// Identity returns the bound principal, or false when the session
	// is unauthenticated.
	Identity() (domain.Principal, bool)
}

// CacheInvalidator drops cached catalog results. Implemented by the
// redis client; nil disables invalidation.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}
