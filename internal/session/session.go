// Package session holds the two-state client binding to the ledger:
// Unauthenticated (anonymous actor, default capabilities only) or
// Authenticated (actor signing as the logged-in identity). Callers ask
// the handle for the current actor on every call instead of capturing a
// reference, so a login rebinds every component at once.
package session

import (
	"log/slog"
	"sync"

	"github.com/vietddude/boxoffice/internal/core/domain"
	"github.com/vietddude/boxoffice/internal/infra/ledger"
)

// State is the authentication state of the handle.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticated
)

func (s State) String() string {
	if s == StateAuthenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// ActorFactory builds a ledger actor bound to a caller identity. The
// empty principal yields the anonymous binding.
type ActorFactory func(caller domain.Principal) *ledger.Actor

// Handle is the capability-checked accessor for the current actor
// binding.
type Handle struct {
	mu       sync.RWMutex
	state    State
	identity domain.Principal
	actor    *ledger.Actor
	factory  ActorFactory
	log      *slog.Logger
}

// NewHandle creates an unauthenticated handle with the anonymous actor
// bound.
func NewHandle(factory ActorFactory) *Handle {
	return &Handle{
		state:   StateUnauthenticated,
		actor:   factory(""),
		factory: factory,
		log:     slog.Default(),
	}
}

// Actor returns the current binding. The result is valid for one
// logical operation; do not cache it across logins.
func (h *Handle) Actor() *ledger.Actor {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.actor
}

// State returns the current authentication state.
func (h *Handle) State() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

// Identity returns the bound identity, or false when unauthenticated.
// Absence is explicit: there is no anonymous sentinel principal.
func (h *Handle) Identity() (domain.Principal, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.state != StateAuthenticated {
		return "", false
	}
	return h.identity, true
}

// Bind swaps in an authenticated actor for the given identity. Called
// from the identity provider's login callback.
func (h *Handle) Bind(identity domain.Principal) error {
	if _, err := domain.ParsePrincipal(identity.Text()); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = StateAuthenticated
	h.identity = identity
	h.actor = h.factory(identity)
	h.log.Info("Session bound", "principal", identity.Text())
	return nil
}

// Clear drops the authenticated binding and restores the anonymous
// actor.
func (h *Handle) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = StateUnauthenticated
	h.identity = ""
	h.actor = h.factory("")
	h.log.Info("Session cleared")
}
