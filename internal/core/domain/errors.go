package domain

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotAuthorized    = errors.New("not authorized")
	ErrEventNotFound    = errors.New("event not found")
	ErrEventNotPending  = errors.New("event not pending")
	ErrEventNotApproved = errors.New("event not approved")
	ErrInvalidPrice     = errors.New("invalid price")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidCategory  = errors.New("invalid category")
)

// FailureKind partitions workflow failures for the presentation layer:
// transport failures are worth retrying manually, state conflicts and
// authorization failures are not.
type FailureKind int

const (
	FailureTransport FailureKind = iota
	FailureAuthorization
	FailureStateConflict
	FailureValidation
	FailureNotFound
)

func (k FailureKind) String() string {
	switch k {
	case FailureTransport:
		return "transport"
	case FailureAuthorization:
		return "authorization"
	case FailureStateConflict:
		return "state_conflict"
	case FailureValidation:
		return "validation"
	case FailureNotFound:
		return "not_found"
	}
	return "unknown"
}

// Classify maps an error onto the failure taxonomy. Sentinel matches win;
// everything unrecognized is treated as a transport failure so the
// underlying message is preserved and surfaced verbatim.
func Classify(err error) FailureKind {
	switch {
	case errors.Is(err, ErrNotAuthenticated), errors.Is(err, ErrNotAuthorized):
		return FailureAuthorization
	case errors.Is(err, ErrEventNotPending), errors.Is(err, ErrEventNotApproved):
		return FailureStateConflict
	case errors.Is(err, ErrInvalidPrice), errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInvalidCategory), errors.Is(err, ErrEmptyPrincipal):
		return FailureValidation
	case errors.Is(err, ErrEventNotFound):
		return FailureNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return FailureTransport
	}

	// Remote errors arrive as strings; recognize the common conflict
	// phrasings so "already approved" reads as a conflict, not an outage.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "already approved"),
		strings.Contains(msg, "already rejected"),
		strings.Contains(msg, "not pending"),
		strings.Contains(msg, "not approved"):
		return FailureStateConflict
	case strings.Contains(msg, "unauthorized"),
		strings.Contains(msg, "admin only"),
		strings.Contains(msg, "forbidden"),
		strings.Contains(msg, "anonymous caller"):
		return FailureAuthorization
	}
	return FailureTransport
}

// Retryable reports whether a manual retry of the failed operation could
// plausibly succeed without a state change on the remote side.
func Retryable(err error) bool {
	return Classify(err) == FailureTransport
}
