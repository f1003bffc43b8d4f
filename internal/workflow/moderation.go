package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vietddude/boxoffice/internal/core/domain"
	"github.com/vietddude/boxoffice/internal/infra/ledger"
	"github.com/vietddude/boxoffice/internal/infra/storage"
	"github.com/vietddude/boxoffice/internal/observe/metrics"
)

// ModerationLedger is the slice of the actor surface the moderation
// workflow needs.
type ModerationLedger interface {
	IsAdmin(ctx context.Context) (bool, error)
	CreateEvent(ctx context.Context, args ledger.CreateEventArgs) (uint64, error)
	GetPendingEvents(ctx context.Context) ([]domain.Event, error)
	ApproveEvent(ctx context.Context, eventID uint64, approve bool, nameOverride string) error
	GetOrganizer(ctx context.Context, eventID uint64) (domain.Principal, bool, error)
}

// Decision is an administrator's verdict on a pending event.
type Decision int

const (
	DecisionApprove Decision = iota + 1
	DecisionReject
)

func (d Decision) String() string {
	switch d {
	case DecisionApprove:
		return "approve"
	case DecisionReject:
		return "reject"
	}
	return "unknown"
}

// SubmitInput carries a new event submission. Price is the user-entered
// decimal display amount; the service converts it to e8s exactly before
// transmission.
type SubmitInput struct {
	Name        string
	Date        string
	City        string
	Category    domain.Category
	Price       string
	Description string
	Image       string
}

// ModerationService drives the event lifecycle: organizer submissions
// into the Pending state and administrator decisions out of it.
// Approved and Rejected are terminal; a rejected event can only be
// replaced by a fresh submission.
type ModerationService struct {
	ledger   func() ModerationLedger
	session  Session
	receipts storage.ReceiptRepository
	cache    CacheInvalidator
	log      *slog.Logger
}

// NewModerationService creates the moderation workflow. receipts and
// cache may be nil.
func NewModerationService(
	ledger func() ModerationLedger,
	session Session,
	receipts storage.ReceiptRepository,
	cache CacheInvalidator,
) *ModerationService {
	return &ModerationService{
		ledger:   ledger,
		session:  session,
		receipts: receipts,
		cache:    cache,
		log:      slog.Default(),
	}
}

// Submit creates a new event in Pending state with the caller as
// organizer and returns the ledger-assigned identifier. Nothing is
// mutated on failure.
func (s *ModerationService) Submit(ctx context.Context, in SubmitInput) (uint64, error) {
	identity, ok := s.session.Identity()
	if !ok {
		return 0, domain.ErrNotAuthenticated
	}

	if in.Name == "" {
		return 0, fmt.Errorf("%w: name required", domain.ErrInvalidInput)
	}
	if in.Date == "" {
		return 0, fmt.Errorf("%w: date required", domain.ErrInvalidInput)
	}
	if in.City == "" {
		return 0, fmt.Errorf("%w: city required", domain.ErrInvalidInput)
	}
	if !domain.ValidCategory(in.Category) {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidCategory, in.Category)
	}
	priceE8s, err := domain.ParsePrice(in.Price)
	if err != nil {
		return 0, err
	}

	eventID, err := s.ledger().CreateEvent(ctx, ledger.CreateEventArgs{
		Name:        in.Name,
		Date:        in.Date,
		City:        in.City,
		Category:    in.Category,
		PriceE8s:    priceE8s,
		Description: in.Description,
		Image:       in.Image,
	})
	if err != nil {
		return 0, err
	}

	metrics.EventsSubmitted.Inc()
	s.appendReceipt(ctx, &domain.Receipt{
		ID:        uuid.NewString(),
		Kind:      domain.ReceiptKindSubmission,
		EventID:   eventID,
		Principal: identity,
		AmountE8s: priceE8s,
		CreatedAt: time.Now().UTC(),
	})

	s.log.Info("Event submitted", "event_id", eventID, "organizer", identity.Text())
	return eventID, nil
}

// CanModerate reports whether the current caller holds the
// administrator capability. The presentation layer must confirm this
// before exposing the review queue.
func (s *ModerationService) CanModerate(ctx context.Context) (bool, error) {
	if _, ok := s.session.Identity(); !ok {
		return false, nil
	}
	return s.ledger().IsAdmin(ctx)
}

// ListPending returns the admin review queue in service order. The
// order is whatever the ledger returned; it is not guaranteed stable.
func (s *ModerationService) ListPending(ctx context.Context) ([]domain.Event, error) {
	ok, err := s.CanModerate(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotAuthorized
	}
	return s.ledger().GetPendingEvents(ctx)
}

// Moderate applies an administrator decision to a pending event and
// returns the refreshed review queue. An approval with a non-empty
// nameOverride applies the rename in the same atomic transition as the
// approval. Local state is never patched incrementally; the queue is
// always re-fetched after the decision.
func (s *ModerationService) Moderate(ctx context.Context, eventID uint64, decision Decision, nameOverride string) ([]domain.Event, error) {
	if _, ok := s.session.Identity(); !ok {
		return nil, domain.ErrNotAuthenticated
	}
	if decision != DecisionApprove && decision != DecisionReject {
		return nil, fmt.Errorf("%w: unknown decision", domain.ErrInvalidInput)
	}

	override := ""
	if decision == DecisionApprove {
		override = nameOverride
	}

	if err := s.ledger().ApproveEvent(ctx, eventID, decision == DecisionApprove, override); err != nil {
		return nil, err
	}

	metrics.ModerationDecisions.WithLabelValues(decision.String()).Inc()
	s.log.Info("Event moderated", "event_id", eventID, "decision", decision.String())

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.log.Warn("Failed to invalidate catalog cache", "error", err)
		}
	}

	return s.ledger().GetPendingEvents(ctx)
}

// ResolveOrganizer looks up the organizer identity for administrator
// contact. An unknown event and an unavailable organizer both report as
// absent; the remote surface does not distinguish them.
func (s *ModerationService) ResolveOrganizer(ctx context.Context, eventID uint64) (domain.Principal, bool, error) {
	if _, ok := s.session.Identity(); !ok {
		return "", false, domain.ErrNotAuthenticated
	}
	return s.ledger().GetOrganizer(ctx, eventID)
}

func (s *ModerationService) appendReceipt(ctx context.Context, receipt *domain.Receipt) {
	if s.receipts == nil {
		return
	}
	if err := s.receipts.Save(ctx, receipt); err != nil {
		s.log.Warn("Failed to save receipt", "kind", receipt.Kind, "error", err)
	}
}
