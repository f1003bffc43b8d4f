package workflow

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vietddude/boxoffice/internal/core/domain"
	"github.com/vietddude/boxoffice/internal/infra/storage"
	"github.com/vietddude/boxoffice/internal/observe/metrics"
)

// PurchaseLedger is the slice of the actor surface the purchase flow
// needs.
type PurchaseLedger interface {
	BuyTicket(ctx context.Context, eventID uint64) (uint64, error)
}

// CardPayment is the outcome of the card checkout path. The card rail
// is not integrated yet; the reference is generated locally.
type CardPayment struct {
	Reference string
	EventID   uint64
}

// PurchaseService executes ticket purchases. A purchase is exactly one
// ledger call, never retried: a timeout may mean the ticket was minted
// and the balance debited, so the failure must surface to the user
// instead of being silently re-issued.
type PurchaseService struct {
	ledger   func() PurchaseLedger
	session  Session
	receipts storage.ReceiptRepository
	log      *slog.Logger
}

// NewPurchaseService creates the purchase workflow. receipts may be nil.
func NewPurchaseService(ledger func() PurchaseLedger, session Session, receipts storage.ReceiptRepository) *PurchaseService {
	return &PurchaseService{
		ledger:   ledger,
		session:  session,
		receipts: receipts,
		log:      slog.Default(),
	}
}

// Purchase buys one ticket for the event and returns the minted ticket.
// Each call mints an independent ticket; buying twice for the same event
// yields two distinct tickets.
func (s *PurchaseService) Purchase(ctx context.Context, event domain.Event) (domain.Ticket, error) {
	identity, ok := s.session.Identity()
	if !ok {
		return domain.Ticket{}, domain.ErrNotAuthenticated
	}

	ticketID, err := s.ledger().BuyTicket(ctx, event.ID)
	if err != nil {
		metrics.PurchaseFailures.WithLabelValues(domain.Classify(err).String()).Inc()
		return domain.Ticket{}, err
	}

	metrics.TicketsPurchased.Inc()
	s.appendReceipt(ctx, &domain.Receipt{
		ID:        uuid.NewString(),
		Kind:      domain.ReceiptKindTicket,
		EventID:   event.ID,
		TicketID:  ticketID,
		Principal: identity,
		AmountE8s: event.PriceE8s,
		CreatedAt: time.Now().UTC(),
	})

	s.log.Info("Ticket purchased", "event_id", event.ID, "ticket_id", ticketID)
	return domain.Ticket{ID: ticketID, EventID: event.ID, Owner: identity}, nil
}

// PayWithCard runs the card checkout path. The card rail is not wired
// to a payment processor: no ledger call is made, no ticket is minted,
// and the payment always reports success with a locally generated
// reference.
func (s *PurchaseService) PayWithCard(ctx context.Context, event domain.Event) (CardPayment, error) {
	if _, ok := s.session.Identity(); !ok {
		return CardPayment{}, domain.ErrNotAuthenticated
	}

	payment := CardPayment{
		Reference: uuid.NewString(),
		EventID:   event.ID,
	}
	s.log.Info("Card payment accepted", "event_id", event.ID, "reference", payment.Reference)
	return payment, nil
}

func (s *PurchaseService) appendReceipt(ctx context.Context, receipt *domain.Receipt) {
	if s.receipts == nil {
		return
	}
	if err := s.receipts.Save(ctx, receipt); err != nil {
		s.log.Warn("Failed to save receipt", "kind", receipt.Kind, "error", err)
	}
}
