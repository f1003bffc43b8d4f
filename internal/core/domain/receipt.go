package domain

import "time"

// ReceiptKind distinguishes what a local receipt records.
type ReceiptKind string

const (
	ReceiptKindSubmission ReceiptKind = "submission"
	ReceiptKindTicket     ReceiptKind = "ticket"
)

// Receipt is a local record of a successful ledger side effect, kept so
// the user can review their own submissions and purchases without a
// remote round trip. The ledger remains the source of truth; receipts
// are append-only and derived.
type Receipt struct {
	ID        string
	Kind      ReceiptKind
	EventID   uint64
	TicketID  uint64 // zero for submissions
	Principal Principal
	AmountE8s uint64
	CreatedAt time.Time
}
