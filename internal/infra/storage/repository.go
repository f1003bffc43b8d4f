package storage

import (
	"context"

	"github.com/vietddude/boxoffice/internal/core/domain"
)

// ReceiptRepository persists local receipts of successful ledger side
// effects. Receipts are append-only; the ledger stays the source of
// truth for events and tickets themselves.
type ReceiptRepository interface {
	// Save appends a receipt
	Save(ctx context.Context, receipt *domain.Receipt) error

	// ListByPrincipal retrieves receipts for one identity, newest first
	ListByPrincipal(ctx context.Context, principal domain.Principal) ([]*domain.Receipt, error)

	// Count returns the number of stored receipts
	Count(ctx context.Context) (int, error)
}
