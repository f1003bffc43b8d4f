// Package memory is the in-process fallback store used when no
// database is configured.
package memory

import (
	"context"
	"sync"

	"github.com/vietddude/boxoffice/internal/core/domain"
)

// ReceiptRepo implements storage.ReceiptRepository in memory.
type ReceiptRepo struct {
	mu       sync.RWMutex
	receipts []*domain.Receipt
}

// NewReceiptRepo creates an empty in-memory receipt repository.
func NewReceiptRepo() *ReceiptRepo {
	return &ReceiptRepo{}
}

func (r *ReceiptRepo) Save(_ context.Context, receipt *domain.Receipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *receipt
	r.receipts = append(r.receipts, &copied)
	return nil
}

func (r *ReceiptRepo) ListByPrincipal(_ context.Context, principal domain.Principal) ([]*domain.Receipt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.Receipt
	for i := len(r.receipts) - 1; i >= 0; i-- {
		if r.receipts[i].Principal == principal {
			copied := *r.receipts[i]
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *ReceiptRepo) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.receipts), nil
}
