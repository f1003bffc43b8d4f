package memory

import (
	"context"
	"testing"
	"time"

	"github.com/vietddude/boxoffice/internal/core/domain"
)

func TestReceiptRepo(t *testing.T) {
	repo := NewReceiptRepo()
	ctx := context.Background()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	receipts := []*domain.Receipt{
		{ID: "r1", Kind: domain.ReceiptKindSubmission, EventID: 7, Principal: "org-1", AmountE8s: 250000000, CreatedAt: now},
		{ID: "r2", Kind: domain.ReceiptKindTicket, EventID: 12, TicketID: 99, Principal: "buyer-1", CreatedAt: now.Add(time.Minute)},
		{ID: "r3", Kind: domain.ReceiptKindTicket, EventID: 12, TicketID: 100, Principal: "buyer-1", CreatedAt: now.Add(2 * time.Minute)},
	}
	for _, r := range receipts {
		if err := repo.Save(ctx, r); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	got, err := repo.ListByPrincipal(ctx, "buyer-1")
	if err != nil {
		t.Fatalf("ListByPrincipal: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 receipts, got %d", len(got))
	}
	if got[0].ID != "r3" {
		t.Errorf("expected newest first, got %s", got[0].ID)
	}

	n, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 3 {
		t.Errorf("Count = %d, want 3", n)
	}

	// Stored receipts are copies; mutating the original must not leak.
	receipts[1].TicketID = 12345
	got, _ = repo.ListByPrincipal(ctx, "buyer-1")
	if got[1].TicketID != 99 {
		t.Errorf("stored receipt mutated: %d", got[1].TicketID)
	}
}
