package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/vietddude/boxoffice/internal/core/domain"
	"github.com/vietddude/boxoffice/internal/infra/storage/memory"
)

type fakePurchaseLedger struct {
	nextTicket uint64
	calls      int
	err        error
}

func (f *fakePurchaseLedger) BuyTicket(_ context.Context, _ uint64) (uint64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	f.nextTicket++
	return f.nextTicket, nil
}

func purchaseFixture(identity domain.Principal, fake *fakePurchaseLedger) (*PurchaseService, *memory.ReceiptRepo) {
	receipts := memory.NewReceiptRepo()
	svc := NewPurchaseService(
		func() PurchaseLedger { return fake },
		&fakeSession{identity: identity},
		receipts,
	)
	return svc, receipts
}

func TestPurchase_MintsDistinctTickets(t *testing.T) {
	fake := &fakePurchaseLedger{}
	svc, receipts := purchaseFixture("w7x-buyer", fake)

	event := domain.Event{ID: 3, PriceE8s: 100_000_000, Status: domain.EventStatusApproved}
	first, err := svc.Purchase(context.Background(), event)
	if err != nil {
		t.Fatalf("first purchase failed: %v", err)
	}
	second, err := svc.Purchase(context.Background(), event)
	if err != nil {
		t.Fatalf("second purchase failed: %v", err)
	}
	if first.ID == second.ID {
		t.Errorf("both purchases returned ticket %d", first.ID)
	}
	if first.EventID != 3 || first.Owner != "w7x-buyer" {
		t.Errorf("unexpected ticket: %+v", first)
	}

	saved, err := receipts.ListByPrincipal(context.Background(), "w7x-buyer")
	if err != nil {
		t.Fatalf("ListByPrincipal failed: %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("receipts = %d, want 2", len(saved))
	}
	for _, r := range saved {
		if r.Kind != domain.ReceiptKindTicket || r.AmountE8s != 100_000_000 {
			t.Errorf("unexpected receipt: %+v", r)
		}
	}
}

func TestPurchase_RequiresAuthentication(t *testing.T) {
	fake := &fakePurchaseLedger{}
	svc, _ := purchaseFixture("", fake)

	_, err := svc.Purchase(context.Background(), domain.Event{ID: 3})
	if !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Errorf("err = %v, want ErrNotAuthenticated", err)
	}
	if fake.calls != 0 {
		t.Errorf("anonymous purchase reached the ledger")
	}
}

func TestPurchase_FailureLeavesNoReceipt(t *testing.T) {
	fake := &fakePurchaseLedger{err: errors.New("insufficient funds")}
	svc, receipts := purchaseFixture("w7x-buyer", fake)

	if _, err := svc.Purchase(context.Background(), domain.Event{ID: 3}); err == nil {
		t.Fatal("expected error")
	}
	if fake.calls != 1 {
		t.Errorf("ledger called %d times, want exactly 1", fake.calls)
	}
	count, err := receipts.Count(context.Background())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("failed purchase left %d receipts", count)
	}
}

func TestPayWithCard_NoLedgerCall(t *testing.T) {
	fake := &fakePurchaseLedger{}
	svc, receipts := purchaseFixture("w7x-buyer", fake)

	payment, err := svc.PayWithCard(context.Background(), domain.Event{ID: 3})
	if err != nil {
		t.Fatalf("PayWithCard failed: %v", err)
	}
	if payment.Reference == "" {
		t.Error("empty payment reference")
	}
	if payment.EventID != 3 {
		t.Errorf("payment event = %d, want 3", payment.EventID)
	}
	if fake.calls != 0 {
		t.Errorf("card path made %d ledger calls, want 0", fake.calls)
	}
	count, _ := receipts.Count(context.Background())
	if count != 0 {
		t.Errorf("card path wrote %d receipts, want 0", count)
	}
}

func TestPayWithCard_RequiresAuthentication(t *testing.T) {
	svc, _ := purchaseFixture("", &fakePurchaseLedger{})

	_, err := svc.PayWithCard(context.Background(), domain.Event{ID: 3})
	if !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Errorf("err = %v, want ErrNotAuthenticated", err)
	}
}
