package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/vietddude/boxoffice/internal/core/domain"
)

// ReceiptRepo implements storage.ReceiptRepository using PostgreSQL.
type ReceiptRepo struct {
	db *DB
}

// NewReceiptRepo creates a new PostgreSQL receipt repository.
func NewReceiptRepo(db *DB) *ReceiptRepo {
	return &ReceiptRepo{db: db}
}

type receiptRow struct {
	ID        string    `db:"id"`
	Kind      string    `db:"kind"`
	EventID   int64     `db:"event_id"`
	TicketID  int64     `db:"ticket_id"`
	Principal string    `db:"principal"`
	AmountE8s int64     `db:"amount_e8s"`
	CreatedAt time.Time `db:"created_at"`
}

func (r *ReceiptRepo) Save(ctx context.Context, receipt *domain.Receipt) error {
	const query = `
		INSERT INTO receipts (id, kind, event_id, ticket_id, principal, amount_e8s, created_at)
		VALUES (:id, :kind, :event_id, :ticket_id, :principal, :amount_e8s, :created_at)`

	_, err := r.db.NamedExecContext(ctx, query, receiptRow{
		ID:        receipt.ID,
		Kind:      string(receipt.Kind),
		EventID:   int64(receipt.EventID),
		TicketID:  int64(receipt.TicketID),
		Principal: receipt.Principal.Text(),
		AmountE8s: int64(receipt.AmountE8s),
		CreatedAt: receipt.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to save receipt: %w", err)
	}
	return nil
}

func (r *ReceiptRepo) ListByPrincipal(ctx context.Context, principal domain.Principal) ([]*domain.Receipt, error) {
	const query = `
		SELECT id, kind, event_id, ticket_id, principal, amount_e8s, created_at
		FROM receipts
		WHERE principal = $1
		ORDER BY created_at DESC`

	var rows []receiptRow
	if err := r.db.SelectContext(ctx, &rows, query, principal.Text()); err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}

	receipts := make([]*domain.Receipt, 0, len(rows))
	for _, row := range rows {
		receipts = append(receipts, &domain.Receipt{
			ID:        row.ID,
			Kind:      domain.ReceiptKind(row.Kind),
			EventID:   uint64(row.EventID),
			TicketID:  uint64(row.TicketID),
			Principal: domain.Principal(row.Principal),
			AmountE8s: uint64(row.AmountE8s),
			CreatedAt: row.CreatedAt,
		})
	}
	return receipts, nil
}

func (r *ReceiptRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT count(*) FROM receipts`); err != nil {
		return 0, fmt.Errorf("failed to count receipts: %w", err)
	}
	return n, nil
}
