package repositories

import (
	"context"

	"condo-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is satisfied by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func scanPaymentReport(row pgx.Row) (*models.PaymentReport, error) {
	var p models.PaymentReport
	err := row.Scan(
		&p.ID, &p.CondominiumID, &p.OwnerProfileID, &p.PropertyID, &p.AmountLocal, &p.ExchangeRate,
		&p.EquivalentUSD, &p.Reference, &p.PaymentDate, &p.ProofURL, &p.Status,
		&p.AdminNote, &p.ResolvedBy, &p.ResolvedAt, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectLedgerEntries(rows pgx.Rows) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		if err := rows.Scan(
			&e.ID, &e.CondominiumID, &e.PropertyID, &e.Period, &e.Charged, &e.Paid, &e.Status,
			&e.EmittedAt, &e.DueAt, &e.Version, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func insertNotification(ctx context.Context, q querier, n *models.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	query := `
		INSERT INTO notifications (id, condominium_id, recipient_profile_id, kind, title, message, link_path)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
		RETURNING created_at
	`
	return q.QueryRow(ctx, query, n.ID, n.CondominiumID, n.RecipientProfileID, n.Kind, n.Title, n.Message, n.LinkPath).
		Scan(&n.CreatedAt)
}
