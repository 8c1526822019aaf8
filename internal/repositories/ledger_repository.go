package repositories

import (
	"context"
	"fmt"
	"time"

	"condo-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LedgerRepository struct {
	DB *pgxpool.Pool
}

func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{DB: db}
}

const ledgerColumns = `id, condominium_id, property_id, period, charged_cents, paid_cents, status, emitted_at, due_at, version, created_at`

// IssueCycle inserts a billing cycle's entries and the owner notifications in
// one transaction.
func (r *LedgerRepository) IssueCycle(ctx context.Context, entries []models.LedgerEntry, notifications []models.Notification) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for i := range entries {
		e := &entries[i]
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		batch.Queue(`
			INSERT INTO ledger_entries (id, condominium_id, property_id, period, charged_cents, paid_cents, status, emitted_at, due_at)
			VALUES ($1, $2, $3, $4, $5, 0, 'pending', $6, $7)
		`, e.ID, e.CondominiumID, e.PropertyID, e.Period, e.Charged, e.EmittedAt, e.DueAt)
	}
	for i := range notifications {
		n := &notifications[i]
		if n.ID == uuid.Nil {
			n.ID = uuid.New()
		}
		batch.Queue(`
			INSERT INTO notifications (id, condominium_id, recipient_profile_id, kind, title, message, link_path)
			VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))
		`, n.ID, n.CondominiumID, n.RecipientProfileID, n.Kind, n.Title, n.Message, n.LinkPath)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert billing cycle: %w", err)
	}
	return tx.Commit(ctx)
}

func (r *LedgerRepository) PeriodExists(ctx context.Context, tenant models.TenantContext, period string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM ledger_entries WHERE condominium_id = $1 AND period = $2)`,
		tenant.CondominiumID, period).Scan(&exists)
	return exists, err
}

// ListByProperty returns the unit's full history, oldest first.
func (r *LedgerRepository) ListByProperty(ctx context.Context, tenant models.TenantContext, propertyID uuid.UUID) ([]models.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE condominium_id = $1 AND property_id = $2 ORDER BY emitted_at, id`
	rows, err := r.DB.Query(ctx, query, tenant.CondominiumID, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLedgerEntries(rows)
}

// MarkOverdue flips pending entries whose due date has passed.
func (r *LedgerRepository) MarkOverdue(ctx context.Context, tenant models.TenantContext, asOf time.Time) (int64, error) {
	tag, err := r.DB.Exec(ctx, `
		UPDATE ledger_entries
		SET status = 'overdue', version = version + 1, updated_at = NOW()
		WHERE condominium_id = $1 AND status = 'pending' AND due_at < $2
	`, tenant.CondominiumID, asOf)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Receivables returns units with open debt, largest first.
func (r *LedgerRepository) Receivables(ctx context.Context, tenant models.TenantContext) ([]models.ReceivableRow, error) {
	query := `
		SELECT
			p.id,
			p.identifier,
			COALESCE(o.first_name || ' ' || COALESCE(o.last_name, ''), '') AS owner_name,
			COUNT(l.id) AS open_entries,
			COALESCE(SUM(l.charged_cents), 0) AS charged,
			COALESCE(SUM(l.paid_cents), 0) AS paid,
			COALESCE(SUM(l.charged_cents - l.paid_cents), 0) AS owed,
			COUNT(l.id) FILTER (WHERE l.status = 'overdue') AS overdue
		FROM properties p
		JOIN ledger_entries l ON l.property_id = p.id AND l.status IN ('pending', 'overdue')
		LEFT JOIN profiles o ON o.id = p.owner_profile_id
		WHERE p.condominium_id = $1
		GROUP BY p.id, p.identifier, o.first_name, o.last_name
		HAVING SUM(l.charged_cents - l.paid_cents) > 0
		ORDER BY owed DESC, p.identifier
	`

	rows, err := r.DB.Query(ctx, query, tenant.CondominiumID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.ReceivableRow
	for rows.Next() {
		var row models.ReceivableRow
		if err := rows.Scan(&row.PropertyID, &row.Identifier, &row.OwnerName, &row.OpenEntries,
			&row.Charged, &row.Paid, &row.Owed, &row.Overdue); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// CountPropertiesByOwners counts units owned by any of the profiles, with or without debt.
func (r *LedgerRepository) CountPropertiesByOwners(ctx context.Context, ownerIDs []uuid.UUID) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM properties WHERE owner_profile_id = ANY($1::uuid[])`, uuidStrings(ownerIDs)).Scan(&n)
	return n, err
}

// OpenBalancesByOwners aggregates open debt per unit across condominiums.
func (r *LedgerRepository) OpenBalancesByOwners(ctx context.Context, ownerIDs []uuid.UUID) ([]models.PropertyBalance, error) {
	ids := uuidStrings(ownerIDs)

	query := `
		SELECT c.id, c.name, p.id, p.identifier, COUNT(l.id), SUM(l.charged_cents - l.paid_cents)
		FROM properties p
		JOIN condominiums c ON c.id = p.condominium_id
		JOIN ledger_entries l ON l.property_id = p.id AND l.status IN ('pending', 'overdue')
		WHERE p.owner_profile_id = ANY($1::uuid[])
		GROUP BY c.id, c.name, p.id, p.identifier
		HAVING SUM(l.charged_cents - l.paid_cents) > 0
		ORDER BY c.name, p.identifier
	`
	rows, err := r.DB.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []models.PropertyBalance
	for rows.Next() {
		var b models.PropertyBalance
		if err := rows.Scan(&b.CondominiumID, &b.CondominiumName, &b.PropertyID, &b.Identifier, &b.OpenEntries, &b.Owed); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
