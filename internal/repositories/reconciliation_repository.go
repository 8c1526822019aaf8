package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"condo-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReconciliationTx is the unit of work used to approve or reject one
// payment report. Every method runs on the same database transaction.
type ReconciliationTx interface {
	LockPaymentReport(ctx context.Context, tenant models.TenantContext, id uuid.UUID) (*models.PaymentReport, error)
	GetOwnedProperty(ctx context.Context, tenant models.TenantContext, ownerID, propertyID uuid.UUID) (*models.Property, error)
	FirstPropertyOfOwner(ctx context.Context, tenant models.TenantContext, ownerID uuid.UUID) (*models.Property, error)
	LockOpenLedger(ctx context.Context, tenant models.TenantContext, propertyID uuid.UUID) ([]models.LedgerEntry, error)
	UpdateLedgerEntry(ctx context.Context, tenant models.TenantContext, entry models.LedgerEntry) (bool, error)
	InsertAllocations(ctx context.Context, allocations []models.PaymentAllocation) error
	ResolvePaymentReport(ctx context.Context, tenant models.TenantContext, id uuid.UUID, status models.PaymentStatus, note *string) error
	InsertNotification(ctx context.Context, n *models.Notification) error
}

type ReconciliationRepository struct {
	DB *pgxpool.Pool
}

func NewReconciliationRepository(db *pgxpool.Pool) *ReconciliationRepository {
	return &ReconciliationRepository{DB: db}
}

// WithinTx commits only when fn returns nil.
func (r *ReconciliationRepository) WithinTx(ctx context.Context, fn func(ReconciliationTx) error) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&pgReconciliationTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type pgReconciliationTx struct {
	tx pgx.Tx
}

func (t *pgReconciliationTx) LockPaymentReport(ctx context.Context, tenant models.TenantContext, id uuid.UUID) (*models.PaymentReport, error) {
	query := `
		SELECT id, condominium_id, owner_profile_id, property_id, amount_local, exchange_rate,
		       equivalent_usd_cents, reference, payment_date, COALESCE(proof_url, ''), status,
		       admin_note, resolved_by, resolved_at, created_at
		FROM payment_reports
		WHERE id = $1 AND condominium_id = $2
		FOR UPDATE
	`
	report, err := scanPaymentReport(t.tx.QueryRow(ctx, query, id, tenant.CondominiumID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (t *pgReconciliationTx) GetOwnedProperty(ctx context.Context, tenant models.TenantContext, ownerID, propertyID uuid.UUID) (*models.Property, error) {
	query := `
		SELECT id, condominium_id, identifier, owner_profile_id, created_at
		FROM properties
		WHERE id = $1 AND condominium_id = $2 AND owner_profile_id = $3
	`
	var p models.Property
	err := t.tx.QueryRow(ctx, query, propertyID, tenant.CondominiumID, ownerID).
		Scan(&p.ID, &p.CondominiumID, &p.Identifier, &p.OwnerProfileID, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (t *pgReconciliationTx) FirstPropertyOfOwner(ctx context.Context, tenant models.TenantContext, ownerID uuid.UUID) (*models.Property, error) {
	query := `
		SELECT id, condominium_id, identifier, owner_profile_id, created_at
		FROM properties
		WHERE condominium_id = $1 AND owner_profile_id = $2
		ORDER BY created_at, id
		LIMIT 1
	`
	var p models.Property
	err := t.tx.QueryRow(ctx, query, tenant.CondominiumID, ownerID).
		Scan(&p.ID, &p.CondominiumID, &p.Identifier, &p.OwnerProfileID, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// LockOpenLedger serializes reconciliations of the same property and returns
// its open entries oldest first.
func (t *pgReconciliationTx) LockOpenLedger(ctx context.Context, tenant models.TenantContext, propertyID uuid.UUID) ([]models.LedgerEntry, error) {
	if _, err := t.tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, propertyID.String()); err != nil {
		return nil, fmt.Errorf("failed to lock property: %w", err)
	}

	query := `
		SELECT id, condominium_id, property_id, period, charged_cents, paid_cents, status,
		       emitted_at, due_at, version, created_at
		FROM ledger_entries
		WHERE condominium_id = $1 AND property_id = $2 AND status IN ('pending', 'overdue')
		ORDER BY emitted_at, id
		FOR UPDATE
	`
	rows, err := t.tx.Query(ctx, query, tenant.CondominiumID, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLedgerEntries(rows)
}

// UpdateLedgerEntry returns false when the row's version moved.
func (t *pgReconciliationTx) UpdateLedgerEntry(ctx context.Context, tenant models.TenantContext, entry models.LedgerEntry) (bool, error) {
	query := `
		UPDATE ledger_entries
		SET paid_cents = $1, status = $2, version = version + 1, updated_at = NOW()
		WHERE id = $3 AND condominium_id = $4 AND version = $5
	`
	tag, err := t.tx.Exec(ctx, query, entry.Paid, entry.Status, entry.ID, tenant.CondominiumID, entry.Version)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (t *pgReconciliationTx) InsertAllocations(ctx context.Context, allocations []models.PaymentAllocation) error {
	batch := &pgx.Batch{}
	for i := range allocations {
		a := &allocations[i]
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		batch.Queue(`
			INSERT INTO payment_allocations (id, condominium_id, payment_report_id, ledger_entry_id, period, amount_cents, settled)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, a.ID, a.CondominiumID, a.PaymentReportID, a.LedgerEntryID, a.Period, a.Amount, a.Settled)
	}
	return t.tx.SendBatch(ctx, batch).Close()
}

func (t *pgReconciliationTx) ResolvePaymentReport(ctx context.Context, tenant models.TenantContext, id uuid.UUID, status models.PaymentStatus, note *string) error {
	query := `
		UPDATE payment_reports
		SET status = $1, admin_note = $2, resolved_by = $3, resolved_at = $4
		WHERE id = $5 AND condominium_id = $6
	`
	tag, err := t.tx.Exec(ctx, query, status, note, tenant.ProfileID, time.Now(), id, tenant.CondominiumID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("payment report %s not updated", id)
	}
	return nil
}

func (t *pgReconciliationTx) InsertNotification(ctx context.Context, n *models.Notification) error {
	return insertNotification(ctx, t.tx, n)
}
