package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"condo-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentReportRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentReportRepository(db *pgxpool.Pool) *PaymentReportRepository {
	return &PaymentReportRepository{DB: db}
}

const paymentReportColumns = `
	r.id, r.condominium_id, r.owner_profile_id, r.property_id, r.amount_local, r.exchange_rate,
	r.equivalent_usd_cents, r.reference, r.payment_date, COALESCE(r.proof_url, ''), r.status,
	r.admin_note, r.resolved_by, r.resolved_at, r.created_at
`

// ReferenceExists reports whether the bank reference was already submitted
// and not rejected.
func (r *PaymentReportRepository) ReferenceExists(ctx context.Context, tenant models.TenantContext, reference string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM payment_reports
			WHERE condominium_id = $1 AND reference = $2 AND status <> 'rejected'
		)
	`
	var exists bool
	err := r.DB.QueryRow(ctx, query, tenant.CondominiumID, reference).Scan(&exists)
	return exists, err
}

func (r *PaymentReportRepository) Create(ctx context.Context, report *models.PaymentReport) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	query := `
		INSERT INTO payment_reports (id, condominium_id, owner_profile_id, property_id, amount_local, exchange_rate,
			equivalent_usd_cents, reference, payment_date, proof_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), $11)
		RETURNING created_at
	`
	err := r.DB.QueryRow(ctx, query,
		report.ID,
		report.CondominiumID,
		report.OwnerProfileID,
		report.PropertyID,
		report.AmountLocal,
		report.ExchangeRate,
		report.EquivalentUSD,
		report.Reference,
		report.PaymentDate,
		report.ProofURL,
		report.Status,
	).Scan(&report.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment report: %w", err)
	}
	return nil
}

func (r *PaymentReportRepository) Get(ctx context.Context, tenant models.TenantContext, id uuid.UUID) (*models.PaymentReport, error) {
	query := `
		SELECT ` + paymentReportColumns + `, COALESCE(o.first_name || ' ' || COALESCE(o.last_name, ''), '')
		FROM payment_reports r
		LEFT JOIN profiles o ON o.id = r.owner_profile_id
		WHERE r.id = $1 AND r.condominium_id = $2
	`
	report, err := scanPaymentReportWithOwner(r.DB.QueryRow(ctx, query, id, tenant.CondominiumID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return report, err
}

// List returns reports newest first, optionally filtered by owner and status.
func (r *PaymentReportRepository) List(ctx context.Context, tenant models.TenantContext, filter models.PaymentReportFilter) ([]models.PaymentReport, error) {
	conditions := []string{"r.condominium_id = $1"}
	args := []any{tenant.CondominiumID}

	if filter.OwnerProfileID != nil {
		args = append(args, *filter.OwnerProfileID)
		conditions = append(conditions, fmt.Sprintf("r.owner_profile_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("r.status = $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT %s, COALESCE(o.first_name || ' ' || COALESCE(o.last_name, ''), '')
		FROM payment_reports r
		LEFT JOIN profiles o ON o.id = r.owner_profile_id
		WHERE %s
		ORDER BY r.created_at DESC
		LIMIT $%d
	`, paymentReportColumns, strings.Join(conditions, " AND "), len(args))

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []models.PaymentReport
	for rows.Next() {
		report, err := scanPaymentReportWithOwner(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	return reports, rows.Err()
}

func (r *PaymentReportRepository) Allocations(ctx context.Context, tenant models.TenantContext, reportID uuid.UUID) ([]models.PaymentAllocation, error) {
	query := `
		SELECT id, condominium_id, payment_report_id, ledger_entry_id, period, amount_cents, settled, created_at
		FROM payment_allocations
		WHERE condominium_id = $1 AND payment_report_id = $2
		ORDER BY created_at, period
	`
	rows, err := r.DB.Query(ctx, query, tenant.CondominiumID, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var allocations []models.PaymentAllocation
	for rows.Next() {
		var a models.PaymentAllocation
		if err := rows.Scan(&a.ID, &a.CondominiumID, &a.PaymentReportID, &a.LedgerEntryID, &a.Period, &a.Amount, &a.Settled, &a.CreatedAt); err != nil {
			return nil, err
		}
		allocations = append(allocations, a)
	}
	return allocations, rows.Err()
}

func scanPaymentReportWithOwner(row pgx.Row) (*models.PaymentReport, error) {
	var p models.PaymentReport
	err := row.Scan(
		&p.ID, &p.CondominiumID, &p.OwnerProfileID, &p.PropertyID, &p.AmountLocal, &p.ExchangeRate,
		&p.EquivalentUSD, &p.Reference, &p.PaymentDate, &p.ProofURL, &p.Status,
		&p.AdminNote, &p.ResolvedBy, &p.ResolvedAt, &p.CreatedAt, &p.OwnerName,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
