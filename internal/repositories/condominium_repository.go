package repositories

import (
	"context"
	"errors"

	"condo-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CondominiumRepository struct {
	DB *pgxpool.Pool
}

func NewCondominiumRepository(db *pgxpool.Pool) *CondominiumRepository {
	return &CondominiumRepository{DB: db}
}

func (r *CondominiumRepository) Create(ctx context.Context, c *models.Condominium) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.BillingDay == 0 {
		c.BillingDay = 1
	}
	query := `
		INSERT INTO condominiums (id, name, monthly_amount_cents, billing_day)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	return r.DB.QueryRow(ctx, query, c.ID, c.Name, c.MonthlyAmount, c.BillingDay).Scan(&c.CreatedAt)
}

func (r *CondominiumRepository) Get(ctx context.Context, id uuid.UUID) (*models.Condominium, error) {
	query := `
		SELECT id, name, monthly_amount_cents, billing_day, notice_board,
		       bank_accounts, residence_letter_url, created_at
		FROM condominiums WHERE id = $1
	`
	var c models.Condominium
	err := r.DB.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.MonthlyAmount, &c.BillingDay, &c.NoticeBoard,
		&c.BankAccounts, &c.ResidenceLetterURL, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CondominiumRepository) UpdateFinancialParams(ctx context.Context, tenant models.TenantContext, monthly models.Cents, billingDay int) error {
	_, err := r.DB.Exec(ctx, `UPDATE condominiums SET monthly_amount_cents = $1, billing_day = $2 WHERE id = $3`,
		monthly, billingDay, tenant.CondominiumID)
	return err
}

// UpdateNoticeBoard stores the board text; nil clears it.
func (r *CondominiumRepository) UpdateNoticeBoard(ctx context.Context, tenant models.TenantContext, text *string) error {
	_, err := r.DB.Exec(ctx, `UPDATE condominiums SET notice_board = $1 WHERE id = $2`, text, tenant.CondominiumID)
	return err
}

// UpdateBankAccounts replaces the whole account list.
func (r *CondominiumRepository) UpdateBankAccounts(ctx context.Context, tenant models.TenantContext, accounts []models.BankAccount) error {
	if accounts == nil {
		accounts = []models.BankAccount{}
	}
	_, err := r.DB.Exec(ctx, `UPDATE condominiums SET bank_accounts = $1 WHERE id = $2`, accounts, tenant.CondominiumID)
	return err
}

func (r *CondominiumRepository) SetResidenceLetter(ctx context.Context, tenant models.TenantContext, url string) error {
	_, err := r.DB.Exec(ctx, `UPDATE condominiums SET residence_letter_url = $1 WHERE id = $2`, url, tenant.CondominiumID)
	return err
}

func (r *CondominiumRepository) CreateExchangeRate(ctx context.Context, rate *models.ExchangeRate) error {
	if rate.ID == uuid.Nil {
		rate.ID = uuid.New()
	}
	query := `
		INSERT INTO exchange_rates (id, condominium_id, rate, source)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	return r.DB.QueryRow(ctx, query, rate.ID, rate.CondominiumID, rate.Rate, rate.Source).Scan(&rate.CreatedAt)
}

// LatestExchangeRate returns nil when no rate was ever published.
func (r *CondominiumRepository) LatestExchangeRate(ctx context.Context, condominiumID uuid.UUID) (*models.ExchangeRate, error) {
	query := `
		SELECT id, condominium_id, rate, COALESCE(source, ''), created_at
		FROM exchange_rates
		WHERE condominium_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	var rate models.ExchangeRate
	err := r.DB.QueryRow(ctx, query, condominiumID).Scan(&rate.ID, &rate.CondominiumID, &rate.Rate, &rate.Source, &rate.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *CondominiumRepository) ListExchangeRates(ctx context.Context, tenant models.TenantContext, limit int) ([]models.ExchangeRate, error) {
	query := `
		SELECT id, condominium_id, rate, COALESCE(source, ''), created_at
		FROM exchange_rates
		WHERE condominium_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.DB.Query(ctx, query, tenant.CondominiumID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rates []models.ExchangeRate
	for rows.Next() {
		var rate models.ExchangeRate
		if err := rows.Scan(&rate.ID, &rate.CondominiumID, &rate.Rate, &rate.Source, &rate.CreatedAt); err != nil {
			return nil, err
		}
		rates = append(rates, rate)
	}
	return rates, rows.Err()
}
