package repositories

import (
	"context"
	"errors"

	"condo-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfileRepository struct {
	DB *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

const profileColumns = `id, condominium_id, first_name, COALESCE(last_name, ''), COALESCE(national_id, ''), COALESCE(phone, ''), role, created_at`

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.ID, &p.CondominiumID, &p.FirstName, &p.LastName, &p.NationalID, &p.Phone, &p.Role, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) Create(ctx context.Context, p *models.Profile) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	query := `
		INSERT INTO profiles (id, condominium_id, first_name, last_name, national_id, phone, role)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)
		RETURNING created_at
	`
	return r.DB.QueryRow(ctx, query, p.ID, p.CondominiumID, p.FirstName, p.LastName, p.NationalID, p.Phone, p.Role).
		Scan(&p.CreatedAt)
}

// Get returns nil when the profile does not exist in the tenant.
func (r *ProfileRepository) Get(ctx context.Context, tenant models.TenantContext, id uuid.UUID) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1 AND condominium_id = $2`
	p, err := scanProfile(r.DB.QueryRow(ctx, query, id, tenant.CondominiumID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// GetAny loads a profile without tenant scoping; used to mint tokens.
func (r *ProfileRepository) GetAny(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	p, err := scanProfile(r.DB.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *ProfileRepository) GetByNationalID(ctx context.Context, tenant models.TenantContext, nationalID string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE condominium_id = $1 AND national_id = $2`
	p, err := scanProfile(r.DB.QueryRow(ctx, query, tenant.CondominiumID, nationalID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// FindOwnersByNationalID searches every condominium; used by the public lookup.
func (r *ProfileRepository) FindOwnersByNationalID(ctx context.Context, nationalID string) ([]models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE national_id = $1 AND role = 'owner' ORDER BY created_at`
	rows, err := r.DB.Query(ctx, query, nationalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

func (r *ProfileRepository) ListOwners(ctx context.Context, tenant models.TenantContext) ([]models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE condominium_id = $1 AND role = 'owner' ORDER BY first_name, last_name`
	rows, err := r.DB.Query(ctx, query, tenant.CondominiumID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

// ListOwnerIDsWithProperty returns owners holding at least one unit.
func (r *ProfileRepository) ListOwnerIDsWithProperty(ctx context.Context, tenant models.TenantContext) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT owner_profile_id FROM properties
		WHERE condominium_id = $1 AND owner_profile_id IS NOT NULL
	`
	rows, err := r.DB.Query(ctx, query, tenant.CondominiumID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteOwner removes an owner and releases their units.
func (r *ProfileRepository) DeleteOwner(ctx context.Context, tenant models.TenantContext, id uuid.UUID) (bool, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE properties SET owner_profile_id = NULL WHERE condominium_id = $1 AND owner_profile_id = $2`,
		tenant.CondominiumID, id); err != nil {
		return false, err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM profiles WHERE id = $1 AND condominium_id = $2 AND role = 'owner'`, id, tenant.CondominiumID)
	if err != nil {
		return false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
