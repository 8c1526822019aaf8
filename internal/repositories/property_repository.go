package repositories

import (
	"context"
	"errors"

	"condo-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PropertyRepository struct {
	DB *pgxpool.Pool
}

func NewPropertyRepository(db *pgxpool.Pool) *PropertyRepository {
	return &PropertyRepository{DB: db}
}

const propertySelect = `
	SELECT p.id, p.condominium_id, p.identifier, p.owner_profile_id,
	       COALESCE(o.first_name || ' ' || COALESCE(o.last_name, ''), ''), p.created_at
	FROM properties p
	LEFT JOIN profiles o ON o.id = p.owner_profile_id
`

func scanProperty(row pgx.Row) (*models.Property, error) {
	var p models.Property
	if err := row.Scan(&p.ID, &p.CondominiumID, &p.Identifier, &p.OwnerProfileID, &p.OwnerName, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PropertyRepository) Create(ctx context.Context, p *models.Property) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	query := `
		INSERT INTO properties (id, condominium_id, identifier, owner_profile_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	return r.DB.QueryRow(ctx, query, p.ID, p.CondominiumID, p.Identifier, p.OwnerProfileID).Scan(&p.CreatedAt)
}

func (r *PropertyRepository) Get(ctx context.Context, tenant models.TenantContext, id uuid.UUID) (*models.Property, error) {
	p, err := scanProperty(r.DB.QueryRow(ctx, propertySelect+` WHERE p.id = $1 AND p.condominium_id = $2`, id, tenant.CondominiumID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *PropertyRepository) GetByIdentifier(ctx context.Context, tenant models.TenantContext, identifier string) (*models.Property, error) {
	p, err := scanProperty(r.DB.QueryRow(ctx, propertySelect+` WHERE p.condominium_id = $1 AND p.identifier = $2`, tenant.CondominiumID, identifier))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *PropertyRepository) List(ctx context.Context, tenant models.TenantContext) ([]models.Property, error) {
	return r.list(ctx, propertySelect+` WHERE p.condominium_id = $1 ORDER BY p.identifier`, tenant.CondominiumID)
}

func (r *PropertyRepository) ListByOwner(ctx context.Context, tenant models.TenantContext, ownerID uuid.UUID) ([]models.Property, error) {
	return r.list(ctx, propertySelect+` WHERE p.condominium_id = $1 AND p.owner_profile_id = $2 ORDER BY p.created_at, p.id`,
		tenant.CondominiumID, ownerID)
}

func (r *PropertyRepository) list(ctx context.Context, query string, args ...any) ([]models.Property, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var properties []models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		properties = append(properties, *p)
	}
	return properties, rows.Err()
}

// SetOwner assigns or clears the unit's owner.
func (r *PropertyRepository) SetOwner(ctx context.Context, tenant models.TenantContext, id uuid.UUID, ownerID *uuid.UUID) (bool, error) {
	tag, err := r.DB.Exec(ctx, `UPDATE properties SET owner_profile_id = $1 WHERE id = $2 AND condominium_id = $3`,
		ownerID, id, tenant.CondominiumID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PropertyRepository) Delete(ctx context.Context, tenant models.TenantContext, id uuid.UUID) (bool, error) {
	tag, err := r.DB.Exec(ctx, `DELETE FROM properties WHERE id = $1 AND condominium_id = $2`, id, tenant.CondominiumID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
