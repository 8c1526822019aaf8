package repositories

import (
	"context"

	"condo-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AnnouncementRepository struct {
	DB *pgxpool.Pool
}

func NewAnnouncementRepository(db *pgxpool.Pool) *AnnouncementRepository {
	return &AnnouncementRepository{DB: db}
}

func (r *AnnouncementRepository) Create(ctx context.Context, a *models.Announcement) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	query := `
		INSERT INTO announcements (id, condominium_id, title, body, category, pinned, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	return r.DB.QueryRow(ctx, query, a.ID, a.CondominiumID, a.Title, a.Body, a.Category, a.Pinned, a.CreatedBy).Scan(&a.CreatedAt)
}

// List returns pinned announcements first, then newest.
func (r *AnnouncementRepository) List(ctx context.Context, tenant models.TenantContext) ([]models.Announcement, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, condominium_id, title, body, category, pinned, created_by, created_at
		FROM announcements
		WHERE condominium_id = $1
		ORDER BY pinned DESC, created_at DESC
	`, tenant.CondominiumID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Announcement
	for rows.Next() {
		var a models.Announcement
		if err := rows.Scan(&a.ID, &a.CondominiumID, &a.Title, &a.Body, &a.Category, &a.Pinned, &a.CreatedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *AnnouncementRepository) SetPinned(ctx context.Context, tenant models.TenantContext, id uuid.UUID, pinned bool) (bool, error) {
	tag, err := r.DB.Exec(ctx, `UPDATE announcements SET pinned = $1 WHERE id = $2 AND condominium_id = $3`, pinned, id, tenant.CondominiumID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *AnnouncementRepository) Delete(ctx context.Context, tenant models.TenantContext, id uuid.UUID) (bool, error) {
	tag, err := r.DB.Exec(ctx, `DELETE FROM announcements WHERE id = $1 AND condominium_id = $2`, id, tenant.CondominiumID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
