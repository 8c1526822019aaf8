package repositories

import (
	"context"

	"condo-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NotificationRepository scopes every query to one feed: a profile's own
// notifications, or the admin feed when recipient is nil.
type NotificationRepository struct {
	DB *pgxpool.Pool
}

func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return insertNotification(ctx, r.DB, n)
}

func (r *NotificationRepository) List(ctx context.Context, tenant models.TenantContext, recipient *uuid.UUID, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := `
		SELECT id, condominium_id, recipient_profile_id, kind, title, message, COALESCE(link_path, ''), read, created_at
		FROM notifications
		WHERE condominium_id = $1 AND recipient_profile_id IS NOT DISTINCT FROM $2
		ORDER BY created_at DESC
		LIMIT $3
	`
	rows, err := r.DB.Query(ctx, query, tenant.CondominiumID, recipient, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.CondominiumID, &n.RecipientProfileID, &n.Kind, &n.Title, &n.Message, &n.LinkPath, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *NotificationRepository) UnreadCount(ctx context.Context, tenant models.TenantContext, recipient *uuid.UUID) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx, `
		SELECT COUNT(*) FROM notifications
		WHERE condominium_id = $1 AND recipient_profile_id IS NOT DISTINCT FROM $2 AND NOT read
	`, tenant.CondominiumID, recipient).Scan(&count)
	return count, err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, tenant models.TenantContext, recipient *uuid.UUID, id uuid.UUID) (bool, error) {
	tag, err := r.DB.Exec(ctx, `
		UPDATE notifications SET read = TRUE
		WHERE id = $1 AND condominium_id = $2 AND recipient_profile_id IS NOT DISTINCT FROM $3
	`, id, tenant.CondominiumID, recipient)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, tenant models.TenantContext, recipient *uuid.UUID) (int64, error) {
	tag, err := r.DB.Exec(ctx, `
		UPDATE notifications SET read = TRUE
		WHERE condominium_id = $1 AND recipient_profile_id IS NOT DISTINCT FROM $2 AND NOT read
	`, tenant.CondominiumID, recipient)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *NotificationRepository) Delete(ctx context.Context, tenant models.TenantContext, recipient *uuid.UUID, id uuid.UUID) (bool, error) {
	tag, err := r.DB.Exec(ctx, `
		DELETE FROM notifications
		WHERE id = $1 AND condominium_id = $2 AND recipient_profile_id IS NOT DISTINCT FROM $3
	`, id, tenant.CondominiumID, recipient)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
