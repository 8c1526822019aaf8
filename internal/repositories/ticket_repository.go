package repositories

import (
	"context"
	"errors"

	"condo-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TicketRepository struct {
	DB *pgxpool.Pool
}

func NewTicketRepository(db *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{DB: db}
}

const ticketSelect = `
	SELECT t.id, t.condominium_id, t.owner_profile_id,
	       COALESCE(o.first_name || ' ' || COALESCE(o.last_name, ''), ''),
	       t.subject, t.description, t.status, t.response, t.responded_at, t.created_at
	FROM tickets t
	LEFT JOIN profiles o ON o.id = t.owner_profile_id
`

func scanTicket(row pgx.Row) (*models.Ticket, error) {
	var t models.Ticket
	err := row.Scan(&t.ID, &t.CondominiumID, &t.OwnerProfileID, &t.OwnerName, &t.Subject, &t.Description,
		&t.Status, &t.Response, &t.RespondedAt, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TicketRepository) Create(ctx context.Context, t *models.Ticket) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	query := `
		INSERT INTO tickets (id, condominium_id, owner_profile_id, subject, description, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	return r.DB.QueryRow(ctx, query, t.ID, t.CondominiumID, t.OwnerProfileID, t.Subject, t.Description, t.Status).
		Scan(&t.CreatedAt)
}

func (r *TicketRepository) Get(ctx context.Context, tenant models.TenantContext, id uuid.UUID) (*models.Ticket, error) {
	t, err := scanTicket(r.DB.QueryRow(ctx, ticketSelect+` WHERE t.id = $1 AND t.condominium_id = $2`, id, tenant.CondominiumID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

// List returns all tickets for admins, or only the owner's when owner is set.
func (r *TicketRepository) List(ctx context.Context, tenant models.TenantContext, owner *uuid.UUID) ([]models.Ticket, error) {
	query := ticketSelect + ` WHERE t.condominium_id = $1 AND ($2::uuid IS NULL OR t.owner_profile_id = $2) ORDER BY t.created_at DESC`
	rows, err := r.DB.Query(ctx, query, tenant.CondominiumID, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []models.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *t)
	}
	return tickets, rows.Err()
}

func (r *TicketRepository) Respond(ctx context.Context, tenant models.TenantContext, id uuid.UUID, response string) (bool, error) {
	tag, err := r.DB.Exec(ctx, `
		UPDATE tickets SET response = $1, status = 'resolved', responded_at = NOW()
		WHERE id = $2 AND condominium_id = $3
	`, response, id, tenant.CondominiumID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
