package services

import (
	"context"
	"errors"
	"strings"

	"condo-backend/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrTicketNotFound = errors.New("ticket not found")

type TicketStore interface {
	Create(ctx context.Context, t *models.Ticket) error
	Get(ctx context.Context, tenant models.TenantContext, id uuid.UUID) (*models.Ticket, error)
	List(ctx context.Context, tenant models.TenantContext, owner *uuid.UUID) ([]models.Ticket, error)
	Respond(ctx context.Context, tenant models.TenantContext, id uuid.UUID, response string) (bool, error)
}

type TicketService struct {
	Repo     TicketStore
	Notifier Notifier
	log      *logrus.Entry
}

func NewTicketService(repo TicketStore, notifier Notifier, logger *logrus.Logger) *TicketService {
	return &TicketService{Repo: repo, Notifier: notifier, log: logger.WithField("module", "tickets")}
}

func (s *TicketService) Open(ctx context.Context, tenant models.TenantContext, req *models.CreateTicketRequest) (*models.Ticket, error) {
	ticket := &models.Ticket{
		CondominiumID:  tenant.CondominiumID,
		OwnerProfileID: tenant.ProfileID,
		Subject:        strings.TrimSpace(req.Subject),
		Description:    strings.TrimSpace(req.Description),
		Status:         models.TicketStatusOpen,
	}
	if err := s.Repo.Create(ctx, ticket); err != nil {
		return nil, err
	}

	err := s.Notifier.Notify(ctx, models.Notification{
		CondominiumID: tenant.CondominiumID,
		Kind:          models.NotificationNewTicket,
		Title:         "New support ticket",
		Message:       ticket.Subject,
		LinkPath:      "/tickets/" + ticket.ID.String(),
	})
	if err != nil {
		s.log.WithError(err).WithField("ticket_id", ticket.ID).Warn("failed to notify admins")
	}
	return ticket, nil
}

func (s *TicketService) List(ctx context.Context, tenant models.TenantContext) ([]models.Ticket, error) {
	return s.Repo.List(ctx, tenant, feed(tenant))
}

func (s *TicketService) Respond(ctx context.Context, tenant models.TenantContext, id uuid.UUID, req *models.RespondTicketRequest) (*models.Ticket, error) {
	ticket, err := s.Repo.Get(ctx, tenant, id)
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, ErrTicketNotFound
	}

	response := strings.TrimSpace(req.Response)
	ok, err := s.Repo.Respond(ctx, tenant, id, response)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTicketNotFound
	}
	ticket.Response = &response
	ticket.Status = models.TicketStatusResolved

	owner := ticket.OwnerProfileID
	err = s.Notifier.Notify(ctx, models.Notification{
		CondominiumID:      tenant.CondominiumID,
		RecipientProfileID: &owner,
		Kind:               models.NotificationTicketResponse,
		Title:              "Your ticket was answered",
		Message:            ticket.Subject,
		LinkPath:           "/tickets/" + ticket.ID.String(),
	})
	if err != nil {
		s.log.WithError(err).WithField("ticket_id", ticket.ID).Warn("failed to notify owner")
	}
	return ticket, nil
}
