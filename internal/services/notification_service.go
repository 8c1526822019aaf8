package services

import (
	"context"
	"errors"

	"condo-backend/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, tenant models.TenantContext, recipient *uuid.UUID, limit int) ([]models.Notification, error)
	UnreadCount(ctx context.Context, tenant models.TenantContext, recipient *uuid.UUID) (int, error)
	MarkRead(ctx context.Context, tenant models.TenantContext, recipient *uuid.UUID, id uuid.UUID) (bool, error)
	MarkAllRead(ctx context.Context, tenant models.TenantContext, recipient *uuid.UUID) (int64, error)
	Delete(ctx context.Context, tenant models.TenantContext, recipient *uuid.UUID, id uuid.UUID) (bool, error)
}

// Notifier records a notification and pushes it to live clients.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification) error
}

type NotificationService struct {
	Repo      NotificationStore
	publisher Publisher
	log       *logrus.Entry
}

func NewNotificationService(repo NotificationStore, publisher Publisher, logger *logrus.Logger) *NotificationService {
	return &NotificationService{Repo: repo, publisher: publisher, log: logger.WithField("module", "notifications")}
}

func (s *NotificationService) Notify(ctx context.Context, n models.Notification) error {
	if err := s.Repo.Create(ctx, &n); err != nil {
		return err
	}
	s.Push(n)
	return nil
}

// Push sends an already stored notification to live clients.
func (s *NotificationService) Push(n models.Notification) {
	if s.publisher != nil {
		s.publisher.Publish(n)
	}
}

// feed returns the recipient key for the caller: admins read the shared
// admin feed, owners their own.
func feed(tenant models.TenantContext) *uuid.UUID {
	if tenant.IsAdmin() {
		return nil
	}
	id := tenant.ProfileID
	return &id
}

func (s *NotificationService) List(ctx context.Context, tenant models.TenantContext, limit int) ([]models.Notification, error) {
	return s.Repo.List(ctx, tenant, feed(tenant), limit)
}

func (s *NotificationService) UnreadCount(ctx context.Context, tenant models.TenantContext) (int, error) {
	return s.Repo.UnreadCount(ctx, tenant, feed(tenant))
}

func (s *NotificationService) MarkRead(ctx context.Context, tenant models.TenantContext, id uuid.UUID) error {
	ok, err := s.Repo.MarkRead(ctx, tenant, feed(tenant), id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, tenant models.TenantContext) (int64, error) {
	return s.Repo.MarkAllRead(ctx, tenant, feed(tenant))
}

func (s *NotificationService) Delete(ctx context.Context, tenant models.TenantContext, id uuid.UUID) error {
	ok, err := s.Repo.Delete(ctx, tenant, feed(tenant), id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}
