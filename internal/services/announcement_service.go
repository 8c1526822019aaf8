package services

import (
	"context"
	"errors"
	"strings"

	"condo-backend/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrAnnouncementNotFound = errors.New("announcement not found")

const defaultCategory = "General"

type AnnouncementStore interface {
	Create(ctx context.Context, a *models.Announcement) error
	List(ctx context.Context, tenant models.TenantContext) ([]models.Announcement, error)
	SetPinned(ctx context.Context, tenant models.TenantContext, id uuid.UUID, pinned bool) (bool, error)
	Delete(ctx context.Context, tenant models.TenantContext, id uuid.UUID) (bool, error)
}

type OwnerDirectory interface {
	ListOwnerIDsWithProperty(ctx context.Context, tenant models.TenantContext) ([]uuid.UUID, error)
}

type NoticeBoardStore interface {
	UpdateNoticeBoard(ctx context.Context, tenant models.TenantContext, text *string) error
}

type AnnouncementService struct {
	Repo     AnnouncementStore
	Owners   OwnerDirectory
	Board    NoticeBoardStore
	Notifier Notifier
	log      *logrus.Entry
}

func NewAnnouncementService(repo AnnouncementStore, owners OwnerDirectory, board NoticeBoardStore, notifier Notifier, logger *logrus.Logger) *AnnouncementService {
	return &AnnouncementService{Repo: repo, Owners: owners, Board: board, Notifier: notifier, log: logger.WithField("module", "announcements")}
}

// Publish stores the announcement and notifies every owner holding a unit.
func (s *AnnouncementService) Publish(ctx context.Context, tenant models.TenantContext, req *models.CreateAnnouncementRequest) (*models.Announcement, error) {
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = defaultCategory
	}
	a := &models.Announcement{
		CondominiumID: tenant.CondominiumID,
		Title:         strings.TrimSpace(req.Title),
		Body:          strings.TrimSpace(req.Body),
		Category:      category,
		Pinned:        req.Pinned,
		CreatedBy:     tenant.ProfileID,
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		return nil, err
	}

	owners, err := s.Owners.ListOwnerIDsWithProperty(ctx, tenant)
	if err != nil {
		s.log.WithError(err).WithField("announcement_id", a.ID).Warn("failed to list owners to notify")
		return a, nil
	}
	notified := 0
	for _, id := range owners {
		owner := id
		err := s.Notifier.Notify(ctx, models.Notification{
			CondominiumID:      tenant.CondominiumID,
			RecipientProfileID: &owner,
			Kind:               models.NotificationNewAnnouncement,
			Title:              a.Title,
			Message:            a.Category,
			LinkPath:           "/announcements",
		})
		if err != nil {
			s.log.WithError(err).WithField("owner_id", owner).Warn("failed to notify owner")
			continue
		}
		notified++
	}
	s.log.WithFields(logrus.Fields{"announcement_id": a.ID, "notified": notified}).Info("announcement published")
	return a, nil
}

func (s *AnnouncementService) List(ctx context.Context, tenant models.TenantContext) ([]models.Announcement, error) {
	return s.Repo.List(ctx, tenant)
}

func (s *AnnouncementService) SetPinned(ctx context.Context, tenant models.TenantContext, id uuid.UUID, pinned bool) error {
	ok, err := s.Repo.SetPinned(ctx, tenant, id, pinned)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAnnouncementNotFound
	}
	return nil
}

func (s *AnnouncementService) Delete(ctx context.Context, tenant models.TenantContext, id uuid.UUID) error {
	ok, err := s.Repo.Delete(ctx, tenant, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAnnouncementNotFound
	}
	return nil
}

// UpdateNoticeBoard replaces the board text; blank text clears it.
func (s *AnnouncementService) UpdateNoticeBoard(ctx context.Context, tenant models.TenantContext, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return s.Board.UpdateNoticeBoard(ctx, tenant, nil)
	}
	return s.Board.UpdateNoticeBoard(ctx, tenant, &text)
}
