package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"condo-backend/internal/logging"
	"condo-backend/internal/metrics"
	"condo-backend/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrNoProperties     = errors.New("the condominium has no registered properties")
	ErrPeriodExists     = errors.New("charges for this period were already issued")
	ErrMissingAmount    = errors.New("no amount given and no monthly amount configured")
	ErrPropertyNotFound = errors.New("property not found")
)

type LedgerStore interface {
	IssueCycle(ctx context.Context, entries []models.LedgerEntry, notifications []models.Notification) error
	PeriodExists(ctx context.Context, tenant models.TenantContext, period string) (bool, error)
	ListByProperty(ctx context.Context, tenant models.TenantContext, propertyID uuid.UUID) ([]models.LedgerEntry, error)
	MarkOverdue(ctx context.Context, tenant models.TenantContext, asOf time.Time) (int64, error)
}

type PropertyLister interface {
	Get(ctx context.Context, tenant models.TenantContext, id uuid.UUID) (*models.Property, error)
	List(ctx context.Context, tenant models.TenantContext) ([]models.Property, error)
	ListByOwner(ctx context.Context, tenant models.TenantContext, ownerID uuid.UUID) ([]models.Property, error)
}

type CondominiumSource interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Condominium, error)
}

type BillingService struct {
	Ledger       LedgerStore
	Properties   PropertyLister
	Condominiums CondominiumSource
	notifier     *NotificationService
	cache        CacheInvalidator
	logger       *logrus.Logger
}

func NewBillingService(ledger LedgerStore, properties PropertyLister, condominiums CondominiumSource,
	notifier *NotificationService, logger *logrus.Logger) *BillingService {
	return &BillingService{
		Ledger:       ledger,
		Properties:   properties,
		Condominiums: condominiums,
		notifier:     notifier,
		logger:       logger,
	}
}

func (s *BillingService) SetCacheInvalidator(c CacheInvalidator) { s.cache = c }

// Issue creates one pending entry per property and notifies every owner,
// all in one transaction. A zero amount falls back to the condominium's
// configured monthly amount.
func (s *BillingService) Issue(ctx context.Context, tenant models.TenantContext, req *models.IssueBillingRequest) (*models.BillingResult, error) {
	period := strings.TrimSpace(req.Period)

	amount := req.Amount
	if amount == 0 {
		condo, err := s.Condominiums.Get(ctx, tenant.CondominiumID)
		if err != nil {
			return nil, err
		}
		if condo == nil || condo.MonthlyAmount <= 0 {
			return nil, ErrMissingAmount
		}
		amount = condo.MonthlyAmount
	}

	exists, err := s.Ledger.PeriodExists(ctx, tenant, period)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrPeriodExists
	}

	properties, err := s.Properties.List(ctx, tenant)
	if err != nil {
		return nil, err
	}
	if len(properties) == 0 {
		return nil, ErrNoProperties
	}

	entries := make([]models.LedgerEntry, 0, len(properties))
	notified := map[uuid.UUID]bool{}
	var notifications []models.Notification
	for _, p := range properties {
		entries = append(entries, models.LedgerEntry{
			ID:            uuid.New(),
			CondominiumID: tenant.CondominiumID,
			PropertyID:    p.ID,
			Period:        period,
			Charged:       amount,
			Status:        models.LedgerStatusPending,
			EmittedAt:     req.EmittedAt,
			DueAt:         req.DueAt,
		})

		if p.OwnerProfileID == nil || notified[*p.OwnerProfileID] {
			continue
		}
		owner := *p.OwnerProfileID
		notified[owner] = true
		notifications = append(notifications, models.Notification{
			ID:                 uuid.New(),
			CondominiumID:      tenant.CondominiumID,
			RecipientProfileID: &owner,
			Kind:               models.NotificationNewCharge,
			Title:              "New charge issued",
			Message:            fmt.Sprintf("A charge of USD %s for %s was issued. Due %s.", amount.String(), period, req.DueAt.Format("2006-01-02")),
			LinkPath:           "/ledger",
			CreatedAt:          time.Now(),
		})
	}

	if err := s.Ledger.IssueCycle(ctx, entries, notifications); err != nil {
		logging.LogError(s.logger, "billing", "Issue", "billing cycle rolled back", map[string]interface{}{
			"condominium_id": tenant.CondominiumID,
			"period":         period,
		}, err)
		return nil, err
	}

	metrics.LedgerEntriesIssued.Add(float64(len(entries)))
	if s.cache != nil {
		s.cache.InvalidateLedger(ctx, tenant.CondominiumID)
	}
	if s.notifier != nil {
		for _, n := range notifications {
			s.notifier.Push(n)
		}
	}

	return &models.BillingResult{
		Period:        period,
		Amount:        amount,
		EntriesIssued: len(entries),
		Notified:      len(notifications),
	}, nil
}

// MarkOverdue flags pending entries past their due date.
func (s *BillingService) MarkOverdue(ctx context.Context, tenant models.TenantContext, asOf time.Time) (int64, error) {
	n, err := s.Ledger.MarkOverdue(ctx, tenant, asOf)
	if err != nil {
		return 0, err
	}
	if n > 0 && s.cache != nil {
		s.cache.InvalidateLedger(ctx, tenant.CondominiumID)
	}
	return n, nil
}

// PropertyLedger returns a unit's history; owners only see their own units.
func (s *BillingService) PropertyLedger(ctx context.Context, tenant models.TenantContext, propertyID uuid.UUID) ([]models.LedgerEntry, error) {
	property, err := s.Properties.Get(ctx, tenant, propertyID)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, ErrPropertyNotFound
	}
	if !tenant.IsAdmin() && (property.OwnerProfileID == nil || *property.OwnerProfileID != tenant.ProfileID) {
		return nil, ErrPropertyNotFound
	}
	return s.Ledger.ListByProperty(ctx, tenant, propertyID)
}

// OwnerLedger returns the history of every unit the caller owns.
func (s *BillingService) OwnerLedger(ctx context.Context, tenant models.TenantContext) ([]models.LedgerEntry, error) {
	properties, err := s.Properties.ListByOwner(ctx, tenant, tenant.ProfileID)
	if err != nil {
		return nil, err
	}
	var all []models.LedgerEntry
	for _, p := range properties {
		entries, err := s.Ledger.ListByProperty(ctx, tenant, p.ID)
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
	}
	return all, nil
}
