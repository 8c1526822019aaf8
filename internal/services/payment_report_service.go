package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"condo-backend/internal/metrics"
	"condo-backend/internal/models"
	"condo-backend/internal/storage"
	"condo-backend/internal/timeutil"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrFuturePaymentDate   = errors.New("payment date cannot be in the future")
	ErrNoExchangeRate      = errors.New("no exchange rate has been published for this condominium")
	ErrDuplicateReference  = errors.New("a payment with this reference is already registered")
	ErrProofRequired       = errors.New("proof of payment is required")
	ErrReceiptNotAvailable = errors.New("receipts are only available for approved payments")
)

type PaymentReportStore interface {
	Create(ctx context.Context, report *models.PaymentReport) error
	ReferenceExists(ctx context.Context, tenant models.TenantContext, reference string) (bool, error)
	Get(ctx context.Context, tenant models.TenantContext, id uuid.UUID) (*models.PaymentReport, error)
	List(ctx context.Context, tenant models.TenantContext, filter models.PaymentReportFilter) ([]models.PaymentReport, error)
	Allocations(ctx context.Context, tenant models.TenantContext, reportID uuid.UUID) ([]models.PaymentAllocation, error)
}

type ExchangeRateSource interface {
	LatestExchangeRate(ctx context.Context, condominiumID uuid.UUID) (*models.ExchangeRate, error)
}

type OwnedPropertySource interface {
	Get(ctx context.Context, tenant models.TenantContext, id uuid.UUID) (*models.Property, error)
}

// ProofStore persists the uploaded transfer receipt and returns its URL.
type ProofStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type PaymentReportService struct {
	Repo       PaymentReportStore
	Rates      ExchangeRateSource
	Properties OwnedPropertySource
	Proofs     ProofStore
	Notifier   Notifier
	log        *logrus.Entry
}

func NewPaymentReportService(repo PaymentReportStore, rates ExchangeRateSource, properties OwnedPropertySource,
	proofs ProofStore, notifier Notifier, logger *logrus.Logger) *PaymentReportService {
	return &PaymentReportService{
		Repo:       repo,
		Rates:      rates,
		Properties: properties,
		Proofs:     proofs,
		Notifier:   notifier,
		log:        logger.WithField("module", "payment_reports"),
	}
}

// Submit records an owner's transfer for review. The USD equivalent is fixed
// at submission using the condominium's latest rate.
func (s *PaymentReportService) Submit(ctx context.Context, tenant models.TenantContext, req *models.SubmitPaymentRequest, proof []byte) (*models.PaymentReport, error) {
	if !req.AmountLocal.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if req.PaymentDate.After(timeutil.Now()) {
		return nil, ErrFuturePaymentDate
	}
	if len(proof) == 0 {
		return nil, ErrProofRequired
	}

	if req.PropertyID != nil {
		property, err := s.Properties.Get(ctx, tenant, *req.PropertyID)
		if err != nil {
			return nil, err
		}
		if property == nil || property.OwnerProfileID == nil || *property.OwnerProfileID != tenant.ProfileID {
			return nil, ErrPropertyNotOwned
		}
	}

	exists, err := s.Repo.ReferenceExists(ctx, tenant, req.Reference)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateReference
	}

	rate, err := s.Rates.LatestExchangeRate(ctx, tenant.CondominiumID)
	if err != nil {
		return nil, err
	}
	if rate == nil {
		return nil, ErrNoExchangeRate
	}
	usd, err := models.ConvertToUSD(req.AmountLocal, rate.Rate)
	if err != nil {
		return nil, err
	}

	data, contentType, ext, err := storage.PrepareProof(proof)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%s/%s-%d%s", tenant.CondominiumID, tenant.ProfileID, time.Now().UnixNano(), ext)
	url, err := s.Proofs.Put(ctx, key, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store proof: %w", err)
	}

	report := &models.PaymentReport{
		CondominiumID:  tenant.CondominiumID,
		OwnerProfileID: tenant.ProfileID,
		PropertyID:     req.PropertyID,
		AmountLocal:    req.AmountLocal,
		ExchangeRate:   rate.Rate,
		EquivalentUSD:  usd,
		Reference:      req.Reference,
		PaymentDate:    req.PaymentDate,
		ProofURL:       url,
		Status:         models.PaymentStatusInReview,
	}
	if err := s.Repo.Create(ctx, report); err != nil {
		return nil, err
	}
	metrics.PaymentReportsSubmitted.Inc()

	err = s.Notifier.Notify(ctx, models.Notification{
		CondominiumID: tenant.CondominiumID,
		Kind:          models.NotificationPaymentReported,
		Title:         "New payment to review",
		Message: fmt.Sprintf("A payment of Bs. %s (ref. %s, USD %s) is waiting for review.",
			report.AmountLocal.StringFixed(2), report.Reference, report.EquivalentUSD.String()),
		LinkPath: "/payments/" + report.ID.String(),
	})
	if err != nil {
		// The report is stored; admins still see it in the review queue.
		s.log.WithError(err).WithField("report_id", report.ID).Warn("failed to notify admins")
	}

	return report, nil
}

// List returns the caller's own reports for owners, and all reports
// (optionally by status) for admins.
func (s *PaymentReportService) List(ctx context.Context, tenant models.TenantContext, status models.PaymentStatus) ([]models.PaymentReport, error) {
	filter := models.PaymentReportFilter{Status: status}
	if !tenant.IsAdmin() {
		owner := tenant.ProfileID
		filter.OwnerProfileID = &owner
	}
	return s.Repo.List(ctx, tenant, filter)
}

// Get hides other owners' reports behind ErrReportNotFound.
func (s *PaymentReportService) Get(ctx context.Context, tenant models.TenantContext, id uuid.UUID) (*models.PaymentReport, error) {
	report, err := s.Repo.Get(ctx, tenant, id)
	if err != nil {
		return nil, err
	}
	if report == nil || (!tenant.IsAdmin() && report.OwnerProfileID != tenant.ProfileID) {
		return nil, ErrReportNotFound
	}
	return report, nil
}

// Receipt renders the PDF receipt of an approved report.
func (s *PaymentReportService) Receipt(ctx context.Context, tenant models.TenantContext, id uuid.UUID) ([]byte, error) {
	report, err := s.Get(ctx, tenant, id)
	if err != nil {
		return nil, err
	}
	if report.Status != models.PaymentStatusApproved {
		return nil, ErrReceiptNotAvailable
	}
	allocations, err := s.Repo.Allocations(ctx, tenant, id)
	if err != nil {
		return nil, err
	}
	return RenderReceipt(report, allocations)
}
