package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"condo-backend/internal/logging"
	"condo-backend/internal/metrics"
	"condo-backend/internal/models"
	"condo-backend/internal/repositories"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrReportNotFound   = errors.New("payment report not found")
	ErrReportFinalized  = errors.New("payment report has already been resolved")
	ErrConcurrentUpdate = errors.New("ledger changed while reconciling, please retry")
	ErrPropertyNotOwned = errors.New("property does not belong to the report owner")
)

// DefaultRejectionNote is stored when an administrator rejects without a note.
const DefaultRejectionNote = "Rejected after administrative review"

// PersistenceError wraps a storage failure with the step that failed.
// The transaction is rolled back whenever one is returned.
type PersistenceError struct {
	Step string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("reconciliation failed while trying to %s: %v", e.Step, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

type ReconciliationStore interface {
	WithinTx(ctx context.Context, fn func(repositories.ReconciliationTx) error) error
}

// Locker hands out short-lived distributed locks.
type Locker interface {
	Obtain(ctx context.Context, key string) (release func(), err error)
}

// Publisher pushes committed notifications to connected clients.
type Publisher interface {
	Publish(n models.Notification)
}

// CacheInvalidator drops cached views derived from a condominium's ledger.
type CacheInvalidator interface {
	InvalidateLedger(ctx context.Context, condominiumID uuid.UUID)
}

type ReconciliationOutcome struct {
	Report       *models.PaymentReport `json:"report"`
	PropertyID   *uuid.UUID            `json:"property_id,omitempty"`
	Allocations  []Allocation          `json:"allocations"`
	Remaining    models.Cents          `json:"remaining_usd"`
	Notification models.Notification   `json:"notification"`
}

type ReconciliationService struct {
	Store     ReconciliationStore
	locker    Locker
	publisher Publisher
	cache     CacheInvalidator
	log       *logrus.Entry
}

func NewReconciliationService(store ReconciliationStore, logger *logrus.Logger) *ReconciliationService {
	return &ReconciliationService{
		Store: store,
		log:   logger.WithField("module", "reconciliation"),
	}
}

func (s *ReconciliationService) SetLocker(l Locker)                     { s.locker = l }
func (s *ReconciliationService) SetPublisher(p Publisher)               { s.publisher = p }
func (s *ReconciliationService) SetCacheInvalidator(c CacheInvalidator) { s.cache = c }

// Approve credits the report's USD equivalent against the owner's open debt,
// oldest first, and marks the report approved. Ledger updates, the report
// status, the allocation audit rows and the owner notification commit
// together or not at all.
func (s *ReconciliationService) Approve(ctx context.Context, tenant models.TenantContext, reportID uuid.UUID) (*ReconciliationOutcome, error) {
	release := s.lock(ctx, reportID)
	defer release()

	outcome := &ReconciliationOutcome{}
	err := s.Store.WithinTx(ctx, func(tx repositories.ReconciliationTx) error {
		report, err := s.lockOpenReport(ctx, tx, tenant, reportID)
		if err != nil {
			return err
		}
		outcome.Report = report

		property, err := s.resolveProperty(ctx, tx, tenant, report)
		if err != nil {
			return err
		}

		if property != nil {
			outcome.PropertyID = &property.ID
			result, err := s.applyToLedger(ctx, tx, tenant, report, property.ID)
			if err != nil {
				return err
			}
			outcome.Allocations = result.Allocations
			outcome.Remaining = result.Remaining
		} else {
			outcome.Remaining = report.EquivalentUSD
		}

		if err := tx.ResolvePaymentReport(ctx, tenant, report.ID, models.PaymentStatusApproved, nil); err != nil {
			return &PersistenceError{Step: "update the payment report status", Err: err}
		}
		report.Status = models.PaymentStatusApproved
		report.ResolvedBy = &tenant.ProfileID

		n := approvedNotification(report)
		if err := tx.InsertNotification(ctx, &n); err != nil {
			return &PersistenceError{Step: "create the owner notification", Err: err}
		}
		outcome.Notification = n
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "Approve", tenant, reportID, err)
	}

	metrics.PaymentReportsResolved.WithLabelValues(string(models.PaymentStatusApproved)).Inc()
	metrics.AllocatedCents.Add(float64(outcome.Report.EquivalentUSD - outcome.Remaining))
	s.afterCommit(ctx, tenant, outcome.Notification)

	s.log.WithFields(logrus.Fields{
		"condominium_id": tenant.CondominiumID,
		"report_id":      reportID,
		"allocations":    len(outcome.Allocations),
		"remaining":      outcome.Remaining.String(),
	}).Info("payment report approved")
	return outcome, nil
}

// Reject marks the report rejected without touching the ledger.
func (s *ReconciliationService) Reject(ctx context.Context, tenant models.TenantContext, reportID uuid.UUID, note string) (*ReconciliationOutcome, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		note = DefaultRejectionNote
	}

	release := s.lock(ctx, reportID)
	defer release()

	outcome := &ReconciliationOutcome{}
	err := s.Store.WithinTx(ctx, func(tx repositories.ReconciliationTx) error {
		report, err := s.lockOpenReport(ctx, tx, tenant, reportID)
		if err != nil {
			return err
		}

		if err := tx.ResolvePaymentReport(ctx, tenant, report.ID, models.PaymentStatusRejected, &note); err != nil {
			return &PersistenceError{Step: "update the payment report status", Err: err}
		}
		report.Status = models.PaymentStatusRejected
		report.AdminNote = &note
		report.ResolvedBy = &tenant.ProfileID
		outcome.Report = report

		n := rejectedNotification(report, note)
		if err := tx.InsertNotification(ctx, &n); err != nil {
			return &PersistenceError{Step: "create the owner notification", Err: err}
		}
		outcome.Notification = n
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "Reject", tenant, reportID, err)
	}

	metrics.PaymentReportsResolved.WithLabelValues(string(models.PaymentStatusRejected)).Inc()
	s.afterCommit(ctx, tenant, outcome.Notification)

	s.log.WithFields(logrus.Fields{
		"condominium_id": tenant.CondominiumID,
		"report_id":      reportID,
	}).Info("payment report rejected")
	return outcome, nil
}

func (s *ReconciliationService) lockOpenReport(ctx context.Context, tx repositories.ReconciliationTx, tenant models.TenantContext, id uuid.UUID) (*models.PaymentReport, error) {
	report, err := tx.LockPaymentReport(ctx, tenant, id)
	if err != nil {
		return nil, &PersistenceError{Step: "load the payment report", Err: err}
	}
	if report == nil {
		return nil, ErrReportNotFound
	}
	if report.Status.IsTerminal() {
		return nil, ErrReportFinalized
	}
	return report, nil
}

// resolveProperty returns the unit named on the report, or the owner's
// oldest unit. A nil property with nil error means the owner has none.
func (s *ReconciliationService) resolveProperty(ctx context.Context, tx repositories.ReconciliationTx, tenant models.TenantContext, report *models.PaymentReport) (*models.Property, error) {
	if report.PropertyID != nil {
		property, err := tx.GetOwnedProperty(ctx, tenant, report.OwnerProfileID, *report.PropertyID)
		if err != nil {
			return nil, &PersistenceError{Step: "load the property", Err: err}
		}
		if property == nil {
			return nil, ErrPropertyNotOwned
		}
		return property, nil
	}

	property, err := tx.FirstPropertyOfOwner(ctx, tenant, report.OwnerProfileID)
	if err != nil {
		return nil, &PersistenceError{Step: "load the owner's property", Err: err}
	}
	return property, nil
}

func (s *ReconciliationService) applyToLedger(ctx context.Context, tx repositories.ReconciliationTx, tenant models.TenantContext, report *models.PaymentReport, propertyID uuid.UUID) (AllocationResult, error) {
	entries, err := tx.LockOpenLedger(ctx, tenant, propertyID)
	if err != nil {
		return AllocationResult{}, &PersistenceError{Step: "load the open ledger", Err: err}
	}

	result := Allocate(report.EquivalentUSD, entries)
	if len(result.Allocations) == 0 {
		return result, nil
	}

	byID := make(map[uuid.UUID]models.LedgerEntry, len(result.Entries))
	for _, e := range result.Entries {
		byID[e.ID] = e
	}

	audit := make([]models.PaymentAllocation, 0, len(result.Allocations))
	for _, a := range result.Allocations {
		ok, err := tx.UpdateLedgerEntry(ctx, tenant, byID[a.EntryID])
		if err != nil {
			return AllocationResult{}, &PersistenceError{Step: "update ledger entry " + a.Period, Err: err}
		}
		if !ok {
			return AllocationResult{}, ErrConcurrentUpdate
		}
		audit = append(audit, models.PaymentAllocation{
			CondominiumID:   tenant.CondominiumID,
			PaymentReportID: report.ID,
			LedgerEntryID:   a.EntryID,
			Period:          a.Period,
			Amount:          a.Amount,
			Settled:         a.Settled,
		})
	}

	if err := tx.InsertAllocations(ctx, audit); err != nil {
		return AllocationResult{}, &PersistenceError{Step: "record the allocations", Err: err}
	}
	return result, nil
}

// lock takes a best-effort distributed lock. The database transaction is the
// real serialization point, so a missing or failing locker is not fatal.
func (s *ReconciliationService) lock(ctx context.Context, reportID uuid.UUID) func() {
	if s.locker == nil {
		return func() {}
	}
	release, err := s.locker.Obtain(ctx, "lock:payment-report:"+reportID.String())
	if err != nil {
		s.log.WithError(err).WithField("report_id", reportID).Warn("distributed lock unavailable, continuing")
		return func() {}
	}
	return release
}

func (s *ReconciliationService) afterCommit(ctx context.Context, tenant models.TenantContext, n models.Notification) {
	if s.cache != nil {
		s.cache.InvalidateLedger(ctx, tenant.CondominiumID)
	}
	if s.publisher != nil {
		s.publisher.Publish(n)
	}
}

func (s *ReconciliationService) fail(ctx context.Context, funcName string, tenant models.TenantContext, reportID uuid.UUID, err error) error {
	outcome := "error"
	switch {
	case errors.Is(err, ErrReportFinalized):
		outcome = "finalized"
	case errors.Is(err, ErrReportNotFound):
		outcome = "not_found"
	case errors.Is(err, ErrConcurrentUpdate):
		outcome = "conflict"
	case errors.Is(err, ErrPropertyNotOwned):
		outcome = "invalid_property"
	}
	metrics.ReconciliationFailures.WithLabelValues(outcome).Inc()

	var perr *PersistenceError
	if errors.As(err, &perr) || outcome == "error" {
		logging.LogError(s.log.Logger, "reconciliation", funcName, "transaction rolled back", map[string]interface{}{
			"condominium_id": tenant.CondominiumID,
			"report_id":      reportID,
		}, err)
		if perr == nil {
			return &PersistenceError{Step: "complete the transaction", Err: err}
		}
	}
	return err
}

func approvedNotification(report *models.PaymentReport) models.Notification {
	owner := report.OwnerProfileID
	return models.Notification{
		CondominiumID:      report.CondominiumID,
		RecipientProfileID: &owner,
		Kind:               models.NotificationPaymentApproved,
		Title:              "Payment approved",
		Message: fmt.Sprintf("Your payment of Bs. %s (ref. %s) was approved and credited as USD %s.",
			report.AmountLocal.StringFixed(2), report.Reference, report.EquivalentUSD.String()),
		LinkPath: "/payments/" + report.ID.String(),
	}
}

func rejectedNotification(report *models.PaymentReport, note string) models.Notification {
	owner := report.OwnerProfileID
	return models.Notification{
		CondominiumID:      report.CondominiumID,
		RecipientProfileID: &owner,
		Kind:               models.NotificationPaymentRejected,
		Title:              "Payment rejected",
		Message: fmt.Sprintf("Your payment of Bs. %s (ref. %s) was rejected. Reason: %s",
			report.AmountLocal.StringFixed(2), report.Reference, note),
		LinkPath: "/payments/" + report.ID.String(),
	}
}
