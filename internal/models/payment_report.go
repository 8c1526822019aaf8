package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusInReview PaymentStatus = "in_review"
	PaymentStatusApproved PaymentStatus = "approved"
	PaymentStatusRejected PaymentStatus = "rejected"
)

// IsTerminal reports whether the report has been resolved.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusApproved || s == PaymentStatusRejected
}

// PaymentReport is an owner's claim of a transfer made in local currency.
type PaymentReport struct {
	ID             uuid.UUID       `json:"id"`
	CondominiumID  uuid.UUID       `json:"condominium_id"`
	OwnerProfileID uuid.UUID       `json:"owner_profile_id"`
	PropertyID     *uuid.UUID      `json:"property_id,omitempty"`
	AmountLocal    decimal.Decimal `json:"reported_amount_local"`
	ExchangeRate   decimal.Decimal `json:"exchange_rate_applied"`
	EquivalentUSD  Cents           `json:"equivalent_amount_usd"`
	Reference      string          `json:"reference"`
	PaymentDate    time.Time       `json:"payment_date"`
	ProofURL       string          `json:"proof_url,omitempty"`
	Status         PaymentStatus   `json:"status"`
	AdminNote      *string         `json:"admin_note,omitempty"`
	ResolvedBy     *uuid.UUID      `json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time      `json:"resolved_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	OwnerName      string          `json:"owner_name,omitempty"`
}

type SubmitPaymentRequest struct {
	AmountLocal decimal.Decimal `json:"amount_local"`
	Reference   string          `json:"reference" validate:"required,min=4,max=64"`
	PaymentDate time.Time       `json:"payment_date" validate:"required"`
	PropertyID  *uuid.UUID      `json:"property_id"`
}

type RejectPaymentRequest struct {
	Note string `json:"note" validate:"max=500"`
}

type PaymentReportFilter struct {
	OwnerProfileID *uuid.UUID
	Status         PaymentStatus
	Limit          int
}

// PaymentAllocation is the audit row for funds applied to one ledger entry.
type PaymentAllocation struct {
	ID              uuid.UUID `json:"id"`
	CondominiumID   uuid.UUID `json:"condominium_id"`
	PaymentReportID uuid.UUID `json:"payment_report_id"`
	LedgerEntryID   uuid.UUID `json:"ledger_entry_id"`
	Period          string    `json:"period"`
	Amount          Cents     `json:"amount"`
	Settled         bool      `json:"settled"`
	CreatedAt       time.Time `json:"created_at"`
}
