package models

import (
	"time"

	"github.com/google/uuid"
)

type LedgerStatus string

const (
	LedgerStatusPending LedgerStatus = "pending"
	LedgerStatusOverdue LedgerStatus = "overdue"
	LedgerStatusPaid    LedgerStatus = "paid"
)

func (s LedgerStatus) IsOpen() bool {
	return s == LedgerStatusPending || s == LedgerStatusOverdue
}

// LedgerEntry is one billed charge against a property.
type LedgerEntry struct {
	ID            uuid.UUID    `json:"id"`
	CondominiumID uuid.UUID    `json:"condominium_id"`
	PropertyID    uuid.UUID    `json:"property_id"`
	Period        string       `json:"period"`
	Charged       Cents        `json:"charged_amount"`
	Paid          Cents        `json:"paid_amount"`
	Status        LedgerStatus `json:"status"`
	EmittedAt     time.Time    `json:"emitted_at"`
	DueAt         time.Time    `json:"due_at"`
	Version       int          `json:"-"`
	CreatedAt     time.Time    `json:"created_at"`
}

// Owed is the outstanding balance; never negative.
func (e LedgerEntry) Owed() Cents {
	if e.Paid >= e.Charged {
		return 0
	}
	return e.Charged - e.Paid
}

// IssueBillingRequest represents the request body for a billing cycle
type IssueBillingRequest struct {
	Period    string    `json:"period" validate:"required,max=64"`
	Amount    Cents     `json:"amount" validate:"gte=0"`
	EmittedAt time.Time `json:"emitted_at" validate:"required"`
	DueAt     time.Time `json:"due_at" validate:"required,gtefield=EmittedAt"`
}

type BillingResult struct {
	Period        string `json:"period"`
	Amount        Cents  `json:"amount"`
	EntriesIssued int    `json:"entries_issued"`
	Notified      int    `json:"owners_notified"`
}
