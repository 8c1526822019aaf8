package services

import (
	"condo-backend/internal/models"

	"github.com/google/uuid"
)

// AllocationThreshold is the smallest amount worth applying. Funds at or
// below it are considered exhausted.
const AllocationThreshold models.Cents = 1

// Allocation records the funds applied to one ledger entry.
type Allocation struct {
	EntryID    uuid.UUID    `json:"ledger_entry_id"`
	Period     string       `json:"period"`
	Amount     models.Cents `json:"amount"`
	PaidBefore models.Cents `json:"paid_before"`
	PaidAfter  models.Cents `json:"paid_after"`
	Settled    bool         `json:"settled"`
}

type AllocationResult struct {
	Entries     []models.LedgerEntry `json:"-"`
	Allocations []Allocation         `json:"allocations"`
	Remaining   models.Cents         `json:"remaining"`
}

func (r AllocationResult) Allocated() models.Cents {
	var total models.Cents
	for _, a := range r.Allocations {
		total += a.Amount
	}
	return total
}

// Allocate applies funds to entries in the order given, oldest debt first.
// Entries must already be sorted by emission date. The input slice is not
// modified; the returned entries carry the new paid amounts and statuses.
func Allocate(funds models.Cents, entries []models.LedgerEntry) AllocationResult {
	result := AllocationResult{Entries: make([]models.LedgerEntry, len(entries))}
	copy(result.Entries, entries)

	for i := range result.Entries {
		if funds <= AllocationThreshold {
			break
		}
		entry := &result.Entries[i]
		owed := entry.Owed()
		if owed <= 0 {
			continue
		}

		before := entry.Paid
		applied := funds
		if funds >= owed {
			applied = owed
			entry.Paid = entry.Charged
			entry.Status = models.LedgerStatusPaid
		} else {
			entry.Paid += funds
		}
		funds -= applied

		result.Allocations = append(result.Allocations, Allocation{
			EntryID:    entry.ID,
			Period:     entry.Period,
			Amount:     applied,
			PaidBefore: before,
			PaidAfter:  entry.Paid,
			Settled:    entry.Status == models.LedgerStatusPaid,
		})
	}

	result.Remaining = funds
	return result
}
