package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PropertyBalance is the open debt of one unit, used by the public lookup.
type PropertyBalance struct {
	CondominiumID   uuid.UUID       `json:"condominium_id"`
	CondominiumName string          `json:"condominium_name"`
	PropertyID      uuid.UUID       `json:"property_id"`
	Identifier      string          `json:"identifier"`
	OpenEntries     int             `json:"open_entries"`
	Owed            Cents           `json:"owed_usd"`
	OwedLocal       decimal.Decimal `json:"owed_local"`
	Rate            decimal.Decimal `json:"rate"`
}

type BalanceLookup struct {
	OwnerName  string            `json:"owner_name"`
	Properties []PropertyBalance `json:"properties"`
	TotalOwed  Cents             `json:"total_owed_usd"`
	// TotalOwedLocal sums each unit's local amount at its own condominium rate.
	TotalOwedLocal decimal.Decimal `json:"total_owed_local"`
}

// ReceivableRow aggregates open debt per unit for the admin report.
type ReceivableRow struct {
	PropertyID  uuid.UUID `json:"property_id"`
	Identifier  string    `json:"identifier"`
	OwnerName   string    `json:"owner_name"`
	OpenEntries int       `json:"open_entries"`
	Charged     Cents     `json:"charged"`
	Paid        Cents     `json:"paid"`
	Owed        Cents     `json:"owed"`
	Overdue     int       `json:"overdue_entries"`
}

// DirectoryImportRow is one spreadsheet line of the owner directory.
type DirectoryImportRow struct {
	Line       int
	Identifier string
	FirstName  string
	LastName   string
	NationalID string
	Phone      string
}

type DirectoryImportResult struct {
	PropertiesCreated int      `json:"properties_created"`
	OwnersCreated     int      `json:"owners_created"`
	Assigned          int      `json:"assigned"`
	Skipped           int      `json:"skipped"`
	Errors            []string `json:"errors,omitempty"`
}
