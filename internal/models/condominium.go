package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Condominium struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	MonthlyAmount Cents     `json:"monthly_amount"`
	BillingDay    int       `json:"billing_day"`
	NoticeBoard   *string   `json:"notice_board,omitempty"`
	// BankAccounts are the destinations owners transfer to.
	BankAccounts       []BankAccount `json:"bank_accounts"`
	ResidenceLetterURL *string       `json:"residence_letter_url,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
}

type BankAccount struct {
	ID     string `json:"id"`
	Bank   string `json:"bank" validate:"required,max=80"`
	Holder string `json:"holder" validate:"required,max=120"`
	Number string `json:"number" validate:"required,max=40"`
	Kind   string `json:"kind" validate:"max=60"`
}

type UpdateBankAccountsRequest struct {
	Accounts []BankAccount `json:"accounts" validate:"max=10,dive"`
}

type Profile struct {
	ID            uuid.UUID `json:"id"`
	CondominiumID uuid.UUID `json:"condominium_id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	NationalID    string    `json:"national_id"`
	Phone         string    `json:"phone"`
	Role          Role      `json:"role"`
	CreatedAt     time.Time `json:"created_at"`
}

func (p Profile) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

type Property struct {
	ID             uuid.UUID  `json:"id"`
	CondominiumID  uuid.UUID  `json:"condominium_id"`
	Identifier     string     `json:"identifier"`
	OwnerProfileID *uuid.UUID `json:"owner_profile_id,omitempty"`
	OwnerName      string     `json:"owner_name,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// CreatePropertyRequest represents the request body for registering a unit
type CreatePropertyRequest struct {
	Identifier     string     `json:"identifier" validate:"required,max=32"`
	OwnerProfileID *uuid.UUID `json:"owner_profile_id"`
}

type AssignOwnerRequest struct {
	OwnerProfileID *uuid.UUID `json:"owner_profile_id"`
}

type CreateOwnerRequest struct {
	FirstName  string `json:"first_name" validate:"required,max=80"`
	LastName   string `json:"last_name" validate:"max=80"`
	NationalID string `json:"national_id" validate:"required,min=5,max=20"`
	Phone      string `json:"phone" validate:"max=30"`
}

type UpdateFinancialParamsRequest struct {
	MonthlyAmount Cents `json:"monthly_amount" validate:"gte=0"`
	BillingDay    int   `json:"billing_day" validate:"min=1,max=31"`
}

type UpdateNoticeBoardRequest struct {
	Text string `json:"text" validate:"max=2000"`
}

// ExchangeRate is the local-currency price of one USD.
type ExchangeRate struct {
	ID            uuid.UUID       `json:"id"`
	CondominiumID uuid.UUID       `json:"condominium_id"`
	Rate          decimal.Decimal `json:"rate"`
	Source        string          `json:"source"`
	CreatedAt     time.Time       `json:"created_at"`
}

type CreateExchangeRateRequest struct {
	Rate   decimal.Decimal `json:"rate"`
	Source string          `json:"source" validate:"max=64"`
}
