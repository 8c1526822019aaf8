package models

import (
	"time"

	"github.com/google/uuid"
)

type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "open"
	TicketStatusResolved TicketStatus = "resolved"
)

type Ticket struct {
	ID             uuid.UUID    `json:"id"`
	CondominiumID  uuid.UUID    `json:"condominium_id"`
	OwnerProfileID uuid.UUID    `json:"owner_profile_id"`
	OwnerName      string       `json:"owner_name,omitempty"`
	Subject        string       `json:"subject"`
	Description    string       `json:"description"`
	Status         TicketStatus `json:"status"`
	Response       *string      `json:"response,omitempty"`
	RespondedAt    *time.Time   `json:"responded_at,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}

type CreateTicketRequest struct {
	Subject     string `json:"subject" validate:"required,min=5,max=120"`
	Description string `json:"description" validate:"required,min=10,max=2000"`
}

type RespondTicketRequest struct {
	Response string `json:"response" validate:"required,min=5,max=2000"`
}
