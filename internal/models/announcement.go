package models

import (
	"time"

	"github.com/google/uuid"
)

type Announcement struct {
	ID            uuid.UUID `json:"id"`
	CondominiumID uuid.UUID `json:"condominium_id"`
	Title         string    `json:"title"`
	Body          string    `json:"body"`
	Category      string    `json:"category"`
	Pinned        bool      `json:"pinned"`
	CreatedBy     uuid.UUID `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

type CreateAnnouncementRequest struct {
	Title    string `json:"title" validate:"required,min=3,max=120"`
	Body     string `json:"body" validate:"required,min=5,max=4000"`
	Category string `json:"category" validate:"max=40"`
	Pinned   bool   `json:"pinned"`
}
