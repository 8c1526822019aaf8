package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationKind string

const (
	NotificationPaymentApproved NotificationKind = "payment_approved"
	NotificationPaymentRejected NotificationKind = "payment_rejected"
	NotificationPaymentReported NotificationKind = "payment_reported"
	NotificationNewCharge       NotificationKind = "new_charge"
	NotificationNewTicket       NotificationKind = "new_ticket"
	NotificationTicketResponse  NotificationKind = "ticket_response"
	NotificationNewAnnouncement NotificationKind = "new_announcement"
)

// Notification is addressed to one profile, or to the admin feed when
// RecipientProfileID is nil.
type Notification struct {
	ID                 uuid.UUID        `json:"id"`
	CondominiumID      uuid.UUID        `json:"condominium_id"`
	RecipientProfileID *uuid.UUID       `json:"recipient_profile_id,omitempty"`
	Kind               NotificationKind `json:"kind"`
	Title              string           `json:"title"`
	Message            string           `json:"message"`
	LinkPath           string           `json:"link_path,omitempty"`
	Read               bool             `json:"read"`
	CreatedAt          time.Time        `json:"created_at"`
}
