package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification types.
const (
	NotificationSubscriptionApproved = "subscription_approved"
	NotificationSubscriptionRejected = "subscription_rejected"
	NotificationInvoiceGenerated     = "invoice_generated"
)

type Notification struct {
	ID          uuid.UUID `json:"id" db:"id"`
	RecipientID uuid.UUID `json:"recipient_id" db:"recipient_id"`
	Type        string    `json:"type" db:"type"`
	Title       string    `json:"title" db:"title"`
	Body        string    `json:"body" db:"body"`
	IsRead      bool      `json:"is_read" db:"is_read"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
