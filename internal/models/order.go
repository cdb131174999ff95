package models

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses.
const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

// Order is a clinic's purchase from a single supplier.
type Order struct {
	ID              uuid.UUID `json:"id" db:"id"`
	OrderNumber     string    `json:"order_number" db:"order_number"`
	ClinicID        uuid.UUID `json:"clinic_id" db:"clinic_id"`
	SupplierID      uuid.UUID `json:"supplier_id" db:"supplier_id"`
	Status          string    `json:"status" db:"status"`
	TotalAmount     float64   `json:"total_amount" db:"total_amount"`
	TotalCommission float64   `json:"total_commission" db:"total_commission"`
	Notes           *string   `json:"notes" db:"notes"`
	OrderDate       time.Time `json:"order_date" db:"order_date"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`

	Items []*OrderItem `json:"items,omitempty" db:"-"`
}
