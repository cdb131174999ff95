package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCommissionRate applies when a supplier has no commission setting
// and is not union-endorsed.
const DefaultCommissionRate = 10.0

// CommissionSetting holds a per-supplier commission override.
type CommissionSetting struct {
	ID             uuid.UUID `json:"id" db:"id"`
	SupplierID     uuid.UUID `json:"supplier_id" db:"supplier_id"`
	CommissionRate float64   `json:"commission_rate" db:"commission_rate"`
	MinCommission  float64   `json:"min_commission" db:"min_commission"`
	IsActive       bool      `json:"is_active" db:"is_active"`
	Notes          *string   `json:"notes" db:"notes"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Commission invoice statuses. Paid and cancelled are terminal; invoices
// never auto-transition.
const (
	InvoicePending   = "pending"
	InvoicePaid      = "paid"
	InvoiceCancelled = "cancelled"
)

// CommissionInvoice aggregates a supplier's owed commission for a period.
// DueDate is the period end plus 15 days.
type CommissionInvoice struct {
	ID               uuid.UUID  `json:"id" db:"id"`
	InvoiceNumber    string     `json:"invoice_number" db:"invoice_number"`
	SupplierID       uuid.UUID  `json:"supplier_id" db:"supplier_id"`
	PeriodStart      time.Time  `json:"period_start" db:"period_start"`
	PeriodEnd        time.Time  `json:"period_end" db:"period_end"`
	TotalCommission  float64    `json:"total_commission" db:"total_commission"`
	OrderCount       int        `json:"order_count" db:"order_count"`
	Status           string     `json:"status" db:"status"`
	DueDate          time.Time  `json:"due_date" db:"due_date"`
	PaidAmount       *float64   `json:"paid_amount" db:"paid_amount"`
	PaymentMethod    *string    `json:"payment_method" db:"payment_method"`
	PaymentReference *string    `json:"payment_reference" db:"payment_reference"`
	PaidAt           *time.Time `json:"paid_at" db:"paid_at"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}
