package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem is a priced line on an order. CommissionRate and CommissionAmount
// are snapshotted at order creation and are the billing record of truth;
// later changes to supplier endorsement or settings never touch them.
type OrderItem struct {
	ID               uuid.UUID `json:"id" db:"id"`
	OrderID          uuid.UUID `json:"order_id" db:"order_id"`
	ProductID        uuid.UUID `json:"product_id" db:"product_id"`
	Quantity         int       `json:"quantity" db:"quantity"`
	UnitPrice        float64   `json:"unit_price" db:"unit_price"`
	Subtotal         float64   `json:"subtotal" db:"subtotal"`
	CommissionRate   float64   `json:"commission_rate" db:"commission_rate"`
	CommissionAmount float64   `json:"commission_amount" db:"commission_amount"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}
