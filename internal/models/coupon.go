package models

import (
	"time"

	"github.com/google/uuid"
)

// Coupon discount types.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Coupon codes are stored upper-cased and looked up case-insensitively.
// Invariant: CurrentUsage <= MaxUsage whenever MaxUsage > 0.
type Coupon struct {
	ID                uuid.UUID   `json:"id" db:"id"`
	Code              string      `json:"code" db:"code"`
	DiscountType      string      `json:"discount_type" db:"discount_type"`
	DiscountValue     float64     `json:"discount_value" db:"discount_value"`
	MaxUsage          int         `json:"max_usage" db:"max_usage"`
	CurrentUsage      int         `json:"current_usage" db:"current_usage"`
	ExpiryDate        *time.Time  `json:"expiry_date" db:"expiry_date"`
	ApplicablePlanIDs []uuid.UUID `json:"applicable_plan_ids" db:"applicable_plan_ids"`
	IsActive          bool        `json:"is_active" db:"is_active"`
	CreatedAt         time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at" db:"updated_at"`
}

// AppliesTo reports whether the coupon may be used with the given plan.
// An empty restriction list means the coupon applies to every plan.
func (c *Coupon) AppliesTo(planID uuid.UUID) bool {
	if len(c.ApplicablePlanIDs) == 0 {
		return true
	}
	for _, id := range c.ApplicablePlanIDs {
		if id == planID {
			return true
		}
	}
	return false
}
