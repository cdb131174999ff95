package models

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionPlan is admin-edited reference data. Clinics subscribe to a
// plan; the plan controls promotion eligibility and priority ceilings.
type SubscriptionPlan struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	Name               string    `json:"name" db:"name"`
	Price              float64   `json:"price" db:"price"`
	DurationMonths     int       `json:"duration_months" db:"duration_months"`
	Features           []string  `json:"features" db:"features"`
	Tier               string    `json:"tier" db:"tier"`
	CanBePromoted      bool      `json:"can_be_promoted" db:"can_be_promoted"`
	MaxPriorityLevel   int       `json:"max_priority_level" db:"max_priority_level"`
	MonthlyPromotedCap int       `json:"monthly_promoted_cap" db:"monthly_promoted_cap"`
	IsActive           bool      `json:"is_active" db:"is_active"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}
