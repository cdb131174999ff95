package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription tiers in ascending order of prominence.
const (
	TierFree       = "free"
	TierBasic      = "basic"
	TierPremium    = "premium"
	TierEnterprise = "enterprise"
)

// TierRank maps a subscription tier to its ordinal used by promoted ordering.
// Unrecognized tiers rank below free.
func TierRank(tier string) int {
	switch tier {
	case TierEnterprise:
		return 4
	case TierPremium:
		return 3
	case TierBasic:
		return 2
	case TierFree:
		return 1
	default:
		return 0
	}
}

type Clinic struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	OwnerUserID       uuid.UUID  `json:"owner_user_id" db:"owner_user_id"`
	Name              string     `json:"name" db:"name"`
	Governorate       string     `json:"governorate" db:"governorate"`
	City              string     `json:"city" db:"city"`
	Address           *string    `json:"address" db:"address"`
	Latitude          *float64   `json:"latitude" db:"latitude"`
	Longitude         *float64   `json:"longitude" db:"longitude"`
	Specialties       []string   `json:"specialties" db:"specialties"`
	Rating            float64    `json:"rating" db:"rating"`
	SubscriptionTier  string     `json:"subscription_tier" db:"subscription_tier"`
	IsPromoted        bool       `json:"is_promoted" db:"is_promoted"`
	PriorityLevel     int        `json:"priority_level" db:"priority_level"`
	IsActive          bool       `json:"is_active" db:"is_active"`
	IsVerified        bool       `json:"is_verified" db:"is_verified"`
	SubscriptionStart *time.Time `json:"subscription_start" db:"subscription_start"`
	SubscriptionEnd   *time.Time `json:"subscription_end" db:"subscription_end"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`

	// DistanceKm is populated by the directory ranking when user
	// coordinates are supplied. Not persisted.
	DistanceKm *float64 `json:"distance_km,omitempty" db:"-"`
}

// ClinicFilter holds search criteria for directory queries.
type ClinicFilter struct {
	Governorate     string   `json:"governorate,omitempty"`
	City            string   `json:"city,omitempty"`
	Specialty       string   `json:"specialty,omitempty"`
	UserLat         *float64 `json:"user_lat,omitempty"`
	UserLng         *float64 `json:"user_lng,omitempty"`
	RadiusKm        *float64 `json:"radius_km,omitempty"`
	Mode            string   `json:"mode,omitempty"` // "distance" or "promoted"
	Limit           int      `json:"limit,omitempty"`
	IncludeInactive bool     `json:"include_inactive,omitempty"`
}
