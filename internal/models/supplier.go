package models

import (
	"time"

	"github.com/google/uuid"
)

// Supplier sells products on the marketplace. A union-endorsed supplier pays
// zero platform commission regardless of any configured rate.
type Supplier struct {
	ID                     uuid.UUID `json:"id" db:"id"`
	Name                   string    `json:"name" db:"name"`
	ContactEmail           *string   `json:"contact_email" db:"contact_email"`
	ContactPhone           *string   `json:"contact_phone" db:"contact_phone"`
	Address                *string   `json:"address" db:"address"`
	Governorate            *string   `json:"governorate" db:"governorate"`
	UnionEndorsed          bool      `json:"union_endorsed" db:"union_endorsed"`
	UnionCertificateNumber *string   `json:"union_certificate_number" db:"union_certificate_number"`
	IsActive               bool      `json:"is_active" db:"is_active"`
	CreatedAt              time.Time `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time `json:"updated_at" db:"updated_at"`
}
