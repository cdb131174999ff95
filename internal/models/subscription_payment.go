package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod enumerates the supported payment rails. Stripe is the only
// rail with programmatic confirmation; the rest go through manual review.
type PaymentMethod string

const (
	PaymentStripe       PaymentMethod = "stripe"
	PaymentZainCash     PaymentMethod = "zain_cash"
	PaymentCashAgents   PaymentMethod = "cash_agents"
	PaymentRafidain     PaymentMethod = "rafidain"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentStripe, PaymentZainCash, PaymentCashAgents, PaymentRafidain, PaymentBankTransfer:
		return true
	}
	return false
}

// RequiresManualReview reports whether payments on this rail must be verified
// by an administrator before activation.
func (m PaymentMethod) RequiresManualReview() bool {
	return m != PaymentStripe
}

// Subscription payment statuses. Activated and rejected are terminal.
const (
	PaymentPendingVerification = "pending_verification"
	PaymentActivated           = "activated"
	PaymentRejected            = "rejected"
)

// SubscriptionPayment records a clinic's subscription request and its
// settlement outcome. A rejected payment is never resurrected; re-submission
// creates a new record.
type SubscriptionPayment struct {
	ID              uuid.UUID     `json:"id" db:"id"`
	PaymentNumber   string        `json:"payment_number" db:"payment_number"`
	ClinicID        uuid.UUID     `json:"clinic_id" db:"clinic_id"`
	UserID          uuid.UUID     `json:"user_id" db:"user_id"`
	PlanID          uuid.UUID     `json:"plan_id" db:"plan_id"`
	Amount          float64       `json:"amount" db:"amount"`
	DurationMonths  int           `json:"duration_months" db:"duration_months"`
	Method          PaymentMethod `json:"payment_method" db:"payment_method"`
	TransferNumber  *string       `json:"transfer_number" db:"transfer_number"`
	SenderName      *string       `json:"sender_name" db:"sender_name"`
	ReceiptImage    *string       `json:"receipt_image" db:"receipt_image"`
	CouponCode      *string       `json:"coupon_code" db:"coupon_code"`
	Status          string        `json:"status" db:"status"`
	RejectionReason *string       `json:"rejection_reason" db:"rejection_reason"`
	VerifiedBy      *uuid.UUID    `json:"verified_by" db:"verified_by"`
	VerifiedAt      *time.Time    `json:"verified_at" db:"verified_at"`
	ActivatedAt     *time.Time    `json:"activated_at" db:"activated_at"`
	ExpiresAt       *time.Time    `json:"expires_at" db:"expires_at"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at"`
}
