package repositories

import (
	"context"
	"errors"
	"time"

	"dentamart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SubscriptionPaymentRepository interface {
	Create(ctx context.Context, payment *models.SubscriptionPayment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SubscriptionPayment, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*models.SubscriptionPayment, error)
	ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*models.SubscriptionPayment, error)
	// ApproveTx transitions pending_verification -> activated inside the
	// caller's transaction. Returns false when the payment was not pending.
	ApproveTx(ctx context.Context, tx pgx.Tx, id, reviewerID uuid.UUID, verifiedAt, expiresAt time.Time) (bool, error)
	// Reject transitions pending_verification -> rejected. Returns false
	// when the payment was not pending.
	Reject(ctx context.Context, id, reviewerID uuid.UUID, reason string) (bool, error)
}

type subscriptionPaymentRepo struct {
	db Database
}

func NewSubscriptionPaymentRepository(db Database) SubscriptionPaymentRepository {
	return &subscriptionPaymentRepo{db: db}
}

const paymentColumns = `id, payment_number, clinic_id, user_id, plan_id, amount, duration_months, payment_method, transfer_number, sender_name, receipt_image, coupon_code, status, rejection_reason, verified_by, verified_at, activated_at, expires_at, created_at, updated_at`

func scanPayment(row pgx.Row) (*models.SubscriptionPayment, error) {
	p := &models.SubscriptionPayment{}
	err := row.Scan(&p.ID, &p.PaymentNumber, &p.ClinicID, &p.UserID, &p.PlanID, &p.Amount, &p.DurationMonths, &p.Method, &p.TransferNumber, &p.SenderName, &p.ReceiptImage, &p.CouponCode, &p.Status, &p.RejectionReason, &p.VerifiedBy, &p.VerifiedAt, &p.ActivatedAt, &p.ExpiresAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *subscriptionPaymentRepo) Create(ctx context.Context, payment *models.SubscriptionPayment) error {
	query := `
		INSERT INTO subscription_payments (id, payment_number, clinic_id, user_id, plan_id, amount, duration_months, payment_method, transfer_number, sender_name, receipt_image, coupon_code, status, activated_at, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, payment.ID, payment.PaymentNumber, payment.ClinicID, payment.UserID, payment.PlanID, payment.Amount, payment.DurationMonths, payment.Method, payment.TransferNumber, payment.SenderName, payment.ReceiptImage, payment.CouponCode, payment.Status, payment.ActivatedAt, payment.ExpiresAt)
	return err
}

func (r *subscriptionPaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.SubscriptionPayment, error) {
	query := `SELECT ` + paymentColumns + ` FROM subscription_payments WHERE id = $1`
	payment, err := scanPayment(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return payment, err
}

func (r *subscriptionPaymentRepo) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*models.SubscriptionPayment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM subscription_payments
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.SubscriptionPayment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

func (r *subscriptionPaymentRepo) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*models.SubscriptionPayment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM subscription_payments
		WHERE clinic_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, clinicID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.SubscriptionPayment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

// The status predicate in the WHERE clause is the compare-and-swap guard:
// a payment already activated or rejected matches zero rows.
func (r *subscriptionPaymentRepo) ApproveTx(ctx context.Context, tx pgx.Tx, id, reviewerID uuid.UUID, verifiedAt, expiresAt time.Time) (bool, error) {
	query := `
		UPDATE subscription_payments
		SET status = 'activated', verified_by = $1, verified_at = $2, activated_at = $2, expires_at = $3, updated_at = NOW()
		WHERE id = $4 AND status = 'pending_verification'
	`
	tag, err := tx.Exec(ctx, query, reviewerID, verifiedAt, expiresAt, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *subscriptionPaymentRepo) Reject(ctx context.Context, id, reviewerID uuid.UUID, reason string) (bool, error) {
	query := `
		UPDATE subscription_payments
		SET status = 'rejected', verified_by = $1, verified_at = NOW(), rejection_reason = $2, updated_at = NOW()
		WHERE id = $3 AND status = 'pending_verification'
	`
	tag, err := r.db.Exec(ctx, query, reviewerID, reason, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
