package repositories

import (
	"context"
	"errors"
	"strings"

	"dentamart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CouponRepository interface {
	Create(ctx context.Context, coupon *models.Coupon) error
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
	// IncrementUsage bumps the usage counter, honoring the cap. Returns
	// false when the coupon is already exhausted.
	IncrementUsage(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*models.Coupon, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type couponRepo struct {
	db Database
}

func NewCouponRepository(db Database) CouponRepository {
	return &couponRepo{db: db}
}

const couponColumns = `id, code, discount_type, discount_value, max_usage, current_usage, expiry_date, applicable_plan_ids, is_active, created_at, updated_at`

func scanCoupon(row pgx.Row) (*models.Coupon, error) {
	c := &models.Coupon{}
	err := row.Scan(&c.ID, &c.Code, &c.DiscountType, &c.DiscountValue, &c.MaxUsage, &c.CurrentUsage, &c.ExpiryDate, &c.ApplicablePlanIDs, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *couponRepo) Create(ctx context.Context, coupon *models.Coupon) error {
	coupon.Code = strings.ToUpper(strings.TrimSpace(coupon.Code))
	query := `
		INSERT INTO coupons (id, code, discount_type, discount_value, max_usage, current_usage, expiry_date, applicable_plan_ids, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, coupon.ID, coupon.Code, coupon.DiscountType, coupon.DiscountValue, coupon.MaxUsage, coupon.ExpiryDate, coupon.ApplicablePlanIDs, coupon.IsActive)
	return err
}

// GetByCode is case-insensitive; codes are stored upper-cased.
func (r *couponRepo) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE code = $1`
	coupon, err := scanCoupon(r.db.QueryRow(ctx, query, strings.ToUpper(strings.TrimSpace(code))))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return coupon, err
}

func (r *couponRepo) IncrementUsage(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE coupons
		SET current_usage = current_usage + 1, updated_at = NOW()
		WHERE id = $1 AND (max_usage = 0 OR current_usage < max_usage)
	`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *couponRepo) List(ctx context.Context, limit, offset int) ([]*models.Coupon, error) {
	query := `
		SELECT ` + couponColumns + `
		FROM coupons
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coupons []*models.Coupon
	for rows.Next() {
		coupon, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, coupon)
	}
	return coupons, rows.Err()
}

func (r *couponRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE coupons SET is_active = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, active, id)
	return err
}
