package repositories

import (
	"context"
	"errors"

	"dentamart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PlanRepository interface {
	Create(ctx context.Context, plan *models.SubscriptionPlan) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SubscriptionPlan, error)
	Update(ctx context.Context, plan *models.SubscriptionPlan) error
	List(ctx context.Context, activeOnly bool) ([]*models.SubscriptionPlan, error)
}

type planRepo struct {
	db Database
}

func NewPlanRepository(db Database) PlanRepository {
	return &planRepo{db: db}
}

const planColumns = `id, name, price, duration_months, features, tier, can_be_promoted, max_priority_level, monthly_promoted_cap, is_active, created_at, updated_at`

func scanPlan(row pgx.Row) (*models.SubscriptionPlan, error) {
	plan := &models.SubscriptionPlan{}
	err := row.Scan(&plan.ID, &plan.Name, &plan.Price, &plan.DurationMonths, &plan.Features, &plan.Tier, &plan.CanBePromoted, &plan.MaxPriorityLevel, &plan.MonthlyPromotedCap, &plan.IsActive, &plan.CreatedAt, &plan.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (r *planRepo) Create(ctx context.Context, plan *models.SubscriptionPlan) error {
	query := `
		INSERT INTO subscription_plans (id, name, price, duration_months, features, tier, can_be_promoted, max_priority_level, monthly_promoted_cap, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, plan.ID, plan.Name, plan.Price, plan.DurationMonths, plan.Features, plan.Tier, plan.CanBePromoted, plan.MaxPriorityLevel, plan.MonthlyPromotedCap, plan.IsActive)
	return err
}

func (r *planRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.SubscriptionPlan, error) {
	query := `SELECT ` + planColumns + ` FROM subscription_plans WHERE id = $1`
	plan, err := scanPlan(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return plan, err
}

func (r *planRepo) Update(ctx context.Context, plan *models.SubscriptionPlan) error {
	query := `
		UPDATE subscription_plans
		SET name = $1, price = $2, duration_months = $3, features = $4, tier = $5, can_be_promoted = $6, max_priority_level = $7, monthly_promoted_cap = $8, is_active = $9, updated_at = NOW()
		WHERE id = $10
	`
	_, err := r.db.Exec(ctx, query, plan.Name, plan.Price, plan.DurationMonths, plan.Features, plan.Tier, plan.CanBePromoted, plan.MaxPriorityLevel, plan.MonthlyPromotedCap, plan.IsActive, plan.ID)
	return err
}

func (r *planRepo) List(ctx context.Context, activeOnly bool) ([]*models.SubscriptionPlan, error) {
	query := `SELECT ` + planColumns + ` FROM subscription_plans`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY price ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*models.SubscriptionPlan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}
