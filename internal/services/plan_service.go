package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"dentamart/internal/caching"
	"dentamart/internal/common"
	"dentamart/internal/models"
	"dentamart/internal/repositories"

	"github.com/google/uuid"
)

const planCacheTTL = 5 * time.Minute

// PlanService manages the subscription plan catalogue and coupons. Plans are
// read on every public pricing page, so the active list is cached.
type PlanService interface {
	CreatePlan(ctx context.Context, plan *models.SubscriptionPlan) (*models.SubscriptionPlan, error)
	UpdatePlan(ctx context.Context, plan *models.SubscriptionPlan) (*models.SubscriptionPlan, error)
	GetPlan(ctx context.Context, id uuid.UUID) (*models.SubscriptionPlan, error)
	ListActivePlans(ctx context.Context) ([]*models.SubscriptionPlan, error)
	CreateCoupon(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error)
	ListCoupons(ctx context.Context, limit, offset int) ([]*models.Coupon, error)
	SetCouponActive(ctx context.Context, id uuid.UUID, active bool) error
}

type planService struct {
	planRepo   repositories.PlanRepository
	couponRepo repositories.CouponRepository
	cacheSvc   caching.CacheService
}

func NewPlanService(planRepo repositories.PlanRepository, couponRepo repositories.CouponRepository, cacheSvc caching.CacheService) PlanService {
	return &planService{
		planRepo:   planRepo,
		couponRepo: couponRepo,
		cacheSvc:   cacheSvc,
	}
}

func validatePlan(plan *models.SubscriptionPlan) error {
	if err := common.ValidateRequiredString(plan.Name, "plan name"); err != nil {
		return err
	}
	if plan.Price < 0 {
		return common.ValidationError("plan price cannot be negative")
	}
	if plan.DurationMonths <= 0 {
		return common.ValidationError("plan duration must be at least one month")
	}
	if models.TierRank(plan.Tier) == 0 {
		return common.ValidationError("unknown subscription tier %q", plan.Tier)
	}
	if plan.MaxPriorityLevel < 0 {
		return common.ValidationError("max priority level cannot be negative")
	}
	return nil
}

func (s *planService) CreatePlan(ctx context.Context, plan *models.SubscriptionPlan) (*models.SubscriptionPlan, error) {
	if err := validatePlan(plan); err != nil {
		return nil, err
	}
	plan.ID = uuid.New()
	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}
	s.invalidatePlans(ctx)
	return plan, nil
}

func (s *planService) UpdatePlan(ctx context.Context, plan *models.SubscriptionPlan) (*models.SubscriptionPlan, error) {
	if err := validatePlan(plan); err != nil {
		return nil, err
	}
	existing, err := s.planRepo.GetByID(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, common.NotFoundError("subscription plan")
	}
	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, fmt.Errorf("update plan: %w", err)
	}
	s.invalidatePlans(ctx)
	return plan, nil
}

func (s *planService) GetPlan(ctx context.Context, id uuid.UUID) (*models.SubscriptionPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, common.NotFoundError("subscription plan")
	}
	return plan, nil
}

func (s *planService) ListActivePlans(ctx context.Context) ([]*models.SubscriptionPlan, error) {
	cached, err := s.cacheSvc.GetPlans(ctx)
	if err != nil {
		log.Printf("WARN: plan cache read failed: %v", err)
	}
	if cached != nil {
		return cached, nil
	}

	plans, err := s.planRepo.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	if err := s.cacheSvc.SetPlans(ctx, plans, planCacheTTL); err != nil {
		log.Printf("WARN: plan cache write failed: %v", err)
	}
	return plans, nil
}

func (s *planService) CreateCoupon(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error) {
	if err := common.ValidateRequiredString(coupon.Code, "coupon code"); err != nil {
		return nil, err
	}
	switch coupon.DiscountType {
	case models.DiscountPercentage:
		if coupon.DiscountValue <= 0 || coupon.DiscountValue > 100 {
			return nil, common.ValidationError("percentage discount must be between 0 and 100")
		}
	case models.DiscountFixed:
		if coupon.DiscountValue <= 0 {
			return nil, common.ValidationError("fixed discount must be positive")
		}
	default:
		return nil, common.ValidationError("unknown discount type %q", coupon.DiscountType)
	}
	if coupon.MaxUsage < 0 {
		return nil, common.ValidationError("max usage cannot be negative")
	}

	coupon.ID = uuid.New()
	coupon.IsActive = true
	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		return nil, fmt.Errorf("create coupon: %w", err)
	}
	return coupon, nil
}

func (s *planService) ListCoupons(ctx context.Context, limit, offset int) ([]*models.Coupon, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.couponRepo.List(ctx, limit, offset)
}

func (s *planService) SetCouponActive(ctx context.Context, id uuid.UUID, active bool) error {
	return s.couponRepo.SetActive(ctx, id, active)
}

func (s *planService) invalidatePlans(ctx context.Context) {
	if err := s.cacheSvc.InvalidatePlans(ctx); err != nil {
		log.Printf("WARN: plan cache invalidation failed: %v", err)
	}
}
