package handlers

import (
	"net/http"
	"time"

	"dentamart/internal/common"
	"dentamart/internal/models"
	"dentamart/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// PlanAdminHandlers handles the admin plan catalogue and coupon endpoints.
type PlanAdminHandlers struct {
	planService services.PlanService
}

func NewPlanAdminHandlers(planService services.PlanService) *PlanAdminHandlers {
	return &PlanAdminHandlers{planService: planService}
}

type planRequest struct {
	Name               string   `json:"name"`
	Price              float64  `json:"price"`
	DurationMonths     int      `json:"duration_months"`
	Features           []string `json:"features"`
	Tier               string   `json:"tier"`
	CanBePromoted      bool     `json:"can_be_promoted"`
	MaxPriorityLevel   int      `json:"max_priority_level"`
	MonthlyPromotedCap int      `json:"monthly_promoted_cap"`
	IsActive           bool     `json:"is_active"`
}

func (req *planRequest) toModel() *models.SubscriptionPlan {
	return &models.SubscriptionPlan{
		Name:               req.Name,
		Price:              req.Price,
		DurationMonths:     req.DurationMonths,
		Features:           req.Features,
		Tier:               req.Tier,
		CanBePromoted:      req.CanBePromoted,
		MaxPriorityLevel:   req.MaxPriorityLevel,
		MonthlyPromotedCap: req.MonthlyPromotedCap,
		IsActive:           req.IsActive,
	}
}

// CreatePlan handles POST /api/admin/plans
func (h *PlanAdminHandlers) CreatePlan(c echo.Context) error {
	ctx := c.Request().Context()

	var req planRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}

	plan, err := h.planService.CreatePlan(ctx, req.toModel())
	if err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusCreated, plan)
}

// UpdatePlan handles PUT /api/admin/plans/:id
func (h *PlanAdminHandlers) UpdatePlan(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.HTTPError(c, err)
	}

	var req planRequest
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}

	plan := req.toModel()
	plan.ID = id
	updated, err := h.planService.UpdatePlan(ctx, plan)
	if err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// CreateCoupon handles POST /api/admin/coupons
func (h *PlanAdminHandlers) CreateCoupon(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Code              string   `json:"code"`
		DiscountType      string   `json:"discount_type"`
		DiscountValue     float64  `json:"discount_value"`
		MaxUsage          int      `json:"max_usage"`
		ExpiryDate        *string  `json:"expiry_date"`
		ApplicablePlanIDs []string `json:"applicable_plan_ids"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}

	coupon := &models.Coupon{
		Code:          req.Code,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		MaxUsage:      req.MaxUsage,
	}
	if req.ExpiryDate != nil {
		expiry, err := time.Parse("2006-01-02", *req.ExpiryDate)
		if err != nil {
			return common.SendValidationError(c, "expiry_date", "Expected YYYY-MM-DD")
		}
		coupon.ExpiryDate = &expiry
	}
	for _, raw := range req.ApplicablePlanIDs {
		planID, err := uuid.Parse(raw)
		if err != nil {
			return common.SendValidationError(c, "applicable_plan_ids", "Invalid UUID format")
		}
		coupon.ApplicablePlanIDs = append(coupon.ApplicablePlanIDs, planID)
	}

	created, err := h.planService.CreateCoupon(ctx, coupon)
	if err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// ListCoupons handles GET /api/admin/coupons
func (h *PlanAdminHandlers) ListCoupons(c echo.Context) error {
	ctx := c.Request().Context()

	limit, offset := parsePagination(c)
	coupons, err := h.planService.ListCoupons(ctx, limit, offset)
	if err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"coupons": coupons,
		"count":   len(coupons),
	})
}

// SetCouponActive handles PUT /api/admin/coupons/:id/active
func (h *PlanAdminHandlers) SetCouponActive(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.HTTPError(c, err)
	}

	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}

	if err := h.planService.SetCouponActive(ctx, id, req.IsActive); err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "updated"})
}
