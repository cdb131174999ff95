package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"dentamart/internal/common"
	"dentamart/internal/models"
	"dentamart/internal/services"

	"github.com/labstack/echo/v4"
)

const maxReceiptSize = 5 * 1024 * 1024

// SubscriptionHandlers handles plan listing, coupon validation, subscription
// submission and the admin review queue.
type SubscriptionHandlers struct {
	subscriptionService services.SubscriptionService
	planService         services.PlanService
	minioSvc            services.MinioService
}

func NewSubscriptionHandlers(subscriptionService services.SubscriptionService, planService services.PlanService, minioSvc services.MinioService) *SubscriptionHandlers {
	return &SubscriptionHandlers{
		subscriptionService: subscriptionService,
		planService:         planService,
		minioSvc:            minioSvc,
	}
}

// ListPlans handles GET /api/plans
func (h *SubscriptionHandlers) ListPlans(c echo.Context) error {
	ctx := c.Request().Context()

	plans, err := h.planService.ListActivePlans(ctx)
	if err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"plans": plans})
}

// ValidateCoupon handles POST /api/coupons/validate
func (h *SubscriptionHandlers) ValidateCoupon(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Code   string `json:"code"`
		PlanID string `json:"plan_id"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}
	planID, err := common.ValidateUUID(req.PlanID, "plan_id")
	if err != nil {
		return common.HTTPError(c, err)
	}

	coupon, err := h.subscriptionService.ValidateCoupon(ctx, req.Code, planID)
	if err != nil {
		return common.HTTPError(c, err)
	}

	plan, err := h.planService.GetPlan(ctx, planID)
	if err != nil {
		return common.HTTPError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"valid":          true,
		"coupon":         coupon,
		"original_price": plan.Price,
		"final_price":    services.CalculateFinalPrice(plan.Price, coupon),
	})
}

func (h *SubscriptionHandlers) uploadReceipt(c echo.Context, file *multipart.FileHeader) (*string, error) {
	if file.Size > maxReceiptSize {
		return nil, common.ValidationError("receipt image exceeds the 5MB limit")
	}

	src, err := file.Open()
	if err != nil {
		return nil, common.ValidationError("could not read receipt image")
	}
	defer src.Close()

	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil {
		return nil, common.ValidationError("could not read receipt image")
	}
	contentType := http.DetectContentType(buffer[:n])
	switch contentType {
	case "image/jpeg", "image/png", "image/webp":
	default:
		return nil, common.ValidationError("receipt must be a JPEG, PNG or WebP image")
	}
	if _, err := src.Seek(0, 0); err != nil {
		return nil, common.ValidationError("could not read receipt image")
	}

	objectName, err := h.minioSvc.UploadImage(c.Request().Context(), services.BucketReceipts, src, file.Size, contentType, file.Filename)
	if err != nil {
		return nil, err
	}
	return &objectName, nil
}

// Subscribe handles POST /api/doctor/subscribe (multipart form).
func (h *SubscriptionHandlers) Subscribe(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	clinicID, err := common.ValidateUUID(c.FormValue("clinic_id"), "clinic_id")
	if err != nil {
		return common.HTTPError(c, err)
	}
	planID, err := common.ValidateUUID(c.FormValue("plan_id"), "plan_id")
	if err != nil {
		return common.HTTPError(c, err)
	}

	method := models.PaymentMethod(c.FormValue("payment_method"))
	in := &services.SubmitSubscriptionInput{
		ClinicID:              clinicID,
		UserID:                userID,
		PlanID:                planID,
		Method:                method,
		CouponCode:            c.FormValue("coupon_code"),
		StripePaymentIntentID: c.FormValue("stripe_payment_intent_id"),
	}
	if v := c.FormValue("transfer_number"); v != "" {
		in.TransferNumber = &v
	}
	if v := c.FormValue("sender_name"); v != "" {
		in.SenderName = &v
	}

	// The receipt image is optional; reviewers can approve against the
	// transfer number alone.
	if method.RequiresManualReview() {
		file, err := c.FormFile("receipt_image")
		switch {
		case err == nil:
			objectName, err := h.uploadReceipt(c, file)
			if err != nil {
				return common.HTTPError(c, err)
			}
			in.ReceiptImage = objectName
		case errors.Is(err, http.ErrMissingFile):
		default:
			return common.SendValidationError(c, "receipt_image", "Could not read receipt image")
		}
	}

	payment, err := h.subscriptionService.Submit(ctx, in)
	if err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusCreated, payment)
}

// ListPendingRequests handles GET /api/subscription-requests
func (h *SubscriptionHandlers) ListPendingRequests(c echo.Context) error {
	ctx := c.Request().Context()

	limit, offset := parsePagination(c)
	payments, err := h.subscriptionService.ListPending(ctx, limit, offset)
	if err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"requests": payments,
		"count":    len(payments),
	})
}

// ApproveRequest handles POST /api/subscription-requests/:id/approve
func (h *SubscriptionHandlers) ApproveRequest(c echo.Context) error {
	ctx := c.Request().Context()

	reviewerID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.HTTPError(c, err)
	}

	payment, err := h.subscriptionService.Approve(ctx, id, reviewerID)
	if err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusOK, payment)
}

// RejectRequest handles POST /api/subscription-requests/:id/reject
func (h *SubscriptionHandlers) RejectRequest(c echo.Context) error {
	ctx := c.Request().Context()

	reviewerID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.HTTPError(c, err)
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}

	payment, err := h.subscriptionService.Reject(ctx, id, reviewerID, req.Reason)
	if err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusOK, payment)
}
