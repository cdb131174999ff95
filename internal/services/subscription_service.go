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

// SubscriptionService runs the subscription settlement state machine:
// submit -> pending_verification -> activated | rejected. The stripe rail
// activates immediately; every other rail waits for manual review.
type SubscriptionService interface {
	Submit(ctx context.Context, in *SubmitSubscriptionInput) (*models.SubscriptionPayment, error)
	Approve(ctx context.Context, paymentID, reviewerID uuid.UUID) (*models.SubscriptionPayment, error)
	Reject(ctx context.Context, paymentID, reviewerID uuid.UUID, reason string) (*models.SubscriptionPayment, error)
	ValidateCoupon(ctx context.Context, code string, planID uuid.UUID) (*models.Coupon, error)
	ListPending(ctx context.Context, limit, offset int) ([]*models.SubscriptionPayment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.SubscriptionPayment, error)
}

// SubmitSubscriptionInput enumerates every accepted submission field;
// unknown fields are rejected at the handler's bind step.
type SubmitSubscriptionInput struct {
	ClinicID              uuid.UUID
	UserID                uuid.UUID
	PlanID                uuid.UUID
	Method                models.PaymentMethod
	TransferNumber        *string
	SenderName            *string
	ReceiptImage          *string
	CouponCode            string
	StripePaymentIntentID string
}

type subscriptionService struct {
	db               repositories.Database
	paymentRepo      repositories.SubscriptionPaymentRepository
	planRepo         repositories.PlanRepository
	couponRepo       repositories.CouponRepository
	clinicRepo       repositories.ClinicRepository
	notificationRepo repositories.NotificationRepository
	cacheSvc         caching.CacheService
	stripeSvc        StripeService
	now              func() time.Time
}

func NewSubscriptionService(
	db repositories.Database,
	paymentRepo repositories.SubscriptionPaymentRepository,
	planRepo repositories.PlanRepository,
	couponRepo repositories.CouponRepository,
	clinicRepo repositories.ClinicRepository,
	notificationRepo repositories.NotificationRepository,
	cacheSvc caching.CacheService,
	stripeSvc StripeService,
) SubscriptionService {
	return &subscriptionService{
		db:               db,
		paymentRepo:      paymentRepo,
		planRepo:         planRepo,
		couponRepo:       couponRepo,
		clinicRepo:       clinicRepo,
		notificationRepo: notificationRepo,
		cacheSvc:         cacheSvc,
		stripeSvc:        stripeSvc,
		now:              time.Now,
	}
}

// SubscriptionWindow computes a subscription expiry in calendar months.
// Both the stripe rail and the manual-review rail go through this single
// policy so expiry semantics cannot drift between them.
func SubscriptionWindow(from time.Time, months int) time.Time {
	return from.AddDate(0, months, 0)
}

// CalculateFinalPrice applies a validated coupon to a plan price. The
// result never goes below zero.
func CalculateFinalPrice(price float64, coupon *models.Coupon) float64 {
	if coupon == nil {
		return price
	}
	var final float64
	switch coupon.DiscountType {
	case models.DiscountPercentage:
		final = price - price*coupon.DiscountValue/100
	case models.DiscountFixed:
		final = price - coupon.DiscountValue
	default:
		final = price
	}
	if final < 0 {
		return 0
	}
	return final
}

// generatePaymentNumber produces SUB-<year>-<6-digit timestamp tail>.
func (s *subscriptionService) generatePaymentNumber() string {
	now := s.now()
	return fmt.Sprintf("SUB-%d-%06d", now.Year(), now.UnixMilli()%1000000)
}

func (s *subscriptionService) ValidateCoupon(ctx context.Context, code string, planID uuid.UUID) (*models.Coupon, error) {
	coupon, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("lookup coupon: %w", err)
	}
	if coupon == nil {
		return nil, common.NotFoundError("coupon")
	}
	if !coupon.IsActive {
		return nil, common.ValidationError("coupon is not active")
	}
	if coupon.ExpiryDate != nil && coupon.ExpiryDate.Before(s.now()) {
		return nil, common.ValidationError("coupon has expired")
	}
	if coupon.MaxUsage > 0 && coupon.CurrentUsage >= coupon.MaxUsage {
		return nil, common.ConflictError("coupon usage limit reached")
	}
	if !coupon.AppliesTo(planID) {
		return nil, common.ValidationError("coupon does not apply to this plan")
	}
	return coupon, nil
}

func (s *subscriptionService) Submit(ctx context.Context, in *SubmitSubscriptionInput) (*models.SubscriptionPayment, error) {
	if !in.Method.Valid() {
		return nil, common.ValidationError("unknown payment method %q", in.Method)
	}

	plan, err := s.planRepo.GetByID(ctx, in.PlanID)
	if err != nil {
		return nil, fmt.Errorf("lookup plan: %w", err)
	}
	if plan == nil {
		return nil, common.NotFoundError("subscription plan")
	}
	if !plan.IsActive {
		return nil, common.ValidationError("plan is no longer offered")
	}

	clinic, err := s.clinicRepo.GetByID(ctx, in.ClinicID)
	if err != nil {
		return nil, fmt.Errorf("lookup clinic: %w", err)
	}
	if clinic == nil {
		return nil, common.NotFoundError("clinic")
	}
	if clinic.OwnerUserID != in.UserID {
		return nil, common.ForbiddenError("clinic does not belong to the submitting user")
	}

	var coupon *models.Coupon
	var couponCode *string
	if in.CouponCode != "" {
		coupon, err = s.ValidateCoupon(ctx, in.CouponCode, in.PlanID)
		if err != nil {
			return nil, err
		}
		couponCode = &coupon.Code
	}

	amount := CalculateFinalPrice(plan.Price, coupon)

	payment := &models.SubscriptionPayment{
		ID:             uuid.New(),
		PaymentNumber:  s.generatePaymentNumber(),
		ClinicID:       in.ClinicID,
		UserID:         in.UserID,
		PlanID:         in.PlanID,
		Amount:         amount,
		DurationMonths: plan.DurationMonths,
		Method:         in.Method,
		TransferNumber: in.TransferNumber,
		SenderName:     in.SenderName,
		ReceiptImage:   in.ReceiptImage,
		CouponCode:     couponCode,
	}

	switch in.Method {
	case models.PaymentStripe:
		if in.StripePaymentIntentID == "" {
			return nil, common.ValidationError("stripe payment confirmation id is required")
		}
		intent, err := s.stripeSvc.ConfirmPaymentIntent(ctx, in.StripePaymentIntentID)
		if err != nil {
			return nil, fmt.Errorf("confirm stripe payment: %w", err)
		}
		if intent.Status != "succeeded" {
			return nil, common.ValidationError("stripe payment is not confirmed (status %q)", intent.Status)
		}
		now := s.now()
		expires := SubscriptionWindow(now, plan.DurationMonths)
		payment.Status = models.PaymentActivated
		payment.ActivatedAt = &now
		payment.ExpiresAt = &expires
	case models.PaymentZainCash, models.PaymentCashAgents, models.PaymentRafidain, models.PaymentBankTransfer:
		if common.SafeString(in.TransferNumber) == "" {
			return nil, common.ValidationError("transfer number is required for manual payment methods")
		}
		payment.Status = models.PaymentPendingVerification
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("create subscription payment: %w", err)
	}

	if coupon != nil {
		ok, err := s.couponRepo.IncrementUsage(ctx, coupon.ID)
		if err != nil {
			return nil, fmt.Errorf("redeem coupon: %w", err)
		}
		if !ok {
			return nil, common.ConflictError("coupon usage limit reached")
		}
	}

	// Card-rail payments carry a confirmed charge, so the clinic window
	// opens immediately instead of waiting for review.
	if payment.Status == models.PaymentActivated {
		if err := s.applySubscription(ctx, payment, plan); err != nil {
			return nil, err
		}
	}

	return payment, nil
}

// applySubscription updates the payment (when still pending) and the clinic
// row in one transaction.
func (s *subscriptionService) applySubscription(ctx context.Context, payment *models.SubscriptionPayment, plan *models.SubscriptionPlan) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	start := *payment.ActivatedAt
	end := *payment.ExpiresAt
	if err := s.clinicRepo.ActivateSubscriptionTx(ctx, tx, payment.ClinicID, plan.Tier, plan.CanBePromoted, plan.MaxPriorityLevel, start, end); err != nil {
		return fmt.Errorf("activate clinic subscription: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit subscription activation: %w", err)
	}

	s.invalidateDirectory(ctx)
	return nil
}

func (s *subscriptionService) Approve(ctx context.Context, paymentID, reviewerID uuid.UUID) (*models.SubscriptionPayment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("lookup payment: %w", err)
	}
	if payment == nil {
		return nil, common.NotFoundError("subscription payment")
	}
	if payment.Status != models.PaymentPendingVerification {
		return nil, common.ConflictError("payment is already %s", payment.Status)
	}

	plan, err := s.planRepo.GetByID(ctx, payment.PlanID)
	if err != nil {
		return nil, fmt.Errorf("lookup plan: %w", err)
	}
	if plan == nil {
		return nil, common.NotFoundError("subscription plan")
	}

	now := s.now()
	expires := SubscriptionWindow(now, payment.DurationMonths)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// The repo re-checks the pending status inside the transaction; the
	// precheck above only produces a friendlier error message.
	ok, err := s.paymentRepo.ApproveTx(ctx, tx, paymentID, reviewerID, now, expires)
	if err != nil {
		return nil, fmt.Errorf("approve payment: %w", err)
	}
	if !ok {
		return nil, common.ConflictError("payment is no longer pending verification")
	}

	if err := s.clinicRepo.ActivateSubscriptionTx(ctx, tx, payment.ClinicID, plan.Tier, plan.CanBePromoted, plan.MaxPriorityLevel, now, expires); err != nil {
		return nil, fmt.Errorf("activate clinic subscription: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit approval: %w", err)
	}

	s.invalidateDirectory(ctx)
	s.notify(ctx, payment.UserID, models.NotificationSubscriptionApproved,
		"Subscription activated",
		fmt.Sprintf("Your subscription payment %s was approved and is active until %s.", payment.PaymentNumber, expires.Format("2006-01-02")))

	return s.paymentRepo.GetByID(ctx, paymentID)
}

func (s *subscriptionService) Reject(ctx context.Context, paymentID, reviewerID uuid.UUID, reason string) (*models.SubscriptionPayment, error) {
	if err := common.ValidateRequiredString(reason, "rejection reason"); err != nil {
		return nil, err
	}

	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("lookup payment: %w", err)
	}
	if payment == nil {
		return nil, common.NotFoundError("subscription payment")
	}

	ok, err := s.paymentRepo.Reject(ctx, paymentID, reviewerID, reason)
	if err != nil {
		return nil, fmt.Errorf("reject payment: %w", err)
	}
	if !ok {
		return nil, common.ConflictError("payment is already %s", payment.Status)
	}

	// A rejection never touches the clinic row: an earlier, still-valid
	// subscription must survive a rejected renewal.
	s.notify(ctx, payment.UserID, models.NotificationSubscriptionRejected,
		"Subscription request rejected",
		fmt.Sprintf("Your subscription payment %s was rejected: %s", payment.PaymentNumber, reason))

	return s.paymentRepo.GetByID(ctx, paymentID)
}

func (s *subscriptionService) ListPending(ctx context.Context, limit, offset int) ([]*models.SubscriptionPayment, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.paymentRepo.ListByStatus(ctx, models.PaymentPendingVerification, limit, offset)
}

func (s *subscriptionService) GetByID(ctx context.Context, id uuid.UUID) (*models.SubscriptionPayment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, common.NotFoundError("subscription payment")
	}
	return payment, nil
}

func (s *subscriptionService) invalidateDirectory(ctx context.Context) {
	if err := s.cacheSvc.InvalidateDirectory(ctx); err != nil {
		log.Printf("WARN: directory cache invalidation failed: %v", err)
	}
}

func (s *subscriptionService) notify(ctx context.Context, recipientID uuid.UUID, kind, title, body string) {
	n := &models.Notification{
		ID:          uuid.New(),
		RecipientID: recipientID,
		Type:        kind,
		Title:       title,
		Body:        body,
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		log.Printf("WARN: failed to store notification: %v", err)
	}
}
