package services

import (
	"context"
	"time"

	"dentamart/internal/models"
	"dentamart/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type MockClinicRepository struct {
	mock.Mock
}

func (m *MockClinicRepository) Create(ctx context.Context, clinic *models.Clinic) error {
	args := m.Called(ctx, clinic)
	return args.Error(0)
}

func (m *MockClinicRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Clinic, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Clinic), args.Error(1)
}

func (m *MockClinicRepository) Update(ctx context.Context, clinic *models.Clinic) error {
	args := m.Called(ctx, clinic)
	return args.Error(0)
}

func (m *MockClinicRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockClinicRepository) Find(ctx context.Context, filter *models.ClinicFilter) ([]*models.Clinic, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Clinic), args.Error(1)
}

func (m *MockClinicRepository) ListExpired(ctx context.Context, asOf time.Time) ([]*models.Clinic, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Clinic), args.Error(1)
}

func (m *MockClinicRepository) ActivateSubscriptionTx(ctx context.Context, tx pgx.Tx, clinicID uuid.UUID, tier string, promoted bool, priority int, start, end time.Time) error {
	args := m.Called(ctx, tx, clinicID, tier, promoted, priority, start, end)
	return args.Error(0)
}

func (m *MockClinicRepository) Downgrade(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockSubscriptionPaymentRepository struct {
	mock.Mock
}

func (m *MockSubscriptionPaymentRepository) Create(ctx context.Context, payment *models.SubscriptionPayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockSubscriptionPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SubscriptionPayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubscriptionPayment), args.Error(1)
}

func (m *MockSubscriptionPaymentRepository) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*models.SubscriptionPayment, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SubscriptionPayment), args.Error(1)
}

func (m *MockSubscriptionPaymentRepository) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*models.SubscriptionPayment, error) {
	args := m.Called(ctx, clinicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SubscriptionPayment), args.Error(1)
}

func (m *MockSubscriptionPaymentRepository) ApproveTx(ctx context.Context, tx pgx.Tx, id, reviewerID uuid.UUID, verifiedAt, expiresAt time.Time) (bool, error) {
	args := m.Called(ctx, tx, id, reviewerID, verifiedAt, expiresAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubscriptionPaymentRepository) Reject(ctx context.Context, id, reviewerID uuid.UUID, reason string) (bool, error) {
	args := m.Called(ctx, id, reviewerID, reason)
	return args.Bool(0), args.Error(1)
}

type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) Create(ctx context.Context, plan *models.SubscriptionPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockPlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SubscriptionPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubscriptionPlan), args.Error(1)
}

func (m *MockPlanRepository) Update(ctx context.Context, plan *models.SubscriptionPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockPlanRepository) List(ctx context.Context, activeOnly bool) ([]*models.SubscriptionPlan, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SubscriptionPlan), args.Error(1)
}

type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) Create(ctx context.Context, coupon *models.Coupon) error {
	args := m.Called(ctx, coupon)
	return args.Error(0)
}

func (m *MockCouponRepository) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Coupon), args.Error(1)
}

func (m *MockCouponRepository) IncrementUsage(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCouponRepository) List(ctx context.Context, limit, offset int) ([]*models.Coupon, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Coupon), args.Error(1)
}

func (m *MockCouponRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]*models.Notification, error) {
	args := m.Called(ctx, recipientID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) Create(ctx context.Context, supplier *models.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) GetByName(ctx context.Context, name string) (*models.Supplier, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) Update(ctx context.Context, supplier *models.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) List(ctx context.Context, limit, offset int) ([]*models.Supplier, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) SetUnionEndorsement(ctx context.Context, id uuid.UUID, endorsed bool, certificateNumber *string) error {
	args := m.Called(ctx, id, endorsed, certificateNumber)
	return args.Error(0)
}

type MockCommissionSettingRepository struct {
	mock.Mock
}

func (m *MockCommissionSettingRepository) GetBySupplier(ctx context.Context, supplierID uuid.UUID) (*models.CommissionSetting, error) {
	args := m.Called(ctx, supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CommissionSetting), args.Error(1)
}

func (m *MockCommissionSettingRepository) Upsert(ctx context.Context, setting *models.CommissionSetting) error {
	args := m.Called(ctx, setting)
	return args.Error(0)
}

func (m *MockCommissionSettingRepository) Delete(ctx context.Context, supplierID uuid.UUID) error {
	args := m.Called(ctx, supplierID)
	return args.Error(0)
}

type MockCommissionInvoiceRepository struct {
	mock.Mock
}

func (m *MockCommissionInvoiceRepository) Create(ctx context.Context, invoice *models.CommissionInvoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockCommissionInvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CommissionInvoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CommissionInvoice), args.Error(1)
}

func (m *MockCommissionInvoiceRepository) ListBySupplier(ctx context.Context, supplierID uuid.UUID, limit, offset int) ([]*models.CommissionInvoice, error) {
	args := m.Called(ctx, supplierID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CommissionInvoice), args.Error(1)
}

func (m *MockCommissionInvoiceRepository) CountOverlapping(ctx context.Context, supplierID uuid.UUID, periodStart, periodEnd time.Time) (int, error) {
	args := m.Called(ctx, supplierID, periodStart, periodEnd)
	return args.Int(0), args.Error(1)
}

func (m *MockCommissionInvoiceRepository) NextInvoiceNumber(ctx context.Context, year int) (string, error) {
	args := m.Called(ctx, year)
	return args.String(0), args.Error(1)
}

func (m *MockCommissionInvoiceRepository) MarkPaid(ctx context.Context, id uuid.UUID, paidAmount float64, method, reference string, paidAt time.Time) (bool, error) {
	args := m.Called(ctx, id, paidAmount, method, reference, paidAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockCommissionInvoiceRepository) Cancel(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCommissionInvoiceRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]*models.CommissionInvoice, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CommissionInvoice), args.Error(1)
}

type MockOrderItemRepository struct {
	mock.Mock
}

func (m *MockOrderItemRepository) AggregateCommission(ctx context.Context, supplierID uuid.UUID, periodStart, periodEnd time.Time) (*repositories.CommissionAggregate, error) {
	args := m.Called(ctx, supplierID, periodStart, periodEnd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.CommissionAggregate), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetDirectoryPage(ctx context.Context, key string) ([]*models.Clinic, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Clinic), args.Error(1)
}

func (m *MockCacheService) SetDirectoryPage(ctx context.Context, key string, clinics []*models.Clinic, ttl time.Duration) error {
	args := m.Called(ctx, key, clinics, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateDirectory(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) GetPlans(ctx context.Context) ([]*models.SubscriptionPlan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SubscriptionPlan), args.Error(1)
}

func (m *MockCacheService) SetPlans(ctx context.Context, plans []*models.SubscriptionPlan, ttl time.Duration) error {
	args := m.Called(ctx, plans, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidatePlans(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) GetFeedPage(ctx context.Context, page int) ([]*models.Post, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockCacheService) SetFeedPage(ctx context.Context, page int, posts []*models.Post, ttl time.Duration) error {
	args := m.Called(ctx, page, posts, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateFeed(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockStripeService struct {
	mock.Mock
}

func (m *MockStripeService) ConfirmPaymentIntent(ctx context.Context, paymentIntentID string) (*PaymentIntent, error) {
	args := m.Called(ctx, paymentIntentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PaymentIntent), args.Error(1)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateWithItems(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByClinic(ctx context.Context, clinicID uuid.UUID, limit, offset int) ([]*models.Order, error) {
	args := m.Called(ctx, clinicID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListBySupplier(ctx context.Context, supplierID uuid.UUID, limit, offset int) ([]*models.Order, error) {
	args := m.Called(ctx, supplierID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Search(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	args := m.Called(ctx, id, qty)
	return args.Bool(0), args.Error(1)
}
