package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dentamart/internal/common"
	"dentamart/internal/models"
	"dentamart/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockSubscriptionService struct {
	mock.Mock
}

func (m *MockSubscriptionService) Submit(ctx context.Context, in *services.SubmitSubscriptionInput) (*models.SubscriptionPayment, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubscriptionPayment), args.Error(1)
}

func (m *MockSubscriptionService) Approve(ctx context.Context, paymentID, reviewerID uuid.UUID) (*models.SubscriptionPayment, error) {
	args := m.Called(ctx, paymentID, reviewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubscriptionPayment), args.Error(1)
}

func (m *MockSubscriptionService) Reject(ctx context.Context, paymentID, reviewerID uuid.UUID, reason string) (*models.SubscriptionPayment, error) {
	args := m.Called(ctx, paymentID, reviewerID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubscriptionPayment), args.Error(1)
}

func (m *MockSubscriptionService) ValidateCoupon(ctx context.Context, code string, planID uuid.UUID) (*models.Coupon, error) {
	args := m.Called(ctx, code, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Coupon), args.Error(1)
}

func (m *MockSubscriptionService) ListPending(ctx context.Context, limit, offset int) ([]*models.SubscriptionPayment, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SubscriptionPayment), args.Error(1)
}

func (m *MockSubscriptionService) GetByID(ctx context.Context, id uuid.UUID) (*models.SubscriptionPayment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubscriptionPayment), args.Error(1)
}

type MockPlanService struct {
	mock.Mock
}

func (m *MockPlanService) CreatePlan(ctx context.Context, plan *models.SubscriptionPlan) (*models.SubscriptionPlan, error) {
	args := m.Called(ctx, plan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubscriptionPlan), args.Error(1)
}

func (m *MockPlanService) UpdatePlan(ctx context.Context, plan *models.SubscriptionPlan) (*models.SubscriptionPlan, error) {
	args := m.Called(ctx, plan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubscriptionPlan), args.Error(1)
}

func (m *MockPlanService) GetPlan(ctx context.Context, id uuid.UUID) (*models.SubscriptionPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubscriptionPlan), args.Error(1)
}

func (m *MockPlanService) ListActivePlans(ctx context.Context) ([]*models.SubscriptionPlan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SubscriptionPlan), args.Error(1)
}

func (m *MockPlanService) CreateCoupon(ctx context.Context, coupon *models.Coupon) (*models.Coupon, error) {
	args := m.Called(ctx, coupon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Coupon), args.Error(1)
}

func (m *MockPlanService) ListCoupons(ctx context.Context, limit, offset int) ([]*models.Coupon, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Coupon), args.Error(1)
}

func (m *MockPlanService) SetCouponActive(ctx context.Context, id uuid.UUID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

type MockMinioService struct {
	mock.Mock
}

func (m *MockMinioService) UploadImage(ctx context.Context, bucketName string, reader io.Reader, objectSize int64, contentType, ext string) (string, error) {
	args := m.Called(ctx, bucketName, reader, objectSize, contentType, ext)
	return args.String(0), args.Error(1)
}

func (m *MockMinioService) GetPresignedURL(bucketName, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(bucketName, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockMinioService) DeleteImage(ctx context.Context, bucketName, objectName string) error {
	args := m.Called(ctx, bucketName, objectName)
	return args.Error(0)
}

func (m *MockMinioService) EnsureBucketExists(ctx context.Context, bucketName string) error {
	args := m.Called(ctx, bucketName)
	return args.Error(0)
}

type SubscriptionHandlersTestSuite struct {
	suite.Suite
	subscriptionSvc *MockSubscriptionService
	planSvc         *MockPlanService
	minioSvc        *MockMinioService
	handlers        *SubscriptionHandlers
	echo            *echo.Echo

	userID   uuid.UUID
	clinicID uuid.UUID
	planID   uuid.UUID
}

func (s *SubscriptionHandlersTestSuite) SetupTest() {
	s.subscriptionSvc = new(MockSubscriptionService)
	s.planSvc = new(MockPlanService)
	s.minioSvc = new(MockMinioService)
	s.handlers = NewSubscriptionHandlers(s.subscriptionSvc, s.planSvc, s.minioSvc)
	s.echo = echo.New()

	s.userID = uuid.New()
	s.clinicID = uuid.New()
	s.planID = uuid.New()
}

func TestSubscriptionHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(SubscriptionHandlersTestSuite))
}

// pngBytes is a valid PNG signature plus padding, enough for content sniffing.
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

func (s *SubscriptionHandlersTestSuite) subscribeRequest(fields map[string]string, withReceipt bool) (*httptest.ResponseRecorder, echo.Context) {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		_ = writer.WriteField(k, v)
	}
	if withReceipt {
		part, err := writer.CreateFormFile("receipt_image", "receipt.png")
		assert.NoError(s.T(), err)
		_, err = part.Write(pngBytes)
		assert.NoError(s.T(), err)
	}
	assert.NoError(s.T(), writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/doctor/subscribe", body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	req = req.WithContext(context.WithValue(req.Context(), common.UserIDKey, s.userID))
	rec := httptest.NewRecorder()
	return rec, s.echo.NewContext(req, rec)
}

func (s *SubscriptionHandlersTestSuite) TestSubscribe_ManualRailWithoutReceipt() {
	var captured *services.SubmitSubscriptionInput
	s.subscriptionSvc.On("Submit", mock.Anything, mock.AnythingOfType("*services.SubmitSubscriptionInput")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*services.SubmitSubscriptionInput)
		}).
		Return(&models.SubscriptionPayment{
			ID:     uuid.New(),
			Status: models.PaymentPendingVerification,
		}, nil)

	rec, c := s.subscribeRequest(map[string]string{
		"clinic_id":       s.clinicID.String(),
		"plan_id":         s.planID.String(),
		"payment_method":  "zain_cash",
		"transfer_number": "ZC-9921",
	}, false)

	err := s.handlers.Subscribe(c)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusCreated, rec.Code)
	assert.NotNil(s.T(), captured)
	assert.Nil(s.T(), captured.ReceiptImage)
	assert.Equal(s.T(), "ZC-9921", *captured.TransferNumber)
	s.minioSvc.AssertNotCalled(s.T(), "UploadImage",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *SubscriptionHandlersTestSuite) TestSubscribe_ManualRailWithReceipt() {
	s.minioSvc.On("UploadImage", mock.Anything, services.BucketReceipts, mock.Anything, mock.Anything, "image/png", "receipt.png").
		Return("receipts/abc.png", nil)

	var captured *services.SubmitSubscriptionInput
	s.subscriptionSvc.On("Submit", mock.Anything, mock.AnythingOfType("*services.SubmitSubscriptionInput")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*services.SubmitSubscriptionInput)
		}).
		Return(&models.SubscriptionPayment{
			ID:     uuid.New(),
			Status: models.PaymentPendingVerification,
		}, nil)

	rec, c := s.subscribeRequest(map[string]string{
		"clinic_id":       s.clinicID.String(),
		"plan_id":         s.planID.String(),
		"payment_method":  "bank_transfer",
		"transfer_number": "TRX-100",
	}, true)

	err := s.handlers.Subscribe(c)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusCreated, rec.Code)
	assert.NotNil(s.T(), captured)
	assert.NotNil(s.T(), captured.ReceiptImage)
	assert.Equal(s.T(), "receipts/abc.png", *captured.ReceiptImage)
}

func (s *SubscriptionHandlersTestSuite) TestSubscribe_StripeRailSkipsReceiptHandling() {
	s.subscriptionSvc.On("Submit", mock.Anything, mock.AnythingOfType("*services.SubmitSubscriptionInput")).
		Return(&models.SubscriptionPayment{
			ID:     uuid.New(),
			Status: models.PaymentActivated,
		}, nil)

	rec, c := s.subscribeRequest(map[string]string{
		"clinic_id":                s.clinicID.String(),
		"plan_id":                  s.planID.String(),
		"payment_method":           "stripe",
		"stripe_payment_intent_id": "pi_123",
	}, false)

	err := s.handlers.Subscribe(c)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusCreated, rec.Code)
	s.minioSvc.AssertNotCalled(s.T(), "UploadImage",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *SubscriptionHandlersTestSuite) TestSubscribe_InvalidClinicID() {
	rec, c := s.subscribeRequest(map[string]string{
		"clinic_id":      "not-a-uuid",
		"plan_id":        s.planID.String(),
		"payment_method": "zain_cash",
	}, false)

	err := s.handlers.Subscribe(c)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), http.StatusBadRequest, rec.Code)
	s.subscriptionSvc.AssertNotCalled(s.T(), "Submit", mock.Anything, mock.Anything)
}
