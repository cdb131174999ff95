package services

import (
	"context"
	"testing"

	"dentamart/internal/common"
	"dentamart/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type OrderServiceTestSuite struct {
	suite.Suite
	orderRepo    *MockOrderRepository
	productRepo  *MockProductRepository
	supplierRepo *MockSupplierRepository
	settingRepo  *MockCommissionSettingRepository
	service      OrderService
	ctx          context.Context

	clinicID   uuid.UUID
	supplierID uuid.UUID
	productID  uuid.UUID
}

func (s *OrderServiceTestSuite) SetupTest() {
	s.orderRepo = new(MockOrderRepository)
	s.productRepo = new(MockProductRepository)
	s.supplierRepo = new(MockSupplierRepository)
	s.settingRepo = new(MockCommissionSettingRepository)

	commissionSvc := NewCommissionService(s.supplierRepo, s.settingRepo,
		new(MockCommissionInvoiceRepository), new(MockOrderItemRepository))
	s.service = NewOrderService(s.orderRepo, s.productRepo, s.supplierRepo, commissionSvc)

	s.ctx = context.Background()
	s.clinicID = uuid.New()
	s.supplierID = uuid.New()
	s.productID = uuid.New()
}

func TestOrderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

func (s *OrderServiceTestSuite) supplier(endorsed bool) *models.Supplier {
	return &models.Supplier{
		ID:            s.supplierID,
		Name:          "Tigris Dental Supplies",
		UnionEndorsed: endorsed,
		IsActive:      true,
	}
}

func (s *OrderServiceTestSuite) product(price float64, stock int) *models.Product {
	return &models.Product{
		ID:         s.productID,
		SupplierID: s.supplierID,
		Name:       "Composite Resin Kit",
		Price:      price,
		Stock:      stock,
		IsActive:   true,
	}
}

func (s *OrderServiceTestSuite) TestCreate_SnapshotsDefaultCommission() {
	s.supplierRepo.On("GetByID", s.ctx, s.supplierID).Return(s.supplier(false), nil)
	s.settingRepo.On("GetBySupplier", s.ctx, s.supplierID).Return(nil, nil)
	s.productRepo.On("GetByID", s.ctx, s.productID).Return(s.product(40000, 10), nil)
	s.productRepo.On("DecrementStock", s.ctx, s.productID, 3).Return(true, nil)
	s.orderRepo.On("CreateWithItems", s.ctx, mock.AnythingOfType("*models.Order")).Return(nil)

	order, err := s.service.Create(s.ctx, &CreateOrderInput{
		ClinicID:   s.clinicID,
		SupplierID: s.supplierID,
		Items:      []CreateOrderItem{{ProductID: s.productID, Quantity: 3}},
	})
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), models.OrderPending, order.Status)
	assert.Equal(s.T(), 120000.0, order.TotalAmount)
	assert.Len(s.T(), order.Items, 1)
	assert.Equal(s.T(), models.DefaultCommissionRate, order.Items[0].CommissionRate)
	assert.Equal(s.T(), 12000.0, order.Items[0].CommissionAmount)
	assert.Equal(s.T(), 12000.0, order.TotalCommission)
}

func (s *OrderServiceTestSuite) TestCreate_EndorsedSupplierPaysNoCommission() {
	s.supplierRepo.On("GetByID", s.ctx, s.supplierID).Return(s.supplier(true), nil)
	s.productRepo.On("GetByID", s.ctx, s.productID).Return(s.product(40000, 10), nil)
	s.productRepo.On("DecrementStock", s.ctx, s.productID, 2).Return(true, nil)
	s.orderRepo.On("CreateWithItems", s.ctx, mock.AnythingOfType("*models.Order")).Return(nil)

	order, err := s.service.Create(s.ctx, &CreateOrderInput{
		ClinicID:   s.clinicID,
		SupplierID: s.supplierID,
		Items:      []CreateOrderItem{{ProductID: s.productID, Quantity: 2}},
	})
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 0.0, order.Items[0].CommissionRate)
	assert.Equal(s.T(), 0.0, order.TotalCommission)
	// Endorsement short-circuits before the per-supplier setting lookup.
	s.settingRepo.AssertNotCalled(s.T(), "GetBySupplier", mock.Anything, mock.Anything)
}

func (s *OrderServiceTestSuite) TestCreate_CustomSettingOverridesDefault() {
	s.supplierRepo.On("GetByID", s.ctx, s.supplierID).Return(s.supplier(false), nil)
	s.settingRepo.On("GetBySupplier", s.ctx, s.supplierID).Return(&models.CommissionSetting{
		SupplierID:     s.supplierID,
		CommissionRate: 5,
		IsActive:       true,
	}, nil)
	s.productRepo.On("GetByID", s.ctx, s.productID).Return(s.product(100000, 10), nil)
	s.productRepo.On("DecrementStock", s.ctx, s.productID, 1).Return(true, nil)
	s.orderRepo.On("CreateWithItems", s.ctx, mock.AnythingOfType("*models.Order")).Return(nil)

	order, err := s.service.Create(s.ctx, &CreateOrderInput{
		ClinicID:   s.clinicID,
		SupplierID: s.supplierID,
		Items:      []CreateOrderItem{{ProductID: s.productID, Quantity: 1}},
	})
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 5.0, order.Items[0].CommissionRate)
	assert.Equal(s.T(), 5000.0, order.Items[0].CommissionAmount)
}

func (s *OrderServiceTestSuite) TestCreate_InsufficientStock() {
	s.supplierRepo.On("GetByID", s.ctx, s.supplierID).Return(s.supplier(false), nil)
	s.settingRepo.On("GetBySupplier", s.ctx, s.supplierID).Return(nil, nil)
	s.productRepo.On("GetByID", s.ctx, s.productID).Return(s.product(40000, 1), nil)
	s.productRepo.On("DecrementStock", s.ctx, s.productID, 5).Return(false, nil)

	_, err := s.service.Create(s.ctx, &CreateOrderInput{
		ClinicID:   s.clinicID,
		SupplierID: s.supplierID,
		Items:      []CreateOrderItem{{ProductID: s.productID, Quantity: 5}},
	})
	assert.ErrorIs(s.T(), err, common.ErrConflict)
	s.orderRepo.AssertNotCalled(s.T(), "CreateWithItems", mock.Anything, mock.Anything)
}

func (s *OrderServiceTestSuite) TestCreate_ForeignProductRejected() {
	product := s.product(40000, 10)
	product.SupplierID = uuid.New()
	s.supplierRepo.On("GetByID", s.ctx, s.supplierID).Return(s.supplier(false), nil)
	s.settingRepo.On("GetBySupplier", s.ctx, s.supplierID).Return(nil, nil)
	s.productRepo.On("GetByID", s.ctx, s.productID).Return(product, nil)

	_, err := s.service.Create(s.ctx, &CreateOrderInput{
		ClinicID:   s.clinicID,
		SupplierID: s.supplierID,
		Items:      []CreateOrderItem{{ProductID: s.productID, Quantity: 1}},
	})
	assert.ErrorIs(s.T(), err, common.ErrValidation)
}

func (s *OrderServiceTestSuite) TestCreate_EmptyOrderRejected() {
	_, err := s.service.Create(s.ctx, &CreateOrderInput{
		ClinicID:   s.clinicID,
		SupplierID: s.supplierID,
	})
	assert.ErrorIs(s.T(), err, common.ErrValidation)
}

func (s *OrderServiceTestSuite) TestUpdateStatus_ValidTransition() {
	orderID := uuid.New()
	s.orderRepo.On("GetByID", s.ctx, orderID).Return(&models.Order{
		ID:     orderID,
		Status: models.OrderPending,
	}, nil)
	s.orderRepo.On("UpdateStatus", s.ctx, orderID, models.OrderConfirmed).Return(nil)

	order, err := s.service.UpdateStatus(s.ctx, orderID, models.OrderConfirmed)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), models.OrderConfirmed, order.Status)
}

func (s *OrderServiceTestSuite) TestUpdateStatus_InvalidTransition() {
	orderID := uuid.New()
	s.orderRepo.On("GetByID", s.ctx, orderID).Return(&models.Order{
		ID:     orderID,
		Status: models.OrderDelivered,
	}, nil)

	_, err := s.service.UpdateStatus(s.ctx, orderID, models.OrderCancelled)
	assert.ErrorIs(s.T(), err, common.ErrConflict)
	s.orderRepo.AssertNotCalled(s.T(), "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func (s *OrderServiceTestSuite) TestUpdateStatus_SkippingStatesRejected() {
	orderID := uuid.New()
	s.orderRepo.On("GetByID", s.ctx, orderID).Return(&models.Order{
		ID:     orderID,
		Status: models.OrderPending,
	}, nil)

	_, err := s.service.UpdateStatus(s.ctx, orderID, models.OrderDelivered)
	assert.ErrorIs(s.T(), err, common.ErrConflict)
}
