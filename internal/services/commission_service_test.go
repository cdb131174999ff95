package services

import (
	"context"
	"testing"
	"time"

	"dentamart/internal/common"
	"dentamart/internal/models"
	"dentamart/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CommissionServiceTestSuite struct {
	suite.Suite
	supplierRepo  *MockSupplierRepository
	settingRepo   *MockCommissionSettingRepository
	invoiceRepo   *MockCommissionInvoiceRepository
	orderItemRepo *MockOrderItemRepository
	service       CommissionService
	ctx           context.Context
	supplierID    uuid.UUID
}

func (s *CommissionServiceTestSuite) SetupTest() {
	s.supplierRepo = new(MockSupplierRepository)
	s.settingRepo = new(MockCommissionSettingRepository)
	s.invoiceRepo = new(MockCommissionInvoiceRepository)
	s.orderItemRepo = new(MockOrderItemRepository)
	s.service = NewCommissionService(s.supplierRepo, s.settingRepo, s.invoiceRepo, s.orderItemRepo)
	s.ctx = context.Background()
	s.supplierID = uuid.New()
}

func TestCommissionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CommissionServiceTestSuite))
}

func (s *CommissionServiceTestSuite) supplier(endorsed bool) *models.Supplier {
	return &models.Supplier{
		ID:            s.supplierID,
		Name:          "Tigris Dental Supply",
		UnionEndorsed: endorsed,
		IsActive:      true,
	}
}

func (s *CommissionServiceTestSuite) TestEffectiveRate_UnionEndorsedIsZero() {
	s.supplierRepo.On("GetByID", s.ctx, s.supplierID).Return(s.supplier(true), nil)

	rate, err := s.service.EffectiveRate(s.ctx, s.supplierID)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 0.0, rate)
	// The endorsement override wins without consulting settings.
	s.settingRepo.AssertNotCalled(s.T(), "GetBySupplier", mock.Anything, mock.Anything)
}

func (s *CommissionServiceTestSuite) TestEffectiveRate_ConfiguredSetting() {
	s.supplierRepo.On("GetByID", s.ctx, s.supplierID).Return(s.supplier(false), nil)
	s.settingRepo.On("GetBySupplier", s.ctx, s.supplierID).Return(&models.CommissionSetting{
		SupplierID:     s.supplierID,
		CommissionRate: 7.5,
		IsActive:       true,
	}, nil)

	rate, err := s.service.EffectiveRate(s.ctx, s.supplierID)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 7.5, rate)
}

func (s *CommissionServiceTestSuite) TestEffectiveRate_InactiveSettingFallsBackToDefault() {
	s.supplierRepo.On("GetByID", s.ctx, s.supplierID).Return(s.supplier(false), nil)
	s.settingRepo.On("GetBySupplier", s.ctx, s.supplierID).Return(&models.CommissionSetting{
		SupplierID:     s.supplierID,
		CommissionRate: 7.5,
		IsActive:       false,
	}, nil)

	rate, err := s.service.EffectiveRate(s.ctx, s.supplierID)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), models.DefaultCommissionRate, rate)
}

func (s *CommissionServiceTestSuite) TestEffectiveRate_DefaultWithoutSetting() {
	s.supplierRepo.On("GetByID", s.ctx, s.supplierID).Return(s.supplier(false), nil)
	s.settingRepo.On("GetBySupplier", s.ctx, s.supplierID).Return(nil, nil)

	rate, err := s.service.EffectiveRate(s.ctx, s.supplierID)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 10.0, rate)
}

func (s *CommissionServiceTestSuite) TestEffectiveRate_UnknownSupplier() {
	s.supplierRepo.On("GetByID", s.ctx, s.supplierID).Return(nil, nil)

	_, err := s.service.EffectiveRate(s.ctx, s.supplierID)
	assert.ErrorIs(s.T(), err, common.ErrNotFound)
}

func (s *CommissionServiceTestSuite) TestComputeLineCommission() {
	assert.Equal(s.T(), 10000.0, s.service.ComputeLineCommission(10, 100000, 1))
	assert.Equal(s.T(), 15000.0, s.service.ComputeLineCommission(10, 50000, 3))
	assert.Equal(s.T(), 0.0, s.service.ComputeLineCommission(0, 100000, 5))
}

func (s *CommissionServiceTestSuite) TestGenerateInvoice() {
	periodStart := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	s.supplierRepo.On("GetByID", s.ctx, s.supplierID).Return(s.supplier(false), nil)
	s.invoiceRepo.On("CountOverlapping", s.ctx, s.supplierID, periodStart, periodEnd).Return(0, nil)
	s.orderItemRepo.On("AggregateCommission", s.ctx, s.supplierID, periodStart, periodEnd).Return(&repositories.CommissionAggregate{
		TotalCommission: 125000,
		OrderCount:      4,
	}, nil)
	s.invoiceRepo.On("NextInvoiceNumber", s.ctx, mock.AnythingOfType("int")).Return("INV-2026-007", nil)
	s.invoiceRepo.On("Create", s.ctx, mock.AnythingOfType("*models.CommissionInvoice")).Return(nil)

	invoice, err := s.service.GenerateInvoice(s.ctx, s.supplierID, periodStart, periodEnd)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "INV-2026-007", invoice.InvoiceNumber)
	assert.Equal(s.T(), 125000.0, invoice.TotalCommission)
	assert.Equal(s.T(), 4, invoice.OrderCount)
	assert.Equal(s.T(), models.InvoicePending, invoice.Status)
	assert.Equal(s.T(), periodEnd.AddDate(0, 0, 15), invoice.DueDate)
}

func (s *CommissionServiceTestSuite) TestGenerateInvoice_OverlappingPeriodRejected() {
	periodStart := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	s.supplierRepo.On("GetByID", s.ctx, s.supplierID).Return(s.supplier(false), nil)
	s.invoiceRepo.On("CountOverlapping", s.ctx, s.supplierID, periodStart, periodEnd).Return(1, nil)

	_, err := s.service.GenerateInvoice(s.ctx, s.supplierID, periodStart, periodEnd)
	assert.ErrorIs(s.T(), err, common.ErrConflict)
	s.invoiceRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *CommissionServiceTestSuite) TestGenerateInvoice_InvertedPeriodRejected() {
	periodStart := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	_, err := s.service.GenerateInvoice(s.ctx, s.supplierID, periodStart, periodEnd)
	assert.ErrorIs(s.T(), err, common.ErrValidation)
}

func (s *CommissionServiceTestSuite) TestGenerateInvoice_ZeroCommissionStillInvoices() {
	periodStart := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	s.supplierRepo.On("GetByID", s.ctx, s.supplierID).Return(s.supplier(true), nil)
	s.invoiceRepo.On("CountOverlapping", s.ctx, s.supplierID, periodStart, periodEnd).Return(0, nil)
	s.orderItemRepo.On("AggregateCommission", s.ctx, s.supplierID, periodStart, periodEnd).Return(&repositories.CommissionAggregate{}, nil)
	s.invoiceRepo.On("NextInvoiceNumber", s.ctx, mock.AnythingOfType("int")).Return("INV-2026-008", nil)
	s.invoiceRepo.On("Create", s.ctx, mock.AnythingOfType("*models.CommissionInvoice")).Return(nil)

	invoice, err := s.service.GenerateInvoice(s.ctx, s.supplierID, periodStart, periodEnd)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 0.0, invoice.TotalCommission)
}

func (s *CommissionServiceTestSuite) TestMarkInvoicePaid_TerminalStateRejected() {
	invoiceID := uuid.New()
	s.invoiceRepo.On("GetByID", s.ctx, invoiceID).Return(&models.CommissionInvoice{
		ID:     invoiceID,
		Status: models.InvoicePaid,
	}, nil)
	s.invoiceRepo.On("MarkPaid", s.ctx, invoiceID, 1000.0, "bank_transfer", "ref-1", mock.AnythingOfType("time.Time")).Return(false, nil)

	_, err := s.service.MarkInvoicePaid(s.ctx, invoiceID, 1000, "bank_transfer", "ref-1")
	assert.ErrorIs(s.T(), err, common.ErrConflict)
}

func (s *CommissionServiceTestSuite) TestCancelInvoice() {
	invoiceID := uuid.New()
	pending := &models.CommissionInvoice{ID: invoiceID, Status: models.InvoicePending}
	cancelled := &models.CommissionInvoice{ID: invoiceID, Status: models.InvoiceCancelled}

	s.invoiceRepo.On("GetByID", s.ctx, invoiceID).Return(pending, nil).Once()
	s.invoiceRepo.On("Cancel", s.ctx, invoiceID).Return(true, nil)
	s.invoiceRepo.On("GetByID", s.ctx, invoiceID).Return(cancelled, nil).Once()

	invoice, err := s.service.CancelInvoice(s.ctx, invoiceID)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), models.InvoiceCancelled, invoice.Status)
}

func (s *CommissionServiceTestSuite) TestSetUnionEndorsement_RequiresCertificate() {
	s.supplierRepo.On("GetByID", s.ctx, s.supplierID).Return(s.supplier(false), nil)

	_, err := s.service.SetUnionEndorsement(s.ctx, s.supplierID, true, nil)
	assert.ErrorIs(s.T(), err, common.ErrValidation)
}

func (s *CommissionServiceTestSuite) TestSetUnionEndorsement_ClearsCertificateOnRevoke() {
	cert := "UC-1234"
	s.supplierRepo.On("GetByID", s.ctx, s.supplierID).Return(s.supplier(true), nil)
	s.supplierRepo.On("SetUnionEndorsement", s.ctx, s.supplierID, false, (*string)(nil)).Return(nil)

	_, err := s.service.SetUnionEndorsement(s.ctx, s.supplierID, false, &cert)
	assert.NoError(s.T(), err)
	s.supplierRepo.AssertExpectations(s.T())
}

func (s *CommissionServiceTestSuite) TestUpdateCommissionSetting_EndorsedSupplierRejected() {
	s.supplierRepo.On("GetByID", s.ctx, s.supplierID).Return(s.supplier(true), nil)

	_, err := s.service.UpdateCommissionSetting(s.ctx, s.supplierID, 5, 0, nil)
	assert.ErrorIs(s.T(), err, common.ErrValidation)
	s.settingRepo.AssertNotCalled(s.T(), "Upsert", mock.Anything, mock.Anything)
}

func (s *CommissionServiceTestSuite) TestUpdateCommissionSetting_RateBounds() {
	_, err := s.service.UpdateCommissionSetting(s.ctx, s.supplierID, -1, 0, nil)
	assert.ErrorIs(s.T(), err, common.ErrValidation)

	_, err = s.service.UpdateCommissionSetting(s.ctx, s.supplierID, 101, 0, nil)
	assert.ErrorIs(s.T(), err, common.ErrValidation)
}
