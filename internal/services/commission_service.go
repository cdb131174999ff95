package services

import (
	"context"
	"fmt"
	"time"

	"dentamart/internal/common"
	"dentamart/internal/models"
	"dentamart/internal/repositories"

	"github.com/google/uuid"
)

// invoiceDueGraceDays is the payment window granted after a billing period
// closes.
const invoiceDueGraceDays = 15

// CommissionService owns the platform commission policy. Union endorsement
// is an absolute zero-rate override; it beats any configured setting.
type CommissionService interface {
	EffectiveRate(ctx context.Context, supplierID uuid.UUID) (float64, error)
	ComputeLineCommission(rate, unitPrice float64, quantity int) float64
	GenerateInvoice(ctx context.Context, supplierID uuid.UUID, periodStart, periodEnd time.Time) (*models.CommissionInvoice, error)
	MarkInvoicePaid(ctx context.Context, invoiceID uuid.UUID, paidAmount float64, method, reference string) (*models.CommissionInvoice, error)
	CancelInvoice(ctx context.Context, invoiceID uuid.UUID) (*models.CommissionInvoice, error)
	SetUnionEndorsement(ctx context.Context, supplierID uuid.UUID, endorsed bool, certificateNumber *string) (*models.Supplier, error)
	UpdateCommissionSetting(ctx context.Context, supplierID uuid.UUID, rate, minCommission float64, notes *string) (*models.CommissionSetting, error)
	ListInvoices(ctx context.Context, supplierID uuid.UUID, limit, offset int) ([]*models.CommissionInvoice, error)
}

type commissionService struct {
	supplierRepo  repositories.SupplierRepository
	settingRepo   repositories.CommissionSettingRepository
	invoiceRepo   repositories.CommissionInvoiceRepository
	orderItemRepo repositories.OrderItemRepository
	now           func() time.Time
}

func NewCommissionService(
	supplierRepo repositories.SupplierRepository,
	settingRepo repositories.CommissionSettingRepository,
	invoiceRepo repositories.CommissionInvoiceRepository,
	orderItemRepo repositories.OrderItemRepository,
) CommissionService {
	return &commissionService{
		supplierRepo:  supplierRepo,
		settingRepo:   settingRepo,
		invoiceRepo:   invoiceRepo,
		orderItemRepo: orderItemRepo,
		now:           time.Now,
	}
}

// EffectiveRate resolves the commission rate for a supplier: endorsed
// suppliers pay nothing, a configured active setting overrides the default,
// and everyone else pays the platform default.
func (s *commissionService) EffectiveRate(ctx context.Context, supplierID uuid.UUID) (float64, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, supplierID)
	if err != nil {
		return 0, fmt.Errorf("lookup supplier: %w", err)
	}
	if supplier == nil {
		return 0, common.NotFoundError("supplier")
	}
	if supplier.UnionEndorsed {
		return 0, nil
	}

	setting, err := s.settingRepo.GetBySupplier(ctx, supplierID)
	if err != nil {
		return 0, fmt.Errorf("lookup commission setting: %w", err)
	}
	if setting != nil && setting.IsActive {
		return setting.CommissionRate, nil
	}
	return models.DefaultCommissionRate, nil
}

// ComputeLineCommission is the snapshot value stored on an order line at
// order time. Rate changes after the fact never touch existing lines.
func (s *commissionService) ComputeLineCommission(rate, unitPrice float64, quantity int) float64 {
	return unitPrice * float64(quantity) * rate / 100
}

func (s *commissionService) GenerateInvoice(ctx context.Context, supplierID uuid.UUID, periodStart, periodEnd time.Time) (*models.CommissionInvoice, error) {
	if err := common.ValidateDateRange(periodStart, periodEnd); err != nil {
		return nil, err
	}

	supplier, err := s.supplierRepo.GetByID(ctx, supplierID)
	if err != nil {
		return nil, fmt.Errorf("lookup supplier: %w", err)
	}
	if supplier == nil {
		return nil, common.NotFoundError("supplier")
	}

	overlapping, err := s.invoiceRepo.CountOverlapping(ctx, supplierID, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("check invoice overlap: %w", err)
	}
	if overlapping > 0 {
		return nil, common.ConflictError("an invoice already covers part of this period")
	}

	agg, err := s.orderItemRepo.AggregateCommission(ctx, supplierID, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("aggregate commission: %w", err)
	}

	number, err := s.invoiceRepo.NextInvoiceNumber(ctx, s.now().Year())
	if err != nil {
		return nil, fmt.Errorf("allocate invoice number: %w", err)
	}

	invoice := &models.CommissionInvoice{
		ID:              uuid.New(),
		InvoiceNumber:   number,
		SupplierID:      supplierID,
		PeriodStart:     periodStart,
		PeriodEnd:       periodEnd,
		TotalCommission: agg.TotalCommission,
		OrderCount:      agg.OrderCount,
		Status:          models.InvoicePending,
		DueDate:         periodEnd.AddDate(0, 0, invoiceDueGraceDays),
	}
	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	return invoice, nil
}

func (s *commissionService) MarkInvoicePaid(ctx context.Context, invoiceID uuid.UUID, paidAmount float64, method, reference string) (*models.CommissionInvoice, error) {
	if paidAmount < 0 {
		return nil, common.ValidationError("paid amount cannot be negative")
	}
	if err := common.ValidateRequiredString(method, "payment method"); err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("lookup invoice: %w", err)
	}
	if invoice == nil {
		return nil, common.NotFoundError("commission invoice")
	}

	ok, err := s.invoiceRepo.MarkPaid(ctx, invoiceID, paidAmount, method, reference, s.now())
	if err != nil {
		return nil, fmt.Errorf("mark invoice paid: %w", err)
	}
	if !ok {
		return nil, common.ConflictError("invoice is already %s", invoice.Status)
	}
	return s.invoiceRepo.GetByID(ctx, invoiceID)
}

func (s *commissionService) CancelInvoice(ctx context.Context, invoiceID uuid.UUID) (*models.CommissionInvoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("lookup invoice: %w", err)
	}
	if invoice == nil {
		return nil, common.NotFoundError("commission invoice")
	}

	ok, err := s.invoiceRepo.Cancel(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("cancel invoice: %w", err)
	}
	if !ok {
		return nil, common.ConflictError("invoice is already %s", invoice.Status)
	}
	return s.invoiceRepo.GetByID(ctx, invoiceID)
}

func (s *commissionService) SetUnionEndorsement(ctx context.Context, supplierID uuid.UUID, endorsed bool, certificateNumber *string) (*models.Supplier, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, supplierID)
	if err != nil {
		return nil, fmt.Errorf("lookup supplier: %w", err)
	}
	if supplier == nil {
		return nil, common.NotFoundError("supplier")
	}
	if endorsed && common.SafeString(certificateNumber) == "" {
		return nil, common.ValidationError("a union certificate number is required to endorse a supplier")
	}
	if !endorsed {
		certificateNumber = nil
	}

	if err := s.supplierRepo.SetUnionEndorsement(ctx, supplierID, endorsed, certificateNumber); err != nil {
		return nil, fmt.Errorf("set union endorsement: %w", err)
	}
	return s.supplierRepo.GetByID(ctx, supplierID)
}

func (s *commissionService) UpdateCommissionSetting(ctx context.Context, supplierID uuid.UUID, rate, minCommission float64, notes *string) (*models.CommissionSetting, error) {
	if rate < 0 || rate > 100 {
		return nil, common.ValidationError("commission rate must be between 0 and 100")
	}
	if minCommission < 0 {
		return nil, common.ValidationError("minimum commission cannot be negative")
	}

	supplier, err := s.supplierRepo.GetByID(ctx, supplierID)
	if err != nil {
		return nil, fmt.Errorf("lookup supplier: %w", err)
	}
	if supplier == nil {
		return nil, common.NotFoundError("supplier")
	}
	if supplier.UnionEndorsed {
		return nil, common.ValidationError("commission settings cannot be changed for union-endorsed suppliers")
	}

	setting := &models.CommissionSetting{
		ID:             uuid.New(),
		SupplierID:     supplierID,
		CommissionRate: rate,
		MinCommission:  minCommission,
		IsActive:       true,
		Notes:          notes,
	}
	if err := s.settingRepo.Upsert(ctx, setting); err != nil {
		return nil, fmt.Errorf("save commission setting: %w", err)
	}
	return s.settingRepo.GetBySupplier(ctx, supplierID)
}

func (s *commissionService) ListInvoices(ctx context.Context, supplierID uuid.UUID, limit, offset int) ([]*models.CommissionInvoice, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.invoiceRepo.ListBySupplier(ctx, supplierID, limit, offset)
}
