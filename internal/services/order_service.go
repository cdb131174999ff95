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

// OrderService places and tracks marketplace orders. Every order is a single
// clinic buying from a single supplier; commission is snapshotted per line
// at creation time.
type OrderService interface {
	Create(ctx context.Context, in *CreateOrderInput) (*models.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByClinic(ctx context.Context, clinicID uuid.UUID, limit, offset int) ([]*models.Order, error)
	ListBySupplier(ctx context.Context, supplierID uuid.UUID, limit, offset int) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, error)
}

type CreateOrderInput struct {
	ClinicID   uuid.UUID
	SupplierID uuid.UUID
	Notes      *string
	Items      []CreateOrderItem
}

type CreateOrderItem struct {
	ProductID uuid.UUID
	Quantity  int
}

// validOrderTransitions guards UpdateStatus. Delivered and cancelled are
// terminal.
var validOrderTransitions = map[string][]string{
	models.OrderPending:   {models.OrderConfirmed, models.OrderCancelled},
	models.OrderConfirmed: {models.OrderShipped, models.OrderCancelled},
	models.OrderShipped:   {models.OrderDelivered},
}

type orderService struct {
	orderRepo     repositories.OrderRepository
	productRepo   repositories.ProductRepository
	supplierRepo  repositories.SupplierRepository
	commissionSvc CommissionService
	now           func() time.Time
}

func NewOrderService(
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	supplierRepo repositories.SupplierRepository,
	commissionSvc CommissionService,
) OrderService {
	return &orderService{
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		supplierRepo:  supplierRepo,
		commissionSvc: commissionSvc,
		now:           time.Now,
	}
}

func (s *orderService) generateOrderNumber() string {
	now := s.now()
	return fmt.Sprintf("ORD-%d-%06d", now.Year(), now.UnixMilli()%1000000)
}

func (s *orderService) Create(ctx context.Context, in *CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, common.ValidationError("order must contain at least one item")
	}

	supplier, err := s.supplierRepo.GetByID(ctx, in.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("lookup supplier: %w", err)
	}
	if supplier == nil {
		return nil, common.NotFoundError("supplier")
	}
	if !supplier.IsActive {
		return nil, common.ValidationError("supplier is not active")
	}

	rate, err := s.commissionSvc.EffectiveRate(ctx, in.SupplierID)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:          uuid.New(),
		OrderNumber: s.generateOrderNumber(),
		ClinicID:    in.ClinicID,
		SupplierID:  in.SupplierID,
		Status:      models.OrderPending,
		Notes:       in.Notes,
		OrderDate:   s.now(),
	}

	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, common.ValidationError("item quantity must be positive")
		}
		product, err := s.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("lookup product: %w", err)
		}
		if product == nil {
			return nil, common.NotFoundError("product")
		}
		if product.SupplierID != in.SupplierID {
			return nil, common.ValidationError("product %s does not belong to the order supplier", product.Name)
		}
		if !product.IsActive {
			return nil, common.ValidationError("product %s is not available", product.Name)
		}

		ok, err := s.productRepo.DecrementStock(ctx, item.ProductID, item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("reserve stock: %w", err)
		}
		if !ok {
			return nil, common.ConflictError("insufficient stock for product %s", product.Name)
		}

		subtotal := product.Price * float64(item.Quantity)
		commission := s.commissionSvc.ComputeLineCommission(rate, product.Price, item.Quantity)
		order.Items = append(order.Items, &models.OrderItem{
			ID:               uuid.New(),
			OrderID:          order.ID,
			ProductID:        item.ProductID,
			Quantity:         item.Quantity,
			UnitPrice:        product.Price,
			Subtotal:         subtotal,
			CommissionRate:   rate,
			CommissionAmount: commission,
		})
		order.TotalAmount += subtotal
		order.TotalCommission += commission
	}

	if err := s.orderRepo.CreateWithItems(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, common.NotFoundError("order")
	}
	return order, nil
}

func (s *orderService) ListByClinic(ctx context.Context, clinicID uuid.UUID, limit, offset int) ([]*models.Order, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.orderRepo.ListByClinic(ctx, clinicID, limit, offset)
}

func (s *orderService) ListBySupplier(ctx context.Context, supplierID uuid.UUID, limit, offset int) ([]*models.Order, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.orderRepo.ListBySupplier(ctx, supplierID, limit, offset)
}

func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, common.NotFoundError("order")
	}

	allowed := false
	for _, next := range validOrderTransitions[order.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, common.ConflictError("cannot move order from %s to %s", order.Status, status)
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	order.Status = status
	return order, nil
}
