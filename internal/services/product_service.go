package services

import (
	"context"
	"fmt"

	"dentamart/internal/common"
	"dentamart/internal/models"
	"dentamart/internal/repositories"

	"github.com/google/uuid"
)

// ProductService manages supplier product catalogues.
type ProductService interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, supplierID uuid.UUID, product *models.Product) (*models.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Search(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error)
}

type productService struct {
	productRepo  repositories.ProductRepository
	supplierRepo repositories.SupplierRepository
}

func NewProductService(productRepo repositories.ProductRepository, supplierRepo repositories.SupplierRepository) ProductService {
	return &productService{
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
	}
}

func validateProduct(product *models.Product) error {
	if err := common.ValidateRequiredString(product.Name, "product name"); err != nil {
		return err
	}
	if product.Price < 0 {
		return common.ValidationError("product price cannot be negative")
	}
	if product.Stock < 0 {
		return common.ValidationError("product stock cannot be negative")
	}
	return nil
}

func (s *productService) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	supplier, err := s.supplierRepo.GetByID(ctx, product.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("lookup supplier: %w", err)
	}
	if supplier == nil {
		return nil, common.NotFoundError("supplier")
	}

	product.ID = uuid.New()
	product.IsActive = true
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

func (s *productService) Update(ctx context.Context, supplierID uuid.UUID, product *models.Product) (*models.Product, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	existing, err := s.productRepo.GetByID(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, common.NotFoundError("product")
	}
	if existing.SupplierID != supplierID {
		return nil, common.ForbiddenError("product does not belong to the requesting supplier")
	}

	product.SupplierID = existing.SupplierID
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, common.NotFoundError("product")
	}
	return product, nil
}

func (s *productService) Search(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error) {
	filter.Limit, filter.Offset = common.ValidatePaginationParams(filter.Limit, filter.Offset)
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return nil, common.ValidationError("min price cannot exceed max price")
	}
	return s.productRepo.Search(ctx, filter)
}
