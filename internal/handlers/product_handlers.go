package handlers

import (
	"net/http"
	"strconv"

	"dentamart/internal/common"
	"dentamart/internal/models"
	"dentamart/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const maxProductImageSize = 5 * 1024 * 1024

// ProductHandlers handles the supplier product catalogue.
type ProductHandlers struct {
	productService services.ProductService
	minioSvc       services.MinioService
}

func NewProductHandlers(productService services.ProductService, minioSvc services.MinioService) *ProductHandlers {
	return &ProductHandlers{
		productService: productService,
		minioSvc:       minioSvc,
	}
}

// CreateProduct handles POST /api/supplier/products
func (h *ProductHandlers) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		SupplierID  string  `json:"supplier_id"`
		Name        string  `json:"name"`
		Description *string `json:"description"`
		Category    *string `json:"category"`
		Price       float64 `json:"price"`
		Stock       int     `json:"stock"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}
	supplierID, err := common.ValidateUUID(req.SupplierID, "supplier_id")
	if err != nil {
		return common.HTTPError(c, err)
	}

	product := &models.Product{
		SupplierID:  supplierID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
	}
	created, err := h.productService.Create(ctx, product)
	if err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateProduct handles PUT /api/supplier/products/:id
func (h *ProductHandlers) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.HTTPError(c, err)
	}

	var req struct {
		SupplierID  string  `json:"supplier_id"`
		Name        string  `json:"name"`
		Description *string `json:"description"`
		Category    *string `json:"category"`
		Price       float64 `json:"price"`
		Stock       int     `json:"stock"`
		IsActive    bool    `json:"is_active"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}
	supplierID, err := common.ValidateUUID(req.SupplierID, "supplier_id")
	if err != nil {
		return common.HTTPError(c, err)
	}

	product := &models.Product{
		ID:          id,
		SupplierID:  supplierID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		IsActive:    req.IsActive,
	}
	updated, err := h.productService.Update(ctx, supplierID, product)
	if err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// GetProduct handles GET /api/products/:id
func (h *ProductHandlers) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.HTTPError(c, err)
	}

	product, err := h.productService.GetByID(ctx, id)
	if err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// SearchProducts handles GET /api/products
func (h *ProductHandlers) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()

	filter := &models.ProductSearchFilter{
		Query: c.QueryParam("q"),
	}
	if raw := c.QueryParam("supplier_id"); raw != "" {
		supplierID, err := uuid.Parse(raw)
		if err != nil {
			return common.SendValidationError(c, "supplier_id", "Invalid UUID format")
		}
		filter.SupplierID = &supplierID
	}
	if raw := c.QueryParam("category"); raw != "" {
		filter.Category = &raw
	}
	if raw := c.QueryParam("min_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return common.SendValidationError(c, "min_price", "Expected a number")
		}
		filter.MinPrice = &v
	}
	if raw := c.QueryParam("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return common.SendValidationError(c, "max_price", "Expected a number")
		}
		filter.MaxPrice = &v
	}
	filter.Limit, filter.Offset = parsePagination(c)

	products, err := h.productService.Search(ctx, filter)
	if err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"products": products,
		"count":    len(products),
	})
}

// UploadProductImage handles POST /api/supplier/products/:id/image
func (h *ProductHandlers) UploadProductImage(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.HTTPError(c, err)
	}

	file, err := c.FormFile("image")
	if err != nil {
		return common.SendValidationError(c, "image", "Image file is required")
	}
	if file.Size > maxProductImageSize {
		return common.SendValidationError(c, "image", "File size exceeds maximum limit of 5MB")
	}

	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to open image file")
	}
	defer src.Close()

	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read file content")
	}
	contentType := http.DetectContentType(buffer[:n])
	switch contentType {
	case "image/jpeg", "image/png", "image/webp":
	default:
		return common.SendValidationError(c, "image", "Only JPEG, PNG and WebP images are allowed")
	}
	if _, err := src.Seek(0, 0); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read file content")
	}

	objectName, err := h.minioSvc.UploadImage(ctx, services.BucketProductImages, src, file.Size, contentType, file.Filename)
	if err != nil {
		return common.HTTPError(c, err)
	}

	product, err := h.productService.GetByID(ctx, id)
	if err != nil {
		return common.HTTPError(c, err)
	}
	product.ImagePath = &objectName
	updated, err := h.productService.Update(ctx, product.SupplierID, product)
	if err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusCreated, updated)
}
