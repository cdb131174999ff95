package handlers

import (
	"net/http"

	"dentamart/internal/common"
	"dentamart/internal/models"
	"dentamart/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SupplierHandlers handles the admin supplier registry.
type SupplierHandlers struct {
	supplierRepo repositories.SupplierRepository
}

func NewSupplierHandlers(supplierRepo repositories.SupplierRepository) *SupplierHandlers {
	return &SupplierHandlers{supplierRepo: supplierRepo}
}

// CreateSupplier handles POST /api/admin/suppliers
func (h *SupplierHandlers) CreateSupplier(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Name         string  `json:"name"`
		ContactEmail *string `json:"contact_email"`
		ContactPhone *string `json:"contact_phone"`
		Address      *string `json:"address"`
		Governorate  *string `json:"governorate"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return common.HTTPError(c, err)
	}

	existing, err := h.supplierRepo.GetByName(ctx, req.Name)
	if err != nil {
		return common.HTTPError(c, err)
	}
	if existing != nil {
		return common.HTTPError(c, common.ConflictError("a supplier named %q already exists", req.Name))
	}

	supplier := &models.Supplier{
		ID:           uuid.New(),
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Address:      req.Address,
		Governorate:  req.Governorate,
		IsActive:     true,
	}
	if err := h.supplierRepo.Create(ctx, supplier); err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusCreated, supplier)
}

// GetSupplier handles GET /api/suppliers/:id
func (h *SupplierHandlers) GetSupplier(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.HTTPError(c, err)
	}

	supplier, err := h.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return common.HTTPError(c, err)
	}
	if supplier == nil {
		return common.HTTPError(c, common.NotFoundError("supplier"))
	}
	return c.JSON(http.StatusOK, supplier)
}

// ListSuppliers handles GET /api/suppliers
func (h *SupplierHandlers) ListSuppliers(c echo.Context) error {
	ctx := c.Request().Context()

	limit, offset := parsePagination(c)
	limit, offset = common.ValidatePaginationParams(limit, offset)
	suppliers, err := h.supplierRepo.List(ctx, limit, offset)
	if err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"suppliers": suppliers,
		"count":     len(suppliers),
	})
}
