package handlers

import (
	"net/http"

	"dentamart/internal/common"
	"dentamart/internal/services"

	"github.com/labstack/echo/v4"
)

// OrderHandlers handles marketplace order endpoints.
type OrderHandlers struct {
	orderService services.OrderService
}

func NewOrderHandlers(orderService services.OrderService) *OrderHandlers {
	return &OrderHandlers{orderService: orderService}
}

// CreateOrder handles POST /api/orders
func (h *OrderHandlers) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		ClinicID   string  `json:"clinic_id"`
		SupplierID string  `json:"supplier_id"`
		Notes      *string `json:"notes"`
		Items      []struct {
			ProductID string `json:"product_id"`
			Quantity  int    `json:"quantity"`
		} `json:"items"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}

	clinicID, err := common.ValidateUUID(req.ClinicID, "clinic_id")
	if err != nil {
		return common.HTTPError(c, err)
	}
	supplierID, err := common.ValidateUUID(req.SupplierID, "supplier_id")
	if err != nil {
		return common.HTTPError(c, err)
	}

	in := &services.CreateOrderInput{
		ClinicID:   clinicID,
		SupplierID: supplierID,
		Notes:      req.Notes,
	}
	for _, item := range req.Items {
		productID, err := common.ValidateUUID(item.ProductID, "product_id")
		if err != nil {
			return common.HTTPError(c, err)
		}
		in.Items = append(in.Items, services.CreateOrderItem{
			ProductID: productID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.orderService.Create(ctx, in)
	if err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

// GetOrder handles GET /api/orders/:id
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.HTTPError(c, err)
	}

	order, err := h.orderService.GetByID(ctx, id)
	if err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// ListClinicOrders handles GET /api/clinics/:clinicId/orders
func (h *OrderHandlers) ListClinicOrders(c echo.Context) error {
	ctx := c.Request().Context()

	clinicID, err := common.ValidateUUID(c.Param("clinicId"), "clinicId")
	if err != nil {
		return common.HTTPError(c, err)
	}

	limit, offset := parsePagination(c)
	orders, err := h.orderService.ListByClinic(ctx, clinicID, limit, offset)
	if err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"orders": orders,
		"count":  len(orders),
	})
}

// ListSupplierOrders handles GET /api/suppliers/:supplierId/orders
func (h *OrderHandlers) ListSupplierOrders(c echo.Context) error {
	ctx := c.Request().Context()

	supplierID, err := common.ValidateUUID(c.Param("supplierId"), "supplierId")
	if err != nil {
		return common.HTTPError(c, err)
	}

	limit, offset := parsePagination(c)
	orders, err := h.orderService.ListBySupplier(ctx, supplierID, limit, offset)
	if err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"orders": orders,
		"count":  len(orders),
	})
}

// UpdateOrderStatus handles PUT /api/orders/:id/status
func (h *OrderHandlers) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.HTTPError(c, err)
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}

	order, err := h.orderService.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}
