package handlers

import (
	"net/http"
	"time"

	"dentamart/internal/common"
	"dentamart/internal/services"

	"github.com/labstack/echo/v4"
)

// CommissionHandlers handles the owner commission-management surface:
// per-supplier rates, union endorsement and commission invoices.
type CommissionHandlers struct {
	commissionService services.CommissionService
}

func NewCommissionHandlers(commissionService services.CommissionService) *CommissionHandlers {
	return &CommissionHandlers{commissionService: commissionService}
}

// UpdateSupplierCommission handles PUT /api/owner/commission-management/suppliers/:supplierId/commission
func (h *CommissionHandlers) UpdateSupplierCommission(c echo.Context) error {
	ctx := c.Request().Context()

	supplierID, err := common.ValidateUUID(c.Param("supplierId"), "supplierId")
	if err != nil {
		return common.HTTPError(c, err)
	}

	var req struct {
		CommissionRate float64 `json:"commission_rate"`
		MinCommission  float64 `json:"min_commission"`
		Notes          *string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}

	setting, err := h.commissionService.UpdateCommissionSetting(ctx, supplierID, req.CommissionRate, req.MinCommission, req.Notes)
	if err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusOK, setting)
}

// SetUnionEndorsement handles PUT /api/owner/commission-management/suppliers/:supplierId/union-endorsement
func (h *CommissionHandlers) SetUnionEndorsement(c echo.Context) error {
	ctx := c.Request().Context()

	supplierID, err := common.ValidateUUID(c.Param("supplierId"), "supplierId")
	if err != nil {
		return common.HTTPError(c, err)
	}

	var req struct {
		Endorsed          bool    `json:"endorsed"`
		CertificateNumber *string `json:"certificate_number"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}

	supplier, err := h.commissionService.SetUnionEndorsement(ctx, supplierID, req.Endorsed, req.CertificateNumber)
	if err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusOK, supplier)
}

// GetEffectiveRate handles GET /api/owner/commission-management/suppliers/:supplierId/rate
func (h *CommissionHandlers) GetEffectiveRate(c echo.Context) error {
	ctx := c.Request().Context()

	supplierID, err := common.ValidateUUID(c.Param("supplierId"), "supplierId")
	if err != nil {
		return common.HTTPError(c, err)
	}

	rate, err := h.commissionService.EffectiveRate(ctx, supplierID)
	if err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"supplier_id":     supplierID,
		"commission_rate": rate,
	})
}

// GenerateInvoice handles POST /api/owner/commission-invoices
func (h *CommissionHandlers) GenerateInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		SupplierID  string `json:"supplier_id"`
		PeriodStart string `json:"period_start"`
		PeriodEnd   string `json:"period_end"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}

	supplierID, err := common.ValidateUUID(req.SupplierID, "supplier_id")
	if err != nil {
		return common.HTTPError(c, err)
	}
	periodStart, err := time.Parse("2006-01-02", req.PeriodStart)
	if err != nil {
		return common.SendValidationError(c, "period_start", "Expected YYYY-MM-DD")
	}
	periodEnd, err := time.Parse("2006-01-02", req.PeriodEnd)
	if err != nil {
		return common.SendValidationError(c, "period_end", "Expected YYYY-MM-DD")
	}

	invoice, err := h.commissionService.GenerateInvoice(ctx, supplierID, periodStart, periodEnd)
	if err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusCreated, invoice)
}

// ListInvoices handles GET /api/owner/commission-invoices/suppliers/:supplierId
func (h *CommissionHandlers) ListInvoices(c echo.Context) error {
	ctx := c.Request().Context()

	supplierID, err := common.ValidateUUID(c.Param("supplierId"), "supplierId")
	if err != nil {
		return common.HTTPError(c, err)
	}

	limit, offset := parsePagination(c)
	invoices, err := h.commissionService.ListInvoices(ctx, supplierID, limit, offset)
	if err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"invoices": invoices,
		"count":    len(invoices),
	})
}

// PayInvoice handles POST /api/owner/commission-invoices/:id/pay
func (h *CommissionHandlers) PayInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.HTTPError(c, err)
	}

	var req struct {
		PaidAmount       float64 `json:"paid_amount"`
		PaymentMethod    string  `json:"payment_method"`
		PaymentReference string  `json:"payment_reference"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}

	invoice, err := h.commissionService.MarkInvoicePaid(ctx, id, req.PaidAmount, req.PaymentMethod, req.PaymentReference)
	if err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusOK, invoice)
}

// CancelInvoice handles POST /api/owner/commission-invoices/:id/cancel
func (h *CommissionHandlers) CancelInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.HTTPError(c, err)
	}

	invoice, err := h.commissionService.CancelInvoice(ctx, id)
	if err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusOK, invoice)
}
