package handlers

import (
	"net/http"
	"strconv"

	"dentamart/internal/common"
	"dentamart/internal/models"
	"dentamart/internal/services"

	"github.com/labstack/echo/v4"
)

// ClinicHandlers handles the public directory and clinic-owner profile
// endpoints.
type ClinicHandlers struct {
	clinicService    services.ClinicService
	directoryService services.DirectoryService
}

func NewClinicHandlers(clinicService services.ClinicService, directoryService services.DirectoryService) *ClinicHandlers {
	return &ClinicHandlers{
		clinicService:    clinicService,
		directoryService: directoryService,
	}
}

// parseFloatParam reads the first non-empty query parameter among names;
// later names are accepted aliases.
func parseFloatParam(c echo.Context, names ...string) (*float64, error) {
	for _, name := range names {
		raw := c.QueryParam(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, common.ValidationError("%s must be a number", name)
		}
		return &v, nil
	}
	return nil, nil
}

func (h *ClinicHandlers) buildFilter(c echo.Context) (*models.ClinicFilter, error) {
	filter := &models.ClinicFilter{
		Governorate: c.QueryParam("governorate"),
		City:        c.QueryParam("city"),
		Specialty:   c.QueryParam("specialty"),
		Mode:        c.QueryParam("mode"),
	}

	lat, err := parseFloatParam(c, "userLat", "lat")
	if err != nil {
		return nil, err
	}
	lng, err := parseFloatParam(c, "userLng", "lng")
	if err != nil {
		return nil, err
	}
	radius, err := parseFloatParam(c, "radiusKm", "radius_km")
	if err != nil {
		return nil, err
	}
	filter.UserLat = lat
	filter.UserLng = lng
	filter.RadiusKm = radius

	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return nil, common.ValidationError("limit must be an integer")
		}
		filter.Limit = limit
	}
	return filter, nil
}

// Search handles GET /api/clinics
func (h *ClinicHandlers) Search(c echo.Context) error {
	ctx := c.Request().Context()

	filter, err := h.buildFilter(c)
	if err != nil {
		return common.HTTPError(c, err)
	}

	clinics, err := h.directoryService.Search(ctx, filter)
	if err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"clinics": clinics,
		"count":   len(clinics),
	})
}

// Nearby handles GET /api/clinics/nearby; coordinates are mandatory and the
// result is always distance-ordered.
func (h *ClinicHandlers) Nearby(c echo.Context) error {
	ctx := c.Request().Context()

	filter, err := h.buildFilter(c)
	if err != nil {
		return common.HTTPError(c, err)
	}
	if filter.UserLat == nil || filter.UserLng == nil {
		return common.SendValidationError(c, "userLat", "userLat and userLng are required")
	}
	filter.Mode = services.ModeDistance

	clinics, err := h.directoryService.Search(ctx, filter)
	if err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"clinics": clinics,
		"count":   len(clinics),
	})
}

// GetClinic handles GET /api/clinics/:id
func (h *ClinicHandlers) GetClinic(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.HTTPError(c, err)
	}

	clinic, err := h.clinicService.GetByID(ctx, id)
	if err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusOK, clinic)
}

// CreateClinic handles POST /api/doctor/clinics
func (h *ClinicHandlers) CreateClinic(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Name        string   `json:"name"`
		Governorate string   `json:"governorate"`
		City        string   `json:"city"`
		Address     *string  `json:"address"`
		Latitude    *float64 `json:"latitude"`
		Longitude   *float64 `json:"longitude"`
		Specialties []string `json:"specialties"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}

	clinic, err := h.clinicService.Create(ctx, &services.CreateClinicInput{
		OwnerUserID: userID,
		Name:        req.Name,
		Governorate: req.Governorate,
		City:        req.City,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Specialties: req.Specialties,
	})
	if err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusCreated, clinic)
}

// UpdateClinic handles PUT /api/doctor/clinics/:id
func (h *ClinicHandlers) UpdateClinic(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.HTTPError(c, err)
	}

	var req struct {
		Name        string   `json:"name"`
		Governorate string   `json:"governorate"`
		City        string   `json:"city"`
		Address     *string  `json:"address"`
		Latitude    *float64 `json:"latitude"`
		Longitude   *float64 `json:"longitude"`
		Specialties []string `json:"specialties"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}

	clinic := &models.Clinic{
		ID:          id,
		Name:        req.Name,
		Governorate: req.Governorate,
		City:        req.City,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Specialties: req.Specialties,
	}
	updated, err := h.clinicService.UpdateProfile(ctx, userID, clinic)
	if err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// SetClinicActive handles PUT /api/admin/clinics/:id/active
func (h *ClinicHandlers) SetClinicActive(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.HTTPError(c, err)
	}

	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}

	if err := h.clinicService.SetActive(ctx, id, req.IsActive); err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "updated"})
}
