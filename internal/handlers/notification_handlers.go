package handlers

import (
	"net/http"

	"dentamart/internal/common"
	"dentamart/internal/services"

	"github.com/labstack/echo/v4"
)

// NotificationHandlers exposes the caller's notification inbox.
type NotificationHandlers struct {
	notificationService services.NotificationService
}

func NewNotificationHandlers(notificationService services.NotificationService) *NotificationHandlers {
	return &NotificationHandlers{notificationService: notificationService}
}

// List handles GET /api/notifications
func (h *NotificationHandlers) List(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, offset := parsePagination(c)
	notifications, err := h.notificationService.List(ctx, userID, limit, offset)
	if err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"count":         len(notifications),
	})
}

// MarkRead handles PUT /api/notifications/:id/read
func (h *NotificationHandlers) MarkRead(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.HTTPError(c, err)
	}

	if err := h.notificationService.MarkRead(ctx, id); err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "read"})
}
