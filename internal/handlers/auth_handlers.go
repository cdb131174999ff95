package handlers

import (
	"net/http"

	"dentamart/internal/common"
	"dentamart/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles registration and login.
type AuthHandlers struct {
	authService services.AuthService
}

func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{authService: authService}
}

// Register handles POST /api/auth/register
func (h *AuthHandlers) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}

	user, err := h.authService.Register(ctx, req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

// Login handles POST /api/auth/login
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}

	tokens, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		// Login failures always surface as 401 without detail.
		return common.SendUnauthorizedError(c)
	}
	return c.JSON(http.StatusOK, tokens)
}
