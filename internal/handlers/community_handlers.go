package handlers

import (
	"net/http"
	"strconv"

	"dentamart/internal/common"
	"dentamart/internal/services"

	"github.com/labstack/echo/v4"
)

// CommunityHandlers handles the practitioner feed.
type CommunityHandlers struct {
	communityService services.CommunityService
	minioSvc         services.MinioService
}

func NewCommunityHandlers(communityService services.CommunityService, minioSvc services.MinioService) *CommunityHandlers {
	return &CommunityHandlers{
		communityService: communityService,
		minioSvc:         minioSvc,
	}
}

// Feed handles GET /api/community/feed
func (h *CommunityHandlers) Feed(c echo.Context) error {
	ctx := c.Request().Context()

	page, _ := strconv.Atoi(c.QueryParam("page"))
	posts, err := h.communityService.Feed(ctx, page)
	if err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"posts": posts,
		"page":  page,
	})
}

// CreatePost handles POST /api/community/posts
func (h *CommunityHandlers) CreatePost(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		Content   string  `json:"content"`
		ImagePath *string `json:"image_path"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendValidationError(c, "body", "Invalid request format")
	}

	post, err := h.communityService.CreatePost(ctx, userID, req.Content, req.ImagePath)
	if err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusCreated, post)
}

// LikePost handles POST /api/community/posts/:id/like
func (h *CommunityHandlers) LikePost(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.HTTPError(c, err)
	}

	if err := h.communityService.LikePost(ctx, id); err != nil {
		return common.HTTPError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "liked"})
}

// DeletePost handles DELETE /api/community/posts/:id
func (h *CommunityHandlers) DeletePost(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	role, _ := common.GetUserRoleFromContext(ctx)

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.HTTPError(c, err)
	}

	if err := h.communityService.DeletePost(ctx, userID, role, id); err != nil {
		return common.HTTPError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
