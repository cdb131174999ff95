package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// parsePagination reads limit/offset query params; services clamp the
// values.
func parsePagination(c echo.Context) (int, int) {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	return limit, offset
}
