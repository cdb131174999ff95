package common

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UserRoleKey contextKey = "user_role"
)

// GetUserIDFromContext extracts the authenticated user id.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return id, ok
}

// GetUserRoleFromContext extracts the authenticated user's role.
func GetUserRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(UserRoleKey).(string)
	return role, ok
}

// ValidateUUID validates UUID path/query parameters.
func ValidateUUID(idStr string, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, ValidationError("%s is required", fieldName)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, ValidationError("%s is not a valid UUID", fieldName)
	}
	return id, nil
}

// ValidateRequiredString checks a required string field.
func ValidateRequiredString(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError("%s is required", fieldName)
	}
	return nil
}

// ValidatePaginationParams clamps pagination parameters to sane bounds.
func ValidatePaginationParams(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// ValidateDateRange rejects inverted or unreasonably large ranges.
func ValidateDateRange(startDate, endDate time.Time) error {
	if endDate.Before(startDate) {
		return ValidationError("end date cannot be before start date")
	}
	if endDate.Sub(startDate) > time.Hour*24*366 {
		return ValidationError("date range cannot exceed one year")
	}
	return nil
}

// SafeString dereferences a possibly nil string pointer.
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
