package services

import (
	"context"

	"dentamart/internal/common"
	"dentamart/internal/models"
	"dentamart/internal/repositories"

	"github.com/google/uuid"
)

// NotificationService exposes a user's in-app notification inbox.
type NotificationService interface {
	List(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
}

func NewNotificationService(notificationRepo repositories.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

func (s *notificationService) List(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]*models.Notification, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.notificationRepo.ListByRecipient(ctx, recipientID, limit, offset)
}

func (s *notificationService) MarkRead(ctx context.Context, id uuid.UUID) error {
	return s.notificationRepo.MarkRead(ctx, id)
}
