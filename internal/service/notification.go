package service

import (
	"context"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/repository"
)

const (
	defaultNotificationPageSize = 20
	maxNotificationPageSize     = 100
)

// NotificationService is the guest-facing view over the persisted
// notification feed. Writes happen as side effects of claim and
// banking operations; this service only reads and marks.
type NotificationService interface {
	List(ctx context.Context, guestID, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, guestID int32) error
}

type notificationService struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository) NotificationService {
	return &notificationService{noteRepo: noteRepo}
}

func (s *notificationService) List(ctx context.Context, guestID, limit, offset int32) ([]domain.Notification, int32, error) {
	if limit <= 0 {
		limit = defaultNotificationPageSize
	}
	if limit > maxNotificationPageSize {
		limit = maxNotificationPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.noteRepo.List(ctx, guestID, limit, offset)
}

func (s *notificationService) MarkAsRead(ctx context.Context, id, guestID int32) error {
	return s.noteRepo.MarkAsRead(ctx, id, guestID)
}
