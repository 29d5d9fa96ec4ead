package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"driveshare-backend/internal/domain"
	"driveshare-backend/internal/service"
)

func TestNotificationList_ClampsPaging(t *testing.T) {
	ctx := context.Background()

	t.Run("Defaults", func(t *testing.T) {
		noteRepo := new(MockNotificationRepo)
		noteRepo.On("List", ctx, int32(10), int32(20), int32(0)).Return([]domain.Notification{{ID: 1, GuestID: 10}}, int32(1), nil)
		svc := service.NewNotificationService(noteRepo)

		notes, total, err := svc.List(ctx, 10, 0, -5)
		assert.NoError(t, err)
		assert.Len(t, notes, 1)
		assert.Equal(t, int32(1), total)
	})

	t.Run("Caps Oversized Limit", func(t *testing.T) {
		noteRepo := new(MockNotificationRepo)
		noteRepo.On("List", ctx, int32(10), int32(100), int32(40)).Return([]domain.Notification{}, int32(0), nil)
		svc := service.NewNotificationService(noteRepo)

		_, _, err := svc.List(ctx, 10, 5000, 40)
		assert.NoError(t, err)
		noteRepo.AssertExpectations(t)
	})
}

func TestNotificationMarkAsRead_ScopedToOwner(t *testing.T) {
	ctx := context.Background()
	noteRepo := new(MockNotificationRepo)
	noteRepo.On("MarkAsRead", ctx, int32(3), int32(10)).Return(nil)
	svc := service.NewNotificationService(noteRepo)

	assert.NoError(t, svc.MarkAsRead(ctx, 3, 10))
	noteRepo.AssertExpectations(t)
}
