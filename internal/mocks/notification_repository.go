package mocks

import (
	"context"

	"github.com/ITyukz11/payops/internal/model"
	"github.com/stretchr/testify/mock"
)

type NotificationRepository struct {
	mock.Mock
}

func (m *NotificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *NotificationRepository) FindUnpublished(ctx context.Context, limit int) ([]model.Notification, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]model.Notification), args.Error(1)
}

func (m *NotificationRepository) MarkPublished(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *NotificationRepository) MarkPublishFailed(ctx context.Context, id string, lastError string) error {
	args := m.Called(ctx, id, lastError)
	return args.Error(0)
}
