package repository

import (
	"context"
	"time"

	"github.com/ITyukz11/payops/internal/model"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	FindUnpublished(ctx context.Context, limit int) ([]model.Notification, error)
	MarkPublished(ctx context.Context, id string) error
	MarkPublishFailed(ctx context.Context, id string, lastError string) error
}

type Notification struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &Notification{db: db}
}

func (n *Notification) Create(ctx context.Context, notification *model.Notification) error {
	return GetTx(ctx, n.db).Create(notification).Error
}

func (n *Notification) FindUnpublished(ctx context.Context, limit int) ([]model.Notification, error) {
	var notifications []model.Notification

	err := GetTx(ctx, n.db).Where("published = ?", false).
		Order("created_at ASC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}

	return notifications, nil
}

func (n *Notification) MarkPublished(ctx context.Context, id string) error {
	now := time.Now().UTC()
	return GetTx(ctx, n.db).Model(&model.Notification{}).
		Where("id = ? AND published = ?", id, false).
		Updates(map[string]any{"published": true, "published_at": now, "last_error": nil}).Error
}

func (n *Notification) MarkPublishFailed(ctx context.Context, id string, lastError string) error {
	return GetTx(ctx, n.db).Model(&model.Notification{}).
		Where("id = ?", id).
		Update("last_error", lastError).Error
}
