package publishers

import (
	"context"
	"encoding/json"

	"github.com/ITyukz11/payops/internal/config"
	"github.com/ITyukz11/payops/internal/service"
	"github.com/ITyukz11/payops/pkg/mq"
	"go.uber.org/zap"
)

type NotificationPublisher interface {
	Publish(ctx context.Context) error
}

type notificationPublisher struct {
	service   service.NotificationQueueService
	publisher mq.Publisher
	queue     string
	batchSize int
	logger    *zap.Logger
}

func NewNotificationPublisher(cfg *config.Config, service service.NotificationQueueService, publisher mq.Publisher,
	logger *zap.Logger) NotificationPublisher {
	return &notificationPublisher{
		service:   service,
		publisher: publisher,
		queue:     cfg.Notification.Queue,
		batchSize: cfg.Notification.BatchSize,
		logger:    logger,
	}
}

func (n *notificationPublisher) Publish(ctx context.Context) error {
	notifications, err := n.service.FindNotificationsToQueue(ctx, n.batchSize)
	if err != nil {
		return err
	}

	if len(notifications) == 0 {
		return nil
	}

	n.logger.Debug("Publishing notifications", zap.Int("count", len(notifications)))

	successCount := 0
	for _, notification := range notifications {
		body, err := json.Marshal(notification)
		if err != nil {
			n.logger.Error("Failed to encode notification", zap.Error(err), zap.String("notificationID", notification.ID))
			_ = n.service.MarkNotificationFailed(ctx, notification.ID, err)
			continue
		}

		if err := n.publisher.Publish(ctx, "", n.queue, body); err != nil {
			n.logger.Error("Failed to publish notification",
				zap.Error(err),
				zap.String("notificationID", notification.ID),
				zap.String("event", notification.Event))
			_ = n.service.MarkNotificationFailed(ctx, notification.ID, err)
			continue
		}

		if err := n.service.MarkNotificationAsQueued(ctx, notification.ID); err != nil {
			continue
		}

		successCount++
	}

	if successCount > 0 {
		n.logger.Info("Successfully published notifications",
			zap.Int("published", successCount),
			zap.Int("total", len(notifications)))
	}

	return nil
}
