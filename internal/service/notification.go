package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ITyukz11/payops/internal/metrics"
	"github.com/ITyukz11/payops/internal/model"
	"github.com/ITyukz11/payops/internal/repository"
	"github.com/ITyukz11/payops/internal/worker"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// NotificationService writes events for the real-time channel into the outbox.
type NotificationService interface {
	Emit(ctx context.Context, casinoGroupID, event string, payload any) error
	PendingCounts(ctx context.Context, casinoGroupID string) (PendingCounts, error)
	PublishPendingCounts(ctx context.Context, casinoGroupID string) error
}

// NotificationQueueService is the outbox side used by the notification publisher.
type NotificationQueueService interface {
	FindNotificationsToQueue(ctx context.Context, limit int) ([]NotificationMessage, error)
	MarkNotificationAsQueued(ctx context.Context, id string) error
	MarkNotificationFailed(ctx context.Context, id string, cause error) error
}

type Notifier struct {
	notificationRepo repository.NotificationRepository
	requestRepo      repository.RequestRepository
	commissionRepo   repository.CommissionRepository
	metrics          *metrics.Metrics
	logger           *zap.Logger
}

func newNotifier(notificationRepo repository.NotificationRepository, requestRepo repository.RequestRepository,
	commissionRepo repository.CommissionRepository, metrics *metrics.Metrics, logger *zap.Logger) *Notifier {
	return &Notifier{
		notificationRepo: notificationRepo,
		requestRepo:      requestRepo,
		commissionRepo:   commissionRepo,
		metrics:          metrics,
		logger:           logger,
	}
}

func NewNotificationService(notificationRepo repository.NotificationRepository, requestRepo repository.RequestRepository,
	commissionRepo repository.CommissionRepository, metrics *metrics.Metrics, logger *zap.Logger) NotificationService {
	return newNotifier(notificationRepo, requestRepo, commissionRepo, metrics, logger)
}

func NewNotificationQueueService(notificationRepo repository.NotificationRepository, metrics *metrics.Metrics,
	logger *zap.Logger) NotificationQueueService {
	return newNotifier(notificationRepo, nil, nil, metrics, logger)
}

func (n *Notifier) Emit(ctx context.Context, casinoGroupID, event string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		n.metrics.RecordNotification("emit", "error")
		return err
	}

	notification := &model.Notification{
		ID:            uuid.NewString(),
		CasinoGroupID: casinoGroupID,
		Event:         event,
		Payload:       datatypes.JSON(body),
		CreatedAt:     time.Now().UTC(),
	}

	if err := n.notificationRepo.Create(ctx, notification); err != nil {
		n.metrics.RecordNotification("emit", "error")
		n.logger.Error("Failed to store notification",
			zap.Error(err),
			zap.String("casinoGroupID", casinoGroupID),
			zap.String("event", event))
		return err
	}

	n.metrics.RecordNotification("emit", "success")
	return nil
}

func (n *Notifier) PendingCounts(ctx context.Context, casinoGroupID string) (PendingCounts, error) {
	byKind, err := n.requestRepo.CountPendingByKind(ctx, casinoGroupID)
	if err != nil {
		return PendingCounts{}, databaseError(err)
	}

	commissions, err := n.commissionRepo.CountPending(ctx, casinoGroupID)
	if err != nil {
		return PendingCounts{}, databaseError(err)
	}

	return PendingCounts{
		CasinoGroupID:      casinoGroupID,
		Cashin:             byKind[model.RequestKindCashin],
		Cashout:            byKind[model.RequestKindCashout],
		TransactionRequest: byKind[model.RequestKindTransactionRequest],
		Commission:         commissions,
	}, nil
}

func (n *Notifier) PublishPendingCounts(ctx context.Context, casinoGroupID string) error {
	counts, err := n.PendingCounts(ctx, casinoGroupID)
	if err != nil {
		return err
	}

	return n.Emit(ctx, casinoGroupID, model.NotificationEventPendingCounts, counts)
}

func (n *Notifier) FindNotificationsToQueue(ctx context.Context, limit int) ([]NotificationMessage, error) {
	n.logger.Debug("Finding notifications to publish", zap.Int("batchSize", limit))

	notifications, err := n.notificationRepo.FindUnpublished(ctx, limit)
	if err != nil {
		n.logger.Error("Failed to find unpublished notifications", zap.Error(err))
		return nil, err
	}

	if len(notifications) == 0 {
		return nil, nil
	}

	messages := make([]NotificationMessage, 0, len(notifications))
	for _, notification := range notifications {
		messages = append(messages, NotificationMessage{
			ID:            notification.ID,
			CasinoGroupID: notification.CasinoGroupID,
			Event:         notification.Event,
			Payload:       json.RawMessage(notification.Payload),
			CreatedAt:     notification.CreatedAt.Unix(),
		})
	}

	return messages, nil
}

func (n *Notifier) MarkNotificationAsQueued(ctx context.Context, id string) error {
	if err := n.notificationRepo.MarkPublished(ctx, id); err != nil {
		n.logger.Error("Failed to mark notification as published", zap.Error(err), zap.String("notificationID", id))
		return err
	}

	n.metrics.RecordNotification("publish", "success")
	return nil
}

func (n *Notifier) MarkNotificationFailed(ctx context.Context, id string, cause error) error {
	n.metrics.RecordNotification("publish", "error")
	return n.notificationRepo.MarkPublishFailed(ctx, id, cause.Error())
}

// notifyTask records event for the group and refreshes its pending counts.
func notifyTask(notifier NotificationService, casinoGroupID, event string, payload StatusChangedEvent) worker.Task {
	return func(ctx context.Context) error {
		if err := notifier.Emit(ctx, casinoGroupID, event, payload); err != nil {
			return err
		}
		return notifier.PublishPendingCounts(ctx, casinoGroupID)
	}
}
