package publishers

import (
	"context"
	"encoding/json"

	"github.com/ITyukz11/payops/internal/config"
	"github.com/ITyukz11/payops/internal/service"
	"github.com/ITyukz11/payops/pkg/mq"
	"go.uber.org/zap"
)

type ReconcilePublisher interface {
	Publish(ctx context.Context) error
}

type reconcilePublisher struct {
	service   service.ReconcileService
	publisher mq.Publisher
	queue     string
	batchSize int
	logger    *zap.Logger
}

func NewReconcilePublisher(cfg *config.Config, service service.ReconcileService, publisher mq.Publisher,
	logger *zap.Logger) ReconcilePublisher {
	return &reconcilePublisher{
		service:   service,
		publisher: publisher,
		queue:     cfg.Reconcile.Queue,
		batchSize: cfg.Reconcile.BatchSize,
		logger:    logger,
	}
}

// Publish queues one retry per FAILED credit. Rows stay FAILED until a consumer
// claims them, so a command published twice is dropped by the second claim.
func (r *reconcilePublisher) Publish(ctx context.Context) error {
	commands, err := r.service.FindRetriesToQueue(ctx, r.batchSize)
	if err != nil {
		return err
	}

	if len(commands) == 0 {
		return nil
	}

	r.logger.Info("Publishing ledger retries", zap.Int("count", len(commands)))

	successCount := 0
	for _, cmd := range commands {
		body, _ := json.Marshal(cmd)
		if err := r.publisher.Publish(ctx, "", r.queue, body); err != nil {
			r.logger.Error("Failed to publish ledger retry",
				zap.Error(err),
				zap.String("entity", string(cmd.EntityType)),
				zap.String("id", cmd.ID))
			continue
		}

		successCount++
	}

	if successCount > 0 {
		r.logger.Info("Successfully published ledger retries",
			zap.Int("published", successCount),
			zap.Int("total", len(commands)))
	}

	return nil
}
