package consumers

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ITyukz11/payops/internal/config"
	"github.com/ITyukz11/payops/internal/constants"
	"github.com/ITyukz11/payops/internal/service"
	"github.com/ITyukz11/payops/pkg/mq"
	"go.uber.org/zap"
)

type ReconcileConsumer interface {
	Consume(ctx context.Context) error
}

type reconcileConsumer struct {
	service  service.ReconcileService
	consumer mq.Consumer
	queue    string
	logger   *zap.Logger
}

func NewReconcileConsumer(cfg *config.Config, service service.ReconcileService, consumer mq.Consumer,
	logger *zap.Logger) ReconcileConsumer {
	return &reconcileConsumer{service: service, consumer: consumer, queue: cfg.Reconcile.Queue, logger: logger}
}

func (r *reconcileConsumer) Consume(ctx context.Context) error {
	return r.consumer.Consume(ctx, 1, r.queue, r.handleMessage)
}

func (r *reconcileConsumer) handleMessage(ctx context.Context, body []byte) error {
	r.logger.Info("received ledger retry command", zap.ByteString("body", body))

	var cmd service.RetryLedgerCommand
	if err := json.Unmarshal(body, &cmd); err != nil {
		r.logger.Warn("invalid ledger retry command", zap.Error(err))
		return err
	}

	err := r.service.Retry(ctx, cmd)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, service.ErrRetryDisabled):
		return nil
	case service.CodeOf(err) == constants.ErrCodeDatabase:
		return mq.Temporary(err)
	}

	// A ledger failure has already moved the row back to FAILED; the next
	// publisher pass picks it up again.
	r.logger.Warn("ledger retry failed",
		zap.Error(err),
		zap.String("entity", string(cmd.EntityType)),
		zap.String("id", cmd.ID))
	return nil
}
