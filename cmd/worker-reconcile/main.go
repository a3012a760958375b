package main

import (
	"context"

	"github.com/ITyukz11/payops/internal/config"
	"github.com/ITyukz11/payops/internal/consumers"
	"github.com/ITyukz11/payops/internal/metrics"
	"github.com/ITyukz11/payops/internal/repository"
	"github.com/ITyukz11/payops/internal/service"
	"github.com/ITyukz11/payops/pkg/database"
	"github.com/ITyukz11/payops/pkg/httpclient"
	"github.com/ITyukz11/payops/pkg/mq"
	"github.com/ITyukz11/payops/pkg/qbet"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			NewMetrics,
			NewConnectionDB,
			NewMQConnection,
			NewMQConsumer,
			NewQbetClient,
			NewReconcileConfig,

			repository.NewGatewayTransactionRepository,
			repository.NewRequestRepository,
			repository.NewRequestLogRepository,
			repository.NewTransactionManager,

			service.NewLedgerService,
			service.NewReconcileService,

			consumers.NewReconcileConsumer,
		),
		fx.Invoke(runReconcileConsumer),
	).Run()
}

func runReconcileConsumer(cfg *config.Config, reconcileConsumer consumers.ReconcileConsumer, logger *zap.Logger,
	rabbit *mq.RabbitMQ, lc fx.Lifecycle,
) {
	appCtx, cancel := context.WithCancel(context.Background())
	queue := cfg.Reconcile.Queue

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology([]string{queue}); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}
			logger.Info("queue declared", zap.String("queue", queue))

			go func() {
				if err := reconcileConsumer.Consume(appCtx); err != nil {
					logger.Error("consumer exited", zap.Error(err))
				}
			}()

			logger.Info("reconcile consumer started", zap.Bool("retryFailed", cfg.Reconcile.RetryFailed))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping reconcile consumer")
			cancel()
			return rabbit.Close()
		},
	})
}

func NewReconcileConfig(cfg *config.Config) service.ReconcileConfig {
	return service.ReconcileConfig{RetryFailed: cfg.Reconcile.RetryFailed, MinAge: cfg.Reconcile.Interval}
}

func NewMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.DefaultRegisterer)
}

func NewConnectionDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	ctx := context.Background()
	return database.NewConnection(ctx, cfg.Database, logger)
}

func NewQbetClient(cfg *config.Config) qbet.Client {
	client := httpclient.NewHTTPClient(cfg.HTTPClient)
	return qbet.NewClient(cfg.Qbet, client)
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(cfg.RabbitMQ, logger)
}

func NewMQConsumer(rabbitMQ *mq.RabbitMQ) (mq.Consumer, error) {
	return rabbitMQ.CreateConsumer()
}
