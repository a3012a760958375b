package main

import (
	"context"
	"time"

	"github.com/ITyukz11/payops/internal/config"
	"github.com/ITyukz11/payops/internal/metrics"
	"github.com/ITyukz11/payops/internal/publishers"
	"github.com/ITyukz11/payops/internal/repository"
	"github.com/ITyukz11/payops/internal/service"
	"github.com/ITyukz11/payops/pkg/database"
	"github.com/ITyukz11/payops/pkg/mq"
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
			NewMQPublisher,

			repository.NewNotificationRepository,

			service.NewNotificationQueueService,

			publishers.NewNotificationPublisher,
		),
		fx.Invoke(runNotificationPublisher),
	).Run()
}

func runNotificationPublisher(cfg *config.Config, publisher publishers.NotificationPublisher, logger *zap.Logger,
	rabbit *mq.RabbitMQ, lc fx.Lifecycle) {
	appCtx, cancel := context.WithCancel(context.Background())
	queue := cfg.Notification.Queue

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rabbit.DeclareTopology([]string{queue}); err != nil {
				logger.Error("declare topology failed", zap.Error(err))
				return err
			}

			logger.Info("queue declared", zap.String("queue", queue))

			go func() {
				ticker := time.NewTicker(cfg.Notification.Interval)
				defer ticker.Stop()

				for {
					select {
					case <-ticker.C:
						if err := publisher.Publish(appCtx); err != nil {
							logger.Error("failed to publish notifications", zap.Error(err))
						}
					case <-appCtx.Done():
						logger.Info("publisher context cancelled")
						return
					}
				}
			}()

			logger.Info("notification publisher started", zap.Duration("interval", cfg.Notification.Interval))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping notification publisher")
			cancel()
			return rabbit.Close()
		},
	})
}

func NewMetrics() *metrics.Metrics {
	return metrics.NewMetrics(prometheus.DefaultRegisterer)
}

func NewConnectionDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	ctx := context.Background()
	return database.NewConnection(ctx, cfg.Database, logger)
}

func NewMQConnection(cfg *config.Config, logger *zap.Logger) (*mq.RabbitMQ, error) {
	return mq.NewConnection(cfg.RabbitMQ, logger)
}

func NewMQPublisher(rabbitMQ *mq.RabbitMQ) (mq.Publisher, error) {
	return rabbitMQ.CreatePublisher()
}
