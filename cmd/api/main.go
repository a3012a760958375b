package main

import (
	"context"
	"time"

	"github.com/ITyukz11/payops/internal/api"
	"github.com/ITyukz11/payops/internal/api/middleware"
	v1 "github.com/ITyukz11/payops/internal/api/v1"
	"github.com/ITyukz11/payops/internal/api/validator"
	"github.com/ITyukz11/payops/internal/config"
	errmiddleware "github.com/ITyukz11/payops/internal/error"
	"github.com/ITyukz11/payops/internal/metrics"
	"github.com/ITyukz11/payops/internal/repository"
	"github.com/ITyukz11/payops/internal/service"
	"github.com/ITyukz11/payops/internal/worker"
	"github.com/ITyukz11/payops/pkg/database"
	"github.com/ITyukz11/payops/pkg/httpclient"
	"github.com/ITyukz11/payops/pkg/qbet"
	playground "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
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
			NewFiber,
			NewWorkerPool,
			NewDispatcher,
			NewQbetClient,
			NewXValidator,

			repository.NewRequestRepository,
			repository.NewRequestLogRepository,
			repository.NewCommissionRepository,
			repository.NewGatewayTransactionRepository,
			repository.NewNotificationRepository,
			repository.NewTransactionManager,

			service.NewLedgerService,
			service.NewNotificationService,
			service.NewTransitionService,
			service.NewCommissionService,
			service.NewWebhookService,
			service.NewAuditService,

			api.NewHandler,
			v1.NewHandler,
			v1.NewWebhookHandler,
		),
		fx.Invoke(startServer),
	).Run()
}

func startServer(app *fiber.App, handler *api.Handler, v1Handler *v1.Handler, webhookHandler *v1.WebhookHandler,
	pool *worker.Pool, m *metrics.Metrics, db *gorm.DB, cfg *config.Config, logger *zap.Logger, lc fx.Lifecycle) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(metrics.HTTPMetricsMiddleware(m, logger))

	api.SetupRoutes(app, handler, v1Handler, webhookHandler, middleware.AuthConfig{
		Secret: cfg.Auth.JWTSecret,
		Issuer: cfg.Auth.Issuer,
	})

	collector := metrics.NewCollector(m, logger, db)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			collector.Start(15 * time.Second)

			go func() {
				if err := app.Listen(cfg.API.Port); err != nil {
					logger.Error("server stopped", zap.Error(err))
				}
			}()

			logger.Info("api started", zap.String("port", cfg.API.Port), zap.String("service", cfg.API.ServiceName))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping api")
			collector.Stop()

			if err := app.ShutdownWithContext(ctx); err != nil {
				return err
			}

			// Side effects queued by the last requests still get to run.
			return pool.Shutdown(ctx)
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

func NewFiber(logger *zap.Logger) *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: errmiddleware.ErrorHandler(logger),
	})
}

func NewWorkerPool(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) *worker.Pool {
	return worker.NewPool(cfg.Worker.Size, cfg.Worker.TaskTimeout, logger, m)
}

func NewDispatcher(pool *worker.Pool) worker.Dispatcher {
	return pool
}

func NewQbetClient(cfg *config.Config) qbet.Client {
	client := httpclient.NewHTTPClient(cfg.HTTPClient)
	return qbet.NewClient(cfg.Qbet, client)
}

func NewXValidator(m *metrics.Metrics) validator.IXValidator {
	return validator.NewXValidator(playground.New(), m)
}
