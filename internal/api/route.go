package api

import (
	"github.com/ITyukz11/payops/internal/api/middleware"
	v1 "github.com/ITyukz11/payops/internal/api/v1"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const prefixV1 = "/api/v1"

func SetupRoutes(app *fiber.App, handler *Handler, v1Handler *v1.Handler, webhookHandler *v1.WebhookHandler,
	auth middleware.AuthConfig) {
	app.Get("/ping", handler.Pong)
	app.Get("/health", handler.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	webhooks := app.Group(prefixV1 + "/webhooks")
	webhooks.Post("/dpay", webhookHandler.Dpay)
	webhooks.Post("/optimumpay", webhookHandler.OptimumPay)

	// Webhooks share the prefix, so auth is attached per route rather than on the group.
	authenticated := middleware.Actor(auth)
	admin := app.Group(prefixV1)
	admin.Patch("/cashins/:id/status", authenticated, v1Handler.UpdateCashinStatus)
	admin.Patch("/cashouts/:id/status", authenticated, v1Handler.UpdateCashoutStatus)
	admin.Patch("/transaction-requests/:id/status", authenticated, v1Handler.UpdateTransactionRequestStatus)
	admin.Post("/transaction-requests/:id/claim", authenticated, v1Handler.ClaimTransactionRequest)
	admin.Post("/commissions/:id/claim", authenticated, v1Handler.ClaimCommission)
	admin.Patch("/commissions/:id/status", authenticated, v1Handler.UpdateCommissionStatus)
	admin.Get("/casino-groups/:id/pending-counts", authenticated, v1Handler.PendingCounts)
	admin.Get("/requests/:id/logs", authenticated, v1Handler.RequestLogs)
}
