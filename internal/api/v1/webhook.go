package v1

import (
	"github.com/ITyukz11/payops/internal/api/contract"
	"github.com/ITyukz11/payops/internal/api/validator"
	"github.com/ITyukz11/payops/internal/constants"
	"github.com/ITyukz11/payops/internal/service"
	"github.com/ITyukz11/payops/pkg/gateway"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// WebhookHandler answers payment gateways. Gateways retry on anything but 200, so
// a replayed callback that changes nothing still gets ok.
type WebhookHandler struct {
	logger     *zap.Logger
	service    service.WebhookService
	XValidator validator.IXValidator
}

func NewWebhookHandler(logger *zap.Logger, service service.WebhookService, XValidator validator.IXValidator) *WebhookHandler {
	return &WebhookHandler{logger: logger, service: service, XValidator: XValidator}
}

func (w *WebhookHandler) Dpay(c *fiber.Ctx) error {
	return w.handle(c, gateway.Dpay)
}

func (w *WebhookHandler) OptimumPay(c *fiber.Ctx) error {
	return w.handle(c, gateway.OptimumPay)
}

func (w *WebhookHandler) handle(c *fiber.Ctx, name gateway.Name) error {
	// fiber reuses the body buffer once the handler returns.
	body := append([]byte(nil), c.Body()...)

	callback, err := gateway.Parse(name, body)
	if err != nil {
		w.logger.Warn("Malformed callback", zap.Error(err), zap.String("gateway", string(name)),
			zap.ByteString("body", body))
		return c.Status(fiber.StatusBadRequest).JSON(contract.WebhookResponse{Error: gateway.ErrMalformedPayload.Error()})
	}

	if errs := w.XValidator.Validate(callback); len(errs) > 0 {
		w.logger.Warn("Callback missing fields",
			zap.String("gateway", string(name)),
			zap.String("field", errs[0].FailedField),
			zap.String("referenceID", callback.ReferenceID))
		return c.Status(fiber.StatusBadRequest).JSON(contract.WebhookResponse{Error: constants.ErrCodeValidationFailed})
	}

	if err := w.service.HandleCallback(c.UserContext(), callback); err != nil {
		code := service.CodeOf(err)
		status := constants.GetHTTPStatus(code)
		if code == constants.ErrCodeLedgerFailed {
			status = fiber.StatusInternalServerError
		}

		w.logger.Error("Callback failed",
			zap.Error(err),
			zap.String("gateway", string(name)),
			zap.String("referenceID", callback.ReferenceID),
			zap.Int("status", status))

		return c.Status(status).JSON(contract.WebhookResponse{Error: code})
	}

	return c.JSON(contract.WebhookResponse{OK: true})
}
