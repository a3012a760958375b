package v1

import (
	"errors"
	"strings"

	"github.com/ITyukz11/payops/internal/api/contract"
	"github.com/ITyukz11/payops/internal/api/middleware"
	"github.com/ITyukz11/payops/internal/api/validator"
	"github.com/ITyukz11/payops/internal/constants"
	"github.com/ITyukz11/payops/internal/model"
	"github.com/ITyukz11/payops/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var errNoActor = service.NewServiceError(constants.ErrCodeUnauthenticated, errors.New("no authenticated actor"))

type Handler struct {
	logger     *zap.Logger
	transition service.TransitionService
	commission service.CommissionService
	audit      service.AuditService
	notifier   service.NotificationService
	XValidator validator.IXValidator
}

func NewHandler(logger *zap.Logger, transition service.TransitionService, commission service.CommissionService,
	audit service.AuditService, notifier service.NotificationService, XValidator validator.IXValidator) *Handler {
	return &Handler{
		logger:     logger,
		transition: transition,
		commission: commission,
		audit:      audit,
		notifier:   notifier,
		XValidator: XValidator,
	}
}

func (h *Handler) UpdateCashinStatus(c *fiber.Ctx) error {
	return h.updateStatus(c, model.RequestKindCashin)
}

func (h *Handler) UpdateCashoutStatus(c *fiber.Ctx) error {
	return h.updateStatus(c, model.RequestKindCashout)
}

func (h *Handler) UpdateTransactionRequestStatus(c *fiber.Ctx) error {
	return h.updateStatus(c, model.RequestKindTransactionRequest)
}

func (h *Handler) updateStatus(c *fiber.Ctx, kind model.RequestKind) error {
	var handlerRequest UpdateStatusRequest

	responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Warn("Error Validator", zap.Any("request", handlerRequest), zap.String("kind", string(kind)))
		return c.JSON(responseError)
	}

	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return errNoActor
	}

	cmd := service.TransitionCommand{
		Kind:           kind,
		RequestID:      c.Params("id"),
		Target:         model.RequestStatus(handlerRequest.Status),
		ExternalUserID: strings.TrimSpace(handlerRequest.ExternalUserID),
		Actor:          actor,
	}

	request, err := h.transition.Transition(c.UserContext(), cmd)
	if err != nil {
		h.logger.Warn("Status update failed",
			zap.Error(err),
			zap.String("kind", string(kind)),
			zap.String("requestID", cmd.RequestID),
			zap.String("target", handlerRequest.Status),
			zap.String("actorID", actor.ID))
		return err
	}

	return c.JSON(success(c, constants.StatusUpdated, toRequestResponse(request)))
}

func (h *Handler) ClaimTransactionRequest(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return errNoActor
	}

	request, err := h.transition.ClaimTransactionRequest(c.UserContext(), service.ClaimCommand{
		ID:    c.Params("id"),
		Actor: actor,
	})
	if err != nil {
		return err
	}

	return c.JSON(success(c, constants.ClaimedSuccessfully, toRequestResponse(request)))
}

func (h *Handler) ClaimCommission(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return errNoActor
	}

	result, err := h.commission.Claim(c.UserContext(), service.ClaimCommand{ID: c.Params("id"), Actor: actor})
	if err != nil {
		return err
	}

	return c.JSON(success(c, constants.ClaimedSuccessfully, ClaimCommissionResponse{
		Commission: toCommissionResponse(result.Commission),
		Cashout:    toRequestResponse(result.Cashout),
	}))
}

func (h *Handler) UpdateCommissionStatus(c *fiber.Ctx) error {
	var handlerRequest UpdateCommissionStatusRequest

	responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		return c.JSON(responseError)
	}

	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return errNoActor
	}

	commission, err := h.commission.Reject(c.UserContext(), service.ClaimCommand{ID: c.Params("id"), Actor: actor})
	if err != nil {
		return err
	}

	return c.JSON(success(c, constants.StatusUpdated, toCommissionResponse(commission)))
}

func (h *Handler) PendingCounts(c *fiber.Ctx) error {
	if _, ok := middleware.ActorFrom(c); !ok {
		return errNoActor
	}

	counts, err := h.notifier.PendingCounts(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(success(c, constants.PendingCountsFetched, counts))
}

func (h *Handler) RequestLogs(c *fiber.Ctx) error {
	if _, ok := middleware.ActorFrom(c); !ok {
		return errNoActor
	}

	entity := model.EntityType(strings.ToUpper(c.Query("entity")))
	if entity != "" && !validEntity(entity) {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(contract.ResponseError{
			Code:    constants.ErrCodeValidationFailed,
			Message: "entity is invalid",
			Error:   constants.GetErrorMessage(constants.ErrCodeValidationFailed),
		})
	}

	logs, err := h.audit.ListLogs(c.UserContext(), service.LogsQuery{EntityType: entity, ID: c.Params("id")})
	if err != nil {
		return err
	}

	return c.JSON(success(c, constants.LogsFetched, toLogResponses(logs)))
}

func validEntity(entity model.EntityType) bool {
	switch entity {
	case model.EntityCashin, model.EntityCashout, model.EntityTransactionRequest, model.EntityCommission,
		model.EntityGatewayTransaction:
		return true
	}
	return false
}

func success(c *fiber.Ctx, message string, result any) contract.Response {
	return contract.Response{
		Successful: true,
		Code:       "success",
		Message:    message,
		TrackID:    trackID(c),
		Result:     result,
	}
}

func trackID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
