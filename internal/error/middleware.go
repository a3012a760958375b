package middleware

import (
	"errors"

	"github.com/ITyukz11/payops/internal/constants"
	"github.com/ITyukz11/payops/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var serviceErr service.Error
		if errors.As(err, &serviceErr) {
			return handleServiceError(c, serviceErr, logger)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(Response{
				Error:   fiberErr.Message,
				Code:    constants.ErrCodeInternalError,
				Message: fiberErr.Message,
			})
		}

		logger.Error("Unhandled error",
			zap.Error(err),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()))

		return c.Status(fiber.StatusInternalServerError).JSON(Response{
			Error:   constants.ErrCodeInternalError,
			Code:    constants.ErrCodeInternalError,
			Message: constants.GetErrorMessage(constants.ErrCodeInternalError),
		})
	}
}

func handleServiceError(c *fiber.Ctx, err service.Error, logger *zap.Logger) error {
	errorCode := err.Code

	status := constants.GetHTTPStatus(errorCode)
	if status == fiber.StatusInternalServerError {
		logger.Error("Request failed",
			zap.Error(err),
			zap.String("code", errorCode),
			zap.String("path", c.Path()))

		if errorCode != constants.ErrCodeDatabase {
			errorCode = constants.ErrCodeInternalError
		}
	}

	return c.Status(status).JSON(Response{
		Error:   errorCode,
		Code:    errorCode,
		Message: constants.GetErrorMessage(errorCode),
	})
}
