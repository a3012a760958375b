package validator

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ITyukz11/payops/internal/api/contract"
	"github.com/ITyukz11/payops/internal/constants"
	"github.com/ITyukz11/payops/internal/metrics"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const (
	sep = " and "
)

type Error struct {
	Error       bool
	FailedField string
	Tag         string
	Value       any
}

type IXValidator interface {
	Validator(data any, message string, c *fiber.Ctx) (responseErr contract.ResponseError)
	Validate(data any) []Error
}

type XValidator struct {
	validator *validator.Validate
	metrics   *metrics.Metrics
}

func NewXValidator(validate *validator.Validate, metrics *metrics.Metrics) IXValidator {
	for key, function := range valid {
		_ = validate.RegisterValidation(key, function)
	}

	return &XValidator{
		validator: validate,
		metrics:   metrics,
	}
}

// Validator parses the body into data and validates it. A non-empty Code on the
// result means the request was refused and the status is already set.
func (x XValidator) Validator(data any, message string, c *fiber.Ctx) (responseErr contract.ResponseError) {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(data); err != nil {
			c.Status(http.StatusBadRequest)
			return contract.ResponseError{
				Code:    constants.ErrCodeInvalidRequestBody,
				Message: constants.GetErrorMessage(constants.ErrCodeInvalidRequestBody),
				Error:   err.Error(),
			}
		}
	}

	if errs := x.Validate(data); len(errs) > 0 && errs[0].Error {
		errMsgs := make([]string, 0, len(errs))
		for _, err := range errs {
			errMsgs = append(errMsgs, fmt.Sprintf(message, err.FailedField))

			if x.metrics != nil {
				x.metrics.RecordValidationError(err.FailedField, err.Tag)
			}
		}

		c.Status(http.StatusBadRequest)

		return contract.ResponseError{
			Code:    constants.ErrCodeValidationFailed,
			Message: strings.Join(errMsgs, sep),
			Error:   constants.GetErrorMessage(constants.ErrCodeValidationFailed),
		}
	}

	return responseErr
}

func (x XValidator) Validate(data any) []Error {
	var validationErrors []Error

	errs := x.validator.Struct(data)
	if errs == nil {
		return nil
	}

	fieldErrs, ok := errs.(validator.ValidationErrors)
	if !ok {
		return []Error{{Error: true, FailedField: "body", Tag: "invalid"}}
	}

	for _, err := range fieldErrs {
		validationErrors = append(validationErrors, Error{
			Error:       true,
			FailedField: err.Field(),
			Tag:         err.Tag(),
			Value:       err.Value(),
		})
	}

	return validationErrors
}
