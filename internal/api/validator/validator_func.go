package validator

import (
	"github.com/ITyukz11/payops/internal/model"
	"github.com/go-playground/validator/v10"
)

const (
	RequestStatusTag = "request_status"
)

var valid = map[string]func(fl validator.FieldLevel) bool{
	RequestStatusTag: ValidateRequestStatus,
}

func ValidateRequestStatus(fl validator.FieldLevel) bool {
	return model.RequestStatus(fl.Field().String()).Valid()
}
