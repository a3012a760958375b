package qbet

import "errors"

const (
	ErrCodeValidationFailed     = "VALIDATION_FAILED"
	ErrCodeUnauthorized         = "UNAUTHORIZED"
	ErrCodeUserNotFound         = "USER_NOT_FOUND"
	ErrCodeDuplicateTransaction = "DUPLICATE_TRANSACTION"
	ErrCodeRejected             = "REJECTED"
	ErrCodeTimeout              = "TIMEOUT"
	ErrCodeServerError          = "SERVER_ERROR"
)

var (
	ErrValidationFailed     = errors.New(ErrCodeValidationFailed)
	ErrUnauthorized         = errors.New(ErrCodeUnauthorized)
	ErrUserNotFound         = errors.New(ErrCodeUserNotFound)
	ErrDuplicateTransaction = errors.New(ErrCodeDuplicateTransaction)
	ErrRejected             = errors.New(ErrCodeRejected)
	ErrTimeout              = errors.New(ErrCodeTimeout)
	ErrServerError          = errors.New(ErrCodeServerError)
)

var statusErrorMap = map[int]error{
	400: ErrValidationFailed,
	401: ErrUnauthorized,
	403: ErrUnauthorized,
	404: ErrUserNotFound,
	409: ErrDuplicateTransaction,
	422: ErrValidationFailed,
}

func MapStatusToError(statusCode int) error {
	if err, exists := statusErrorMap[statusCode]; exists {
		return err
	}

	return ErrServerError
}
