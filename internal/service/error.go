package service

import (
	"errors"

	"github.com/ITyukz11/payops/internal/constants"
)

var (
	ErrUnauthorized           = NewServiceError(constants.ErrCodeUnauthorized, errors.New("UNAUTHORIZED"))
	ErrRequestNotFound        = NewServiceError(constants.ErrCodeRequestNotFound, errors.New("REQUEST_NOT_FOUND"))
	ErrCommissionNotFound     = NewServiceError(constants.ErrCodeCommissionNotFound, errors.New("COMMISSION_NOT_FOUND"))
	ErrTransactionNotFound    = NewServiceError(constants.ErrCodeTransactionNotFound, errors.New("TRANSACTION_NOT_FOUND"))
	ErrAlreadyClaimed         = NewServiceError(constants.ErrCodeAlreadyClaimed, errors.New("ALREADY_CLAIMED"))
	ErrConcurrentModification = NewServiceError(constants.ErrCodeConcurrentModification, errors.New("CONCURRENT_MODIFICATION"))
	ErrDatabase               = NewServiceError(constants.ErrCodeDatabase, errors.New("DATABASE_ERROR"))
)

type Error struct {
	Code  string
	Cause error
}

func NewServiceError(code string, cause error) error {
	return Error{Code: code, Cause: cause}
}

func (e Error) Error() string {
	return e.Cause.Error()
}

func (e Error) Unwrap() error {
	return e.Cause
}

// Is matches any service error with the same code, so wrapped causes still compare
// equal to the package sentinels.
func (e Error) Is(target error) bool {
	var other Error
	if errors.As(target, &other) {
		return other.Code == e.Code
	}
	return false
}

func validationError(cause error) error {
	return NewServiceError(constants.ErrCodeValidationFailed, cause)
}

func invalidTransitionError(cause error) error {
	return NewServiceError(constants.ErrCodeInvalidTransition, cause)
}

func ledgerError(cause error) error {
	return NewServiceError(constants.ErrCodeLedgerFailed, cause)
}

func databaseError(cause error) error {
	return NewServiceError(constants.ErrCodeDatabase, cause)
}

func CodeOf(err error) string {
	var serviceErr Error
	if errors.As(err, &serviceErr) {
		return serviceErr.Code
	}
	return constants.ErrCodeInternalError
}
