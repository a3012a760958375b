package repository

import "errors"

var (
	ErrRequestNotFound     = errors.New("REQUEST_NOT_FOUND")
	ErrCommissionNotFound  = errors.New("COMMISSION_NOT_FOUND")
	ErrTransactionNotFound = errors.New("TRANSACTION_NOT_FOUND")
	ErrDuplicate           = errors.New("DUPLICATE")
)
