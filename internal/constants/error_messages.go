package constants

const (
	ErrCodeValidationFailed       = "VALIDATION_FAILED"
	ErrCodeInvalidRequestBody     = "INVALID_REQUEST_BODY"
	ErrCodeUnauthorized           = "UNAUTHORIZED"
	ErrCodeUnauthenticated        = "UNAUTHENTICATED"
	ErrCodeRequestNotFound        = "REQUEST_NOT_FOUND"
	ErrCodeCommissionNotFound     = "COMMISSION_NOT_FOUND"
	ErrCodeTransactionNotFound    = "TRANSACTION_NOT_FOUND"
	ErrCodeInvalidTransition      = "INVALID_TRANSITION"
	ErrCodeAlreadyClaimed         = "ALREADY_CLAIMED"
	ErrCodeConcurrentModification = "CONCURRENT_MODIFICATION"
	ErrCodeLedgerFailed           = "LEDGER_FAILED"
	ErrCodeDatabase               = "DATABASE_ERROR"
	ErrCodeInternalError          = "INTERNAL_ERROR"
)

const (
	ErrMsgValidationFailed       = "request validation failed"
	ErrMsgInvalidRequestBody     = "failed to parse request body"
	ErrMsgUnauthorized           = "actor is not allowed to perform this action"
	ErrMsgUnauthenticated        = "missing or invalid credentials"
	ErrMsgRequestNotFound        = "request not found"
	ErrMsgCommissionNotFound     = "commission not found"
	ErrMsgTransactionNotFound    = "transaction not found"
	ErrMsgInvalidTransition      = "status transition is not allowed"
	ErrMsgAlreadyClaimed         = "already claimed"
	ErrMsgConcurrentModification = "request was modified concurrently, reload and retry"
	ErrMsgLedgerFailed           = "ledger credit failed"
	ErrMsgDatabase               = "database error"
	ErrMsgInternalError          = "Internal server error"
)

const (
	MessageErrorFormat   = "%s is invalid"
	StatusUpdated        = "status updated successfully"
	ClaimedSuccessfully  = "claimed successfully"
	WebhookAccepted      = "callback processed"
	PendingCountsFetched = "pending counts retrieved"
	LogsFetched          = "request logs retrieved"
)

var errorMessages = map[string]string{
	ErrCodeValidationFailed:       ErrMsgValidationFailed,
	ErrCodeInvalidRequestBody:     ErrMsgInvalidRequestBody,
	ErrCodeUnauthorized:           ErrMsgUnauthorized,
	ErrCodeUnauthenticated:        ErrMsgUnauthenticated,
	ErrCodeRequestNotFound:        ErrMsgRequestNotFound,
	ErrCodeCommissionNotFound:     ErrMsgCommissionNotFound,
	ErrCodeTransactionNotFound:    ErrMsgTransactionNotFound,
	ErrCodeInvalidTransition:      ErrMsgInvalidTransition,
	ErrCodeAlreadyClaimed:         ErrMsgAlreadyClaimed,
	ErrCodeConcurrentModification: ErrMsgConcurrentModification,
	ErrCodeLedgerFailed:           ErrMsgLedgerFailed,
	ErrCodeDatabase:               ErrMsgDatabase,
	ErrCodeInternalError:          ErrMsgInternalError,
}

func GetErrorMessage(code string) string {
	if msg, exists := errorMessages[code]; exists {
		return msg
	}
	return ErrMsgInternalError
}

func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeValidationFailed, ErrCodeInvalidRequestBody:
		return 400
	case ErrCodeUnauthenticated:
		return 401
	case ErrCodeUnauthorized:
		return 403
	case ErrCodeRequestNotFound, ErrCodeCommissionNotFound, ErrCodeTransactionNotFound:
		return 404
	case ErrCodeInvalidTransition, ErrCodeAlreadyClaimed, ErrCodeConcurrentModification:
		return 409
	case ErrCodeLedgerFailed:
		return 502
	default:
		return 500
	}
}
