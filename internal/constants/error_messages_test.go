package constants_test

import (
	"testing"

	"github.com/ITyukz11/payops/internal/constants"
	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	testCases := []struct {
		code     string
		expected int
	}{
		{constants.ErrCodeValidationFailed, 400},
		{constants.ErrCodeUnauthenticated, 401},
		{constants.ErrCodeUnauthorized, 403},
		{constants.ErrCodeRequestNotFound, 404},
		{constants.ErrCodeTransactionNotFound, 404},
		{constants.ErrCodeAlreadyClaimed, 409},
		{constants.ErrCodeInvalidTransition, 409},
		{constants.ErrCodeConcurrentModification, 409},
		{constants.ErrCodeLedgerFailed, 502},
		{constants.ErrCodeDatabase, 500},
		{"SOMETHING_ELSE", 500},
	}

	for _, tc := range testCases {
		t.Run(tc.code, func(t *testing.T) {
			assert.Equal(t, tc.expected, constants.GetHTTPStatus(tc.code))
		})
	}
}

func TestGetErrorMessage(t *testing.T) {
	assert.Equal(t, constants.ErrMsgAlreadyClaimed, constants.GetErrorMessage(constants.ErrCodeAlreadyClaimed))
	assert.Equal(t, constants.ErrMsgInternalError, constants.GetErrorMessage("UNKNOWN"))
}
