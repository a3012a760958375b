package mq_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ITyukz11/payops/pkg/mq"
	"github.com/stretchr/testify/assert"
)

func TestTemporary(t *testing.T) {
	cause := errors.New("database unavailable")

	testCases := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "temporary", err: mq.Temporary(cause), expected: true},
		{name: "wrapped temporary", err: fmt.Errorf("retry: %w", mq.Temporary(cause)), expected: true},
		{name: "permanent", err: cause, expected: false},
		{name: "nil", err: nil, expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, mq.IsTemporary(tc.err))
		})
	}

	assert.Nil(t, mq.Temporary(nil))
	assert.ErrorIs(t, mq.Temporary(cause), cause)
}
