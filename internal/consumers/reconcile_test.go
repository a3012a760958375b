package consumers_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ITyukz11/payops/internal/config"
	"github.com/ITyukz11/payops/internal/constants"
	"github.com/ITyukz11/payops/internal/consumers"
	"github.com/ITyukz11/payops/internal/mocks"
	"github.com/ITyukz11/payops/internal/model"
	"github.com/ITyukz11/payops/internal/service"
	"github.com/ITyukz11/payops/pkg/mq"
	pkgmocks "github.com/ITyukz11/payops/pkg/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// captureHandler starts the consumer against a mock broker and returns the
// handler it registered.
func captureHandler(t *testing.T, reconcile service.ReconcileService) mq.Handle {
	t.Helper()

	var handler mq.Handle
	consumer := new(pkgmocks.Consumer)
	consumer.On("Consume", mock.Anything, 1, "payops.ledger.retry", mock.Anything).
		Run(func(args mock.Arguments) {
			handler = args.Get(3).(mq.Handle)
		}).
		Return(nil)

	cfg := &config.Config{Reconcile: config.Reconcile{Queue: "payops.ledger.retry"}}
	c := consumers.NewReconcileConsumer(cfg, reconcile, consumer, zap.NewNop())
	require.NoError(t, c.Consume(context.Background()))
	require.NotNil(t, handler)

	return handler
}

func TestReconcileConsumer_HandleMessage(t *testing.T) {
	cmd := service.RetryLedgerCommand{EntityType: model.EntityGatewayTransaction, ID: "ref-1"}
	body := []byte(`{"entity_type":"GATEWAY_TRANSACTION","id":"ref-1"}`)

	tests := []struct {
		name          string
		retryErr      error
		wantErr       bool
		wantTemporary bool
	}{
		{name: "retried", retryErr: nil},
		{name: "retries disabled acks", retryErr: service.ErrRetryDisabled},
		{name: "ledger failure acks", retryErr: service.NewServiceError(constants.ErrCodeLedgerFailed, errors.New("timeout"))},
		{
			name:          "database error requeues",
			retryErr:      service.NewServiceError(constants.ErrCodeDatabase, errors.New("deadlock")),
			wantErr:       true,
			wantTemporary: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reconcile := new(mocks.ReconcileService)
			reconcile.On("Retry", mock.Anything, cmd).Return(tt.retryErr)

			err := captureHandler(t, reconcile)(context.Background(), body)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.wantTemporary, mq.IsTemporary(err))
			} else {
				assert.NoError(t, err)
			}
			reconcile.AssertExpectations(t)
		})
	}
}

func TestReconcileConsumer_InvalidBody(t *testing.T) {
	reconcile := new(mocks.ReconcileService)

	err := captureHandler(t, reconcile)(context.Background(), []byte("not json"))
	require.Error(t, err)
	assert.False(t, mq.IsTemporary(err))
	reconcile.AssertNotCalled(t, "Retry", mock.Anything, mock.Anything)
}
