package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ITyukz11/payops/internal/constants"
	"github.com/ITyukz11/payops/internal/metrics"
	"github.com/ITyukz11/payops/internal/mocks"
	"github.com/ITyukz11/payops/internal/model"
	"github.com/ITyukz11/payops/internal/service"
	"github.com/ITyukz11/payops/pkg/qbet"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTransition_CompleteCashin(t *testing.T) {
	ctx := context.Background()

	t.Run("credits the ledger once and stores the balance", func(t *testing.T) {
		h := newHarness(t)
		h.seedRequest(t, "ci-1", model.RequestKindCashin, model.RequestStatusPending, "player-1")

		h.ledger.On("Credit", mock.Anything, mock.MatchedBy(func(cmd service.CreditCommand) bool {
			return cmd.ExternalUserID == "player-1" &&
				cmd.TransactionRef == "ci-1" &&
				cmd.Type == qbet.TransactionTypeDeposit &&
				cmd.Amount.Equal(decimal.NewFromInt(500))
		})).Return(creditOK(1500), nil).Once()

		got, err := h.transitionService().Transition(ctx, service.TransitionCommand{
			Kind:      model.RequestKindCashin,
			RequestID: "ci-1",
			Target:    model.RequestStatusCompleted,
			Actor:     loader,
		})

		require.NoError(t, err)
		assert.Equal(t, model.RequestStatusCompleted, got.Status)

		stored := h.request(t, "ci-1")
		assert.Equal(t, model.RequestStatusCompleted, stored.Status)
		assert.True(t, stored.BalanceAfter.Valid)
		assert.True(t, stored.BalanceAfter.Decimal.Equal(decimal.NewFromInt(1500)))

		logs := h.logsFor(t, model.EntityCashin, "ci-1")
		require.Len(t, logs, 1)
		assert.Equal(t, "COMPLETED", logs[0].Action)
		assert.Equal(t, "PENDING", logs[0].FromStatus)
		assert.Equal(t, loader.ID, logs[0].PerformedByID)

		assert.Contains(t, h.dispatcher.Dispatched(), "notify-status-changed")
		h.ledger.AssertNumberOfCalls(t, "Credit", 1)
	})

	t.Run("uses the supplied external user id", func(t *testing.T) {
		h := newHarness(t)
		h.seedRequest(t, "ci-1", model.RequestKindCashin, model.RequestStatusPending, "")

		h.ledger.On("Credit", mock.Anything, mock.MatchedBy(func(cmd service.CreditCommand) bool {
			return cmd.ExternalUserID == "player-9"
		})).Return(creditOK(500), nil).Once()

		_, err := h.transitionService().Transition(ctx, service.TransitionCommand{
			Kind:           model.RequestKindCashin,
			RequestID:      "ci-1",
			Target:         model.RequestStatusCompleted,
			ExternalUserID: "player-9",
			Actor:          admin,
		})

		require.NoError(t, err)
		assert.Equal(t, "player-9", h.request(t, "ci-1").ExternalUser())
	})

	t.Run("refuses to complete without an external user", func(t *testing.T) {
		h := newHarness(t)
		h.seedRequest(t, "ci-1", model.RequestKindCashin, model.RequestStatusPending, "")

		_, err := h.transitionService().Transition(ctx, service.TransitionCommand{
			Kind:      model.RequestKindCashin,
			RequestID: "ci-1",
			Target:    model.RequestStatusCompleted,
			Actor:     admin,
		})

		assert.Equal(t, constants.ErrCodeValidationFailed, service.CodeOf(err))
		assert.Equal(t, model.RequestStatusPending, h.request(t, "ci-1").Status)
		assert.Empty(t, h.logsFor(t, model.EntityCashin, "ci-1"))
		h.ledger.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything)
	})
}

func TestTransition_LedgerFailure(t *testing.T) {
	h := newHarness(t)
	h.seedRequest(t, "ci-1", model.RequestKindCashin, model.RequestStatusAccommodating, "player-1")

	ledgerErr := service.NewServiceError(constants.ErrCodeLedgerFailed, qbet.ErrTimeout)
	h.ledger.On("Credit", mock.Anything, mock.Anything).
		Return(service.CreditResult{ErrorDetail: "TIMEOUT"}, ledgerErr).Once()

	got, err := h.transitionService().Transition(context.Background(), service.TransitionCommand{
		Kind:      model.RequestKindCashin,
		RequestID: "ci-1",
		Target:    model.RequestStatusCompleted,
		Actor:     loader,
	})

	assert.Nil(t, got)
	assert.ErrorIs(t, err, qbet.ErrTimeout)
	assert.Equal(t, constants.ErrCodeLedgerFailed, service.CodeOf(err))
	assert.Equal(t, 502, constants.GetHTTPStatus(service.CodeOf(err)))

	stored := h.request(t, "ci-1")
	assert.Equal(t, model.RequestStatusFailed, stored.Status)
	require.NotNil(t, stored.LedgerError)
	assert.Equal(t, "TIMEOUT", *stored.LedgerError)

	logs := h.logsFor(t, model.EntityCashin, "ci-1")
	require.Len(t, logs, 2)
	assert.Equal(t, "COMPLETED", logs[0].Action)
	assert.Equal(t, loader.ID, logs[0].PerformedByID)
	assert.Equal(t, "FAILED", logs[1].Action)
	assert.Equal(t, service.SystemActor.ID, logs[1].PerformedByID)

	assert.Contains(t, h.dispatcher.Dispatched(), "mark-ledger-failed")
	for _, taskErr := range h.dispatcher.Errs {
		assert.NoError(t, taskErr)
	}
}

func TestTransition_CashoutUsesWithdraw(t *testing.T) {
	h := newHarness(t)
	h.seedRequest(t, "co-1", model.RequestKindCashout, model.RequestStatusPending, "player-1")

	h.ledger.On("Credit", mock.Anything, mock.MatchedBy(func(cmd service.CreditCommand) bool {
		return cmd.Type == qbet.TransactionTypeWithdraw
	})).Return(creditOK(0), nil).Once()

	_, err := h.transitionService().Transition(context.Background(), service.TransitionCommand{
		Kind:      model.RequestKindCashout,
		RequestID: "co-1",
		Target:    model.RequestStatusCompleted,
		Actor:     accounting,
	})

	require.NoError(t, err)
	h.ledger.AssertExpectations(t)
}

func TestTransition_Refusals(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		kind     model.RequestKind
		seedKind model.RequestKind
		status   model.RequestStatus
		target   model.RequestStatus
		actor    service.Actor
		wantCode string
	}{
		{
			name:     "loader cannot touch cashouts",
			kind:     model.RequestKindCashout,
			seedKind: model.RequestKindCashout,
			status:   model.RequestStatusPending,
			target:   model.RequestStatusRejected,
			actor:    loader,
			wantCode: constants.ErrCodeUnauthorized,
		},
		{
			name:     "accounting cannot touch cashins",
			kind:     model.RequestKindCashin,
			seedKind: model.RequestKindCashin,
			status:   model.RequestStatusPending,
			target:   model.RequestStatusRejected,
			actor:    accounting,
			wantCode: constants.ErrCodeUnauthorized,
		},
		{
			name:     "anonymous actor",
			kind:     model.RequestKindCashin,
			seedKind: model.RequestKindCashin,
			status:   model.RequestStatusPending,
			target:   model.RequestStatusRejected,
			actor:    service.Actor{Role: service.RoleAdmin},
			wantCode: constants.ErrCodeUnauthorized,
		},
		{
			name:     "completed is terminal",
			kind:     model.RequestKindCashin,
			seedKind: model.RequestKindCashin,
			status:   model.RequestStatusCompleted,
			target:   model.RequestStatusRejected,
			actor:    admin,
			wantCode: constants.ErrCodeInvalidTransition,
		},
		{
			name:     "rejected is terminal",
			kind:     model.RequestKindCashout,
			seedKind: model.RequestKindCashout,
			status:   model.RequestStatusRejected,
			target:   model.RequestStatusPending,
			actor:    admin,
			wantCode: constants.ErrCodeInvalidTransition,
		},
		{
			name:     "failed is terminal for operators",
			kind:     model.RequestKindCashin,
			seedKind: model.RequestKindCashin,
			status:   model.RequestStatusFailed,
			target:   model.RequestStatusCompleted,
			actor:    admin,
			wantCode: constants.ErrCodeInvalidTransition,
		},
		{
			name:     "cashout has no partial",
			kind:     model.RequestKindCashout,
			seedKind: model.RequestKindCashout,
			status:   model.RequestStatusPending,
			target:   model.RequestStatusPartial,
			actor:    admin,
			wantCode: constants.ErrCodeInvalidTransition,
		},
		{
			name:     "unknown status",
			kind:     model.RequestKindCashin,
			seedKind: model.RequestKindCashin,
			status:   model.RequestStatusPending,
			target:   model.RequestStatus("DONE"),
			actor:    admin,
			wantCode: constants.ErrCodeValidationFailed,
		},
		{
			name:     "id of another kind",
			kind:     model.RequestKindCashin,
			seedKind: model.RequestKindCashout,
			status:   model.RequestStatusPending,
			target:   model.RequestStatusRejected,
			actor:    admin,
			wantCode: constants.ErrCodeRequestNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.seedRequest(t, "r-1", tt.seedKind, tt.status, "player-1")

			got, err := h.transitionService().Transition(ctx, service.TransitionCommand{
				Kind:      tt.kind,
				RequestID: "r-1",
				Target:    tt.target,
				Actor:     tt.actor,
			})

			assert.Nil(t, got)
			assert.Equal(t, tt.wantCode, service.CodeOf(err))
			assert.Equal(t, tt.status, h.request(t, "r-1").Status)
			assert.Empty(t, h.logsFor(t, tt.seedKind.EntityType(), "r-1"))
			assert.Empty(t, h.dispatcher.Dispatched())
			h.ledger.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything)
		})
	}

	t.Run("missing request", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.transitionService().Transition(ctx, service.TransitionCommand{
			Kind:      model.RequestKindCashin,
			RequestID: "nope",
			Target:    model.RequestStatusRejected,
			Actor:     admin,
		})

		assert.ErrorIs(t, err, service.ErrRequestNotFound)
	})
}

func TestTransition_RejectionNeverCredits(t *testing.T) {
	h := newHarness(t)
	h.seedRequest(t, "ci-1", model.RequestKindCashin, model.RequestStatusPartial, "player-1")

	got, err := h.transitionService().Transition(context.Background(), service.TransitionCommand{
		Kind:      model.RequestKindCashin,
		RequestID: "ci-1",
		Target:    model.RequestStatusRejected,
		Actor:     admin,
	})

	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusRejected, got.Status)
	h.ledger.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything)
}

func TestTransition_PropagatesToTransactionRequest(t *testing.T) {
	h := newHarness(t)
	h.seedRequest(t, "tr-1", model.RequestKindTransactionRequest, model.RequestStatusClaimed, "player-1")
	cashin := &model.Request{
		ID:                   "ci-1",
		Kind:                 model.RequestKindCashin,
		Amount:               decimal.NewFromInt(500),
		Status:               model.RequestStatusPending,
		CasinoGroupID:        "cg-1",
		TransactionRequestID: strPtr("tr-1"),
		ExternalUserID:       strPtr("player-1"),
	}
	require.NoError(t, h.requests.Create(context.Background(), cashin))

	h.ledger.On("Credit", mock.Anything, mock.Anything).Return(creditOK(500), nil).Once()

	_, err := h.transitionService().Transition(context.Background(), service.TransitionCommand{
		Kind:      model.RequestKindCashin,
		RequestID: "ci-1",
		Target:    model.RequestStatusCompleted,
		Actor:     loader,
	})

	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusCompleted, h.request(t, "tr-1").Status)

	logs := h.logsFor(t, model.EntityTransactionRequest, "tr-1")
	require.Len(t, logs, 1)
	assert.Equal(t, "CLAIMED", logs[0].FromStatus)
	assert.Equal(t, loader.ID, logs[0].PerformedByID)
	require.NotNil(t, logs[0].Note)
	assert.Contains(t, *logs[0].Note, "ci-1")
}

func TestTransition_ConcurrentWriters(t *testing.T) {
	h := newHarness(t)
	h.seedRequest(t, "ci-1", model.RequestKindCashin, model.RequestStatusPending, "player-1")
	svc := h.transitionService()

	const writers = 8
	errs := make([]error, writers)

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Transition(context.Background(), service.TransitionCommand{
				Kind:      model.RequestKindCashin,
				RequestID: "ci-1",
				Target:    model.RequestStatusRejected,
				Actor:     admin,
			})
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		code := service.CodeOf(err)
		assert.True(t, code == constants.ErrCodeConcurrentModification || code == constants.ErrCodeInvalidTransition,
			"unexpected code %s", code)
	}

	assert.Equal(t, 1, succeeded)
	assert.Len(t, h.logsFor(t, model.EntityCashin, "ci-1"), 1)
}

func TestTransition_ClaimTransactionRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("only one concurrent claim wins", func(t *testing.T) {
		h := newHarness(t)
		h.seedRequest(t, "tr-1", model.RequestKindTransactionRequest, model.RequestStatusPending, "player-1")
		svc := h.transitionService()

		const claimers = 5
		errs := make([]error, claimers)

		var wg sync.WaitGroup
		for i := 0; i < claimers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = svc.ClaimTransactionRequest(ctx, service.ClaimCommand{ID: "tr-1", Actor: loader})
			}(i)
		}
		wg.Wait()

		var succeeded int
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, service.ErrAlreadyClaimed)
		}

		assert.Equal(t, 1, succeeded)

		stored := h.request(t, "tr-1")
		assert.Equal(t, model.RequestStatusClaimed, stored.Status)
		require.NotNil(t, stored.ClaimedByID)
		assert.Equal(t, loader.ID, *stored.ClaimedByID)
		assert.Len(t, h.logsFor(t, model.EntityTransactionRequest, "tr-1"), 1)
	})

	t.Run("accounting may not claim", func(t *testing.T) {
		h := newHarness(t)
		h.seedRequest(t, "tr-1", model.RequestKindTransactionRequest, model.RequestStatusPending, "player-1")

		_, err := h.transitionService().ClaimTransactionRequest(ctx, service.ClaimCommand{ID: "tr-1", Actor: accounting})

		assert.ErrorIs(t, err, service.ErrUnauthorized)
		assert.Equal(t, model.RequestStatusPending, h.request(t, "tr-1").Status)
	})
}

func TestTransition_DatabaseError(t *testing.T) {
	requestRepo := &mocks.RequestRepository{}
	logRepo := &mocks.RequestLogRepository{}
	txManager := &mocks.TxManager{}
	ledger := &mocks.LedgerService{}
	notifier := &mocks.NotificationService{}
	dispatcher := &mocks.Dispatcher{}

	svc := service.NewTransitionService(requestRepo, logRepo, txManager, ledger, notifier, dispatcher,
		metrics.NewMetrics(prometheus.NewRegistry()), zap.NewNop())

	requestRepo.On("GetByID", mock.Anything, "ci-1").Return(&model.Request{
		ID:            "ci-1",
		Kind:          model.RequestKindCashin,
		Status:        model.RequestStatusPending,
		CasinoGroupID: "cg-1",
		Amount:        decimal.NewFromInt(500),
	}, nil)
	txManager.On("WithTx", mock.Anything, mock.AnythingOfType("func(context.Context) error")).Return(nil)
	requestRepo.On("TryTransition", mock.Anything, "ci-1", model.RequestStatusPending, model.RequestStatusRejected,
		mock.Anything).Return(false, errors.New("connection reset"))

	_, err := svc.Transition(context.Background(), service.TransitionCommand{
		Kind:      model.RequestKindCashin,
		RequestID: "ci-1",
		Target:    model.RequestStatusRejected,
		Actor:     admin,
	})

	assert.ErrorIs(t, err, service.ErrDatabase)
	logRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Empty(t, dispatcher.Dispatched())
}

func strPtr(s string) *string { return &s }
