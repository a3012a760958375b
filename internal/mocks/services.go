package mocks

import (
	"context"

	"github.com/ITyukz11/payops/internal/model"
	"github.com/ITyukz11/payops/internal/service"
	"github.com/ITyukz11/payops/pkg/gateway"
	"github.com/stretchr/testify/mock"
)

type LedgerService struct {
	mock.Mock
}

func (m *LedgerService) Credit(ctx context.Context, cmd service.CreditCommand) (service.CreditResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(service.CreditResult), args.Error(1)
}

type NotificationService struct {
	mock.Mock
}

func (m *NotificationService) Emit(ctx context.Context, casinoGroupID, event string, payload any) error {
	args := m.Called(ctx, casinoGroupID, event, payload)
	return args.Error(0)
}

func (m *NotificationService) PendingCounts(ctx context.Context, casinoGroupID string) (service.PendingCounts, error) {
	args := m.Called(ctx, casinoGroupID)
	return args.Get(0).(service.PendingCounts), args.Error(1)
}

func (m *NotificationService) PublishPendingCounts(ctx context.Context, casinoGroupID string) error {
	args := m.Called(ctx, casinoGroupID)
	return args.Error(0)
}

type NotificationQueueService struct {
	mock.Mock
}

func (m *NotificationQueueService) FindNotificationsToQueue(ctx context.Context, limit int) ([]service.NotificationMessage, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]service.NotificationMessage), args.Error(1)
}

func (m *NotificationQueueService) MarkNotificationAsQueued(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *NotificationQueueService) MarkNotificationFailed(ctx context.Context, id string, cause error) error {
	args := m.Called(ctx, id, cause)
	return args.Error(0)
}

type TransitionService struct {
	mock.Mock
}

func (m *TransitionService) Transition(ctx context.Context, cmd service.TransitionCommand) (*model.Request, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Request), args.Error(1)
}

func (m *TransitionService) ClaimTransactionRequest(ctx context.Context, cmd service.ClaimCommand) (*model.Request, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Request), args.Error(1)
}

type CommissionService struct {
	mock.Mock
}

func (m *CommissionService) Claim(ctx context.Context, cmd service.ClaimCommand) (service.ClaimCommissionResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(service.ClaimCommissionResult), args.Error(1)
}

func (m *CommissionService) Reject(ctx context.Context, cmd service.ClaimCommand) (*model.Commission, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Commission), args.Error(1)
}

type WebhookService struct {
	mock.Mock
}

func (m *WebhookService) HandleCallback(ctx context.Context, callback gateway.Callback) error {
	args := m.Called(ctx, callback)
	return args.Error(0)
}

type AuditService struct {
	mock.Mock
}

func (m *AuditService) ListLogs(ctx context.Context, query service.LogsQuery) ([]model.RequestLog, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]model.RequestLog), args.Error(1)
}

type ReconcileService struct {
	mock.Mock
}

func (m *ReconcileService) FindRetriesToQueue(ctx context.Context, limit int) ([]service.RetryLedgerCommand, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]service.RetryLedgerCommand), args.Error(1)
}

func (m *ReconcileService) Retry(ctx context.Context, cmd service.RetryLedgerCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}
