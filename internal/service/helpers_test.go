package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/ITyukz11/payops/internal/metrics"
	"github.com/ITyukz11/payops/internal/mocks"
	"github.com/ITyukz11/payops/internal/model"
	"github.com/ITyukz11/payops/internal/repository"
	"github.com/ITyukz11/payops/internal/service"
	"github.com/ITyukz11/payops/internal/testutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	admin      = service.Actor{ID: "admin-1", Role: service.RoleAdmin}
	loader     = service.Actor{ID: "loader-1", Role: service.RoleLoader}
	accounting = service.Actor{ID: "acct-1", Role: service.RoleAccounting}
)

type harness struct {
	db          *gorm.DB
	requests    repository.RequestRepository
	logs        repository.RequestLogRepository
	commissions repository.CommissionRepository
	gateway     repository.GatewayTransactionRepository
	txManager   repository.TxManager
	ledger      *mocks.LedgerService
	dispatcher  *mocks.Dispatcher
	notifier    service.NotificationService
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db := testutil.NewDB(t)
	h := &harness{
		db:          db,
		requests:    repository.NewRequestRepository(db),
		logs:        repository.NewRequestLogRepository(db),
		commissions: repository.NewCommissionRepository(db),
		gateway:     repository.NewGatewayTransactionRepository(db),
		txManager:   repository.NewTransactionManager(db),
		ledger:      &mocks.LedgerService{},
		dispatcher:  &mocks.Dispatcher{},
		metrics:     metrics.NewMetrics(prometheus.NewRegistry()),
		logger:      zap.NewNop(),
	}
	h.notifier = service.NewNotificationService(repository.NewNotificationRepository(db), h.requests, h.commissions,
		h.metrics, h.logger)

	return h
}

func (h *harness) transitionService() service.TransitionService {
	return service.NewTransitionService(h.requests, h.logs, h.txManager, h.ledger, h.notifier, h.dispatcher,
		h.metrics, h.logger)
}

func (h *harness) commissionService() service.CommissionService {
	return service.NewCommissionService(h.commissions, h.requests, h.logs, h.txManager, h.notifier, h.dispatcher,
		h.metrics, h.logger)
}

func (h *harness) webhookService() service.WebhookService {
	return service.NewWebhookService(h.gateway, h.logs, h.txManager, h.ledger, h.notifier, h.dispatcher,
		h.metrics, h.logger)
}

func (h *harness) reconcileService(retry bool) service.ReconcileService {
	return service.NewReconcileService(h.gateway, h.requests, h.logs, h.txManager, h.ledger,
		service.ReconcileConfig{RetryFailed: retry, MinAge: -time.Minute}, h.metrics, h.logger)
}

func (h *harness) seedRequest(t *testing.T, id string, kind model.RequestKind, status model.RequestStatus,
	externalUserID string) *model.Request {
	t.Helper()

	request := &model.Request{
		ID:            id,
		Kind:          kind,
		Amount:        decimal.NewFromInt(500),
		Status:        status,
		CasinoGroupID: "cg-1",
	}
	if externalUserID != "" {
		request.ExternalUserID = &externalUserID
	}
	require.NoError(t, h.requests.Create(context.Background(), request))

	return request
}

func (h *harness) seedGatewayTransaction(t *testing.T, id string, status model.GatewayStatus,
	qbetStatus model.QbetStatus) {
	t.Helper()

	created, err := h.gateway.CreateIfAbsent(context.Background(), &model.GatewayTransaction{
		ID:             id,
		Gateway:        "DPAY",
		ExternalUserID: "player-1",
		CasinoGroupID:  "cg-1",
		Amount:         decimal.NewFromInt(500),
		Status:         status,
		QbetStatus:     qbetStatus,
	})
	require.NoError(t, err)
	require.True(t, created)
}

func (h *harness) request(t *testing.T, id string) *model.Request {
	t.Helper()

	request, err := h.requests.GetByID(context.Background(), id)
	require.NoError(t, err)
	return request
}

func (h *harness) gatewayTransaction(t *testing.T, id string) *model.GatewayTransaction {
	t.Helper()

	txn, err := h.gateway.GetByID(context.Background(), id)
	require.NoError(t, err)
	return txn
}

func (h *harness) logsFor(t *testing.T, entity model.EntityType, id string) []model.RequestLog {
	t.Helper()

	logs, err := h.logs.ListByRequest(context.Background(), entity, id)
	require.NoError(t, err)
	return logs
}

func creditOK(balance int64) service.CreditResult {
	return service.CreditResult{OK: true, BalanceAfter: decimal.NewFromInt(balance)}
}
