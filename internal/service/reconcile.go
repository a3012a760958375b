package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ITyukz11/payops/internal/metrics"
	"github.com/ITyukz11/payops/internal/model"
	"github.com/ITyukz11/payops/internal/repository"
	"github.com/ITyukz11/payops/pkg/qbet"
	"go.uber.org/zap"
)

// ReconcileService finds ledger credits that ended FAILED and, when retries are
// enabled, replays them one at a time.
type ReconcileService interface {
	FindRetriesToQueue(ctx context.Context, limit int) ([]RetryLedgerCommand, error)
	Retry(ctx context.Context, cmd RetryLedgerCommand) error
}

type ReconcileConfig struct {
	RetryFailed bool
	// MinAge keeps a row out of the batch until it has been FAILED this long.
	MinAge time.Duration
}

type Reconcile struct {
	gatewayRepo repository.GatewayTransactionRepository
	requestRepo repository.RequestRepository
	logRepo     repository.RequestLogRepository
	txManager   repository.TxManager
	ledger      LedgerService
	config      ReconcileConfig
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

var reconcileActor = Actor{ID: "system:reconcile", Role: RoleSystem}

// ErrRetryDisabled is returned by Retry when FAILED credits must stay FAILED.
var ErrRetryDisabled = errors.New("ledger retry is disabled")

func NewReconcileService(gatewayRepo repository.GatewayTransactionRepository, requestRepo repository.RequestRepository,
	logRepo repository.RequestLogRepository, txManager repository.TxManager, ledger LedgerService, config ReconcileConfig,
	metrics *metrics.Metrics, logger *zap.Logger) ReconcileService {
	return &Reconcile{
		gatewayRepo: gatewayRepo,
		requestRepo: requestRepo,
		logRepo:     logRepo,
		txManager:   txManager,
		ledger:      ledger,
		config:      config,
		metrics:     metrics,
		logger:      logger,
	}
}

func (r *Reconcile) FindRetriesToQueue(ctx context.Context, limit int) ([]RetryLedgerCommand, error) {
	before := time.Now().UTC().Add(-r.config.MinAge)

	txns, err := r.gatewayRepo.ListByQbetStatus(ctx, model.QbetStatusFailed, before, limit)
	if err != nil {
		r.logger.Error("Failed to list FAILED gateway transactions", zap.Error(err))
		return nil, err
	}

	requests, err := r.requestRepo.ListByStatus(ctx, model.RequestStatusFailed, before, limit)
	if err != nil {
		r.logger.Error("Failed to list FAILED requests", zap.Error(err))
		return nil, err
	}

	r.metrics.SetFailedCredits(string(model.EntityGatewayTransaction), len(txns))
	r.metrics.SetFailedCredits("REQUEST", len(requests))

	if len(txns) == 0 && len(requests) == 0 {
		return nil, nil
	}

	r.logger.Warn("Ledger credits awaiting reconciliation",
		zap.Int("gatewayTransactions", len(txns)),
		zap.Int("requests", len(requests)),
		zap.Bool("retryEnabled", r.config.RetryFailed))

	if !r.config.RetryFailed {
		return nil, nil
	}

	commands := make([]RetryLedgerCommand, 0, len(txns)+len(requests))
	for _, txn := range txns {
		commands = append(commands, RetryLedgerCommand{EntityType: model.EntityGatewayTransaction, ID: txn.ID})
	}
	for _, request := range requests {
		commands = append(commands, RetryLedgerCommand{EntityType: request.Kind.EntityType(), ID: request.ID})
	}

	return commands, nil
}

// Retry makes one more ledger attempt. A command that loses the conditional update
// was already picked up by someone else and is dropped.
func (r *Reconcile) Retry(ctx context.Context, cmd RetryLedgerCommand) error {
	if !r.config.RetryFailed {
		r.logger.Warn("Retry command ignored, retries disabled", zap.String("id", cmd.ID))
		return ErrRetryDisabled
	}

	switch cmd.EntityType {
	case model.EntityGatewayTransaction:
		return r.retryGatewayTransaction(ctx, cmd.ID)
	case model.EntityCashin, model.EntityCashout:
		return r.retryRequest(ctx, cmd.ID)
	default:
		return validationError(fmt.Errorf("entity %s has no ledger side", cmd.EntityType))
	}
}

func (r *Reconcile) retryGatewayTransaction(ctx context.Context, id string) error {
	claimed, err := r.moveQbet(ctx, id, model.QbetStatusFailed, model.QbetStatusProcessing, nil, "retry")
	if err != nil {
		return databaseError(err)
	}
	if !claimed {
		r.logger.Info("Gateway transaction no longer FAILED, retry dropped", zap.String("referenceID", id))
		return nil
	}

	txn, err := r.gatewayRepo.GetByID(ctx, id)
	if err != nil {
		return databaseError(err)
	}

	result, creditErr := r.ledger.Credit(ctx, CreditCommand{
		ExternalUserID: txn.ExternalUserID,
		TransactionRef: txn.ID,
		Type:           qbet.TransactionTypeDeposit,
		Amount:         txn.Amount,
	})
	if creditErr != nil {
		detail := creditDetail(result, creditErr)
		if _, err := r.moveQbet(ctx, id, model.QbetStatusProcessing, model.QbetStatusFailed,
			map[string]any{"ledger_error": detail}, detail); err != nil {
			return databaseError(err)
		}
		r.logger.Warn("Ledger retry failed", zap.String("referenceID", id), zap.Error(creditErr))
		return nil
	}

	if _, err := r.moveQbet(ctx, id, model.QbetStatusProcessing, model.QbetStatusLoaded,
		map[string]any{"balance_after": result.BalanceAfter, "ledger_error": nil}, ""); err != nil {
		return databaseError(err)
	}

	r.logger.Info("Ledger retry succeeded", zap.String("referenceID", id))
	return nil
}

func (r *Reconcile) moveQbet(ctx context.Context, id string, from, to model.QbetStatus, fields map[string]any,
	note string) (bool, error) {
	var moved bool

	err := r.txManager.WithTx(ctx, func(ctx context.Context) error {
		ok, err := r.gatewayRepo.TryQbetTransition(ctx, id, from, to, fields)
		if err != nil || !ok {
			return err
		}

		moved = true
		return r.logRepo.Create(ctx, newLog(model.EntityGatewayTransaction, id, string(from), string(to),
			reconcileActor, note))
	})

	return moved, err
}

// retryRequest moves a FAILED request back to COMPLETED before the ledger call, the
// same order the transition engine uses. Another failure puts it back to FAILED.
func (r *Reconcile) retryRequest(ctx context.Context, id string) error {
	request, err := r.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRequestNotFound) {
			return nil
		}
		return databaseError(err)
	}

	ledgerType, ok := ledgerTypeFor(request.Kind, model.RequestStatusCompleted)
	if !ok {
		return nil
	}

	claimed, err := r.moveRequest(ctx, request, model.RequestStatusFailed, model.RequestStatusCompleted, nil, "retry")
	if err != nil {
		return databaseError(err)
	}
	if !claimed {
		r.logger.Info("Request no longer FAILED, retry dropped", zap.String("requestID", id))
		return nil
	}

	result, creditErr := r.ledger.Credit(ctx, CreditCommand{
		ExternalUserID: request.ExternalUser(),
		TransactionRef: request.ID,
		Type:           ledgerType,
		Amount:         request.Amount,
	})
	if creditErr != nil {
		detail := creditDetail(result, creditErr)
		if _, err := r.moveRequest(ctx, request, model.RequestStatusCompleted, model.RequestStatusFailed,
			map[string]any{"ledger_error": detail}, detail); err != nil {
			return databaseError(err)
		}
		r.logger.Warn("Ledger retry failed", zap.String("requestID", id), zap.Error(creditErr))
		return nil
	}

	err = r.requestRepo.Update(ctx, id, map[string]any{"balance_after": result.BalanceAfter, "ledger_error": nil})
	if err != nil {
		return databaseError(err)
	}

	r.logger.Info("Ledger retry succeeded", zap.String("requestID", id))
	return nil
}

func (r *Reconcile) moveRequest(ctx context.Context, request *model.Request, from, to model.RequestStatus,
	fields map[string]any, note string) (bool, error) {
	var moved bool

	err := r.txManager.WithTx(ctx, func(ctx context.Context) error {
		ok, err := r.requestRepo.TryTransition(ctx, request.ID, from, to, fields)
		if err != nil || !ok {
			return err
		}

		moved = true
		return r.logRepo.Create(ctx, newLog(request.Kind.EntityType(), request.ID, string(from), string(to),
			reconcileActor, note))
	})

	return moved, err
}

func creditDetail(result CreditResult, err error) string {
	if result.ErrorDetail != "" {
		return result.ErrorDetail
	}
	return err.Error()
}
