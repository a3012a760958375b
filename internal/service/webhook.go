package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ITyukz11/payops/internal/metrics"
	"github.com/ITyukz11/payops/internal/model"
	"github.com/ITyukz11/payops/internal/repository"
	"github.com/ITyukz11/payops/internal/worker"
	"github.com/ITyukz11/payops/pkg/gateway"
	"github.com/ITyukz11/payops/pkg/qbet"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// WebhookService applies gateway callbacks. Callbacks may arrive any number of times
// and in any order; the player is credited at most once per reference.
type WebhookService interface {
	HandleCallback(ctx context.Context, callback gateway.Callback) error
}

type Webhook struct {
	gatewayRepo repository.GatewayTransactionRepository
	logRepo     repository.RequestLogRepository
	txManager   repository.TxManager
	ledger      LedgerService
	notifier    NotificationService
	dispatcher  worker.Dispatcher
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

func NewWebhookService(gatewayRepo repository.GatewayTransactionRepository, logRepo repository.RequestLogRepository,
	txManager repository.TxManager, ledger LedgerService, notifier NotificationService, dispatcher worker.Dispatcher,
	metrics *metrics.Metrics, logger *zap.Logger) WebhookService {
	return &Webhook{
		gatewayRepo: gatewayRepo,
		logRepo:     logRepo,
		txManager:   txManager,
		ledger:      ledger,
		notifier:    notifier,
		dispatcher:  dispatcher,
		metrics:     metrics,
		logger:      logger,
	}
}

func (w *Webhook) HandleCallback(ctx context.Context, callback gateway.Callback) error {
	gatewayName := string(callback.Gateway)
	actor := GatewayActor(strings.ToLower(gatewayName))
	mapped := model.GatewayStatus(callback.Outcome())

	logger := w.logger.With(
		zap.String("gateway", gatewayName),
		zap.String("referenceID", callback.ReferenceID),
		zap.String("statusCode", callback.StatusCode),
		zap.String("mapped", string(mapped)))

	txn, err := w.findOrCreate(ctx, callback)
	if err != nil {
		w.metrics.RecordWebhook(gatewayName, CodeOf(err))
		logger.Warn("Callback not applied", zap.Error(err))
		return err
	}

	if err := w.gatewayRepo.RecordCallback(ctx, txn.ID, datatypes.JSON(callback.Raw), callback.Description,
		callback.Amount); err != nil {
		w.metrics.RecordWebhook(gatewayName, "error")
		return databaseError(err)
	}
	if !txn.Amount.IsPositive() && callback.Amount.IsPositive() && txn.QbetStatus == model.QbetStatusPending {
		txn.Amount = callback.Amount
	}

	effective := txn.Status
	if mapped != model.GatewayStatusPending && txn.Status == model.GatewayStatusPending {
		changed, err := w.moveGatewayStatus(ctx, txn.ID, mapped, actor)
		if err != nil {
			w.metrics.RecordWebhook(gatewayName, "error")
			return err
		}
		if changed {
			effective = mapped
		} else if current, err := w.gatewayRepo.GetByID(ctx, txn.ID); err == nil {
			effective = current.Status
		}
	}

	if mapped != effective {
		if mapped != model.GatewayStatusPending {
			logger.Warn("Callback disagrees with recorded status, keeping recorded status",
				zap.String("recorded", string(effective)))
			w.metrics.RecordWebhook(gatewayName, "conflict")
		} else {
			w.metrics.RecordWebhook(gatewayName, "pending")
		}
		return nil
	}

	switch effective {
	case model.GatewayStatusCompleted:
		if !txn.Amount.IsPositive() {
			if current, err := w.gatewayRepo.GetByID(ctx, txn.ID); err == nil {
				txn = current
			}
		}
		if !txn.Amount.IsPositive() && txn.QbetStatus == model.QbetStatusPending {
			// Left unclaimed so a callback that carries the amount can still load it.
			logger.Warn("Completed callback for a transaction without amount, credit deferred")
			w.metrics.RecordWebhook(gatewayName, "missing_amount")
			return validationError(fmt.Errorf("gateway transaction %s has no amount", txn.ID))
		}
		return w.load(ctx, txn.ID, callback.Gateway, logger)
	case model.GatewayStatusRejected:
		return w.reject(ctx, txn.ID, callback.Gateway, logger)
	default:
		w.metrics.RecordWebhook(gatewayName, "pending")
		return nil
	}
}

func (w *Webhook) findOrCreate(ctx context.Context, callback gateway.Callback) (*model.GatewayTransaction, error) {
	txn, err := w.gatewayRepo.GetByID(ctx, callback.ReferenceID)
	if err == nil {
		return txn, nil
	}
	if !errors.Is(err, repository.ErrTransactionNotFound) {
		return nil, databaseError(err)
	}

	if callback.ExternalUserID == "" {
		return nil, ErrTransactionNotFound
	}

	created, err := w.gatewayRepo.CreateIfAbsent(ctx, &model.GatewayTransaction{
		ID:             callback.ReferenceID,
		Gateway:        string(callback.Gateway),
		ExternalUserID: callback.ExternalUserID,
		CasinoGroupID:  callback.CasinoGroupID,
		Amount:         callback.Amount,
		Status:         model.GatewayStatusPending,
		QbetStatus:     model.QbetStatusPending,
		RawPayload:     datatypes.JSON(callback.Raw),
	})
	if err != nil {
		return nil, databaseError(err)
	}
	if created {
		w.logger.Info("Gateway transaction recorded",
			zap.String("referenceID", callback.ReferenceID),
			zap.String("gateway", string(callback.Gateway)))
	}

	txn, err = w.gatewayRepo.GetByID(ctx, callback.ReferenceID)
	if err != nil {
		return nil, databaseError(err)
	}

	return txn, nil
}

func (w *Webhook) moveGatewayStatus(ctx context.Context, id string, to model.GatewayStatus, actor Actor) (bool, error) {
	var changed bool

	err := w.txManager.WithTx(ctx, func(ctx context.Context) error {
		ok, err := w.gatewayRepo.TryStatusTransition(ctx, id, model.GatewayStatusPending, to)
		if err != nil {
			return databaseError(err)
		}
		if !ok {
			return nil
		}

		changed = true
		log := newLog(model.EntityGatewayTransaction, id, string(model.GatewayStatusPending), string(to), actor, "")
		if err := w.logRepo.Create(ctx, log); err != nil {
			return databaseError(err)
		}

		return nil
	})

	return changed, err
}

// load credits the player. ClaimForLoading admits exactly one caller per reference;
// everyone else has nothing left to do.
func (w *Webhook) load(ctx context.Context, id string, source gateway.Name, logger *zap.Logger) error {
	gatewayName := string(source)
	actor := GatewayActor(strings.ToLower(gatewayName))

	var claimed bool
	err := w.txManager.WithTx(ctx, func(ctx context.Context) error {
		ok, err := w.gatewayRepo.ClaimForLoading(ctx, id)
		if err != nil {
			return databaseError(err)
		}
		if !ok {
			return nil
		}

		claimed = true
		log := newLog(model.EntityGatewayTransaction, id, string(model.QbetStatusPending),
			string(model.QbetStatusProcessing), actor, "")
		if err := w.logRepo.Create(ctx, log); err != nil {
			return databaseError(err)
		}

		return nil
	})
	if err != nil {
		w.metrics.RecordWebhook(gatewayName, "error")
		return err
	}

	if !claimed {
		logger.Info("Callback already processed, no ledger call")
		w.metrics.RecordWebhook(gatewayName, "duplicate")
		return nil
	}

	txn, err := w.gatewayRepo.GetByID(ctx, id)
	if err != nil {
		w.metrics.RecordWebhook(gatewayName, "error")
		return databaseError(err)
	}

	result, creditErr := w.ledger.Credit(ctx, CreditCommand{
		ExternalUserID: txn.ExternalUserID,
		TransactionRef: txn.ID,
		Type:           qbet.TransactionTypeDeposit,
		Amount:         txn.Amount,
	})

	if creditErr != nil {
		detail := creditDetail(result, creditErr)

		if err := w.finishLoad(ctx, txn, model.QbetStatusFailed, map[string]any{"ledger_error": detail}, actor,
			detail); err != nil {
			logger.Error("Failed to mark gateway transaction FAILED", zap.Error(err))
		}

		w.metrics.RecordWebhook(gatewayName, "ledger_failed")
		w.dispatchEvent(txn.CasinoGroupID, model.NotificationEventLedgerFailed, StatusChangedEvent{
			Entity:  model.EntityGatewayTransaction,
			ID:      txn.ID,
			From:    string(model.QbetStatusProcessing),
			To:      string(model.QbetStatusFailed),
			ActorID: actor.ID,
			Error:   detail,
		})

		return creditErr
	}

	if err := w.finishLoad(ctx, txn, model.QbetStatusLoaded, map[string]any{"balance_after": result.BalanceAfter},
		actor, ""); err != nil {
		logger.Error("Ledger credited but gateway transaction not marked LOADED", zap.Error(err))
		w.metrics.RecordWebhook(gatewayName, "error")
		return databaseError(err)
	}

	logger.Info("Gateway transaction loaded", zap.String("balanceAfter", result.BalanceAfter.String()))
	w.metrics.RecordWebhook(gatewayName, "loaded")
	w.dispatchEvent(txn.CasinoGroupID, model.NotificationEventStatusChanged, StatusChangedEvent{
		Entity:  model.EntityGatewayTransaction,
		ID:      txn.ID,
		From:    string(model.QbetStatusProcessing),
		To:      string(model.QbetStatusLoaded),
		ActorID: actor.ID,
	})

	return nil
}

func (w *Webhook) finishLoad(ctx context.Context, txn *model.GatewayTransaction, to model.QbetStatus,
	fields map[string]any, actor Actor, note string) error {
	return w.txManager.WithTx(ctx, func(ctx context.Context) error {
		ok, err := w.gatewayRepo.TryQbetTransition(ctx, txn.ID, model.QbetStatusProcessing, to, fields)
		if err != nil {
			return err
		}
		if !ok {
			return ErrConcurrentModification
		}

		return w.logRepo.Create(ctx, newLog(model.EntityGatewayTransaction, txn.ID,
			string(model.QbetStatusProcessing), string(to), actor, note))
	})
}

func (w *Webhook) reject(ctx context.Context, id string, source gateway.Name, logger *zap.Logger) error {
	gatewayName := string(source)
	actor := GatewayActor(strings.ToLower(gatewayName))

	var rejected bool
	err := w.txManager.WithTx(ctx, func(ctx context.Context) error {
		ok, err := w.gatewayRepo.TryQbetTransition(ctx, id, model.QbetStatusPending, model.QbetStatusRejected, nil)
		if err != nil {
			return databaseError(err)
		}
		if !ok {
			return nil
		}

		rejected = true
		log := newLog(model.EntityGatewayTransaction, id, string(model.QbetStatusPending),
			string(model.QbetStatusRejected), actor, "")
		if err := w.logRepo.Create(ctx, log); err != nil {
			return databaseError(err)
		}

		return nil
	})
	if err != nil {
		w.metrics.RecordWebhook(gatewayName, "error")
		return err
	}

	w.metrics.RecordWebhook(gatewayName, "rejected")
	if !rejected {
		logger.Debug("Rejection already recorded")
		return nil
	}

	logger.Info("Gateway transaction rejected, no ledger call")

	if txn, err := w.gatewayRepo.GetByID(ctx, id); err == nil {
		w.dispatchEvent(txn.CasinoGroupID, model.NotificationEventStatusChanged, StatusChangedEvent{
			Entity:  model.EntityGatewayTransaction,
			ID:      id,
			From:    string(model.QbetStatusPending),
			To:      string(model.QbetStatusRejected),
			ActorID: actor.ID,
		})
	}

	return nil
}

// dispatchEvent skips callbacks that never told us their casino group.
func (w *Webhook) dispatchEvent(casinoGroupID, event string, payload StatusChangedEvent) {
	if casinoGroupID == "" {
		return
	}

	w.dispatcher.Dispatch("notify-"+event, notifyTask(w.notifier, casinoGroupID, event, payload))
}
