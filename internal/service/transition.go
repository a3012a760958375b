package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ITyukz11/payops/internal/metrics"
	"github.com/ITyukz11/payops/internal/model"
	"github.com/ITyukz11/payops/internal/repository"
	"github.com/ITyukz11/payops/internal/worker"
	"github.com/ITyukz11/payops/pkg/qbet"
	"go.uber.org/zap"
)

type TransitionService interface {
	Transition(ctx context.Context, cmd TransitionCommand) (*model.Request, error)
	ClaimTransactionRequest(ctx context.Context, cmd ClaimCommand) (*model.Request, error)
}

type Transition struct {
	requestRepo repository.RequestRepository
	logRepo     repository.RequestLogRepository
	txManager   repository.TxManager
	ledger      LedgerService
	notifier    NotificationService
	dispatcher  worker.Dispatcher
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

func NewTransitionService(requestRepo repository.RequestRepository, logRepo repository.RequestLogRepository,
	txManager repository.TxManager, ledger LedgerService, notifier NotificationService, dispatcher worker.Dispatcher,
	metrics *metrics.Metrics, logger *zap.Logger) TransitionService {
	return &Transition{
		requestRepo: requestRepo,
		logRepo:     logRepo,
		txManager:   txManager,
		ledger:      ledger,
		notifier:    notifier,
		dispatcher:  dispatcher,
		metrics:     metrics,
		logger:      logger,
	}
}

func (t *Transition) Transition(ctx context.Context, cmd TransitionCommand) (*model.Request, error) {
	entity := cmd.Kind.EntityType()

	if err := Authorize(cmd.Actor, entity); err != nil {
		t.metrics.RecordTransition(string(entity), string(cmd.Target), "unauthorized")
		t.logger.Warn("Transition refused",
			zap.String("requestID", cmd.RequestID),
			zap.String("actorID", cmd.Actor.ID),
			zap.String("role", string(cmd.Actor.Role)))
		return nil, err
	}

	if !cmd.Target.Valid() {
		return nil, validationError(fmt.Errorf("unknown status %q", cmd.Target))
	}

	request, err := t.requestRepo.GetByID(ctx, cmd.RequestID)
	if err != nil {
		return nil, requestLookupError(err)
	}

	// A cashout id on the cashin route is not a cashin.
	if request.Kind != cmd.Kind {
		return nil, ErrRequestNotFound
	}

	from := request.Status
	if err := model.ValidateTransition(request.Kind, from, cmd.Target); err != nil {
		t.metrics.RecordTransition(string(entity), string(cmd.Target), "invalid")
		return nil, invalidTransitionError(err)
	}

	ledgerType, needsLedger := ledgerTypeFor(request.Kind, cmd.Target)

	externalUserID := request.ExternalUser()
	fields := map[string]any{}
	if cmd.ExternalUserID != "" && cmd.ExternalUserID != externalUserID {
		externalUserID = cmd.ExternalUserID
		fields["external_user_id"] = externalUserID
	}

	if needsLedger && externalUserID == "" {
		return nil, validationError(errors.New("externalUserId is required to complete this request"))
	}
	if needsLedger && !request.Amount.IsPositive() {
		return nil, validationError(fmt.Errorf("amount must be positive, got %s", request.Amount))
	}

	err = t.txManager.WithTx(ctx, func(ctx context.Context) error {
		ok, err := t.requestRepo.TryTransition(ctx, request.ID, from, cmd.Target, fields)
		if err != nil {
			return databaseError(err)
		}
		if !ok {
			return ErrConcurrentModification
		}

		if err := t.logRepo.Create(ctx, newLog(entity, request.ID, string(from), string(cmd.Target), cmd.Actor, "")); err != nil {
			return databaseError(err)
		}

		return nil
	})
	if err != nil {
		t.metrics.RecordTransition(string(entity), string(cmd.Target), CodeOf(err))
		t.logger.Warn("Transition not applied",
			zap.Error(err),
			zap.String("requestID", request.ID),
			zap.String("from", string(from)),
			zap.String("to", string(cmd.Target)))
		return nil, err
	}

	request.Status = cmd.Target
	if externalUserID != "" {
		request.ExternalUserID = &externalUserID
	}

	t.metrics.RecordTransition(string(entity), string(cmd.Target), "success")
	t.logger.Info("Request status changed",
		zap.String("requestID", request.ID),
		zap.String("kind", string(request.Kind)),
		zap.String("from", string(from)),
		zap.String("to", string(cmd.Target)),
		zap.String("actorID", cmd.Actor.ID))

	if needsLedger {
		result, err := t.ledger.Credit(ctx, CreditCommand{
			ExternalUserID: externalUserID,
			TransactionRef: request.ID,
			Type:           ledgerType,
			Amount:         request.Amount,
		})
		if err != nil {
			detail := creditDetail(result, err)
			t.dispatchMarkFailed(request, detail)
			return nil, err
		}

		request.BalanceAfter.Decimal = result.BalanceAfter
		request.BalanceAfter.Valid = true
		if err := t.requestRepo.Update(ctx, request.ID, map[string]any{"balance_after": result.BalanceAfter}); err != nil {
			t.logger.Error("Failed to store balance after ledger call",
				zap.Error(err),
				zap.String("requestID", request.ID))
		}
	}

	t.dispatcher.Dispatch("notify-status-changed", notifyTask(t.notifier, request.CasinoGroupID,
		model.NotificationEventStatusChanged, StatusChangedEvent{
			Entity:  entity,
			ID:      request.ID,
			From:    string(from),
			To:      string(cmd.Target),
			ActorID: cmd.Actor.ID,
		}))

	if request.TransactionRequestID != nil {
		t.propagate(ctx, request, cmd.Actor)
	}

	return request, nil
}

func (t *Transition) ClaimTransactionRequest(ctx context.Context, cmd ClaimCommand) (*model.Request, error) {
	entity := model.EntityTransactionRequest

	if err := Authorize(cmd.Actor, entity); err != nil {
		t.metrics.RecordClaim(string(entity), "unauthorized")
		return nil, err
	}

	request, err := t.requestRepo.GetByID(ctx, cmd.ID)
	if err != nil {
		return nil, requestLookupError(err)
	}
	if request.Kind != model.RequestKindTransactionRequest {
		return nil, ErrRequestNotFound
	}

	err = t.txManager.WithTx(ctx, func(ctx context.Context) error {
		ok, err := t.requestRepo.TryTransition(ctx, request.ID, model.RequestStatusPending, model.RequestStatusClaimed,
			map[string]any{"claimed_by_id": cmd.Actor.ID})
		if err != nil {
			return databaseError(err)
		}
		if !ok {
			return ErrAlreadyClaimed
		}

		log := newLog(entity, request.ID, string(model.RequestStatusPending), string(model.RequestStatusClaimed), cmd.Actor, "")
		if err := t.logRepo.Create(ctx, log); err != nil {
			return databaseError(err)
		}

		return nil
	})
	if err != nil {
		t.metrics.RecordClaim(string(entity), CodeOf(err))
		return nil, err
	}

	t.metrics.RecordClaim(string(entity), "success")
	t.logger.Info("Transaction request claimed",
		zap.String("requestID", request.ID),
		zap.String("actorID", cmd.Actor.ID))

	request.Status = model.RequestStatusClaimed
	request.ClaimedByID = &cmd.Actor.ID

	t.dispatcher.Dispatch("notify-status-changed", notifyTask(t.notifier, request.CasinoGroupID,
		model.NotificationEventStatusChanged, StatusChangedEvent{
			Entity:  entity,
			ID:      request.ID,
			From:    string(model.RequestStatusPending),
			To:      string(model.RequestStatusClaimed),
			ActorID: cmd.Actor.ID,
		}))

	return request, nil
}

// dispatchMarkFailed moves a request whose ledger call failed from COMPLETED to
// FAILED. The caller already has its error; this only has to be recorded.
func (t *Transition) dispatchMarkFailed(request *model.Request, detail string) {
	entity := request.Kind.EntityType()
	id := request.ID
	group := request.CasinoGroupID

	t.dispatcher.Dispatch("mark-ledger-failed", func(ctx context.Context) error {
		err := t.txManager.WithTx(ctx, func(ctx context.Context) error {
			ok, err := t.requestRepo.TryTransition(ctx, id, model.RequestStatusCompleted, model.RequestStatusFailed,
				map[string]any{"ledger_error": detail})
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("request %s left COMPLETED before it could be marked FAILED", id)
			}

			return t.logRepo.Create(ctx, newLog(entity, id, string(model.RequestStatusCompleted),
				string(model.RequestStatusFailed), SystemActor, detail))
		})
		if err != nil {
			return err
		}

		t.metrics.RecordTransition(string(entity), string(model.RequestStatusFailed), "success")

		return notifyTask(t.notifier, group, model.NotificationEventLedgerFailed, StatusChangedEvent{
			Entity:  entity,
			ID:      id,
			From:    string(model.RequestStatusCompleted),
			To:      string(model.RequestStatusFailed),
			ActorID: SystemActor.ID,
			Error:   detail,
		})(ctx)
	})
}

// propagate moves the linked transaction request along with its cash-in when the
// transaction request graph allows it. Failures are logged only.
func (t *Transition) propagate(ctx context.Context, request *model.Request, actor Actor) {
	linkedID := *request.TransactionRequestID
	target := request.Status

	linked, err := t.requestRepo.GetByID(ctx, linkedID)
	if err != nil {
		t.logger.Warn("Linked transaction request not loaded",
			zap.Error(err),
			zap.String("requestID", request.ID),
			zap.String("transactionRequestID", linkedID))
		return
	}

	if linked.Kind != model.RequestKindTransactionRequest ||
		!model.CanTransition(model.RequestKindTransactionRequest, linked.Status, target) {
		t.logger.Debug("Linked transaction request not propagated",
			zap.String("transactionRequestID", linkedID),
			zap.String("status", string(linked.Status)),
			zap.String("target", string(target)))
		return
	}

	note := fmt.Sprintf("propagated from %s %s", request.Kind, request.ID)
	err = t.txManager.WithTx(ctx, func(ctx context.Context) error {
		ok, err := t.requestRepo.TryTransition(ctx, linkedID, linked.Status, target, nil)
		if err != nil {
			return err
		}
		if !ok {
			return ErrConcurrentModification
		}

		return t.logRepo.Create(ctx, newLog(model.EntityTransactionRequest, linkedID, string(linked.Status),
			string(target), actor, note))
	})
	if err != nil {
		t.logger.Warn("Failed to propagate status to transaction request",
			zap.Error(err),
			zap.String("requestID", request.ID),
			zap.String("transactionRequestID", linkedID))
		return
	}

	t.logger.Info("Transaction request followed linked request",
		zap.String("transactionRequestID", linkedID),
		zap.String("from", string(linked.Status)),
		zap.String("to", string(target)))
}

func ledgerTypeFor(kind model.RequestKind, target model.RequestStatus) (qbet.TransactionType, bool) {
	if target != model.RequestStatusCompleted {
		return "", false
	}

	switch kind {
	case model.RequestKindCashin:
		return qbet.TransactionTypeDeposit, true
	case model.RequestKindCashout:
		return qbet.TransactionTypeWithdraw, true
	default:
		return "", false
	}
}
