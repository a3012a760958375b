package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ITyukz11/payops/internal/constants"
	"github.com/ITyukz11/payops/internal/metrics"
	"github.com/ITyukz11/payops/internal/model"
	"github.com/ITyukz11/payops/internal/repository"
	"github.com/ITyukz11/payops/internal/worker"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CommissionService interface {
	Claim(ctx context.Context, cmd ClaimCommand) (ClaimCommissionResult, error)
	Reject(ctx context.Context, cmd ClaimCommand) (*model.Commission, error)
}

type Commission struct {
	commissionRepo repository.CommissionRepository
	requestRepo    repository.RequestRepository
	logRepo        repository.RequestLogRepository
	txManager      repository.TxManager
	notifier       NotificationService
	dispatcher     worker.Dispatcher
	metrics        *metrics.Metrics
	logger         *zap.Logger
}

func NewCommissionService(commissionRepo repository.CommissionRepository, requestRepo repository.RequestRepository,
	logRepo repository.RequestLogRepository, txManager repository.TxManager, notifier NotificationService,
	dispatcher worker.Dispatcher, metrics *metrics.Metrics, logger *zap.Logger) CommissionService {
	return &Commission{
		commissionRepo: commissionRepo,
		requestRepo:    requestRepo,
		logRepo:        logRepo,
		txManager:      txManager,
		notifier:       notifier,
		dispatcher:     dispatcher,
		metrics:        metrics,
		logger:         logger,
	}
}

// Claim marks the commission CLAIMED and creates its cash-out in one transaction.
// Only one of any number of concurrent claims gets through.
func (c *Commission) Claim(ctx context.Context, cmd ClaimCommand) (ClaimCommissionResult, error) {
	entity := model.EntityCommission

	if err := Authorize(cmd.Actor, entity); err != nil {
		c.metrics.RecordClaim(string(entity), "unauthorized")
		return ClaimCommissionResult{}, err
	}

	commission, err := c.getCommission(ctx, cmd.ID)
	if err != nil {
		return ClaimCommissionResult{}, err
	}

	switch {
	case commission.Status == model.CommissionStatusClaimed:
		c.metrics.RecordClaim(string(entity), constants.ErrCodeAlreadyClaimed)
		return ClaimCommissionResult{}, ErrAlreadyClaimed
	case !model.CanTransitionCommission(commission.Status, model.CommissionStatusClaimed):
		c.metrics.RecordClaim(string(entity), constants.ErrCodeInvalidTransition)
		return ClaimCommissionResult{}, invalidTransitionError(&model.InvalidTransitionError{
			Entity: string(entity),
			From:   string(commission.Status),
			To:     string(model.CommissionStatusClaimed),
		})
	}

	cashout := &model.Request{
		ID:             uuid.NewString(),
		Kind:           model.RequestKindCashout,
		Amount:         commission.Amount,
		Status:         model.RequestStatusPending,
		ExternalUserID: commission.ExternalUserID,
		CasinoGroupID:  commission.CasinoGroupID,
		CommissionID:   &commission.ID,
	}

	err = c.txManager.WithTx(ctx, func(ctx context.Context) error {
		ok, err := c.commissionRepo.TryTransition(ctx, commission.ID, model.CommissionStatusPending,
			model.CommissionStatusClaimed, map[string]any{
				"claimed_by_id": cmd.Actor.ID,
				"cashout_id":    cashout.ID,
			})
		if err != nil {
			return databaseError(err)
		}
		if !ok {
			return ErrAlreadyClaimed
		}

		if err := c.requestRepo.Create(ctx, cashout); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrAlreadyClaimed
			}
			return databaseError(err)
		}

		commissionLog := newLog(entity, commission.ID, string(model.CommissionStatusPending),
			string(model.CommissionStatusClaimed), cmd.Actor, "")
		if err := c.logRepo.Create(ctx, commissionLog); err != nil {
			return databaseError(err)
		}

		cashoutLog := newLog(model.EntityCashout, cashout.ID, "", string(model.RequestStatusPending), cmd.Actor,
			fmt.Sprintf("created from commission %s", commission.ID))
		if err := c.logRepo.Create(ctx, cashoutLog); err != nil {
			return databaseError(err)
		}

		return nil
	})
	if err != nil {
		c.metrics.RecordClaim(string(entity), CodeOf(err))
		c.logger.Info("Commission claim not applied",
			zap.Error(err),
			zap.String("commissionID", commission.ID),
			zap.String("actorID", cmd.Actor.ID))
		return ClaimCommissionResult{}, err
	}

	c.metrics.RecordClaim(string(entity), "success")
	c.logger.Info("Commission claimed",
		zap.String("commissionID", commission.ID),
		zap.String("cashoutID", cashout.ID),
		zap.String("actorID", cmd.Actor.ID))

	commission.Status = model.CommissionStatusClaimed
	commission.ClaimedByID = &cmd.Actor.ID
	commission.CashoutID = &cashout.ID

	c.dispatcher.Dispatch("notify-status-changed", notifyTask(c.notifier, commission.CasinoGroupID,
		model.NotificationEventStatusChanged, StatusChangedEvent{
			Entity:  entity,
			ID:      commission.ID,
			From:    string(model.CommissionStatusPending),
			To:      string(model.CommissionStatusClaimed),
			ActorID: cmd.Actor.ID,
		}))

	return ClaimCommissionResult{Commission: commission, Cashout: cashout}, nil
}

func (c *Commission) Reject(ctx context.Context, cmd ClaimCommand) (*model.Commission, error) {
	entity := model.EntityCommission

	if err := Authorize(cmd.Actor, entity); err != nil {
		c.metrics.RecordTransition(string(entity), string(model.CommissionStatusRejected), "unauthorized")
		return nil, err
	}

	commission, err := c.getCommission(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	if !model.CanTransitionCommission(commission.Status, model.CommissionStatusRejected) {
		return nil, invalidTransitionError(&model.InvalidTransitionError{
			Entity: string(entity),
			From:   string(commission.Status),
			To:     string(model.CommissionStatusRejected),
		})
	}

	err = c.txManager.WithTx(ctx, func(ctx context.Context) error {
		ok, err := c.commissionRepo.TryTransition(ctx, commission.ID, model.CommissionStatusPending,
			model.CommissionStatusRejected, nil)
		if err != nil {
			return databaseError(err)
		}
		if !ok {
			return ErrConcurrentModification
		}

		log := newLog(entity, commission.ID, string(model.CommissionStatusPending),
			string(model.CommissionStatusRejected), cmd.Actor, "")
		if err := c.logRepo.Create(ctx, log); err != nil {
			return databaseError(err)
		}

		return nil
	})
	if err != nil {
		c.metrics.RecordTransition(string(entity), string(model.CommissionStatusRejected), CodeOf(err))
		return nil, err
	}

	c.metrics.RecordTransition(string(entity), string(model.CommissionStatusRejected), "success")
	commission.Status = model.CommissionStatusRejected

	c.dispatcher.Dispatch("notify-status-changed", notifyTask(c.notifier, commission.CasinoGroupID,
		model.NotificationEventStatusChanged, StatusChangedEvent{
			Entity:  entity,
			ID:      commission.ID,
			From:    string(model.CommissionStatusPending),
			To:      string(model.CommissionStatusRejected),
			ActorID: cmd.Actor.ID,
		}))

	return commission, nil
}

func (c *Commission) getCommission(ctx context.Context, id string) (*model.Commission, error) {
	commission, err := c.commissionRepo.GetByID(ctx, id)
	if err == nil {
		return commission, nil
	}

	if errors.Is(err, repository.ErrCommissionNotFound) {
		return nil, ErrCommissionNotFound
	}

	return nil, databaseError(err)
}
