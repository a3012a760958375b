package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ITyukz11/payops/internal/metrics"
	"github.com/ITyukz11/payops/pkg/qbet"
	"go.uber.org/zap"
)

// LedgerService credits or debits a player's balance on the external ledger. Each
// call is a single attempt; callers claim the row with a conditional update first.
type LedgerService interface {
	Credit(ctx context.Context, cmd CreditCommand) (CreditResult, error)
}

type Ledger struct {
	client  qbet.Client
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewLedgerService(client qbet.Client, metrics *metrics.Metrics, logger *zap.Logger) LedgerService {
	return &Ledger{client: client, metrics: metrics, logger: logger}
}

func (l *Ledger) Credit(ctx context.Context, cmd CreditCommand) (CreditResult, error) {
	if cmd.ExternalUserID == "" {
		return CreditResult{}, validationError(errors.New("external user id is required for a ledger call"))
	}
	if !cmd.Amount.IsPositive() {
		return CreditResult{}, validationError(fmt.Errorf("amount must be positive, got %s", cmd.Amount))
	}

	request := qbet.CreateTransactionRequest{
		ID:     cmd.ExternalUserID,
		Txn:    cmd.TransactionRef,
		Type:   cmd.Type,
		Amount: cmd.Amount.InexactFloat64(),
	}

	start := time.Now()
	resp, err := l.client.CreateTransaction(ctx, request)
	duration := time.Since(start)

	if err != nil {
		result := ledgerResult(err)
		l.metrics.RecordLedgerCall(string(cmd.Type), result, duration)
		l.logger.Error("Ledger call failed",
			zap.Error(err),
			zap.String("txn", cmd.TransactionRef),
			zap.String("externalUserID", cmd.ExternalUserID),
			zap.String("type", string(cmd.Type)),
			zap.Duration("duration", duration))

		return CreditResult{OK: false, ErrorDetail: detailOf(resp, err)}, ledgerError(err)
	}

	l.metrics.RecordLedgerCall(string(cmd.Type), "success", duration)
	l.logger.Info("Ledger call succeeded",
		zap.String("txn", cmd.TransactionRef),
		zap.String("externalUserID", cmd.ExternalUserID),
		zap.String("type", string(cmd.Type)),
		zap.String("balanceAfter", resp.BalanceAfter().String()))

	return CreditResult{OK: true, BalanceAfter: resp.BalanceAfter()}, nil
}

func ledgerResult(err error) string {
	switch {
	case errors.Is(err, qbet.ErrTimeout):
		return "timeout"
	case errors.Is(err, qbet.ErrRejected):
		return "rejected"
	default:
		return "error"
	}
}

func detailOf(resp qbet.CreateTransactionResponse, err error) string {
	if resp.Error != "" {
		return resp.Error
	}
	if len(resp.Data) > 0 && resp.Data[0].Message != "" {
		return resp.Data[0].Message
	}
	return err.Error()
}
