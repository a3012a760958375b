package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/ITyukz11/payops/internal/constants"
	"github.com/ITyukz11/payops/internal/model"
	"github.com/ITyukz11/payops/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCommission(t *testing.T, h *harness, id string, status model.CommissionStatus) {
	t.Helper()

	require.NoError(t, h.commissions.Create(context.Background(), &model.Commission{
		ID:             id,
		Amount:         decimal.NewFromInt(250),
		Status:         status,
		ExternalUserID: strPtr("agent-7"),
		CasinoGroupID:  "cg-1",
	}))
}

func countCashouts(t *testing.T, h *harness, commissionID string) int64 {
	t.Helper()

	var count int64
	require.NoError(t, h.db.Model(&model.Request{}).Where("commission_id = ?", commissionID).Count(&count).Error)
	return count
}

func TestCommission_Claim(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the cash-out and logs both rows", func(t *testing.T) {
		h := newHarness(t)
		seedCommission(t, h, "cm-1", model.CommissionStatusPending)

		result, err := h.commissionService().Claim(ctx, service.ClaimCommand{ID: "cm-1", Actor: accounting})

		require.NoError(t, err)
		assert.Equal(t, model.CommissionStatusClaimed, result.Commission.Status)
		require.NotNil(t, result.Cashout)
		assert.Equal(t, model.RequestKindCashout, result.Cashout.Kind)
		assert.Equal(t, model.RequestStatusPending, result.Cashout.Status)
		assert.True(t, result.Cashout.Amount.Equal(decimal.NewFromInt(250)))

		cashout := h.request(t, result.Cashout.ID)
		require.NotNil(t, cashout.CommissionID)
		assert.Equal(t, "cm-1", *cashout.CommissionID)
		assert.Equal(t, "agent-7", cashout.ExternalUser())

		stored, err := h.commissions.GetByID(ctx, "cm-1")
		require.NoError(t, err)
		assert.Equal(t, model.CommissionStatusClaimed, stored.Status)
		require.NotNil(t, stored.CashoutID)
		assert.Equal(t, result.Cashout.ID, *stored.CashoutID)

		assert.Len(t, h.logsFor(t, model.EntityCommission, "cm-1"), 1)
		assert.Len(t, h.logsFor(t, model.EntityCashout, result.Cashout.ID), 1)
	})

	t.Run("concurrent claims produce one cash-out", func(t *testing.T) {
		h := newHarness(t)
		seedCommission(t, h, "cm-1", model.CommissionStatusPending)
		svc := h.commissionService()

		errs := make([]error, 2)
		var wg sync.WaitGroup
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = svc.Claim(ctx, service.ClaimCommand{ID: "cm-1", Actor: accounting})
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
			assert.Equal(t, 409, constants.GetHTTPStatus(service.CodeOf(err)))
		}

		assert.Equal(t, 1, succeeded)
		assert.Equal(t, int64(1), countCashouts(t, h, "cm-1"))
		assert.Len(t, h.logsFor(t, model.EntityCommission, "cm-1"), 1)
	})

	t.Run("rejected commission cannot be claimed", func(t *testing.T) {
		h := newHarness(t)
		seedCommission(t, h, "cm-1", model.CommissionStatusRejected)

		_, err := h.commissionService().Claim(ctx, service.ClaimCommand{ID: "cm-1", Actor: admin})

		assert.Equal(t, constants.ErrCodeInvalidTransition, service.CodeOf(err))
		assert.NotErrorIs(t, err, service.ErrAlreadyClaimed)
		assert.Equal(t, int64(0), countCashouts(t, h, "cm-1"))
		assert.Empty(t, h.logsFor(t, model.EntityCommission, "cm-1"))

		stored, err := h.commissions.GetByID(ctx, "cm-1")
		require.NoError(t, err)
		assert.Equal(t, model.CommissionStatusRejected, stored.Status)
	})

	t.Run("claimed commission reports already claimed", func(t *testing.T) {
		h := newHarness(t)
		seedCommission(t, h, "cm-1", model.CommissionStatusClaimed)

		_, err := h.commissionService().Claim(ctx, service.ClaimCommand{ID: "cm-1", Actor: accounting})

		assert.ErrorIs(t, err, service.ErrAlreadyClaimed)
		assert.Equal(t, int64(0), countCashouts(t, h, "cm-1"))
	})

	t.Run("loader may not claim", func(t *testing.T) {
		h := newHarness(t)
		seedCommission(t, h, "cm-1", model.CommissionStatusPending)

		_, err := h.commissionService().Claim(ctx, service.ClaimCommand{ID: "cm-1", Actor: loader})

		assert.ErrorIs(t, err, service.ErrUnauthorized)
		assert.Equal(t, int64(0), countCashouts(t, h, "cm-1"))
	})

	t.Run("missing commission", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.commissionService().Claim(ctx, service.ClaimCommand{ID: "nope", Actor: admin})

		assert.ErrorIs(t, err, service.ErrCommissionNotFound)
	})
}

func TestCommission_Reject(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects a pending commission", func(t *testing.T) {
		h := newHarness(t)
		seedCommission(t, h, "cm-1", model.CommissionStatusPending)

		got, err := h.commissionService().Reject(ctx, service.ClaimCommand{ID: "cm-1", Actor: accounting})

		require.NoError(t, err)
		assert.Equal(t, model.CommissionStatusRejected, got.Status)

		logs := h.logsFor(t, model.EntityCommission, "cm-1")
		require.Len(t, logs, 1)
		assert.Equal(t, "REJECTED", logs[0].Action)
	})

	t.Run("claimed commission stays claimed", func(t *testing.T) {
		h := newHarness(t)
		seedCommission(t, h, "cm-1", model.CommissionStatusClaimed)

		_, err := h.commissionService().Reject(ctx, service.ClaimCommand{ID: "cm-1", Actor: admin})

		assert.Equal(t, constants.ErrCodeInvalidTransition, service.CodeOf(err))

		stored, err := h.commissions.GetByID(ctx, "cm-1")
		require.NoError(t, err)
		assert.Equal(t, model.CommissionStatusClaimed, stored.Status)
	})
}
