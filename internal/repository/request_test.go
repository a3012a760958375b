package repository_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ITyukz11/payops/internal/model"
	"github.com/ITyukz11/payops/internal/repository"
	"github.com/ITyukz11/payops/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func seedRequest(t *testing.T, repo repository.RequestRepository, id string, kind model.RequestKind,
	status model.RequestStatus) *model.Request {
	t.Helper()

	req := &model.Request{
		ID:             id,
		Kind:           kind,
		Amount:         decimal.NewFromInt(500),
		Status:         status,
		ExternalUserID: strPtr("player-1"),
		CasinoGroupID:  "cg-1",
	}
	require.NoError(t, repo.Create(context.Background(), req))

	return req
}

func TestRequest_TryTransition(t *testing.T) {
	ctx := context.Background()

	t.Run("moves status when current matches", func(t *testing.T) {
		repo := repository.NewRequestRepository(testutil.NewDB(t))
		seedRequest(t, repo, "r1", model.RequestKindCashin, model.RequestStatusPending)

		ok, err := repo.TryTransition(ctx, "r1", model.RequestStatusPending, model.RequestStatusAccommodating, nil)

		require.NoError(t, err)
		assert.True(t, ok)

		got, err := repo.GetByID(ctx, "r1")
		require.NoError(t, err)
		assert.Equal(t, model.RequestStatusAccommodating, got.Status)
	})

	t.Run("reports false when status moved on", func(t *testing.T) {
		repo := repository.NewRequestRepository(testutil.NewDB(t))
		seedRequest(t, repo, "r1", model.RequestKindCashin, model.RequestStatusRejected)

		ok, err := repo.TryTransition(ctx, "r1", model.RequestStatusPending, model.RequestStatusCompleted, nil)

		require.NoError(t, err)
		assert.False(t, ok)

		got, err := repo.GetByID(ctx, "r1")
		require.NoError(t, err)
		assert.Equal(t, model.RequestStatusRejected, got.Status)
	})

	t.Run("writes extra fields with the status", func(t *testing.T) {
		repo := repository.NewRequestRepository(testutil.NewDB(t))
		seedRequest(t, repo, "tr1", model.RequestKindTransactionRequest, model.RequestStatusPending)

		ok, err := repo.TryTransition(ctx, "tr1", model.RequestStatusPending, model.RequestStatusClaimed,
			map[string]any{"claimed_by_id": "loader-7"})

		require.NoError(t, err)
		assert.True(t, ok)

		got, err := repo.GetByID(ctx, "tr1")
		require.NoError(t, err)
		require.NotNil(t, got.ClaimedByID)
		assert.Equal(t, "loader-7", *got.ClaimedByID)
	})

	t.Run("only one of many concurrent writers wins", func(t *testing.T) {
		repo := repository.NewRequestRepository(testutil.NewDB(t))
		seedRequest(t, repo, "tr1", model.RequestKindTransactionRequest, model.RequestStatusPending)

		var wins atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := repo.TryTransition(ctx, "tr1", model.RequestStatusPending, model.RequestStatusClaimed, nil)
				assert.NoError(t, err)
				if ok {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), wins.Load())
	})
}

func TestRequest_GetByID_NotFound(t *testing.T) {
	repo := repository.NewRequestRepository(testutil.NewDB(t))

	_, err := repo.GetByID(context.Background(), "missing")

	assert.ErrorIs(t, err, repository.ErrRequestNotFound)
}

func TestRequest_Create_Duplicate(t *testing.T) {
	repo := repository.NewRequestRepository(testutil.NewDB(t))
	seedRequest(t, repo, "r1", model.RequestKindCashout, model.RequestStatusPending)

	err := repo.Create(context.Background(), &model.Request{
		ID: "r2", Kind: model.RequestKindCashout, Amount: decimal.NewFromInt(1),
		Status: model.RequestStatusPending, CasinoGroupID: "cg-1", CommissionID: strPtr("c1"),
	})
	require.NoError(t, err)

	err = repo.Create(context.Background(), &model.Request{
		ID: "r3", Kind: model.RequestKindCashout, Amount: decimal.NewFromInt(1),
		Status: model.RequestStatusPending, CasinoGroupID: "cg-1", CommissionID: strPtr("c1"),
	})
	assert.Error(t, err)
}

func TestRequest_CountPendingByKind(t *testing.T) {
	repo := repository.NewRequestRepository(testutil.NewDB(t))
	seedRequest(t, repo, "a", model.RequestKindCashin, model.RequestStatusPending)
	seedRequest(t, repo, "b", model.RequestKindCashin, model.RequestStatusPending)
	seedRequest(t, repo, "c", model.RequestKindCashout, model.RequestStatusPending)
	seedRequest(t, repo, "d", model.RequestKindCashout, model.RequestStatusCompleted)

	counts, err := repo.CountPendingByKind(context.Background(), "cg-1")

	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[model.RequestKindCashin])
	assert.Equal(t, int64(1), counts[model.RequestKindCashout])
	assert.Equal(t, int64(0), counts[model.RequestKindTransactionRequest])
}

func TestRequest_ListByStatus(t *testing.T) {
	repo := repository.NewRequestRepository(testutil.NewDB(t))
	seedRequest(t, repo, "a", model.RequestKindCashin, model.RequestStatusFailed)
	seedRequest(t, repo, "b", model.RequestKindCashin, model.RequestStatusCompleted)

	failed, err := repo.ListByStatus(context.Background(), model.RequestStatusFailed, time.Now().Add(time.Minute), 10)

	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "a", failed[0].ID)
}
