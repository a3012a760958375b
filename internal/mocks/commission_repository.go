package mocks

import (
	"context"

	"github.com/ITyukz11/payops/internal/model"
	"github.com/stretchr/testify/mock"
)

type CommissionRepository struct {
	mock.Mock
}

func (m *CommissionRepository) Create(ctx context.Context, commission *model.Commission) error {
	args := m.Called(ctx, commission)
	return args.Error(0)
}

func (m *CommissionRepository) GetByID(ctx context.Context, id string) (*model.Commission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Commission), args.Error(1)
}

func (m *CommissionRepository) TryTransition(ctx context.Context, id string, from, to model.CommissionStatus,
	fields map[string]any) (bool, error) {
	args := m.Called(ctx, id, from, to, fields)
	return args.Bool(0), args.Error(1)
}

func (m *CommissionRepository) CountPending(ctx context.Context, casinoGroupID string) (int64, error) {
	args := m.Called(ctx, casinoGroupID)
	return args.Get(0).(int64), args.Error(1)
}
