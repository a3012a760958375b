package mocks

import (
	"context"
	"time"

	"github.com/ITyukz11/payops/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"gorm.io/datatypes"
)

type GatewayTransactionRepository struct {
	mock.Mock
}

func (m *GatewayTransactionRepository) GetByID(ctx context.Context, id string) (*model.GatewayTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GatewayTransaction), args.Error(1)
}

func (m *GatewayTransactionRepository) CreateIfAbsent(ctx context.Context, txn *model.GatewayTransaction) (bool, error) {
	args := m.Called(ctx, txn)
	return args.Bool(0), args.Error(1)
}

func (m *GatewayTransactionRepository) RecordCallback(ctx context.Context, id string, raw datatypes.JSON,
	description string, amount decimal.Decimal) error {
	args := m.Called(ctx, id, raw, description, amount)
	return args.Error(0)
}

func (m *GatewayTransactionRepository) TryStatusTransition(ctx context.Context, id string,
	from, to model.GatewayStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *GatewayTransactionRepository) ClaimForLoading(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *GatewayTransactionRepository) TryQbetTransition(ctx context.Context, id string, from, to model.QbetStatus,
	fields map[string]any) (bool, error) {
	args := m.Called(ctx, id, from, to, fields)
	return args.Bool(0), args.Error(1)
}

func (m *GatewayTransactionRepository) ListByQbetStatus(ctx context.Context, status model.QbetStatus,
	updatedBefore time.Time, limit int) ([]model.GatewayTransaction, error) {
	args := m.Called(ctx, status, updatedBefore, limit)
	return args.Get(0).([]model.GatewayTransaction), args.Error(1)
}
