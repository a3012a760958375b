package mocks

import (
	"context"
	"time"

	"github.com/ITyukz11/payops/internal/model"
	"github.com/stretchr/testify/mock"
)

type RequestRepository struct {
	mock.Mock
}

func (m *RequestRepository) Create(ctx context.Context, request *model.Request) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *RequestRepository) GetByID(ctx context.Context, id string) (*model.Request, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Request), args.Error(1)
}

func (m *RequestRepository) TryTransition(ctx context.Context, id string, from, to model.RequestStatus,
	fields map[string]any) (bool, error) {
	args := m.Called(ctx, id, from, to, fields)
	return args.Bool(0), args.Error(1)
}

func (m *RequestRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *RequestRepository) CountPendingByKind(ctx context.Context, casinoGroupID string) (map[model.RequestKind]int64, error) {
	args := m.Called(ctx, casinoGroupID)
	return args.Get(0).(map[model.RequestKind]int64), args.Error(1)
}

func (m *RequestRepository) ListByStatus(ctx context.Context, status model.RequestStatus, updatedBefore time.Time,
	limit int) ([]model.Request, error) {
	args := m.Called(ctx, status, updatedBefore, limit)
	return args.Get(0).([]model.Request), args.Error(1)
}

type RequestLogRepository struct {
	mock.Mock
}

func (m *RequestLogRepository) Create(ctx context.Context, log *model.RequestLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *RequestLogRepository) ListByRequest(ctx context.Context, entityType model.EntityType,
	requestID string) ([]model.RequestLog, error) {
	args := m.Called(ctx, entityType, requestID)
	return args.Get(0).([]model.RequestLog), args.Error(1)
}
