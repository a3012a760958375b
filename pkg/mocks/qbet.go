package mocks

import (
	"context"

	"github.com/ITyukz11/payops/pkg/qbet"
	"github.com/stretchr/testify/mock"
)

type QbetClient struct {
	mock.Mock
}

func (q *QbetClient) CreateTransaction(ctx context.Context, request qbet.CreateTransactionRequest) (qbet.CreateTransactionResponse, error) {
	args := q.Called(ctx, request)
	return args.Get(0).(qbet.CreateTransactionResponse), args.Error(1)
}
