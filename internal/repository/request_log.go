package repository

import (
	"context"

	"github.com/ITyukz11/payops/internal/model"
	"gorm.io/gorm"
)

// RequestLogRepository is append-only.
type RequestLogRepository interface {
	Create(ctx context.Context, log *model.RequestLog) error
	ListByRequest(ctx context.Context, entityType model.EntityType, requestID string) ([]model.RequestLog, error)
}

type RequestLog struct {
	db *gorm.DB
}

func NewRequestLogRepository(db *gorm.DB) RequestLogRepository {
	return &RequestLog{db: db}
}

func (r *RequestLog) Create(ctx context.Context, log *model.RequestLog) error {
	return GetTx(ctx, r.db).Create(log).Error
}

func (r *RequestLog) ListByRequest(ctx context.Context, entityType model.EntityType, requestID string) ([]model.RequestLog, error) {
	var logs []model.RequestLog

	err := GetTx(ctx, r.db).
		Where("entity_type = ? AND request_id = ?", entityType, requestID).
		Order("id ASC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}

	return logs, nil
}
