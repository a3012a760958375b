package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ITyukz11/payops/internal/model"
	"gorm.io/gorm"
)

type CommissionRepository interface {
	Create(ctx context.Context, commission *model.Commission) error
	GetByID(ctx context.Context, id string) (*model.Commission, error)
	TryTransition(ctx context.Context, id string, from, to model.CommissionStatus, fields map[string]any) (bool, error)
	CountPending(ctx context.Context, casinoGroupID string) (int64, error)
}

type Commission struct {
	db *gorm.DB
}

func NewCommissionRepository(db *gorm.DB) CommissionRepository {
	return &Commission{db: db}
}

func (c *Commission) Create(ctx context.Context, commission *model.Commission) error {
	return GetTx(ctx, c.db).Create(commission).Error
}

func (c *Commission) GetByID(ctx context.Context, id string) (*model.Commission, error) {
	var commission model.Commission

	err := GetTx(ctx, c.db).Where("id = ?", id).First(&commission).Error
	if err == nil {
		return &commission, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCommissionNotFound
	}

	return nil, err
}

func (c *Commission) TryTransition(ctx context.Context, id string, from, to model.CommissionStatus,
	fields map[string]any) (bool, error) {
	updates := map[string]any{
		"status":     to,
		"updated_at": time.Now().UTC(),
	}
	for k, v := range fields {
		updates[k] = v
	}

	result := GetTx(ctx, c.db).Model(&model.Commission{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

func (c *Commission) CountPending(ctx context.Context, casinoGroupID string) (int64, error) {
	var count int64

	err := GetTx(ctx, c.db).Model(&model.Commission{}).
		Where("casino_group_id = ? AND status = ?", casinoGroupID, model.CommissionStatusPending).
		Count(&count).Error

	return count, err
}
