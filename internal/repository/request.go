package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ITyukz11/payops/internal/model"
	"github.com/ITyukz11/payops/pkg/database"
	"gorm.io/gorm"
)

type RequestRepository interface {
	Create(ctx context.Context, request *model.Request) error
	GetByID(ctx context.Context, id string) (*model.Request, error)
	TryTransition(ctx context.Context, id string, from, to model.RequestStatus, fields map[string]any) (bool, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	CountPendingByKind(ctx context.Context, casinoGroupID string) (map[model.RequestKind]int64, error)
	ListByStatus(ctx context.Context, status model.RequestStatus, updatedBefore time.Time, limit int) ([]model.Request, error)
}

type Request struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &Request{db: db}
}

func (r *Request) Create(ctx context.Context, request *model.Request) error {
	err := GetTx(ctx, r.db).Create(request).Error
	if database.IsDuplicateKey(err) {
		return ErrDuplicate
	}

	return err
}

func (r *Request) GetByID(ctx context.Context, id string) (*model.Request, error) {
	var request model.Request

	err := GetTx(ctx, r.db).Where("id = ?", id).First(&request).Error
	if err == nil {
		return &request, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRequestNotFound
	}

	return nil, err
}

// TryTransition moves the request from one status to another only if it is still in
// from. It reports false when another writer got there first.
func (r *Request) TryTransition(ctx context.Context, id string, from, to model.RequestStatus,
	fields map[string]any) (bool, error) {
	updates := map[string]any{
		"status":     to,
		"updated_at": time.Now().UTC(),
	}
	for k, v := range fields {
		updates[k] = v
	}

	result := GetTx(ctx, r.db).Model(&model.Request{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

func (r *Request) Update(ctx context.Context, id string, fields map[string]any) error {
	updates := map[string]any{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		updates[k] = v
	}

	return GetTx(ctx, r.db).Model(&model.Request{}).Where("id = ?", id).Updates(updates).Error
}

func (r *Request) CountPendingByKind(ctx context.Context, casinoGroupID string) (map[model.RequestKind]int64, error) {
	var rows []struct {
		Kind  model.RequestKind
		Total int64
	}

	err := GetTx(ctx, r.db).Model(&model.Request{}).
		Select("kind, COUNT(*) AS total").
		Where("casino_group_id = ? AND status = ?", casinoGroupID, model.RequestStatusPending).
		Group("kind").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.RequestKind]int64, len(rows))
	for _, row := range rows {
		counts[row.Kind] = row.Total
	}

	return counts, nil
}

func (r *Request) ListByStatus(ctx context.Context, status model.RequestStatus, updatedBefore time.Time,
	limit int) ([]model.Request, error) {
	var requests []model.Request

	err := GetTx(ctx, r.db).Where("status = ? AND updated_at < ?", status, updatedBefore).
		Order("updated_at ASC").
		Limit(limit).
		Find(&requests).Error
	if err != nil {
		return nil, err
	}

	return requests, nil
}
