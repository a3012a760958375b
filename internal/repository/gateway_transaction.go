package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ITyukz11/payops/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GatewayTransactionRepository interface {
	GetByID(ctx context.Context, id string) (*model.GatewayTransaction, error)
	CreateIfAbsent(ctx context.Context, txn *model.GatewayTransaction) (bool, error)
	RecordCallback(ctx context.Context, id string, raw datatypes.JSON, description string, amount decimal.Decimal) error
	TryStatusTransition(ctx context.Context, id string, from, to model.GatewayStatus) (bool, error)
	ClaimForLoading(ctx context.Context, id string) (bool, error)
	TryQbetTransition(ctx context.Context, id string, from, to model.QbetStatus, fields map[string]any) (bool, error)
	ListByQbetStatus(ctx context.Context, status model.QbetStatus, updatedBefore time.Time, limit int) ([]model.GatewayTransaction, error)
}

type GatewayTransaction struct {
	db *gorm.DB
}

func NewGatewayTransactionRepository(db *gorm.DB) GatewayTransactionRepository {
	return &GatewayTransaction{db: db}
}

func (g *GatewayTransaction) GetByID(ctx context.Context, id string) (*model.GatewayTransaction, error) {
	var txn model.GatewayTransaction

	err := GetTx(ctx, g.db).Where("id = ?", id).First(&txn).Error
	if err == nil {
		return &txn, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransactionNotFound
	}

	return nil, err
}

// CreateIfAbsent inserts txn unless a row with the same id exists. Concurrent first
// callbacks for one reference both succeed; only one reports created.
func (g *GatewayTransaction) CreateIfAbsent(ctx context.Context, txn *model.GatewayTransaction) (bool, error) {
	result := GetTx(ctx, g.db).Clauses(clause.OnConflict{DoNothing: true}).Create(txn)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// RecordCallback stores the latest payload. A positive amount fills a row that was
// created without one, as long as the credit has not started.
func (g *GatewayTransaction) RecordCallback(ctx context.Context, id string, raw datatypes.JSON, description string,
	amount decimal.Decimal) error {
	updates := map[string]any{
		"raw_payload":   raw,
		"webhook_count": gorm.Expr("webhook_count + 1"),
		"updated_at":    time.Now().UTC(),
	}
	if description != "" {
		updates["status_description"] = truncate(description, model.StatusDescriptionMaxLen)
	}
	if amount.IsPositive() {
		updates["amount"] = gorm.Expr("CASE WHEN amount <= 0 AND qbet_status = ? THEN ? ELSE amount END",
			model.QbetStatusPending, amount)
	}

	result := GetTx(ctx, g.db).Model(&model.GatewayTransaction{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}

	return nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func (g *GatewayTransaction) TryStatusTransition(ctx context.Context, id string, from, to model.GatewayStatus) (bool, error) {
	result := GetTx(ctx, g.db).Model(&model.GatewayTransaction{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// ClaimForLoading is the only way into PROCESSING: the gateway must have reported
// COMPLETED and the ledger must not have been touched yet.
func (g *GatewayTransaction) ClaimForLoading(ctx context.Context, id string) (bool, error) {
	result := GetTx(ctx, g.db).Model(&model.GatewayTransaction{}).
		Where("id = ? AND status = ? AND qbet_status = ?", id, model.GatewayStatusCompleted, model.QbetStatusPending).
		Updates(map[string]any{"qbet_status": model.QbetStatusProcessing, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

func (g *GatewayTransaction) TryQbetTransition(ctx context.Context, id string, from, to model.QbetStatus,
	fields map[string]any) (bool, error) {
	updates := map[string]any{
		"qbet_status": to,
		"updated_at":  time.Now().UTC(),
	}
	for k, v := range fields {
		updates[k] = v
	}

	result := GetTx(ctx, g.db).Model(&model.GatewayTransaction{}).
		Where("id = ? AND qbet_status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

func (g *GatewayTransaction) ListByQbetStatus(ctx context.Context, status model.QbetStatus, updatedBefore time.Time,
	limit int) ([]model.GatewayTransaction, error) {
	var txns []model.GatewayTransaction

	err := GetTx(ctx, g.db).Where("qbet_status = ? AND updated_at < ?", status, updatedBefore).
		Order("updated_at ASC").
		Limit(limit).
		Find(&txns).Error
	if err != nil {
		return nil, err
	}

	return txns, nil
}
