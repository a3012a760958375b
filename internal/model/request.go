package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request covers cash-ins, cash-outs and transaction requests. Commission-derived
// cash-outs carry CommissionID.
type Request struct {
	ID                   string              `gorm:"primaryKey;type:varchar(36);column:id"`
	Kind                 RequestKind         `gorm:"column:kind;type:varchar(32);not null;index:idx_requests_group_kind_status,priority:2"`
	Amount               decimal.Decimal     `gorm:"column:amount;type:decimal(20,2);not null"`
	Status               RequestStatus       `gorm:"column:status;type:varchar(32);not null;index:idx_requests_group_kind_status,priority:3"`
	ExternalUserID       *string             `gorm:"column:external_user_id;type:varchar(128)"`
	CasinoGroupID        string              `gorm:"column:casino_group_id;type:varchar(64);not null;index:idx_requests_group_kind_status,priority:1"`
	TransactionRequestID *string             `gorm:"column:transaction_request_id;type:varchar(36);index"`
	CommissionID         *string             `gorm:"column:commission_id;type:varchar(36);uniqueIndex"`
	ClaimedByID          *string             `gorm:"column:claimed_by_id;type:varchar(64)"`
	BalanceAfter         decimal.NullDecimal `gorm:"column:balance_after;type:decimal(20,2)"`
	LedgerError          *string             `gorm:"column:ledger_error;type:text"`
	CreatedAt            time.Time           `gorm:"column:created_at"`
	UpdatedAt            time.Time           `gorm:"column:updated_at"`
}

func (Request) TableName() string { return "requests" }

func (r *Request) ExternalUser() string {
	if r.ExternalUserID == nil {
		return ""
	}
	return *r.ExternalUserID
}
