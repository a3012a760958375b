package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Commission struct {
	ID             string           `gorm:"primaryKey;type:varchar(36);column:id"`
	Amount         decimal.Decimal  `gorm:"column:amount;type:decimal(20,2);not null"`
	Status         CommissionStatus `gorm:"column:status;type:varchar(32);not null;index"`
	ExternalUserID *string          `gorm:"column:external_user_id;type:varchar(128)"`
	CasinoGroupID  string           `gorm:"column:casino_group_id;type:varchar(64);not null;index"`
	ClaimedByID    *string          `gorm:"column:claimed_by_id;type:varchar(64)"`
	CashoutID      *string          `gorm:"column:cashout_id;type:varchar(36)"`
	CreatedAt      time.Time        `gorm:"column:created_at"`
	UpdatedAt      time.Time        `gorm:"column:updated_at"`
}

func (Commission) TableName() string { return "commissions" }
