package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// StatusDescriptionMaxLen is the width of status_description. Longer gateway
// messages are cut to fit.
const StatusDescriptionMaxLen = 255

// GatewayTransaction is a player deposit reported by a payment gateway. Status mirrors
// the gateway, QbetStatus the ledger credit.
type GatewayTransaction struct {
	ID                string              `gorm:"primaryKey;type:varchar(128);column:id"`
	Gateway           string              `gorm:"column:gateway;type:varchar(32);not null"`
	ExternalUserID    string              `gorm:"column:external_user_id;type:varchar(128)"`
	CasinoGroupID     string              `gorm:"column:casino_group_id;type:varchar(64);index"`
	Amount            decimal.Decimal     `gorm:"column:amount;type:decimal(20,2);not null"`
	Status            GatewayStatus       `gorm:"column:status;type:varchar(32);not null"`
	StatusDescription string              `gorm:"column:status_description;type:varchar(255)"`
	QbetStatus        QbetStatus          `gorm:"column:qbet_status;type:varchar(32);not null;index"`
	RawPayload        datatypes.JSON      `gorm:"column:raw_payload"`
	BalanceAfter      decimal.NullDecimal `gorm:"column:balance_after;type:decimal(20,2)"`
	LedgerError       *string             `gorm:"column:ledger_error;type:text"`
	WebhookCount      int                 `gorm:"column:webhook_count;not null;default:0"`
	CreatedAt         time.Time           `gorm:"column:created_at"`
	UpdatedAt         time.Time           `gorm:"column:updated_at"`
}

func (GatewayTransaction) TableName() string { return "gateway_transactions" }
