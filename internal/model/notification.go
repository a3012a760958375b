package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	NotificationEventPendingCounts = "pending-counts"
	NotificationEventStatusChanged = "status-changed"
	NotificationEventLedgerFailed  = "ledger-failed"
)

// Notification is the outbox for the real-time channel.
type Notification struct {
	ID            string         `gorm:"primaryKey;type:varchar(36);column:id"`
	CasinoGroupID string         `gorm:"column:casino_group_id;type:varchar(64);not null;index"`
	Event         string         `gorm:"column:event;type:varchar(64);not null"`
	Payload       datatypes.JSON `gorm:"column:payload"`
	Published     bool           `gorm:"column:published;not null;default:false;index"`
	PublishedAt   *time.Time     `gorm:"column:published_at"`
	LastError     *string        `gorm:"column:last_error;type:text"`
	CreatedAt     time.Time      `gorm:"column:created_at"`
}

func (Notification) TableName() string { return "notifications" }

func All() []any {
	return []any{&Request{}, &RequestLog{}, &Commission{}, &GatewayTransaction{}, &Notification{}}
}
