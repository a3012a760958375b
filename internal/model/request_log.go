package model

import "time"

// RequestLog is the append-only audit trail of status changes. Rows are never
// updated or deleted.
type RequestLog struct {
	ID            int64      `gorm:"primaryKey;autoIncrement;<-:create"`
	EntityType    EntityType `gorm:"column:entity_type;type:varchar(32);not null;index:idx_request_logs_entity,priority:1;<-:create"`
	RequestID     string     `gorm:"column:request_id;type:varchar(128);not null;index:idx_request_logs_entity,priority:2;<-:create"`
	Action        string     `gorm:"column:action;type:varchar(32);not null;<-:create"`
	FromStatus    string     `gorm:"column:from_status;type:varchar(32);<-:create"`
	PerformedByID string     `gorm:"column:performed_by_id;type:varchar(64);not null;<-:create"`
	Note          *string    `gorm:"column:note;type:text;<-:create"`
	CreatedAt     time.Time  `gorm:"column:created_at;<-:create"`
}

func (RequestLog) TableName() string { return "request_logs" }
