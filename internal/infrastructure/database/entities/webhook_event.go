package entities

import (
	"time"

	"gorm.io/datatypes"
)

// WebhookEvent is an audit record of every inbound provider payload,
// including ones that produce no reply.
type WebhookEvent struct {
	ID        uint           `gorm:"primaryKey"`
	Provider  string         `gorm:"type:varchar(32);not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb"`
	Timestamp time.Time      `gorm:"not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (WebhookEvent) TableName() string {
	return "webhook_events"
}
