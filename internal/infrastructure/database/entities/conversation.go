package entities

import (
	"time"

	"gorm.io/datatypes"
)

// Conversation is the header record for an ordered message sequence. The id
// is opaque: a generated UUID for web chat or a phone number for WhatsApp.
type Conversation struct {
	ID        string    `gorm:"type:varchar(64);primaryKey"`
	Type      string    `gorm:"type:varchar(16);not null"`
	Title     string    `gorm:"type:varchar(256)"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// ConversationMessage is an append-only message turn. Never mutated after
// creation; ordered by CreatedAt ascending.
type ConversationMessage struct {
	ID             string         `gorm:"type:varchar(40);primaryKey"`
	ConversationID string         `gorm:"type:varchar(64);index:idx_message_conversation_created;not null"`
	Role           string         `gorm:"type:varchar(16);not null"`
	Content        string         `gorm:"type:text;not null"`
	RawPayload     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt      time.Time      `gorm:"index:idx_message_conversation_created;not null"`
}

func (ConversationMessage) TableName() string {
	return "conversation_messages"
}
