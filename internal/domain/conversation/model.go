package conversation

import "time"

// Type distinguishes the channel a conversation belongs to.
type Type string

const (
	TypeWeb      Type = "web"
	TypeWhatsApp Type = "whatsapp"
)

// Role identifies the author of a message turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Conversation is the header record for an ordered message sequence. The id
// is opaque to the store: a generated UUID for web chat, a phone number for
// WhatsApp threads.
type Conversation struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Message is a single append-only turn. RawPayload carries the original
// provider payload for inbound WhatsApp messages.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	RawPayload     []byte    `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Append describes one turn to add to a conversation.
type Append struct {
	Role       Role
	Content    string
	RawPayload []byte
}
