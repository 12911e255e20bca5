package handlers

import (
	"github.com/rs/zerolog"

	"assistant-server/internal/config"
	"assistant-server/internal/domain/chat"
	"assistant-server/internal/domain/document"
	"assistant-server/internal/domain/settings"
	"assistant-server/internal/domain/whatsapp"
)

// Provider wires HTTP handlers.
type Provider struct {
	Chat      *ChatHandler
	Documents *DocumentHandler
	Settings  *SettingsHandler
	Webhooks  *WebhookHandler
	Health    *HealthHandler
}

func NewProvider(
	cfg *config.Config,
	chatService *chat.Service,
	documentService *document.Service,
	settingsService *settings.Service,
	responder *whatsapp.Responder,
	database Pinger,
	storage Pinger,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Chat:      NewChatHandler(chatService, log),
		Documents: NewDocumentHandler(cfg, documentService, log),
		Settings:  NewSettingsHandler(settingsService, log),
		Webhooks:  NewWebhookHandler(cfg, responder, log),
		Health:    NewHealthHandler(database, storage, settingsService, log),
	}
}
