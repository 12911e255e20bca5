package database

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"assistant-server/internal/infrastructure/database/entities"
)

// AutoMigrate applies database schema changes.
func AutoMigrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	if err := db.WithContext(ctx).AutoMigrate(
		&entities.Setting{},
		&entities.Document{},
		&entities.Conversation{},
		&entities.ConversationMessage{},
		&entities.WebhookEvent{},
	); err != nil {
		return err
	}
	log.Info().Msg("applied assistant schema migrations")
	return nil
}
