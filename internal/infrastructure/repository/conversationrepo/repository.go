package conversationrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "assistant-server/internal/domain/conversation"
	"assistant-server/internal/infrastructure/database/entities"
	"assistant-server/internal/utils/platformerrors"
)

// Repository handles conversation and message persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	var entity entities.Conversation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to get conversation", err)
	}
	conv := mapConversation(entity)
	return &conv, nil
}

// UpsertConversation creates the conversation header if absent. An existing
// header keeps its original title and type.
func (r *Repository) UpsertConversation(ctx context.Context, conv *domain.Conversation) error {
	entity := entities.Conversation{
		ID:    conv.ID,
		Type:  string(conv.Type),
		Title: conv.Title,
	}
	err := r.db.WithContext(ctx).
		Where("id = ?", conv.ID).
		FirstOrCreate(&entity).Error
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to upsert conversation", err)
	}
	conv.Type = domain.Type(entity.Type)
	conv.Title = entity.Title
	conv.CreatedAt = entity.CreatedAt
	conv.UpdatedAt = entity.UpdatedAt
	return nil
}

func (r *Repository) CreateMessage(ctx context.Context, msg *domain.Message) error {
	entity := entities.ConversationMessage{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		Role:           string(msg.Role),
		Content:        msg.Content,
		RawPayload:     msg.RawPayload,
		CreatedAt:      msg.CreatedAt,
	}
	err := r.db.WithContext(ctx).Create(&entity).Error
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to create message", err)
	}
	return nil
}

// ListMessages returns every message of a conversation in append order.
func (r *Repository) ListMessages(ctx context.Context, conversationID string) ([]domain.Message, error) {
	var rows []entities.ConversationMessage
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to list messages", err)
	}

	messages := make([]domain.Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, mapMessage(row))
	}
	return messages, nil
}

// ListRecentMessages returns the latest limit messages in append order.
func (r *Repository) ListRecentMessages(ctx context.Context, conversationID string, limit int) ([]domain.Message, error) {
	var rows []entities.ConversationMessage
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to list recent messages", err)
	}

	messages := make([]domain.Message, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		messages = append(messages, mapMessage(rows[i]))
	}
	return messages, nil
}

func mapConversation(entity entities.Conversation) domain.Conversation {
	return domain.Conversation{
		ID:        entity.ID,
		Type:      domain.Type(entity.Type),
		Title:     entity.Title,
		CreatedAt: entity.CreatedAt,
		UpdatedAt: entity.UpdatedAt,
	}
}

func mapMessage(entity entities.ConversationMessage) domain.Message {
	return domain.Message{
		ID:             entity.ID,
		ConversationID: entity.ConversationID,
		Role:           domain.Role(entity.Role),
		Content:        entity.Content,
		RawPayload:     entity.RawPayload,
		CreatedAt:      entity.CreatedAt,
	}
}
