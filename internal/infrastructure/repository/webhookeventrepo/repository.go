package webhookeventrepo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"assistant-server/internal/infrastructure/database/entities"
	"assistant-server/internal/utils/platformerrors"
)

// Repository records inbound provider payloads for auditing.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Record stores the raw payload of an inbound webhook delivery.
func (r *Repository) Record(ctx context.Context, provider string, payload []byte, receivedAt time.Time) error {
	entity := entities.WebhookEvent{
		Provider:  provider,
		Payload:   payload,
		Timestamp: receivedAt,
	}
	err := r.db.WithContext(ctx).Create(&entity).Error
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to record webhook event", err)
	}
	return nil
}
