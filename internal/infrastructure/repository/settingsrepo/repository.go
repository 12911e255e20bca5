package settingsrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "assistant-server/internal/domain/settings"
	"assistant-server/internal/infrastructure/database/entities"
	"assistant-server/internal/utils/platformerrors"
)

// settingsRecordID keys the single configuration row per deployment.
const settingsRecordID = "platform"

// Repository handles settings persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Load(ctx context.Context) (*domain.Settings, *time.Time, error) {
	var entity entities.Setting
	err := r.db.WithContext(ctx).Where("id = ?", settingsRecordID).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil
		}
		return nil, nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to load settings", err)
	}

	settings := mapEntity(entity)
	updatedAt := entity.UpdatedAt
	return &settings, &updatedAt, nil
}

func (r *Repository) Save(ctx context.Context, s *domain.Settings) (time.Time, error) {
	now := time.Now().UTC()
	entity := entities.Setting{
		ID:                   settingsRecordID,
		OpenRouterAPIKey:     s.OpenRouter.APIKey,
		ModelProvider:        s.OpenRouter.DefaultModel.Provider,
		ModelName:            s.OpenRouter.DefaultModel.Model,
		EvolutionAPIURL:      s.Evolution.APIURL,
		EvolutionAPIKey:      s.Evolution.APIKey,
		DefaultPhoneNumberID: s.Evolution.DefaultPhoneNumberID,
		SystemPrompt:         s.Prompts.System,
		UpdatedAt:            now,
	}

	err := r.db.WithContext(ctx).Save(&entity).Error
	if err != nil {
		return time.Time{}, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to save settings", err)
	}
	return now, nil
}

// Health performs a trivial connectivity probe.
func (r *Repository) Health(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func mapEntity(entity entities.Setting) domain.Settings {
	return domain.Settings{
		OpenRouter: domain.OpenRouterSettings{
			APIKey: entity.OpenRouterAPIKey,
			DefaultModel: domain.ModelConfig{
				Provider: entity.ModelProvider,
				Model:    entity.ModelName,
			},
		},
		Evolution: domain.EvolutionSettings{
			APIURL:               entity.EvolutionAPIURL,
			APIKey:               entity.EvolutionAPIKey,
			DefaultPhoneNumberID: entity.DefaultPhoneNumberID,
		},
		Prompts: domain.PromptSettings{
			System: entity.SystemPrompt,
		},
	}
}
