package settings

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"assistant-server/internal/config"
	"assistant-server/internal/utils/platformerrors"
)

const (
	// SourceDatabase marks settings loaded from the persisted record.
	SourceDatabase = "database"
	// SourceEnv marks settings derived from environment defaults.
	SourceEnv = "env"
)

// Repository defines persistence operations needed by the service.
type Repository interface {
	// Load returns the stored settings and their update time, or (nil, nil,
	// nil) when no record exists yet.
	Load(ctx context.Context) (*Settings, *time.Time, error)
	// Save overwrites the full settings record.
	Save(ctx context.Context, s *Settings) (time.Time, error)
}

type cacheEntry struct {
	settings  Settings
	metadata  Metadata
	expiresAt time.Time
}

// Service owns the configuration record: cached reads, partial-merge updates,
// masked public views. Updates are last-write-wins.
type Service struct {
	cfg      *config.Config
	repo     Repository
	log      zerolog.Logger
	validate *validator.Validate

	mu    sync.Mutex
	cache *cacheEntry
}

func NewService(cfg *config.Config, repo Repository, log zerolog.Logger) *Service {
	return &Service{
		cfg:      cfg,
		repo:     repo,
		log:      log.With().Str("component", "settings-service").Logger(),
		validate: validator.New(),
	}
}

// Defaults builds the environment-derived settings used until a record is
// persisted.
func (s *Service) Defaults() Settings {
	return Settings{
		OpenRouter: OpenRouterSettings{
			APIKey: s.cfg.OpenRouterAPIKey,
			DefaultModel: ModelConfig{
				Provider: s.cfg.OpenRouterProvider,
				Model:    s.cfg.OpenRouterModel,
			},
		},
		Evolution: EvolutionSettings{
			APIURL:               s.cfg.EvolutionAPIURL,
			APIKey:               s.cfg.EvolutionAPIKey,
			DefaultPhoneNumberID: s.cfg.DefaultPhoneNumberID,
		},
		Prompts: PromptSettings{
			System: s.cfg.SystemPrompt,
		},
	}
}

// Get returns the masked public view, served from cache when fresh.
func (s *Service) Get(ctx context.Context) (Public, error) {
	current, metadata, err := s.cached(ctx)
	if err != nil {
		return Public{}, err
	}
	return buildPublicView(current, metadata), nil
}

// Current returns the full settings with secrets. Internal use only.
func (s *Service) Current(ctx context.Context) (Settings, error) {
	current, _, err := s.cached(ctx)
	if err != nil {
		return Settings{}, err
	}
	return current, nil
}

// Refresh reloads the cache from the store regardless of TTL.
func (s *Service) Refresh(ctx context.Context) error {
	settings, metadata, err := s.load(ctx)
	if err != nil {
		return err
	}
	s.storeCache(settings, metadata)
	return nil
}

// Update validates a partial update, merges it onto the current settings,
// persists the full merged record and replaces the cache.
func (s *Service) Update(ctx context.Context, update Update) (Public, error) {
	if update.Empty() {
		return Public{}, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "no settings changes provided", nil)
	}
	if err := s.validateUpdate(ctx, update); err != nil {
		return Public{}, err
	}

	current, _, err := s.cached(ctx)
	if err != nil {
		return Public{}, err
	}

	next := merge(current, update)
	if err := s.validate.Struct(next); err != nil {
		return Public{}, platformerrors.NewErrorWithDetails(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "merged settings are invalid", err,
			map[string]any{"issues": err.Error()})
	}

	updatedAt, err := s.repo.Save(ctx, &next)
	if err != nil {
		return Public{}, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "persist settings")
	}

	stamp := updatedAt.UTC().Format(time.RFC3339)
	metadata := Metadata{UpdatedAt: &stamp, Source: SourceDatabase}
	s.storeCache(next, metadata)

	s.log.Info().Msg("settings updated")
	return buildPublicView(next, metadata), nil
}

func (s *Service) validateUpdate(ctx context.Context, update Update) error {
	for _, section := range []any{update.OpenRouter, update.Evolution, update.Prompts} {
		switch v := section.(type) {
		case *OpenRouterUpdate:
			if v == nil {
				continue
			}
			if err := s.validate.Struct(v); err != nil {
				return s.validationError(ctx, err)
			}
			if v.DefaultModel != nil {
				if err := s.validate.Struct(v.DefaultModel); err != nil {
					return s.validationError(ctx, err)
				}
			}
		case *EvolutionUpdate:
			if v == nil {
				continue
			}
			if err := s.validate.Struct(v); err != nil {
				return s.validationError(ctx, err)
			}
		case *PromptsUpdate:
			if v == nil {
				continue
			}
			if err := s.validate.Struct(v); err != nil {
				return s.validationError(ctx, err)
			}
		}
	}
	return nil
}

func (s *Service) validationError(ctx context.Context, err error) error {
	return platformerrors.NewErrorWithDetails(ctx, platformerrors.LayerDomain,
		platformerrors.ErrorTypeValidation, "invalid settings update", err,
		map[string]any{"issues": err.Error()})
}

// merge applies only the supplied fields onto current. An explicit null for
// defaultPhoneNumberId clears it.
func merge(current Settings, update Update) Settings {
	next := current

	if update.OpenRouter != nil {
		if update.OpenRouter.APIKey != nil {
			next.OpenRouter.APIKey = *update.OpenRouter.APIKey
		}
		if update.OpenRouter.DefaultModel != nil {
			next.OpenRouter.DefaultModel = *update.OpenRouter.DefaultModel
		}
	}

	if update.Evolution != nil {
		if update.Evolution.APIURL != nil {
			next.Evolution.APIURL = *update.Evolution.APIURL
		}
		if update.Evolution.APIKey != nil {
			next.Evolution.APIKey = *update.Evolution.APIKey
		}
		if update.Evolution.DefaultPhoneNumberID.Set {
			if update.Evolution.DefaultPhoneNumberID.Value == nil {
				next.Evolution.DefaultPhoneNumberID = ""
			} else {
				next.Evolution.DefaultPhoneNumberID = *update.Evolution.DefaultPhoneNumberID.Value
			}
		}
	}

	if update.Prompts != nil && update.Prompts.System != nil {
		next.Prompts.System = *update.Prompts.System
	}

	return next
}

func (s *Service) cached(ctx context.Context) (Settings, Metadata, error) {
	s.mu.Lock()
	if s.cache != nil && time.Now().Before(s.cache.expiresAt) {
		settings, metadata := s.cache.settings, s.cache.metadata
		s.mu.Unlock()
		return settings, metadata, nil
	}
	s.mu.Unlock()

	settings, metadata, err := s.load(ctx)
	if err != nil {
		return Settings{}, Metadata{}, err
	}
	s.storeCache(settings, metadata)
	return settings, metadata, nil
}

// load fetches from the store. When no record exists the environment
// defaults are persisted so the record is durably created on first access.
func (s *Service) load(ctx context.Context) (Settings, Metadata, error) {
	stored, updatedAt, err := s.repo.Load(ctx)
	if err != nil {
		return Settings{}, Metadata{}, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "load settings")
	}

	if stored == nil {
		defaults := s.Defaults()
		if _, err := s.repo.Save(ctx, &defaults); err != nil {
			return Settings{}, Metadata{}, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "persist default settings")
		}
		s.log.Info().Msg("no settings record found, persisted environment defaults")
		return defaults, Metadata{UpdatedAt: nil, Source: SourceEnv}, nil
	}

	var stamp *string
	if updatedAt != nil {
		formatted := updatedAt.UTC().Format(time.RFC3339)
		stamp = &formatted
	}
	return *stored, Metadata{UpdatedAt: stamp, Source: SourceDatabase}, nil
}

func (s *Service) storeCache(settings Settings, metadata Metadata) {
	s.mu.Lock()
	s.cache = &cacheEntry{
		settings:  settings,
		metadata:  metadata,
		expiresAt: time.Now().Add(s.cfg.SettingsCacheTTL),
	}
	s.mu.Unlock()
}
