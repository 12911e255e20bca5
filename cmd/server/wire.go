//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"assistant-server/internal/config"
	"assistant-server/internal/domain/chat"
	"assistant-server/internal/domain/conversation"
	"assistant-server/internal/domain/document"
	"assistant-server/internal/domain/retrieval"
	"assistant-server/internal/domain/settings"
	"assistant-server/internal/domain/whatsapp"
	"assistant-server/internal/infrastructure/database"
	"assistant-server/internal/infrastructure/evolution"
	"assistant-server/internal/infrastructure/logger"
	"assistant-server/internal/infrastructure/openrouter"
	"assistant-server/internal/infrastructure/repository/conversationrepo"
	"assistant-server/internal/infrastructure/repository/documentrepo"
	"assistant-server/internal/infrastructure/repository/settingsrepo"
	"assistant-server/internal/infrastructure/repository/webhookeventrepo"
	"assistant-server/internal/infrastructure/storage"
	"assistant-server/internal/interfaces/httpserver"
	"assistant-server/internal/interfaces/httpserver/handlers"
)

var repositorySet = wire.NewSet(
	settingsrepo.NewRepository,
	wire.Bind(new(settings.Repository), new(*settingsrepo.Repository)),
	documentrepo.NewRepository,
	wire.Bind(new(document.Repository), new(*documentrepo.Repository)),
	conversationrepo.NewRepository,
	wire.Bind(new(conversation.Repository), new(*conversationrepo.Repository)),
	webhookeventrepo.NewRepository,
	wire.Bind(new(whatsapp.EventRecorder), new(*webhookeventrepo.Repository)),
)

var domainSet = wire.NewSet(
	settings.NewService,
	wire.Bind(new(chat.SettingsProvider), new(*settings.Service)),
	wire.Bind(new(whatsapp.SettingsProvider), new(*settings.Service)),
	document.NewService,
	wire.Bind(new(retrieval.Source), new(*document.Service)),
	conversation.NewService,
	wire.Bind(new(chat.Conversations), new(*conversation.Service)),
	retrieval.NewBuilder,
	wire.Bind(new(chat.ContextBuilder), new(*retrieval.Builder)),
	chat.NewService,
	wire.Bind(new(whatsapp.Orchestrator), new(*chat.Service)),
	whatsapp.NewResponder,
)

var clientSet = wire.NewSet(
	openrouter.NewClient,
	wire.Bind(new(chat.Completer), new(*openrouter.Client)),
	evolution.NewClient,
	wire.Bind(new(whatsapp.Messenger), new(*evolution.Client)),
)

// BuildApplication assembles the assistant API with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		provideStorage,
		repositorySet,
		clientSet,
		domainSet,
		provideHandlers,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseDSN,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

// provideHandlers names the two health pingers explicitly; both satisfy
// handlers.Pinger.
func provideHandlers(
	cfg *config.Config,
	chatService *chat.Service,
	documentService *document.Service,
	settingsService *settings.Service,
	responder *whatsapp.Responder,
	settingsRepository *settingsrepo.Repository,
	blobStorage storage.BlobStorage,
	log zerolog.Logger,
) *handlers.Provider {
	return handlers.NewProvider(cfg, chatService, documentService, settingsService, responder, settingsRepository, blobStorage, log)
}

// provideStorage creates the appropriate storage backend based on configuration.
func provideStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storage.BlobStorage, error) {
	if cfg.IsLocalStorage() {
		return storage.NewLocalStorage(cfg, log)
	}
	return storage.NewS3Storage(ctx, cfg, log)
}
