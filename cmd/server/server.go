package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
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
	"assistant-server/internal/infrastructure/observability"
	"assistant-server/internal/infrastructure/openrouter"
	"assistant-server/internal/infrastructure/repository/conversationrepo"
	"assistant-server/internal/infrastructure/repository/documentrepo"
	"assistant-server/internal/infrastructure/repository/settingsrepo"
	"assistant-server/internal/infrastructure/repository/webhookeventrepo"
	"assistant-server/internal/infrastructure/storage"
	"assistant-server/internal/interfaces/httpserver"
	"assistant-server/internal/interfaces/httpserver/handlers"
)

// @title Assistant API
// @version 1.0
// @description Retrieval-grounded assistant with web chat and WhatsApp channels
// @BasePath /
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseDSN,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	blobStorage, err := newStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize storage")
	}

	settingsRepository := settingsrepo.NewRepository(db)
	documentRepository := documentrepo.NewRepository(db)
	conversationRepository := conversationrepo.NewRepository(db)
	webhookEventRepository := webhookeventrepo.NewRepository(db)

	settingsService := settings.NewService(cfg, settingsRepository, log)
	documentService := document.NewService(cfg, documentRepository, blobStorage, log)
	conversationService := conversation.NewService(conversationRepository, log)
	contextBuilder := retrieval.NewBuilder(cfg, documentService, log)

	gatewayClient := openrouter.NewClient(cfg, log)
	messagingClient := evolution.NewClient(log)

	chatService := chat.NewService(cfg, conversationService, settingsService, gatewayClient, contextBuilder, log)
	responder := whatsapp.NewResponder(chatService, messagingClient, settingsService, webhookEventRepository, log)

	handlerProvider := handlers.NewProvider(cfg, chatService, documentService, settingsService, responder, settingsRepository, blobStorage, log)
	httpServer := httpserver.New(cfg, log, handlerProvider)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func newStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storage.BlobStorage, error) {
	if cfg.IsLocalStorage() {
		return storage.NewLocalStorage(cfg, log)
	}
	return storage.NewS3Storage(ctx, cfg, log)
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
