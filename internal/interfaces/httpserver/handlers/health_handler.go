package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"assistant-server/internal/domain/settings"
)

// Pinger is a lightweight dependency connectivity probe.
type Pinger interface {
	Health(ctx context.Context) error
}

// HealthHandler reports per-dependency health.
type HealthHandler struct {
	database Pinger
	storage  Pinger
	settings *settings.Service
	log      zerolog.Logger
}

func NewHealthHandler(database, storage Pinger, settingsService *settings.Service, log zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		database: database,
		storage:  storage,
		settings: settingsService,
		log:      log.With().Str("component", "health-handler").Logger(),
	}
}

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// Check godoc
// @Summary      Service health
// @Description  Reports connectivity of the database, blob storage and messaging provider configuration.
// @Tags         health
// @Produce      json
// @Success      200  {object}  healthResponse
// @Router       /v1/health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	ctx := c.Request.Context()
	services := map[string]string{
		"database":     h.probe(ctx, h.database),
		"storage":      h.probe(ctx, h.storage),
		"evolutionApi": h.messagingState(ctx),
	}

	status := "ok"
	for _, state := range services {
		if state == "error" {
			status = "degraded"
			break
		}
	}

	c.JSON(http.StatusOK, healthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  services,
	})
}

func (h *HealthHandler) probe(ctx context.Context, pinger Pinger) string {
	if pinger == nil {
		return "unconfigured"
	}
	if err := pinger.Health(ctx); err != nil {
		h.log.Warn().Err(err).Msg("health probe failed")
		return "error"
	}
	return "ok"
}

// messagingState reports whether the provider credentials are present. No
// network call is made.
func (h *HealthHandler) messagingState(ctx context.Context) string {
	current, err := h.settings.Current(ctx)
	if err != nil {
		return "error"
	}
	if strings.TrimSpace(current.Evolution.APIURL) == "" || strings.TrimSpace(current.Evolution.APIKey) == "" {
		return "unconfigured"
	}
	return "configured"
}
