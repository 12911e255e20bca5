package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	domain "assistant-server/internal/domain/settings"
	"assistant-server/internal/interfaces/httpserver/responses"
	"assistant-server/internal/utils/platformerrors"
)

// SettingsHandler exposes the configuration endpoints. Secrets never leave
// this surface unmasked.
type SettingsHandler struct {
	service *domain.Service
	log     zerolog.Logger
}

func NewSettingsHandler(service *domain.Service, log zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{
		service: service,
		log:     log.With().Str("component", "settings-handler").Logger(),
	}
}

// Get godoc
// @Summary      Get settings
// @Description  Returns the current configuration with secret previews.
// @Tags         settings
// @Produce      json
// @Success      200  {object}  settings.Public
// @Router       /v1/settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	view, err := h.service.Get(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "failed to load settings")
		return
	}

	c.JSON(http.StatusOK, view)
}

// Update godoc
// @Summary      Update settings
// @Description  Applies a partial configuration update and returns the masked result.
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request  body      settings.Update  true  "Partial settings update"
// @Success      200      {object}  settings.Public
// @Failure      400      {object}  responses.ErrorResponse
// @Router       /v1/settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	var update domain.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body")
		return
	}

	view, err := h.service.Update(c.Request.Context(), update)
	if err != nil {
		responses.HandleError(c, err, "failed to update settings")
		return
	}

	c.JSON(http.StatusOK, view)
}
