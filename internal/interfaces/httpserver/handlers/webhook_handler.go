package handlers

import (
	"crypto/subtle"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"assistant-server/internal/config"
	"assistant-server/internal/domain/whatsapp"
	"assistant-server/internal/interfaces/httpserver/responses"
	"assistant-server/internal/utils/platformerrors"
)

const maxWebhookBody = 1 << 20 // 1MB

// WebhookHandler exposes the WhatsApp webhook endpoints.
type WebhookHandler struct {
	cfg       *config.Config
	responder *whatsapp.Responder
	log       zerolog.Logger
}

func NewWebhookHandler(cfg *config.Config, responder *whatsapp.Responder, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		cfg:       cfg,
		responder: responder,
		log:       log.With().Str("component", "webhook-handler").Logger(),
	}
}

// Verify godoc
// @Summary      Webhook verification challenge
// @Description  Echoes hub.challenge when the verify token matches the configured secret.
// @Tags         webhooks
// @Produce      plain
// @Param        hub.mode          query     string  true  "Must be subscribe"
// @Param        hub.verify_token  query     string  true  "Shared verify token"
// @Param        hub.challenge     query     string  true  "Challenge to echo"
// @Success      200  {string}  string
// @Failure      403  {object}  responses.ErrorResponse
// @Router       /v1/webhooks/whatsapp [get]
func (h *WebhookHandler) Verify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	secret := strings.TrimSpace(h.cfg.WhatsAppWebhookSecret)
	if mode == "subscribe" && secret != "" && subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1 {
		c.String(http.StatusOK, challenge)
		return
	}

	responses.HandleNewError(c, platformerrors.ErrorTypeForbidden, "webhook verification failed")
}

// Receive godoc
// @Summary      Receive WhatsApp events
// @Description  Validates the shared-secret header, records the event and replies to recognized messages.
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Failure      401  {object}  responses.ErrorResponse
// @Router       /v1/webhooks/whatsapp [post]
func (h *WebhookHandler) Receive(c *gin.Context) {
	if !h.authorized(c) {
		responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "invalid webhook signature")
		return
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "unable to read request body")
		return
	}

	if err := h.responder.HandleIncoming(c.Request.Context(), payload); err != nil {
		responses.HandleError(c, err, "failed to process webhook event")
		return
	}

	c.JSON(http.StatusOK, gin.H{"acknowledged": true})
}

// authorized compares the shared-secret header with the configured secret.
// All deliveries are accepted when no secret is configured, per the provider
// contract.
func (h *WebhookHandler) authorized(c *gin.Context) bool {
	secret := strings.TrimSpace(h.cfg.WhatsAppWebhookSecret)
	if secret == "" {
		return true
	}

	for _, header := range []string{"x-webhook-secret", "x-signature"} {
		value := c.GetHeader(header)
		if value != "" && subtle.ConstantTimeCompare([]byte(value), []byte(secret)) == 1 {
			return true
		}
	}
	return false
}
