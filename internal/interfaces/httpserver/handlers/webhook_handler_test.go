package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"assistant-server/internal/config"
	"assistant-server/internal/interfaces/httpserver/handlers"
)

func newWebhookRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{WhatsAppWebhookSecret: secret}
	handler := handlers.NewWebhookHandler(cfg, nil, zerolog.Nop())

	router := gin.New()
	router.GET("/v1/webhooks/whatsapp", handler.Verify)
	return router
}

func TestVerifyEchoesChallenge(t *testing.T) {
	router := newWebhookRouter("shared-secret")

	req := httptest.NewRequest(http.MethodGet,
		"/v1/webhooks/whatsapp?hub.mode=subscribe&hub.verify_token=shared-secret&hub.challenge=challenge-42", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "challenge-42" {
		t.Errorf("body = %q, want the echoed challenge", rec.Body.String())
	}
}

func TestVerifyRejectsBadToken(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"wrong token", "hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=c"},
		{"wrong mode", "hub.mode=unsubscribe&hub.verify_token=shared-secret&hub.challenge=c"},
		{"missing token", "hub.mode=subscribe&hub.challenge=c"},
	}

	router := newWebhookRouter("shared-secret")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/webhooks/whatsapp?"+tt.query, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusForbidden {
				t.Errorf("status = %d, want 403", rec.Code)
			}
		})
	}
}

func TestVerifyRejectsWhenSecretUnset(t *testing.T) {
	router := newWebhookRouter("")

	req := httptest.NewRequest(http.MethodGet,
		"/v1/webhooks/whatsapp?hub.mode=subscribe&hub.verify_token=&hub.challenge=c", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 when no secret is configured", rec.Code)
	}
}
