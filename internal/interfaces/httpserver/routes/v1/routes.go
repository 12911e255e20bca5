package v1

import (
	"github.com/gin-gonic/gin"

	"assistant-server/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
}

func NewRoutes(provider *handlers.Provider) *Routes {
	return &Routes{handlers: provider}
}

// Register attaches all v1 routes under the /v1 prefix.
func (r *Routes) Register(router gin.IRouter) {
	group := router.Group("/v1")

	group.GET("/chat", r.handlers.Chat.History)
	group.POST("/chat", r.handlers.Chat.Send)

	group.GET("/documents", r.handlers.Documents.List)
	group.POST("/documents", r.handlers.Documents.Upload)
	group.DELETE("/documents/:id", r.handlers.Documents.Remove)

	group.GET("/settings", r.handlers.Settings.Get)
	group.PUT("/settings", r.handlers.Settings.Update)

	group.GET("/webhooks/whatsapp", r.handlers.Webhooks.Verify)
	group.POST("/webhooks/whatsapp", r.handlers.Webhooks.Receive)

	group.GET("/health", r.handlers.Health.Check)
}
