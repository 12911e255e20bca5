package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"assistant-server/internal/domain/chat"
	"assistant-server/internal/domain/conversation"
	"assistant-server/internal/interfaces/httpserver/responses"
	"assistant-server/internal/utils/platformerrors"
)

// ChatHandler exposes the web chat endpoints.
type ChatHandler struct {
	service *chat.Service
	log     zerolog.Logger
}

func NewChatHandler(service *chat.Service, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		log:     log.With().Str("component", "chat-handler").Logger(),
	}
}

type sendMessageRequest struct {
	ConversationID string `json:"conversationId"`
	Message        string `json:"message"`
}

type historyResponse struct {
	ConversationID string                 `json:"conversationId"`
	Messages       []conversation.Message `json:"messages"`
}

// Send godoc
// @Summary      Send a chat message
// @Description  Runs one conversational turn and returns the reply with the updated history.
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        request  body      sendMessageRequest  true  "Chat message"
// @Success      200      {object}  chat.Result
// @Failure      400      {object}  responses.ErrorResponse
// @Router       /v1/chat [post]
func (h *ChatHandler) Send(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body")
		return
	}

	result, err := h.service.Send(c.Request.Context(), req.ConversationID, req.Message)
	if err != nil {
		responses.HandleError(c, err, "failed to process message")
		return
	}

	c.JSON(http.StatusOK, result)
}

// History godoc
// @Summary      Get conversation history
// @Description  Returns the bounded message history of a conversation.
// @Tags         chat
// @Produce      json
// @Param        conversationId  query     string  true  "Conversation id"
// @Success      200             {object}  historyResponse
// @Failure      400             {object}  responses.ErrorResponse
// @Router       /v1/chat [get]
func (h *ChatHandler) History(c *gin.Context) {
	conversationID := strings.TrimSpace(c.Query("conversationId"))
	if conversationID == "" {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "conversationId is required")
		return
	}

	messages, err := h.service.History(c.Request.Context(), conversationID)
	if err != nil {
		responses.HandleError(c, err, "failed to load history")
		return
	}

	c.JSON(http.StatusOK, historyResponse{
		ConversationID: conversationID,
		Messages:       messages,
	})
}
