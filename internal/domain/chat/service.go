package chat

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"assistant-server/internal/config"
	"assistant-server/internal/domain/conversation"
	"assistant-server/internal/domain/retrieval"
	"assistant-server/internal/domain/settings"
	"assistant-server/internal/infrastructure/openrouter"
	"assistant-server/internal/utils/platformerrors"
)

const (
	titleMaxChars = 60

	// FallbackReply substitutes a failed or empty gateway response. The
	// completion call is never retried.
	FallbackReply = "Sorry, I could not generate a response right now. Please try again in a moment."
)

// Conversations is the message log consumed by orchestration.
type Conversations interface {
	Ensure(ctx context.Context, id string, convType conversation.Type, title string) (*conversation.Conversation, error)
	AppendMessages(ctx context.Context, conversationID string, appends []conversation.Append) ([]conversation.Message, error)
	Messages(ctx context.Context, conversationID string, limit int) ([]conversation.Message, error)
}

// SettingsProvider exposes the full settings record to orchestration.
type SettingsProvider interface {
	Current(ctx context.Context) (settings.Settings, error)
}

// Completer is the LLM gateway call.
type Completer interface {
	Complete(ctx context.Context, apiKey, model string, messages []openrouter.Message) (string, error)
}

// ContextBuilder assembles the retrieval context block.
type ContextBuilder interface {
	BuildContext(ctx context.Context) (string, error)
}

// Result is the orchestration outcome for one user turn.
type Result struct {
	ConversationID string                 `json:"conversationId"`
	Reply          string                 `json:"reply"`
	Messages       []conversation.Message `json:"messages"`
}

// Service orchestrates one conversational turn: prompt assembly, gateway
// call, persistence.
type Service struct {
	cfg           *config.Config
	conversations Conversations
	settings      SettingsProvider
	completer     Completer
	contexts      ContextBuilder
	log           zerolog.Logger
}

func NewService(
	cfg *config.Config,
	conversations Conversations,
	settingsProvider SettingsProvider,
	completer Completer,
	contexts ContextBuilder,
	log zerolog.Logger,
) *Service {
	return &Service{
		cfg:           cfg,
		conversations: conversations,
		settings:      settingsProvider,
		completer:     completer,
		contexts:      contexts,
		log:           log.With().Str("component", "chat-service").Logger(),
	}
}

// Send handles one web chat turn. An empty conversation id starts a new
// conversation with a generated id.
func (s *Service) Send(ctx context.Context, conversationID, userMessage string) (*Result, error) {
	reply, err := s.Respond(ctx, &conversationID, conversation.TypeWeb, userMessage, nil, nil)
	if err != nil {
		return nil, err
	}

	history, err := s.conversations.Messages(ctx, conversationID, s.cfg.ChatHistoryLimit)
	if err != nil {
		return nil, err
	}

	return &Result{
		ConversationID: conversationID,
		Reply:          reply,
		Messages:       history,
	}, nil
}

// History returns the bounded message log of a conversation.
func (s *Service) History(ctx context.Context, conversationID string) ([]conversation.Message, error) {
	return s.conversations.Messages(ctx, conversationID, s.cfg.ChatHistoryLimit)
}

// Respond runs the shared orchestration: validate, ensure conversation,
// assemble prompt, call the gateway, persist user and assistant turns in that
// order. conversationID is generated when empty. rawPayload, when present, is
// stored alongside the user turn. dispatch, when non-nil, runs after the
// reply is resolved and before anything is persisted; a dispatch failure
// aborts persistence.
func (s *Service) Respond(ctx context.Context, conversationID *string, convType conversation.Type, userMessage string, rawPayload []byte, dispatch func(ctx context.Context, reply string) error) (string, error) {
	message := strings.TrimSpace(userMessage)
	if message == "" {
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "message must not be empty", nil)
	}

	if strings.TrimSpace(*conversationID) == "" {
		*conversationID = uuid.NewString()
	}

	if _, err := s.conversations.Ensure(ctx, *conversationID, convType, title(message)); err != nil {
		return "", err
	}

	history, err := s.conversations.Messages(ctx, *conversationID, s.cfg.ChatHistoryLimit)
	if err != nil {
		return "", err
	}

	current, err := s.settings.Current(ctx)
	if err != nil {
		return "", err
	}

	retrievalContext, err := s.contexts.BuildContext(ctx)
	if err != nil {
		return "", err
	}
	systemPrompt := retrieval.ComposePrompt(current.Prompts.System, retrievalContext)

	prompt := make([]openrouter.Message, 0, len(history)+2)
	prompt = append(prompt, openrouter.Message{Role: string(conversation.RoleSystem), Content: systemPrompt})
	for _, turn := range history {
		prompt = append(prompt, openrouter.Message{Role: string(turn.Role), Content: turn.Content})
	}
	prompt = append(prompt, openrouter.Message{Role: string(conversation.RoleUser), Content: message})

	reply, err := s.completer.Complete(ctx, current.OpenRouter.APIKey, current.OpenRouter.DefaultModel.Model, prompt)
	if err != nil {
		s.log.Warn().Err(err).Str("conversation_id", *conversationID).Msg("completion failed, using fallback reply")
		reply = FallbackReply
	}

	if dispatch != nil {
		if err := dispatch(ctx, reply); err != nil {
			return "", err
		}
	}

	_, err = s.conversations.AppendMessages(ctx, *conversationID, []conversation.Append{
		{Role: conversation.RoleUser, Content: message, RawPayload: rawPayload},
		{Role: conversation.RoleAssistant, Content: reply},
	})
	if err != nil {
		return "", err
	}

	return reply, nil
}

func title(message string) string {
	runes := []rune(message)
	if len(runes) <= titleMaxChars {
		return message
	}
	return string(runes[:titleMaxChars])
}
