package conversation

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"assistant-server/internal/utils/docid"
	"assistant-server/internal/utils/platformerrors"
)

// Repository defines persistence operations needed by the service.
type Repository interface {
	GetConversation(ctx context.Context, id string) (*Conversation, error)
	UpsertConversation(ctx context.Context, conv *Conversation) error
	CreateMessage(ctx context.Context, msg *Message) error
	ListMessages(ctx context.Context, conversationID string) ([]Message, error)
	ListRecentMessages(ctx context.Context, conversationID string, limit int) ([]Message, error)
}

// Service owns conversation headers and their append-only message log.
type Service struct {
	repo Repository
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("component", "conversation-service").Logger(),
	}
}

// Ensure idempotently creates the conversation header. An existing header
// keeps its original title and type.
func (s *Service) Ensure(ctx context.Context, id string, convType Type, title string) (*Conversation, error) {
	if strings.TrimSpace(id) == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "conversation id is required", nil)
	}

	conv := &Conversation{
		ID:    id,
		Type:  convType,
		Title: title,
	}
	if err := s.repo.UpsertConversation(ctx, conv); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "ensure conversation")
	}
	return conv, nil
}

// AppendMessages writes each turn as a new record, preserving call order via
// server-assigned monotonic timestamps. The inserts themselves run
// concurrently with all-or-error semantics. Empty id or empty list is a no-op.
func (s *Service) AppendMessages(ctx context.Context, conversationID string, appends []Append) ([]Message, error) {
	if strings.TrimSpace(conversationID) == "" || len(appends) == 0 {
		return nil, nil
	}

	base := time.Now().UTC()
	messages := make([]Message, len(appends))
	for i, appendMsg := range appends {
		messages[i] = Message{
			ID:             docid.NewMessage(),
			ConversationID: conversationID,
			Role:           appendMsg.Role,
			Content:        appendMsg.Content,
			RawPayload:     appendMsg.RawPayload,
			// strictly increasing timestamps keep call order under the
			// created_at ascending read path
			CreatedAt: base.Add(time.Duration(i) * time.Microsecond),
		}
	}

	group, groupCtx := errgroup.WithContext(ctx)
	for i := range messages {
		msg := &messages[i]
		group.Go(func() error {
			return s.repo.CreateMessage(groupCtx, msg)
		})
	}
	if err := group.Wait(); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "append messages")
	}

	return messages, nil
}

// Messages returns up to limit messages in ascending creation order. An
// empty id yields an empty list. A limit <= 0 returns the full log.
func (s *Service) Messages(ctx context.Context, conversationID string, limit int) ([]Message, error) {
	if strings.TrimSpace(conversationID) == "" {
		return []Message{}, nil
	}

	var (
		messages []Message
		err      error
	)
	if limit > 0 {
		messages, err = s.repo.ListRecentMessages(ctx, conversationID, limit)
	} else {
		messages, err = s.repo.ListMessages(ctx, conversationID)
	}
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "list messages")
	}
	if messages == nil {
		messages = []Message{}
	}
	return messages, nil
}

// Get returns the conversation header, or nil when it does not exist.
func (s *Service) Get(ctx context.Context, id string) (*Conversation, error) {
	if strings.TrimSpace(id) == "" {
		return nil, nil
	}
	conv, err := s.repo.GetConversation(ctx, id)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "get conversation")
	}
	return conv, nil
}
