package whatsapp_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"assistant-server/internal/domain/conversation"
	"assistant-server/internal/domain/settings"
	"assistant-server/internal/domain/whatsapp"
	"assistant-server/internal/infrastructure/evolution"
)

// MockOrchestrator records respond calls and runs the dispatch hook like the
// real orchestration does.
type MockOrchestrator struct {
	RespondFunc func(ctx context.Context, conversationID *string, convType conversation.Type, userMessage string, rawPayload []byte, dispatch func(ctx context.Context, reply string) error) (string, error)
	calls       []string
}

func (m *MockOrchestrator) Respond(ctx context.Context, conversationID *string, convType conversation.Type, userMessage string, rawPayload []byte, dispatch func(ctx context.Context, reply string) error) (string, error) {
	m.calls = append(m.calls, *conversationID+": "+userMessage)
	if m.RespondFunc != nil {
		return m.RespondFunc(ctx, conversationID, convType, userMessage, rawPayload, dispatch)
	}
	if dispatch != nil {
		if err := dispatch(ctx, "auto reply"); err != nil {
			return "", err
		}
	}
	return "auto reply", nil
}

// MockMessenger records outbound dispatches.
type MockMessenger struct {
	SendFunc func(ctx context.Context, creds evolution.Credentials, msg evolution.OutboundMessage) (*evolution.DispatchResult, error)
	sent     []evolution.OutboundMessage
}

func (m *MockMessenger) Send(ctx context.Context, creds evolution.Credentials, msg evolution.OutboundMessage) (*evolution.DispatchResult, error) {
	m.sent = append(m.sent, msg)
	if m.SendFunc != nil {
		return m.SendFunc(ctx, creds, msg)
	}
	return &evolution.DispatchResult{MessageID: "wamid.1", Status: "sent"}, nil
}

// MockSettings returns fixed provider credentials.
type MockSettings struct{}

func (MockSettings) Current(ctx context.Context) (settings.Settings, error) {
	return settings.Settings{
		Evolution: settings.EvolutionSettings{
			APIURL:               "https://provider.example.com",
			APIKey:               "evo-key",
			DefaultPhoneNumberID: "555000",
		},
	}, nil
}

// MockEvents counts recorded payloads.
type MockEvents struct {
	recorded [][]byte
}

func (m *MockEvents) Record(ctx context.Context, provider string, payload []byte, receivedAt time.Time) error {
	m.recorded = append(m.recorded, payload)
	return nil
}

func TestHandleIncomingRepliesToRecognizedMessage(t *testing.T) {
	orchestrator := &MockOrchestrator{}
	messenger := &MockMessenger{}
	events := &MockEvents{}
	responder := whatsapp.NewResponder(orchestrator, messenger, MockSettings{}, events, zerolog.Nop())

	payload := []byte(`{"messages":[{"from":"5511988887777","text":{"body":"hi"}}]}`)
	if err := responder.HandleIncoming(context.Background(), payload); err != nil {
		t.Fatalf("HandleIncoming returned error: %v", err)
	}

	if len(events.recorded) != 1 {
		t.Errorf("recorded events = %d, want 1", len(events.recorded))
	}
	if len(orchestrator.calls) != 1 {
		t.Fatalf("respond calls = %d, want 1", len(orchestrator.calls))
	}
	if orchestrator.calls[0] != "5511988887777: hi" {
		t.Errorf("respond call = %q, want the phone as conversation id", orchestrator.calls[0])
	}
	if len(messenger.sent) != 1 {
		t.Fatalf("dispatched messages = %d, want 1", len(messenger.sent))
	}
	if messenger.sent[0].To != "5511988887777" {
		t.Errorf("dispatch target = %q, want the originating phone", messenger.sent[0].To)
	}
	if messenger.sent[0].Body != "auto reply" {
		t.Errorf("dispatch body = %q, want the generated reply", messenger.sent[0].Body)
	}
}

func TestHandleIncomingRecordsUnrecognizedPayload(t *testing.T) {
	orchestrator := &MockOrchestrator{}
	events := &MockEvents{}
	responder := whatsapp.NewResponder(orchestrator, &MockMessenger{}, MockSettings{}, events, zerolog.Nop())

	payload := []byte(`{"statuses":[{"id":"wamid.1","status":"delivered"}]}`)
	if err := responder.HandleIncoming(context.Background(), payload); err != nil {
		t.Fatalf("HandleIncoming returned error: %v", err)
	}

	if len(events.recorded) != 1 {
		t.Errorf("recorded events = %d, want 1 even for unrecognized payloads", len(events.recorded))
	}
	if len(orchestrator.calls) != 0 {
		t.Errorf("respond calls = %d, want 0", len(orchestrator.calls))
	}
}

func TestHandleIncomingPropagatesDispatchFailure(t *testing.T) {
	orchestrator := &MockOrchestrator{}
	messenger := &MockMessenger{
		SendFunc: func(ctx context.Context, creds evolution.Credentials, msg evolution.OutboundMessage) (*evolution.DispatchResult, error) {
			return nil, errors.New("provider down")
		},
	}
	responder := whatsapp.NewResponder(orchestrator, messenger, MockSettings{}, &MockEvents{}, zerolog.Nop())

	payload := []byte(`{"messages":[{"from":"5511988887777","text":{"body":"hi"}}]}`)
	if err := responder.HandleIncoming(context.Background(), payload); err == nil {
		t.Fatal("HandleIncoming succeeded, want dispatch error")
	}
}
