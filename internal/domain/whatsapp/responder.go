package whatsapp

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"assistant-server/internal/domain/conversation"
	"assistant-server/internal/domain/settings"
	"assistant-server/internal/infrastructure/evolution"
	"assistant-server/internal/infrastructure/metrics"
)

const providerName = "whatsapp"

// Orchestrator runs one conversational turn with an optional pre-persist
// dispatch hook.
type Orchestrator interface {
	Respond(ctx context.Context, conversationID *string, convType conversation.Type, userMessage string, rawPayload []byte, dispatch func(ctx context.Context, reply string) error) (string, error)
}

// Messenger dispatches outbound text messages through the provider.
type Messenger interface {
	Send(ctx context.Context, creds evolution.Credentials, msg evolution.OutboundMessage) (*evolution.DispatchResult, error)
}

// SettingsProvider exposes the full settings record.
type SettingsProvider interface {
	Current(ctx context.Context) (settings.Settings, error)
}

// EventRecorder stores inbound payloads for audit.
type EventRecorder interface {
	Record(ctx context.Context, provider string, payload []byte, receivedAt time.Time) error
}

// Responder handles inbound WhatsApp events: audit, normalization, reply
// generation and dispatch.
type Responder struct {
	orchestrator Orchestrator
	messenger    Messenger
	settings     SettingsProvider
	events       EventRecorder
	log          zerolog.Logger
}

func NewResponder(
	orchestrator Orchestrator,
	messenger Messenger,
	settingsProvider SettingsProvider,
	events EventRecorder,
	log zerolog.Logger,
) *Responder {
	return &Responder{
		orchestrator: orchestrator,
		messenger:    messenger,
		settings:     settingsProvider,
		events:       events,
		log:          log.With().Str("component", "whatsapp-responder").Logger(),
	}
}

// HandleIncoming processes one inbound webhook delivery. Every payload is
// recorded for audit; unrecognized shapes and messages without a phone or
// body produce no reply and no error. The reply is dispatched to the
// originating phone before the exchange is persisted.
func (r *Responder) HandleIncoming(ctx context.Context, payload []byte) error {
	if err := r.events.Record(ctx, providerName, payload, time.Now().UTC()); err != nil {
		r.log.Warn().Err(err).Msg("failed to record webhook event")
	}

	incoming, variant, recognized := Normalize(payload)
	if !recognized {
		metrics.RecordWebhookEvent("unrecognized")
		r.log.Debug().Msg("unrecognized webhook payload shape")
		return nil
	}
	if len(incoming) == 0 {
		metrics.RecordWebhookEvent("ignored")
		r.log.Debug().Str("variant", string(variant)).Msg("webhook payload carried no usable messages")
		return nil
	}

	current, err := r.settings.Current(ctx)
	if err != nil {
		metrics.RecordWebhookEvent("error")
		return err
	}
	creds := evolution.Credentials{
		APIURL:               current.Evolution.APIURL,
		APIKey:               current.Evolution.APIKey,
		DefaultPhoneNumberID: current.Evolution.DefaultPhoneNumberID,
	}

	for _, msg := range incoming {
		conversationID := msg.Phone
		dispatch := func(ctx context.Context, reply string) error {
			_, err := r.messenger.Send(ctx, creds, evolution.OutboundMessage{
				To:   msg.Phone,
				Body: reply,
			})
			return err
		}

		if _, err := r.orchestrator.Respond(ctx, &conversationID, conversation.TypeWhatsApp, msg.Body, msg.Raw, dispatch); err != nil {
			metrics.RecordWebhookEvent("error")
			return err
		}
		metrics.RecordWebhookEvent("replied")
	}

	return nil
}
