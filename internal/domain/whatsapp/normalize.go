package whatsapp

import (
	"encoding/json"
	"strings"
)

// Variant names the recognized inbound payload shape.
type Variant string

const (
	// VariantDirect is the flat shape with a top-level messages array.
	VariantDirect Variant = "direct"
	// VariantNested is the hub shape with entry[0].changes[0].value.
	VariantNested Variant = "nested"
)

// IncomingMessage is a provider payload normalized to the fields
// orchestration needs.
type IncomingMessage struct {
	Phone string
	Body  string
	Raw   json.RawMessage
}

type textPayload struct {
	Body string `json:"body"`
}

type interactivePayload struct {
	Text string `json:"text"`
}

type documentPayload struct {
	Caption string `json:"caption"`
}

type rawMessage struct {
	From        string              `json:"from"`
	ChatID      string              `json:"chatId"`
	ClientID    string              `json:"clientId"`
	Message     string              `json:"message"`
	Text        *textPayload        `json:"text"`
	Interactive *interactivePayload `json:"interactive"`
	Document    *documentPayload    `json:"document"`
}

type contact struct {
	WaID string `json:"wa_id"`
}

type messageBatch struct {
	Messages []json.RawMessage `json:"messages"`
	Contacts []contact         `json:"contacts"`
}

type nestedEnvelope struct {
	Entry []struct {
		Changes []struct {
			Value messageBatch `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// Normalize tries each known payload shape in order and extracts the
// messages it carries. The second return reports whether any shape matched;
// a matched shape may still yield zero usable messages.
func Normalize(payload []byte) ([]IncomingMessage, Variant, bool) {
	if batch, ok := decodeDirect(payload); ok {
		return extract(batch), VariantDirect, true
	}
	if batch, ok := decodeNested(payload); ok {
		return extract(batch), VariantNested, true
	}
	return nil, "", false
}

func decodeDirect(payload []byte) (messageBatch, bool) {
	var batch messageBatch
	if err := json.Unmarshal(payload, &batch); err != nil {
		return messageBatch{}, false
	}
	return batch, len(batch.Messages) > 0
}

func decodeNested(payload []byte) (messageBatch, bool) {
	var envelope nestedEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return messageBatch{}, false
	}
	if len(envelope.Entry) == 0 || len(envelope.Entry[0].Changes) == 0 {
		return messageBatch{}, false
	}
	batch := envelope.Entry[0].Changes[0].Value
	return batch, len(batch.Messages) > 0
}

// extract keeps only messages that yield both a phone and a body. Ones that
// do not are dropped; the caller still records the raw event for audit.
func extract(batch messageBatch) []IncomingMessage {
	fallbackPhone := ""
	if len(batch.Contacts) > 0 {
		fallbackPhone = strings.TrimSpace(batch.Contacts[0].WaID)
	}

	var incoming []IncomingMessage
	for _, raw := range batch.Messages {
		var msg rawMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}

		phone := messagePhone(msg, fallbackPhone)
		body := messageBody(msg)
		if phone == "" || body == "" {
			continue
		}

		incoming = append(incoming, IncomingMessage{
			Phone: phone,
			Body:  body,
			Raw:   raw,
		})
	}
	return incoming
}

func messagePhone(msg rawMessage, fallback string) string {
	for _, candidate := range []string{msg.From, fallback, msg.ChatID, msg.ClientID} {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func messageBody(msg rawMessage) string {
	if msg.Text != nil {
		if body := strings.TrimSpace(msg.Text.Body); body != "" {
			return body
		}
	}
	if body := strings.TrimSpace(msg.Message); body != "" {
		return body
	}
	if msg.Interactive != nil {
		if body := strings.TrimSpace(msg.Interactive.Text); body != "" {
			return body
		}
	}
	if msg.Document != nil {
		if body := strings.TrimSpace(msg.Document.Caption); body != "" {
			return body
		}
	}
	return ""
}
