package whatsapp_test

import (
	"testing"

	"assistant-server/internal/domain/whatsapp"
)

func TestNormalizeDirectShape(t *testing.T) {
	payload := []byte(`{
		"messages": [
			{"from": "5511988887777", "text": {"body": "hello there"}}
		]
	}`)

	incoming, variant, recognized := whatsapp.Normalize(payload)
	if !recognized {
		t.Fatal("payload not recognized")
	}
	if variant != whatsapp.VariantDirect {
		t.Errorf("variant = %q, want direct", variant)
	}
	if len(incoming) != 1 {
		t.Fatalf("got %d messages, want 1", len(incoming))
	}
	if incoming[0].Phone != "5511988887777" {
		t.Errorf("phone = %q, want 5511988887777", incoming[0].Phone)
	}
	if incoming[0].Body != "hello there" {
		t.Errorf("body = %q, want hello there", incoming[0].Body)
	}
}

func TestNormalizeNestedShape(t *testing.T) {
	payload := []byte(`{
		"entry": [{
			"changes": [{
				"value": {
					"contacts": [{"wa_id": "5511977776666"}],
					"messages": [
						{"text": {"body": "from the hub"}}
					]
				}
			}]
		}]
	}`)

	incoming, variant, recognized := whatsapp.Normalize(payload)
	if !recognized {
		t.Fatal("payload not recognized")
	}
	if variant != whatsapp.VariantNested {
		t.Errorf("variant = %q, want nested", variant)
	}
	if len(incoming) != 1 {
		t.Fatalf("got %d messages, want 1", len(incoming))
	}
	if incoming[0].Phone != "5511977776666" {
		t.Errorf("phone = %q, want the contacts fallback", incoming[0].Phone)
	}
	if incoming[0].Body != "from the hub" {
		t.Errorf("body = %q, want from the hub", incoming[0].Body)
	}
}

func TestNormalizeBodyFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantBody string
	}{
		{
			name:     "plain message field",
			payload:  `{"messages":[{"from":"1","message":"plain"}]}`,
			wantBody: "plain",
		},
		{
			name:     "interactive text",
			payload:  `{"messages":[{"from":"1","interactive":{"text":"button reply"}}]}`,
			wantBody: "button reply",
		},
		{
			name:     "document caption",
			payload:  `{"messages":[{"from":"1","document":{"caption":"see attached"}}]}`,
			wantBody: "see attached",
		},
		{
			name:     "text body wins over message",
			payload:  `{"messages":[{"from":"1","message":"loser","text":{"body":"winner"}}]}`,
			wantBody: "winner",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			incoming, _, recognized := whatsapp.Normalize([]byte(tt.payload))
			if !recognized {
				t.Fatal("payload not recognized")
			}
			if len(incoming) != 1 {
				t.Fatalf("got %d messages, want 1", len(incoming))
			}
			if incoming[0].Body != tt.wantBody {
				t.Errorf("body = %q, want %q", incoming[0].Body, tt.wantBody)
			}
		})
	}
}

func TestNormalizePhoneFallbacks(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantPhone string
	}{
		{
			name:      "chatId when from is absent",
			payload:   `{"messages":[{"chatId":"chat-9","text":{"body":"x"}}]}`,
			wantPhone: "chat-9",
		},
		{
			name:      "clientId as last resort",
			payload:   `{"messages":[{"clientId":"client-3","text":{"body":"x"}}]}`,
			wantPhone: "client-3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			incoming, _, recognized := whatsapp.Normalize([]byte(tt.payload))
			if !recognized {
				t.Fatal("payload not recognized")
			}
			if len(incoming) != 1 {
				t.Fatalf("got %d messages, want 1", len(incoming))
			}
			if incoming[0].Phone != tt.wantPhone {
				t.Errorf("phone = %q, want %q", incoming[0].Phone, tt.wantPhone)
			}
		})
	}
}

func TestNormalizeDropsUnusableMessages(t *testing.T) {
	payload := []byte(`{
		"messages": [
			{"from": "1"},
			{"text": {"body": "no phone anywhere"}},
			{"from": "2", "text": {"body": "usable"}}
		]
	}`)

	incoming, _, recognized := whatsapp.Normalize(payload)
	if !recognized {
		t.Fatal("payload not recognized")
	}
	if len(incoming) != 1 {
		t.Fatalf("got %d messages, want only the usable one", len(incoming))
	}
	if incoming[0].Body != "usable" {
		t.Errorf("body = %q, want usable", incoming[0].Body)
	}
}

func TestNormalizeUnrecognizedShapes(t *testing.T) {
	for _, payload := range []string{
		`{}`,
		`{"messages": []}`,
		`{"entry": []}`,
		`{"entry": [{"changes": []}]}`,
		`{"statuses": [{"id": "wamid.1"}]}`,
		`not json`,
	} {
		if _, _, recognized := whatsapp.Normalize([]byte(payload)); recognized {
			t.Errorf("payload %q recognized, want unrecognized", payload)
		}
	}
}
