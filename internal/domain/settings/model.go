package settings

import (
	"encoding/json"

	"assistant-server/internal/utils/secrets"
)

// ModelProviders is the allow-list for the default model provider.
var ModelProviders = []string{"gpt-4", "claude", "llama", "gemini"}

// ModelConfig identifies the default LLM routed through the gateway.
type ModelConfig struct {
	Provider string `json:"provider" validate:"required,oneof=gpt-4 claude llama gemini"`
	Model    string `json:"model" validate:"required,min=1"`
}

// OpenRouterSettings holds the LLM gateway credentials and default model.
type OpenRouterSettings struct {
	APIKey       string      `json:"apiKey"`
	DefaultModel ModelConfig `json:"defaultModel" validate:"required"`
}

// EvolutionSettings holds the messaging provider configuration.
type EvolutionSettings struct {
	APIURL               string `json:"apiUrl" validate:"required,url"`
	APIKey               string `json:"apiKey"`
	DefaultPhoneNumberID string `json:"defaultPhoneNumberId,omitempty"`
}

// PromptSettings holds prompt configuration.
type PromptSettings struct {
	System string `json:"system" validate:"required,min=1"`
}

// Settings is the full configuration record, secrets included. Never exposed
// outside the service layer; external reads go through Public.
type Settings struct {
	OpenRouter OpenRouterSettings `json:"openRouter" validate:"required"`
	Evolution  EvolutionSettings  `json:"evolution" validate:"required"`
	Prompts    PromptSettings     `json:"prompts" validate:"required"`
}

// Metadata describes where the served settings came from.
type Metadata struct {
	UpdatedAt *string `json:"updatedAt"`
	Source    string  `json:"source"` // "database" or "env"
}

// PublicOpenRouter is the masked gateway view.
type PublicOpenRouter struct {
	DefaultModel     ModelConfig `json:"defaultModel"`
	APIKeyConfigured bool        `json:"apiKeyConfigured"`
	APIKeyPreview    *string     `json:"apiKeyPreview"`
}

// PublicEvolution is the masked messaging provider view.
type PublicEvolution struct {
	APIURL               string  `json:"apiUrl"`
	APIKeyConfigured     bool    `json:"apiKeyConfigured"`
	APIKeyPreview        *string `json:"apiKeyPreview"`
	DefaultPhoneNumberID string  `json:"defaultPhoneNumberId,omitempty"`
}

// Public is the read-only settings view with secrets replaced by previews.
// Recomputed on every read, never persisted.
type Public struct {
	OpenRouter PublicOpenRouter `json:"openRouter"`
	Evolution  PublicEvolution  `json:"evolution"`
	Prompts    PromptSettings   `json:"prompts"`
	Metadata   Metadata         `json:"metadata"`
}

// NullableString distinguishes an explicit JSON null (clear the field) from
// an absent field (leave it untouched).
type NullableString struct {
	Set   bool
	Value *string
}

func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

func (n NullableString) MarshalJSON() ([]byte, error) {
	if !n.Set || n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}

// OpenRouterUpdate is a partial gateway update.
type OpenRouterUpdate struct {
	APIKey       *string      `json:"apiKey,omitempty" validate:"omitempty,min=1"`
	DefaultModel *ModelConfig `json:"defaultModel,omitempty"`
}

// EvolutionUpdate is a partial messaging provider update.
type EvolutionUpdate struct {
	APIURL               *string        `json:"apiUrl,omitempty" validate:"omitempty,url"`
	APIKey               *string        `json:"apiKey,omitempty" validate:"omitempty,min=1"`
	DefaultPhoneNumberID NullableString `json:"defaultPhoneNumberId,omitempty"`
}

// PromptsUpdate is a partial prompt update.
type PromptsUpdate struct {
	System *string `json:"system,omitempty" validate:"omitempty,min=1"`
}

// Update is a partial settings mutation. Absent sections are left untouched.
type Update struct {
	OpenRouter *OpenRouterUpdate `json:"openRouter,omitempty"`
	Evolution  *EvolutionUpdate  `json:"evolution,omitempty"`
	Prompts    *PromptsUpdate    `json:"prompts,omitempty"`
}

// Empty reports whether the update carries no recognized section.
func (u Update) Empty() bool {
	return u.OpenRouter == nil && u.Evolution == nil && u.Prompts == nil
}

func buildPublicView(s Settings, metadata Metadata) Public {
	openRouterKey := secrets.Mask(s.OpenRouter.APIKey)
	evolutionKey := secrets.Mask(s.Evolution.APIKey)

	return Public{
		OpenRouter: PublicOpenRouter{
			DefaultModel:     s.OpenRouter.DefaultModel,
			APIKeyConfigured: openRouterKey.Configured,
			APIKeyPreview:    openRouterKey.Preview,
		},
		Evolution: PublicEvolution{
			APIURL:               s.Evolution.APIURL,
			APIKeyConfigured:     evolutionKey.Configured,
			APIKeyPreview:        evolutionKey.Preview,
			DefaultPhoneNumberID: s.Evolution.DefaultPhoneNumberID,
		},
		Prompts:  s.Prompts,
		Metadata: metadata,
	}
}
