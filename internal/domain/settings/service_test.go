package settings_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"assistant-server/internal/config"
	"assistant-server/internal/domain/settings"
	"assistant-server/internal/utils/platformerrors"
)

// MockRepository is an in-memory settings.Repository.
type MockRepository struct {
	LoadFunc  func(ctx context.Context) (*settings.Settings, *time.Time, error)
	SaveFunc  func(ctx context.Context, s *settings.Settings) (time.Time, error)
	loadCalls int
	saveCalls int
	stored    *settings.Settings
	updatedAt *time.Time
}

func (m *MockRepository) Load(ctx context.Context) (*settings.Settings, *time.Time, error) {
	m.loadCalls++
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	return m.stored, m.updatedAt, nil
}

func (m *MockRepository) Save(ctx context.Context, s *settings.Settings) (time.Time, error) {
	m.saveCalls++
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, s)
	}
	copied := *s
	m.stored = &copied
	now := time.Now().UTC()
	m.updatedAt = &now
	return now, nil
}

func testConfig() *config.Config {
	return &config.Config{
		SettingsCacheTTL:     time.Minute,
		OpenRouterAPIKey:     "sk-env-key-123",
		OpenRouterProvider:   "gpt-4",
		OpenRouterModel:      "gpt-4.1-mini",
		SystemPrompt:         "You are a helpful assistant.",
		EvolutionAPIURL:      "https://provider.example.com",
		EvolutionAPIKey:      "evo-env-key",
		DefaultPhoneNumberID: "555000",
	}
}

func newService(repo *MockRepository) *settings.Service {
	return settings.NewService(testConfig(), repo, zerolog.Nop())
}

func TestGetPersistsDefaultsOnFirstRead(t *testing.T) {
	repo := &MockRepository{}
	service := newService(repo)

	view, err := service.Get(context.Background())
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}

	if repo.saveCalls != 1 {
		t.Errorf("save calls = %d, want 1 (defaults persisted on first read)", repo.saveCalls)
	}
	if view.Metadata.Source != settings.SourceEnv {
		t.Errorf("source = %q, want %q", view.Metadata.Source, settings.SourceEnv)
	}
	if !view.OpenRouter.APIKeyConfigured {
		t.Error("env API key should report as configured")
	}
	if view.OpenRouter.APIKeyPreview == nil || *view.OpenRouter.APIKeyPreview != "sk-e••••" {
		t.Errorf("preview = %v, want sk-e••••", view.OpenRouter.APIKeyPreview)
	}
}

func TestGetServesFromCache(t *testing.T) {
	repo := &MockRepository{}
	service := newService(repo)
	ctx := context.Background()

	if _, err := service.Get(ctx); err != nil {
		t.Fatalf("first Get returned error: %v", err)
	}
	if _, err := service.Get(ctx); err != nil {
		t.Fatalf("second Get returned error: %v", err)
	}

	if repo.loadCalls != 1 {
		t.Errorf("load calls = %d, want 1 (second read served from cache)", repo.loadCalls)
	}
}

func TestUpdateMergesOnlySuppliedFields(t *testing.T) {
	repo := &MockRepository{}
	service := newService(repo)
	ctx := context.Background()

	newKey := "sk-new-key-456"
	view, err := service.Update(ctx, settings.Update{
		OpenRouter: &settings.OpenRouterUpdate{APIKey: &newKey},
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if view.OpenRouter.APIKeyPreview == nil || *view.OpenRouter.APIKeyPreview != "sk-n••••" {
		t.Errorf("preview = %v, want sk-n••••", view.OpenRouter.APIKeyPreview)
	}
	if view.OpenRouter.DefaultModel.Model != "gpt-4.1-mini" {
		t.Errorf("model = %q, want untouched default", view.OpenRouter.DefaultModel.Model)
	}
	if view.Evolution.APIURL != "https://provider.example.com" {
		t.Errorf("evolution url = %q, want untouched default", view.Evolution.APIURL)
	}
	if view.Metadata.Source != settings.SourceDatabase {
		t.Errorf("source = %q, want %q after update", view.Metadata.Source, settings.SourceDatabase)
	}

	if repo.stored.OpenRouter.APIKey != newKey {
		t.Errorf("stored key = %q, want %q", repo.stored.OpenRouter.APIKey, newKey)
	}
	if repo.stored.Prompts.System != "You are a helpful assistant." {
		t.Errorf("stored prompt = %q, want untouched default", repo.stored.Prompts.System)
	}
}

func TestUpdateRejectsEmptyUpdate(t *testing.T) {
	repo := &MockRepository{}
	service := newService(repo)

	_, err := service.Update(context.Background(), settings.Update{})
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Errorf("error = %v, want VALIDATION", err)
	}
	if repo.saveCalls != 0 {
		t.Errorf("save calls = %d, want 0", repo.saveCalls)
	}
}

func TestUpdateRejectsUnknownProvider(t *testing.T) {
	service := newService(&MockRepository{})

	_, err := service.Update(context.Background(), settings.Update{
		OpenRouter: &settings.OpenRouterUpdate{
			DefaultModel: &settings.ModelConfig{Provider: "mystery", Model: "m1"},
		},
	})
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
		t.Errorf("error = %v, want VALIDATION", err)
	}
}

func TestUpdateClearsPhoneNumberWithExplicitNull(t *testing.T) {
	repo := &MockRepository{}
	service := newService(repo)
	ctx := context.Background()

	var update settings.Update
	payload := []byte(`{"evolution":{"defaultPhoneNumberId":null}}`)
	if err := json.Unmarshal(payload, &update); err != nil {
		t.Fatalf("unmarshal update: %v", err)
	}

	view, err := service.Update(ctx, update)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if view.Evolution.DefaultPhoneNumberID != "" {
		t.Errorf("phone number id = %q, want cleared", view.Evolution.DefaultPhoneNumberID)
	}
	if repo.stored.Evolution.DefaultPhoneNumberID != "" {
		t.Errorf("stored phone number id = %q, want cleared", repo.stored.Evolution.DefaultPhoneNumberID)
	}
}

func TestUpdateAbsentFieldLeavesPhoneNumberUntouched(t *testing.T) {
	repo := &MockRepository{}
	service := newService(repo)

	prompt := "Answer in one sentence."
	view, err := service.Update(context.Background(), settings.Update{
		Prompts: &settings.PromptsUpdate{System: &prompt},
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if view.Evolution.DefaultPhoneNumberID != "555000" {
		t.Errorf("phone number id = %q, want untouched default", view.Evolution.DefaultPhoneNumberID)
	}
	if view.Prompts.System != prompt {
		t.Errorf("prompt = %q, want %q", view.Prompts.System, prompt)
	}
}
