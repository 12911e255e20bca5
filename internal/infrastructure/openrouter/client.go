package openrouter

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"resty.dev/v3"

	"assistant-server/internal/config"
	"assistant-server/internal/infrastructure/metrics"
	"assistant-server/internal/utils/platformerrors"
)

const requestTimeout = 120 * time.Second

// Message is one turn of the prompt sent to the gateway.
type Message struct {
	Role    string
	Content string
}

// Client calls the OpenRouter chat completions endpoint. The API key is
// passed per call because it lives in the mutable settings record, not in
// the client.
type Client struct {
	client  *resty.Client
	baseURL string
	log     zerolog.Logger
}

func NewClient(cfg *config.Config, log zerolog.Logger) *Client {
	logger := log.With().Str("component", "openrouter-client").Logger()
	client := resty.New().SetTimeout(requestTimeout)
	client.AddResponseMiddleware(func(c *resty.Client, r *resty.Response) error {
		logger.Debug().
			Int("status", r.StatusCode()).
			Str("method", r.Request.Method).
			Dur("latency", r.Duration()).
			Msg("gateway request")
		return nil
	})

	return &Client{
		client:  client,
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.OpenRouterBaseURL), "/"),
		log:     logger,
	}
}

// Complete sends the message sequence to the given model and returns the
// trimmed assistant reply. An empty choice list or blank content yields an
// EXTERNAL error so callers can fall back.
func (c *Client) Complete(ctx context.Context, apiKey, model string, messages []Message) (string, error) {
	if strings.TrimSpace(apiKey) == "" {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeInternal, "gateway API key is not configured", nil)
	}

	request := openai.ChatCompletionRequest{
		Model:    model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, msg := range messages {
		request.Messages = append(request.Messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	start := time.Now()
	var respBody openai.ChatCompletionResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", apiKey)).
		SetBody(request).
		SetResult(&respBody).
		Post(c.baseURL + "/chat/completions")
	if err != nil {
		metrics.RecordCompletion("error", time.Since(start).Seconds())
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal, "gateway request failed", err)
	}
	if resp.IsError() {
		metrics.RecordCompletion("error", time.Since(start).Seconds())
		return "", c.errorFromResponse(ctx, resp)
	}

	if len(respBody.Choices) == 0 {
		metrics.RecordCompletion("empty", time.Since(start).Seconds())
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal, "gateway returned no choices", nil)
	}

	content := strings.TrimSpace(respBody.Choices[0].Message.Content)
	if content == "" {
		metrics.RecordCompletion("empty", time.Since(start).Seconds())
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal, "gateway returned empty content", nil)
	}

	metrics.RecordCompletion("success", time.Since(start).Seconds())
	return content, nil
}

func (c *Client) errorFromResponse(ctx context.Context, resp *resty.Response) error {
	message := fmt.Sprintf("gateway request failed with status %d", resp.StatusCode())
	if resp.RawResponse == nil || resp.RawResponse.Body == nil {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal, message, nil)
	}
	defer resp.RawResponse.Body.Close()
	body, err := io.ReadAll(resp.RawResponse.Body)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal, message, nil)
	}
	trimmed := strings.TrimSpace(string(body))
	if trimmed != "" {
		message = fmt.Sprintf("%s: %s", message, trimmed)
	}
	return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
		platformerrors.ErrorTypeExternal, message, nil)
}
