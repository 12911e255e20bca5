package evolution

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"resty.dev/v3"

	"assistant-server/internal/infrastructure/metrics"
	"assistant-server/internal/utils/platformerrors"
)

const requestTimeout = 30 * time.Second

// Credentials are resolved from the settings record per call.
type Credentials struct {
	APIURL               string
	APIKey               string
	DefaultPhoneNumberID string
}

// OutboundMessage is one text message to dispatch.
type OutboundMessage struct {
	To            string
	Body          string
	PhoneNumberID string
}

// DispatchResult is the provider acknowledgement.
type DispatchResult struct {
	MessageID string `json:"messageId"`
	Status    string `json:"status"`
}

type sendRequest struct {
	PhoneNumberID string `json:"phoneNumberId"`
	To            string `json:"to"`
	Type          string `json:"type"`
	Text          struct {
		Body string `json:"body"`
	} `json:"text"`
}

// Client dispatches WhatsApp text messages through the Evolution API.
type Client struct {
	client *resty.Client
	log    zerolog.Logger
}

func NewClient(log zerolog.Logger) *Client {
	logger := log.With().Str("component", "evolution-client").Logger()
	client := resty.New().SetTimeout(requestTimeout)
	client.AddResponseMiddleware(func(c *resty.Client, r *resty.Response) error {
		logger.Debug().
			Int("status", r.StatusCode()).
			Dur("latency", r.Duration()).
			Msg("provider request")
		return nil
	})
	return &Client{client: client, log: logger}
}

// Send dispatches one text message. The phone number id falls back to the
// configured default when the message does not carry one.
func (c *Client) Send(ctx context.Context, creds Credentials, msg OutboundMessage) (*DispatchResult, error) {
	apiURL := strings.TrimRight(strings.TrimSpace(creds.APIURL), "/")
	apiKey := strings.TrimSpace(creds.APIKey)
	if apiURL == "" || apiKey == "" {
		metrics.RecordOutboundMessage("misconfigured")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeInternal, "messaging provider is not configured", nil)
	}

	phoneNumberID := strings.TrimSpace(msg.PhoneNumberID)
	if phoneNumberID == "" {
		phoneNumberID = strings.TrimSpace(creds.DefaultPhoneNumberID)
	}
	if phoneNumberID == "" {
		metrics.RecordOutboundMessage("misconfigured")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeValidation, "no phone number id available for dispatch", nil)
	}

	request := sendRequest{
		PhoneNumberID: phoneNumberID,
		To:            strings.TrimSpace(msg.To),
		Type:          "text",
	}
	request.Text.Body = msg.Body

	var result DispatchResult
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", apiKey)).
		SetBody(request).
		SetResult(&result).
		Post(apiURL + "/messages/send")
	if err != nil {
		metrics.RecordOutboundMessage("error")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal, "provider dispatch failed", err)
	}
	if resp.IsError() {
		metrics.RecordOutboundMessage("error")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal,
			fmt.Sprintf("provider dispatch failed with status %d", resp.StatusCode()), nil)
	}

	if strings.TrimSpace(result.MessageID) == "" || strings.TrimSpace(result.Status) == "" {
		metrics.RecordOutboundMessage("error")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeExternal, "provider acknowledgement missing messageId or status", nil)
	}

	metrics.RecordOutboundMessage("success")
	c.log.Info().
		Str("message_id", result.MessageID).
		Str("status", result.Status).
		Msg("message dispatched")
	return &result, nil
}
