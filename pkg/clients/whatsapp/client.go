package whatsapp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/damagelog/internal/config"
)

// Client exposes the WhatsApp Cloud API operations used for notifications.
type Client interface {
	SendTextMessage(ctx context.Context, req SendTextMessageRequest) (*SendTextMessageResponse, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient    *resty.Client
	phoneNumberID string
}

// NewClient builds a WhatsApp API client using the provided configuration values.
func NewClient(cfg config.WhatsAppConfig) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	restyClient := resty.New().
		SetBaseURL(fmt.Sprintf("%s/%s", base, cfg.APIVersion)).
		SetAuthToken(cfg.AccessToken).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{
		httpClient:    restyClient,
		phoneNumberID: cfg.PhoneNumberID,
	}
}

// SendTextMessageRequest represents a plain text message to one recipient or group.
type SendTextMessageRequest struct {
	To   string
	Body string
}

// SendTextMessageResponse mirrors the successful response from Meta.
type SendTextMessageResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

type textPayload struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body       string `json:"body"`
	PreviewURL bool   `json:"preview_url"`
}

// APIError is the error payload returned by the Cloud API.
type APIError struct {
	Status int `json:"-"`
	Detail struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		Code      int    `json:"code"`
		FBTraceID string `json:"fbtrace_id"`
	} `json:"error"`
}

func (e *APIError) Error() string {
	code := e.Status
	if e.Detail.Code != 0 {
		code = e.Detail.Code
	}
	return fmt.Sprintf("whatsapp api error: code=%d, message=%s", code, e.Detail.Message)
}

// SendTextMessage posts a text message through the configured phone number.
func (c *APIClient) SendTextMessage(ctx context.Context, req SendTextMessageRequest) (*SendTextMessageResponse, error) {
	payload := textPayload{
		MessagingProduct: "whatsapp",
		To:               req.To,
		Type:             "text",
		Text:             textBody{Body: req.Body},
	}

	result := new(SendTextMessageResponse)
	apiErr := new(APIError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(result).
		SetError(apiErr).
		Post(fmt.Sprintf("%s/messages", c.phoneNumberID))
	if err != nil {
		return nil, fmt.Errorf("send whatsapp message: %w", err)
	}

	if resp.IsError() {
		apiErr.Status = resp.StatusCode()
		return nil, apiErr
	}

	return result, nil
}
