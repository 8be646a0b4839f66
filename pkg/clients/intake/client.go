package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/damagelog/internal/domain/models"
)

// Client exposes the two operations of the intake endpoint.
type Client interface {
	GetSites(ctx context.Context) (models.SitesResponse, error)
	Submit(ctx context.Context, sub models.Submission) (models.SubmissionResult, error)
}

// APIClient is a resty-backed implementation of Client. Both operations hit
// the same endpoint URL. Requests are never retried.
type APIClient struct {
	httpClient *resty.Client
	endpoint   string
}

// NewClient builds a client for the given endpoint URL.
func NewClient(endpoint string, timeout time.Duration) *APIClient {
	restyClient := resty.New().
		SetHeader("Accept", "application/json").
		SetTimeout(timeout).
		SetRetryCount(0)

	return &APIClient{
		httpClient: restyClient,
		endpoint:   strings.TrimSpace(endpoint),
	}
}

// GetSites fetches the site list. A response carrying an error field is
// returned as-is; only transport and decoding failures produce an error.
func (c *APIClient) GetSites(ctx context.Context) (models.SitesResponse, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get(c.endpoint)
	if err != nil {
		return models.SitesResponse{}, fmt.Errorf("get sites: %w", err)
	}

	var out models.SitesResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return models.SitesResponse{}, fmt.Errorf("decode sites response (status %d): %w", resp.StatusCode(), err)
	}

	if resp.StatusCode() >= http.StatusBadRequest && out.Error == "" {
		return models.SitesResponse{}, fmt.Errorf("intake api error: status=%d", resp.StatusCode())
	}

	return out, nil
}

// Submit posts one submission. An explicit {success:false} body, whatever the
// status code, is a rejection rather than an error.
func (c *APIClient) Submit(ctx context.Context, sub models.Submission) (models.SubmissionResult, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(sub).
		Post(c.endpoint)
	if err != nil {
		return models.SubmissionResult{}, fmt.Errorf("submit: %w", err)
	}

	body := resp.Body()
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return models.SubmissionResult{}, fmt.Errorf("decode submit response (status %d): %w", resp.StatusCode(), err)
	}
	if _, ok := probe["success"]; !ok {
		return models.SubmissionResult{}, fmt.Errorf("decode submit response (status %d): missing success field", resp.StatusCode())
	}

	var out models.SubmissionResult
	if err := json.Unmarshal(body, &out); err != nil {
		return models.SubmissionResult{}, fmt.Errorf("decode submit response (status %d): %w", resp.StatusCode(), err)
	}
	out.Raw = string(body)

	return out, nil
}
