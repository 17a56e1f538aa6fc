// Package client is a small HTTP client for a running ollamagw gateway.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/papercomputeco/ollamagw/pkg/llm"
)

// DefaultTimeout bounds a whole gateway round trip. It sits above the
// gateway's own 120s chat budget so the gateway reports timeouts first.
const DefaultTimeout = 5 * time.Minute

// APIError is a non-2xx gateway answer.
type APIError struct {
	StatusCode int
	Message    string
	Type       string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("gateway returned status %d (%s): %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("gateway returned status %d: %s", e.StatusCode, e.Message)
}

// Client calls the gateway's JSON API.
type Client struct {
	target     string
	httpClient *http.Client
}

// New creates a client for the gateway at target (e.g., "http://localhost:8000").
// A nil httpClient uses one with DefaultTimeout.
func New(target string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: DefaultTimeout,
		}
	}
	return &Client{
		target:     strings.TrimRight(target, "/"),
		httpClient: httpClient,
	}
}

// Target returns the gateway URL.
func (c *Client) Target() string {
	return c.target
}

// Chat sends one turn with its history in req.Context.
func (c *Client) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	var resp llm.ChatResponse
	if err := c.do(ctx, http.MethodPost, "/api/chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Generate runs a single-turn completion.
func (c *Client) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	var resp llm.GenerateResponse
	if err := c.do(ctx, http.MethodPost, "/api/generate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Models lists the backend's models as the gateway reports them.
func (c *Client) Models(ctx context.Context) (*llm.ModelsResponse, error) {
	var resp llm.ModelsResponse
	if err := c.do(ctx, http.MethodGet, "/api/models", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health returns the gateway's health report. A 503 report is returned
// alongside its *APIError so callers can still show the status.
func (c *Client) Health(ctx context.Context) (*llm.HealthResponse, error) {
	var resp llm.HealthResponse
	err := c.do(ctx, http.MethodGet, "/health", nil, &resp)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusServiceUnavailable {
		return &resp, err
	}
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.target+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request to gateway: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading gateway response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}

		var errBody llm.ErrorResponse
		if json.Unmarshal(raw, &errBody) == nil && errBody.Error != "" {
			apiErr.Message = errBody.Error
			apiErr.Type = errBody.Type
		} else {
			apiErr.Message = strings.TrimSpace(string(raw))
		}

		// error bodies such as /health's still decode into out
		_ = json.Unmarshal(raw, out)
		return apiErr
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding gateway response: %w", err)
	}

	return nil
}
