// Package ollama implements pkg/connector's Connector against Ollama's native
// /api/tags, /api/generate and /api/chat endpoints.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/papercomputeco/ollamagw/pkg/connector"
	"github.com/papercomputeco/ollamagw/pkg/llm"
	"github.com/papercomputeco/ollamagw/pkg/logger"
)

const (
	// DefaultBaseURL is the default Ollama API URL.
	DefaultBaseURL = "http://localhost:11434"

	// DefaultModelsTimeout bounds model listing and health checks.
	DefaultModelsTimeout = 5 * time.Second

	// DefaultGenerateTimeout bounds single-turn generation.
	DefaultGenerateTimeout = 60 * time.Second

	// DefaultChatTimeout bounds chat calls.
	DefaultChatTimeout = 120 * time.Second

	// DefaultMaxResponseBytes caps how much of a backend body is read.
	DefaultMaxResponseBytes int64 = 32 << 20

	opListModels = "list_models"
	opGenerate   = "generate"
	opChat       = "chat"
)

// Config holds configuration for the Ollama connector.
type Config struct {
	// BaseURL is the Ollama API URL (e.g., "http://localhost:11434").
	// Defaults to DefaultBaseURL if empty.
	BaseURL string

	// ModelsTimeout, GenerateTimeout and ChatTimeout are the per-call budgets.
	// Zero values use the package defaults.
	ModelsTimeout   time.Duration
	GenerateTimeout time.Duration
	ChatTimeout     time.Duration

	// MaxResponseBytes caps backend bodies. Larger success bodies are
	// malformed; larger error bodies are truncated. Defaults to
	// DefaultMaxResponseBytes.
	MaxResponseBytes int64

	// HTTPClient overrides the client used for outbound calls.
	HTTPClient *http.Client

	// Logger receives debug traces of outbound calls. Defaults to a no-op logger.
	Logger *slog.Logger
}

// Client is a Connector backed by an Ollama server.
// The only state it holds is its immutable configuration.
type Client struct {
	baseURL         string
	modelsTimeout   time.Duration
	generateTimeout time.Duration
	chatTimeout     time.Duration
	maxBody         int64
	httpClient      *http.Client
	logger          *slog.Logger
}

// NewClient creates a new Ollama connector. It returns an error only when the
// base URL cannot be used; it does not contact the backend.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing ollama base url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("ollama base url %q must use http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("ollama base url %q has no host", baseURL)
	}

	c := &Client{
		baseURL:         baseURL,
		modelsTimeout:   orDefault(cfg.ModelsTimeout, DefaultModelsTimeout),
		generateTimeout: orDefault(cfg.GenerateTimeout, DefaultGenerateTimeout),
		chatTimeout:     orDefault(cfg.ChatTimeout, DefaultChatTimeout),
		maxBody:         cfg.MaxResponseBytes,
		httpClient:      cfg.HTTPClient,
		logger:          cfg.Logger,
	}

	if c.maxBody <= 0 {
		c.maxBody = DefaultMaxResponseBytes
	}

	if c.httpClient == nil {
		// Per-call budgets are applied through the request context.
		c.httpClient = &http.Client{}
	}
	if c.logger == nil {
		c.logger = logger.Nop()
	}

	return c, nil
}

// BaseURL returns the Ollama URL this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListModels lists the models installed on the Ollama server, preserving the
// server's order.
func (c *Client) ListModels(ctx context.Context) ([]llm.ModelInfo, error) {
	var resp tagsResponse
	if err := c.do(ctx, opListModels, http.MethodGet, "/api/tags", nil, c.modelsTimeout, &resp); err != nil {
		return nil, connector.NewUnavailableError(opListModels, c.baseURL, err)
	}

	entries, err := c.decodeModels(resp.Models)
	if err != nil {
		return nil, connector.NewUnavailableError(opListModels, c.baseURL, err)
	}

	models := make([]llm.ModelInfo, 0, len(entries))
	for i, m := range entries {
		if m.Name == nil {
			return nil, connector.NewUnavailableError(opListModels, c.baseURL, &connector.Error{
				Kind:    connector.KindMalformedResponse,
				Op:      opListModels,
				BaseURL: c.baseURL,
				Cause:   fmt.Errorf("model entry %d has no name", i),
			})
		}
		models = append(models, llm.ModelInfo{Name: *m.Name})
	}

	c.logger.Debug("listed ollama models",
		"count", len(models),
	)

	return models, nil
}

// decodeModels decodes the "models" value of a tags body. A missing key means
// no models; an explicit null or a non-array is malformed.
func (c *Client) decodeModels(raw json.RawMessage) ([]tagsModel, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	if isJSONNull(raw) {
		return nil, &connector.Error{Kind: connector.KindMalformedResponse, Op: opListModels, BaseURL: c.baseURL, Cause: errors.New(`"models" is null`)}
	}

	var entries []tagsModel
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, &connector.Error{Kind: connector.KindMalformedResponse, Op: opListModels, BaseURL: c.baseURL, Cause: fmt.Errorf("decoding models: %w", err)}
	}
	return entries, nil
}

// Generate runs a non-streaming /api/generate call.
func (c *Client) Generate(ctx context.Context, prompt, model string) (string, error) {
	req := generateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: false,
	}

	var resp generateResponse
	if err := c.do(ctx, opGenerate, http.MethodPost, "/api/generate", req, c.generateTimeout, &resp); err != nil {
		return "", err
	}

	if resp.Response == nil {
		return connector.NoGenerateResponse, nil
	}

	return *resp.Response, nil
}

// Chat runs a non-streaming /api/chat call with history followed by message.
func (c *Client) Chat(ctx context.Context, message, model string, history []llm.Message) (string, error) {
	req := chatRequest{
		Model:    model,
		Messages: connector.BuildMessages(message, history),
		Stream:   false,
	}

	c.logger.Debug("sending chat to ollama",
		"model", model,
		"message_count", len(req.Messages),
	)

	var resp chatResponse
	if err := c.do(ctx, opChat, http.MethodPost, "/api/chat", req, c.chatTimeout, &resp); err != nil {
		return "", err
	}

	if resp.Message == nil || resp.Message.Content == nil {
		return connector.NoChatResponse, nil
	}

	c.logger.Debug("received chat response",
		"model", model,
		"chars", len(*resp.Message.Content),
	)

	return *resp.Message.Content, nil
}

// do performs one outbound call under budget and decodes a 2xx body into out.
// Every failure is returned as a *connector.Error.
func (c *Client) do(ctx context.Context, op, method, path string, in any, budget time.Duration, out any) error {
	callCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return &connector.Error{Kind: connector.KindMalformedResponse, Op: op, BaseURL: c.baseURL, Cause: fmt.Errorf("marshaling request: %w", err)}
		}
		body = bytes.NewReader(payload)
	}

	target := c.baseURL + path
	req, err := http.NewRequestWithContext(callCtx, method, target, body)
	if err != nil {
		return &connector.Error{Kind: connector.KindConnectionFailed, Op: op, BaseURL: c.baseURL, Cause: fmt.Errorf("creating request: %w", err)}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("forwarding request to ollama",
		"op", op,
		"url", target,
		"timeout", budget,
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return connector.Classify(op, c.baseURL, budget, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return connector.Classify(op, c.baseURL, budget, fmt.Errorf("reading response: %w", err))
	}
	truncated := int64(len(respBody)) > c.maxBody
	if truncated {
		respBody = respBody[:c.maxBody]
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &connector.Error{
			Kind:       connector.KindBackendHTTP,
			Op:         op,
			BaseURL:    c.baseURL,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	if truncated {
		return &connector.Error{Kind: connector.KindMalformedResponse, Op: op, BaseURL: c.baseURL, Cause: fmt.Errorf("response exceeds %d bytes", c.maxBody)}
	}
	if isJSONNull(respBody) {
		return &connector.Error{Kind: connector.KindMalformedResponse, Op: op, BaseURL: c.baseURL, Cause: errors.New("response body is null")}
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &connector.Error{Kind: connector.KindMalformedResponse, Op: op, BaseURL: c.baseURL, Cause: fmt.Errorf("decoding response: %w", err)}
	}

	return nil
}

func isJSONNull(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

var _ connector.Connector = (*Client)(nil)
