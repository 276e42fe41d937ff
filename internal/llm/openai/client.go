package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"jobapp/internal/llm"
	"jobapp/internal/shared/apperr"
	"jobapp/internal/shared/metrics"
	"jobapp/internal/shared/telemetry"
)

const (
	defaultTimeout = 30 * time.Second
	maxErrorBody   = 512
)

// Client implements llm.Client against any OpenAI-compatible chat completions
// endpoint (LM Studio, llama.cpp server, Ollama, hosted APIs).
type Client struct {
	apiKey     string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sends the key as a bearer token on every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = strings.TrimSpace(key) }
}

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient constructs a client. Local endpoints need no key.
func NewClient(opts ...Option) *Client {
	c := &Client{httpClient: &http.Client{}}
	for _, opt := range opts {
		opt(c)
	}
	if c.apiKey != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, c.httpClient)
		c.httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: c.apiKey,
			TokenType:   "Bearer",
		}))
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
}

type modelsResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// Complete posts a single user message and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, in llm.Request) (string, error) {
	const op = "llm.complete"

	timeout := in.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	payload, err := json.Marshal(chatRequest{
		Model:       in.Settings.Model,
		Messages:    []chatMessage{{Role: "user", Content: in.Content()}},
		Temperature: in.Settings.Temperature,
		MaxTokens:   in.Settings.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%s: marshal request: %w", op, err)
	}

	url := endpoint(in.Settings.BaseURL, "/chat/completions")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", apperr.New(apperr.ConnectionFailure, op, "invalid endpoint url "+url, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	body, status, err := c.do(req)
	elapsed := time.Since(start)
	metrics.ObserveLLMRequestMs(float64(elapsed.Milliseconds()))
	if err != nil {
		return "", classify(op, url, err)
	}
	if status != http.StatusOK {
		return "", apperr.Server(op, status, truncate(strings.TrimSpace(string(body)), maxErrorBody))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", apperr.New(apperr.InvalidModelOutput, op, "malformed response envelope", err)
	}
	if len(parsed.Choices) == 0 {
		return "", apperr.New(apperr.InvalidModelOutput, op, "response missing choices", nil)
	}

	fields := map[string]any{
		"model":       in.Settings.Model,
		"duration_ms": elapsed.Milliseconds(),
	}
	if parsed.Usage != nil {
		fields["prompt_tokens"] = parsed.Usage.PromptTokens
		fields["completion_tokens"] = parsed.Usage.CompletionTokens
	}
	telemetry.Info("llm.complete", fields)

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// ListModels returns the ids reported by GET {baseURL}/models.
func (c *Client) ListModels(ctx context.Context, baseURL string) ([]string, error) {
	const op = "llm.models"

	url := endpoint(baseURL, "/models")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperr.New(apperr.ConnectionFailure, op, "invalid endpoint url "+url, err)
	}

	body, status, err := c.do(req)
	if err != nil {
		return nil, classify(op, url, err)
	}
	if status != http.StatusOK {
		return nil, apperr.Server(op, status, truncate(strings.TrimSpace(string(body)), maxErrorBody))
	}

	var parsed modelsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, apperr.New(apperr.InvalidModelOutput, op, "malformed models response", err)
	}
	ids := make([]string, 0, len(parsed.Data))
	for _, m := range parsed.Data {
		if id := strings.TrimSpace(m.ID); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

// classify types a transport failure. A cancelled caller context passes
// through untouched so it is never reported as an unreachable endpoint.
func classify(op, url string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.New(apperr.Timeout, op, "request to "+url+" timed out", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperr.New(apperr.Timeout, op, "request to "+url+" timed out", err)
	}
	return apperr.New(apperr.ConnectionFailure, op, "could not connect to "+url, err)
}

func endpoint(baseURL, path string) string {
	return strings.TrimRight(strings.TrimSpace(baseURL), "/") + path
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var (
	_ llm.Client      = (*Client)(nil)
	_ llm.ModelLister = (*Client)(nil)
)
