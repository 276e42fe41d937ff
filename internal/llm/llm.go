package llm

import (
	"context"
	"strings"
	"time"
)

// Settings selects the generation endpoint and sampling parameters.
type Settings struct {
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
}

// Request is a single completion call.
type Request struct {
	Settings Settings
	// System is optional. Some local models only accept user turns, so it is
	// sent as a prefix of the user message.
	System  string
	Prompt  string
	Timeout time.Duration
}

// Content returns the single user message sent to the endpoint.
func (r Request) Content() string {
	if strings.TrimSpace(r.System) == "" {
		return r.Prompt
	}
	return r.System + "\n\n" + r.Prompt
}

// Client abstracts text-generation providers.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ModelLister is implemented by providers that can enumerate loaded models.
type ModelLister interface {
	ListModels(ctx context.Context, baseURL string) ([]string, error)
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, req Request) (string, error)

// Complete calls f.
func (f ClientFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
