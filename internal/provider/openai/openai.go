// Package openai implements the OpenAI chat completions adapter.
package openai

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/mandalnilabja/goatplan/internal/provider/upstream"
	"github.com/mandalnilabja/goatplan/internal/types"
)

const (
	// Name is the provider identifier.
	Name = "openai"

	DefaultModel   = "gpt-4o-mini"
	DefaultBaseURL = "https://api.openai.com/v1"
)

// Provider implements types.Provider for OpenAI.
type Provider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// New creates an OpenAI adapter. An empty model selects DefaultModel.
func New(apiKey, model string, opts ...upstream.Option) *Provider {
	if model == "" {
		model = DefaultModel
	}
	o := upstream.Apply(DefaultBaseURL, opts)
	return &Provider{
		apiKey:  apiKey,
		model:   model,
		baseURL: o.BaseURL,
		client:  o.HTTPClient,
	}
}

type request struct {
	Model    string          `json:"model"`
	Messages []types.Message `json:"messages"`
}

// GenerateCompletion sends every message, system included, in order.
func (p *Provider) GenerateCompletion(ctx context.Context, messages []types.Message) (*types.Completion, error) {
	body := request{Model: p.model, Messages: messages}
	headers := map[string]string{"Authorization": "Bearer " + p.apiKey}

	data, err := upstream.PostJSON(ctx, p.client, Name, p.baseURL+"/chat/completions", headers, body)
	if err != nil {
		return nil, fmt.Errorf("failed to generate completion: %w", err)
	}

	return &types.Completion{
		Content: gjson.GetBytes(data, "choices.0.message.content").String(),
		Model:   p.model,
	}, nil
}

// Name returns the provider identifier
func (p *Provider) Name() string { return Name }

// Model returns the configured model
func (p *Provider) Model() string { return p.model }

var _ types.Provider = (*Provider)(nil)
