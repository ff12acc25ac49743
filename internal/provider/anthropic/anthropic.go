// Package anthropic implements the Anthropic Messages API adapter.
package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/mandalnilabja/goatplan/internal/provider/upstream"
	"github.com/mandalnilabja/goatplan/internal/types"
)

const (
	// Name is the provider identifier.
	Name = "anthropic"

	DefaultModel   = "claude-3-5-sonnet-20241022"
	DefaultBaseURL = "https://api.anthropic.com/v1"

	// APIVersion is sent as the anthropic-version header.
	APIVersion = "2023-06-01"
	// MaxTokens is the fixed completion budget of every request.
	MaxTokens = 4096
)

// Provider implements types.Provider for Anthropic.
type Provider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// New creates an Anthropic adapter. An empty model selects DefaultModel.
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
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	System    string          `json:"system,omitempty"`
	Messages  []types.Message `json:"messages"`
}

// buildRequest lifts system messages into the top-level system field,
// which is left out when their joined content is empty.
func (p *Provider) buildRequest(messages []types.Message) request {
	var system []string
	conversation := make([]types.Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == types.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		conversation = append(conversation, types.Message{Role: m.Role, Content: m.Content})
	}

	return request{
		Model:     p.model,
		MaxTokens: MaxTokens,
		System:    strings.Join(system, "\n"),
		Messages:  conversation,
	}
}

// GenerateCompletion calls POST /messages and returns the first text block.
func (p *Provider) GenerateCompletion(ctx context.Context, messages []types.Message) (*types.Completion, error) {
	headers := map[string]string{
		"x-api-key":         p.apiKey,
		"anthropic-version": APIVersion,
	}

	data, err := upstream.PostJSON(ctx, p.client, Name, p.baseURL+"/messages", headers, p.buildRequest(messages))
	if err != nil {
		return nil, fmt.Errorf("failed to generate completion: %w", err)
	}

	return &types.Completion{
		Content: gjson.GetBytes(data, "content.0.text").String(),
		Model:   p.model,
	}, nil
}

// Name returns the provider identifier
func (p *Provider) Name() string { return Name }

// Model returns the configured model
func (p *Provider) Model() string { return p.model }

var _ types.Provider = (*Provider)(nil)
