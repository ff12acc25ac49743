// Package gemini implements the Google Gemini generateContent adapter.
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/mandalnilabja/goatplan/internal/provider/upstream"
	"github.com/mandalnilabja/goatplan/internal/types"
)

const (
	// Name is the provider identifier.
	Name = "gemini"

	DefaultModel   = "gemini-2.0-flash-exp"
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	roleModel = "model"
	roleUser  = "user"
)

// Provider implements types.Provider for Gemini.
type Provider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// New creates a Gemini adapter. An empty model selects DefaultModel.
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

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type request struct {
	Contents []content `json:"contents"`
}

// buildRequest maps roles to user/model turns. Gemini has no system role, so
// system text is folded into the first turn when that turn is the user's.
func buildRequest(messages []types.Message) request {
	var system []string
	contents := make([]content, 0, len(messages))
	for _, m := range messages {
		if m.Role == types.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		role := roleUser
		if m.Role == types.RoleAssistant {
			role = roleModel
		}
		contents = append(contents, content{Role: role, Parts: []part{{Text: m.Content}}})
	}

	if len(system) > 0 && len(contents) > 0 && contents[0].Role == roleUser {
		first := &contents[0].Parts[0]
		first.Text = strings.Join(system, "\n") + "\n\n" + first.Text
	}
	return request{Contents: contents}
}

func (p *Provider) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		p.baseURL, url.PathEscape(p.model), url.QueryEscape(p.apiKey))
}

// GenerateCompletion calls generateContent and returns the first candidate's text.
func (p *Provider) GenerateCompletion(ctx context.Context, messages []types.Message) (*types.Completion, error) {
	data, err := upstream.PostJSON(ctx, p.client, Name, p.endpoint(), nil, buildRequest(messages))
	if err != nil {
		return nil, fmt.Errorf("failed to generate completion: %w", err)
	}

	return &types.Completion{
		Content: gjson.GetBytes(data, "candidates.0.content.parts.0.text").String(),
		Model:   p.model,
	}, nil
}

// Name returns the provider identifier
func (p *Provider) Name() string { return Name }

// Model returns the configured model
func (p *Provider) Model() string { return p.model }

var _ types.Provider = (*Provider)(nil)
