// Package provider selects and constructs LLM vendor adapters.
package provider

import (
	"net/http"

	"github.com/mandalnilabja/goatplan/internal/provider/anthropic"
	"github.com/mandalnilabja/goatplan/internal/provider/gemini"
	"github.com/mandalnilabja/goatplan/internal/provider/openai"
	"github.com/mandalnilabja/goatplan/internal/provider/upstream"
	"github.com/mandalnilabja/goatplan/internal/types"
)

// Provider identifiers accepted by the factory.
const (
	OpenAI    = openai.Name
	Anthropic = anthropic.Name
	Gemini    = gemini.Name
)

// IDs lists the supported provider identifiers.
func IDs() []string {
	return []string{OpenAI, Anthropic, Gemini}
}

// IsSupported reports whether id names a known provider.
func IsSupported(id string) bool {
	switch id {
	case OpenAI, Anthropic, Gemini:
		return true
	}
	return false
}

// Factory builds vendor adapters on demand. It holds no per-chat state.
type Factory struct {
	credentials *CredentialResolver
	baseURLs    map[string]string
	client      *http.Client
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithBaseURL routes providerID to baseURL instead of the vendor default.
func WithBaseURL(providerID, baseURL string) FactoryOption {
	return func(f *Factory) {
		if baseURL != "" {
			f.baseURLs[providerID] = baseURL
		}
	}
}

// WithHTTPClient sets the client shared by every adapter.
func WithHTTPClient(client *http.Client) FactoryOption {
	return func(f *Factory) { f.client = client }
}

// WithCredentials sets the resolver used for default credentials.
func WithCredentials(r *CredentialResolver) FactoryOption {
	return func(f *Factory) { f.credentials = r }
}

// NewFactory creates a Factory. Without WithCredentials, default
// credentials come from the environment only.
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{baseURLs: make(map[string]string)}
	for _, opt := range opts {
		opt(f)
	}
	if f.credentials == nil {
		f.credentials = NewCredentialResolver(nil)
	}
	return f
}

// Create returns an adapter for providerID. An empty model selects the
// vendor default.
func (f *Factory) Create(providerID, credential, model string) (types.Provider, error) {
	opts := []upstream.Option{
		upstream.WithBaseURL(f.baseURLs[providerID]),
		upstream.WithHTTPClient(f.client),
	}

	switch providerID {
	case OpenAI:
		return openai.New(credential, model, opts...), nil
	case Anthropic:
		return anthropic.New(credential, model, opts...), nil
	case Gemini:
		return gemini.New(credential, model, opts...), nil
	default:
		return nil, &types.UnsupportedProviderError{Provider: providerID}
	}
}

// ResolveDefaultCredential returns the configured API key for providerID.
func (f *Factory) ResolveDefaultCredential(providerID string) (string, error) {
	return f.credentials.Resolve(providerID)
}
