package provider

import (
	"os"
	"strings"

	"github.com/mandalnilabja/goatplan/internal/types"
)

// EnvVars maps each provider to the environment variable holding its API key.
var EnvVars = map[string]string{
	OpenAI:    "OPENAI_API_KEY",
	Anthropic: "ANTHROPIC_API_KEY",
	Gemini:    "GEMINI_API_KEY",
}

// CredentialResolver resolves API keys by provider name.
// The environment wins over keys loaded from the config file.
type CredentialResolver struct {
	lookupEnv func(string) (string, bool)
	file      map[string]string
}

// NewCredentialResolver creates a resolver backed by the process environment
// and the given file credentials (may be nil).
func NewCredentialResolver(file map[string]string) *CredentialResolver {
	return &CredentialResolver{lookupEnv: os.LookupEnv, file: file}
}

// Resolve returns the API key for provider.
func (r *CredentialResolver) Resolve(provider string) (string, error) {
	envVar, ok := EnvVars[provider]
	if !ok {
		return "", &types.UnsupportedProviderError{Provider: provider}
	}

	if key, ok := r.lookupEnv(envVar); ok && strings.TrimSpace(key) != "" {
		return key, nil
	}
	if key := strings.TrimSpace(r.file[provider]); key != "" {
		return key, nil
	}
	return "", &types.MissingCredentialError{Provider: provider, EnvVar: envVar}
}
