package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for provider selection and credentials.
var (
	ErrUnsupportedProvider = errors.New("unsupported provider")
	ErrMissingCredential   = errors.New("missing provider credential")
	ErrProviderRequest     = errors.New("provider request failed")
)

// ProviderRequestError is returned when a vendor answers with a non-2xx status.
// Body holds the raw response text.
type ProviderRequestError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *ProviderRequestError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("API error: %d - %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s API error: %d - %s", e.Provider, e.StatusCode, e.Body)
}

// Unwrap lets callers match with errors.Is(err, ErrProviderRequest).
func (e *ProviderRequestError) Unwrap() error { return ErrProviderRequest }

// UnsupportedProviderError reports an unknown provider identifier.
type UnsupportedProviderError struct {
	Provider string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("Unknown LLM provider: %s", e.Provider)
}

func (e *UnsupportedProviderError) Unwrap() error { return ErrUnsupportedProvider }

// MissingCredentialError reports that no API key is configured for a provider.
type MissingCredentialError struct {
	Provider string
	EnvVar   string
}

func (e *MissingCredentialError) Error() string {
	if e.EnvVar == "" {
		return fmt.Sprintf("API key for %s not found in configuration", e.Provider)
	}
	return fmt.Sprintf("API key for %s not found in environment variables (%s)", e.Provider, e.EnvVar)
}

func (e *MissingCredentialError) Unwrap() error { return ErrMissingCredential }

var (
	_ error = (*ProviderRequestError)(nil)
	_ error = (*UnsupportedProviderError)(nil)
	_ error = (*MissingCredentialError)(nil)
)

// APIError is the uniform error envelope written at every route boundary.
type APIError struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Common error titles
const (
	ErrorTitleInvalidRequest = "Invalid request"
	ErrorTitleChatNotFound   = "Chat not found"
	ErrorTitleMessageMissing = "Message not found"
	ErrorTitleLLMFailed      = "LLM request failed"
	ErrorTitleServer         = "Internal server error"
)

// NewAPIError creates a new API error.
func NewAPIError(title, message string) *APIError {
	return &APIError{Error: title, Message: message}
}

// WriteError writes an API error to the response writer.
func WriteError(w http.ResponseWriter, statusCode int, err *APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(err)
}
