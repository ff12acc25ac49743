// Package types provides the shared message, provider and wire types.
package types

import "context"

// Role constants for message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single provider-ready chat message.
// Messages are never mutated once handed to a provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewTextMessage creates a simple text message.
func NewTextMessage(role, content string) Message {
	return Message{Role: role, Content: content}
}

// IsValidRole reports whether role is one of the supported message roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Completion is the vendor-agnostic result every provider returns.
type Completion struct {
	Content string `json:"content"`
	Model   string `json:"model"`
}

// Provider defines the interface all LLM providers must implement
type Provider interface {
	// GenerateCompletion sends the conversation to the vendor and blocks until
	// a normalized completion or an error is available.
	GenerateCompletion(ctx context.Context, messages []Message) (*Completion, error)

	// Name returns the provider identifier
	Name() string

	// Model returns the model in use (configured or the vendor default)
	Model() string
}
