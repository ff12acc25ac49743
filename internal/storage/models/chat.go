// Package models defines the records owned by the storage layer.
package models

import (
	"time"

	"github.com/mandalnilabja/goatplan/internal/types"
)

// ChatMessage is a message as stored in a chat's history.
// Storage assigns ID and Timestamp on append; the record is never mutated afterwards.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ToMessage strips storage metadata, leaving the provider-ready message.
func (m *ChatMessage) ToMessage() types.Message {
	return types.Message{Role: m.Role, Content: m.Content}
}

// Chat is a conversation: an append-only, insertion-ordered message log plus metadata.
type Chat struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Messages  []*ChatMessage `json:"messages"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Provider  string         `json:"provider,omitempty"`
	Model     string         `json:"model,omitempty"`
}

// ChatSummary is a chat without its message history.
type ChatSummary struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	MessageCount int       `json:"messageCount"`
	Provider     string    `json:"provider,omitempty"`
	Model        string    `json:"model,omitempty"`
}

// Summary returns the summary view of the chat.
func (c *Chat) Summary() *ChatSummary {
	return &ChatSummary{
		ID:           c.ID,
		Name:         c.Name,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		MessageCount: len(c.Messages),
		Provider:     c.Provider,
		Model:        c.Model,
	}
}

// FindMessage returns the message with the given ID, or nil.
func (c *Chat) FindMessage(id string) *ChatMessage {
	for _, m := range c.Messages {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// Clone returns a deep copy so callers cannot alias storage-owned state.
func (c *Chat) Clone() *Chat {
	cp := *c
	cp.Messages = make([]*ChatMessage, len(c.Messages))
	for i, m := range c.Messages {
		msg := *m
		cp.Messages[i] = &msg
	}
	return &cp
}
