package chat

import (
	"errors"
	"fmt"
)

// Error categories. Route handlers map these to HTTP statuses.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
)

// Specific not-found kinds carried by NotFoundError.
var (
	ErrChatNotFound    = errors.New("chat not found")
	ErrMessageNotFound = errors.New("message not found")
)

// ErrInvalidContent rejects blank message content.
var ErrInvalidContent = &ValidationError{Message: "Message content is required"}

// ValidationError reports bad caller input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NotFoundError reports a missing chat or message.
type NotFoundError struct {
	Kind error // ErrChatNotFound or ErrMessageNotFound
	ID   string
}

func (e *NotFoundError) Error() string {
	if errors.Is(e.Kind, ErrMessageNotFound) {
		return fmt.Sprintf("Message with id %s does not exist", e.ID)
	}
	return fmt.Sprintf("Chat with id %s does not exist", e.ID)
}

// Unwrap matches both the specific kind and ErrNotFound.
func (e *NotFoundError) Unwrap() []error { return []error{e.Kind, ErrNotFound} }

// CompletionError reports a failed provider attempt. The fallback reply has
// already been recorded in the chat when this is returned.
type CompletionError struct {
	Provider string
	Model    string
	Err      error
}

func (e *CompletionError) Error() string { return e.Err.Error() }

func (e *CompletionError) Unwrap() error { return e.Err }

func chatNotFound(id string) error {
	return &NotFoundError{Kind: ErrChatNotFound, ID: id}
}
