// Package chats serves the conversation API: chats, messages, parsed
// message parts and the model catalog.
package chats

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mandalnilabja/goatplan/internal/chat"
	"github.com/mandalnilabja/goatplan/internal/transport/http/handler/shared"
	"github.com/mandalnilabja/goatplan/internal/transport/http/middleware"
	"github.com/mandalnilabja/goatplan/internal/types"
)

// Route-specific titles for unexpected failures.
const (
	titleListFailed   = "Failed to retrieve chats"
	titleCreateFailed = "Failed to create chat"
	titleGetFailed    = "Failed to retrieve chat"
	titleSendFailed   = "Failed to send message"
)

// Handlers holds the dependencies for chat HTTP handlers.
type Handlers struct {
	Service *chat.Service
	Logger  *slog.Logger
}

// New creates a new instance of chat handlers.
func New(svc *chat.Service, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		Service: svc,
		Logger:  logger,
	}
}

// writeError logs err and maps it onto a status and error envelope.
// fallbackTitle is used for errors the service does not classify.
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error, fallbackTitle string) {
	status := http.StatusInternalServerError
	title := fallbackTitle

	var completionErr *chat.CompletionError
	switch {
	case errors.Is(err, chat.ErrValidation):
		status, title = http.StatusBadRequest, types.ErrorTitleInvalidRequest
	case errors.Is(err, chat.ErrMessageNotFound):
		status, title = http.StatusNotFound, types.ErrorTitleMessageMissing
	case errors.Is(err, chat.ErrChatNotFound):
		status, title = http.StatusNotFound, types.ErrorTitleChatNotFound
	case errors.As(err, &completionErr):
		title = types.ErrorTitleLLMFailed
	}

	attrs := []any{
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"request_id", middleware.GetRequestID(r.Context()),
		"error", err,
	}
	if status >= http.StatusInternalServerError {
		h.Logger.Error(title, attrs...)
	} else {
		h.Logger.Info(title, attrs...)
	}

	shared.WriteJSONError(w, title, err.Error(), status)
}
