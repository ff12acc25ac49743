package app

import (
	"log/slog"
	"net/http"

	"github.com/mandalnilabja/goatplan/internal/transport/http/handler"
	"github.com/mandalnilabja/goatplan/internal/transport/http/middleware"
)

// RouterOptions configures the HTTP router behavior.
type RouterOptions struct {
	Logger *slog.Logger
}

// NewRouter creates and configures the HTTP router with all application routes.
// Returns an http.Handler with middleware applied.
func NewRouter(repo *handler.Repo, opts *RouterOptions) http.Handler {
	mux := http.NewServeMux()

	// Conversation API
	mux.HandleFunc("GET /chats", repo.Chats.ListChats)
	mux.HandleFunc("POST /chats", repo.Chats.CreateChat)
	mux.HandleFunc("GET /chats/{id}", repo.Chats.GetChat)
	mux.HandleFunc("POST /chats/{id}/messages", repo.Chats.SendMessage)
	mux.HandleFunc("GET /chats/{id}/messages/{messageId}/parts", repo.Chats.MessageParts)
	mux.HandleFunc("POST /parse", repo.Chats.Parse)
	mux.HandleFunc("GET /models", repo.Chats.ListModels)

	// Usage and logs
	mux.HandleFunc("GET /api/usage", repo.Usage.GetUsageStats)
	mux.HandleFunc("GET /api/usage/daily", repo.Usage.GetDailyUsage)
	mux.HandleFunc("GET /api/logs", repo.Usage.GetRequestLogs)

	mux.HandleFunc("GET /api/health", repo.Infra.HealthCheck)
	mux.HandleFunc("GET /{$}", repo.Infra.RootStatus)

	// Apply middleware chain (order: inner to outer)
	var h http.Handler = mux

	if opts != nil && opts.Logger != nil {
		h = middleware.RequestLogger(opts.Logger)(h)
	}

	// Request ID wraps the logger so log lines carry it
	h = middleware.RequestID(h)

	h = middleware.CORS(h)

	return h
}
