// Package handler composes the HTTP handler groups.
package handler

import (
	"log/slog"
	"time"

	"github.com/mandalnilabja/goatplan/internal/chat"
	"github.com/mandalnilabja/goatplan/internal/storage"
	"github.com/mandalnilabja/goatplan/internal/transport/http/handler/chats"
	"github.com/mandalnilabja/goatplan/internal/transport/http/handler/infra"
	"github.com/mandalnilabja/goatplan/internal/transport/http/handler/usage"
)

// Repo composes all domain-specific handlers.
type Repo struct {
	Chats *chats.Handlers
	Usage *usage.Handlers
	Infra *infra.Handlers
}

// NewRepo creates a new instance of the composed handler repository.
func NewRepo(svc *chat.Service, store storage.Storage, logger *slog.Logger) *Repo {
	return &Repo{
		Chats: chats.New(svc, logger),
		Usage: usage.New(store),
		Infra: infra.New(store, time.Now()),
	}
}
