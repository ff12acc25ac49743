package infra

import (
	"time"

	"github.com/mandalnilabja/goatplan/internal/storage"
)

// Handlers holds the dependencies for infrastructure HTTP handlers.
type Handlers struct {
	Storage   storage.Storage
	StartTime time.Time
}

// New creates a new instance of infrastructure handlers.
func New(store storage.Storage, startTime time.Time) *Handlers {
	return &Handlers{
		Storage:   store,
		StartTime: startTime,
	}
}
