package chats

import (
	"net/http"

	"github.com/mandalnilabja/goatplan/internal/provider"
	"github.com/mandalnilabja/goatplan/internal/transport/http/handler/shared"
)

// ListModels handles GET /models.
func (h *Handlers) ListModels(w http.ResponseWriter, r *http.Request) {
	shared.WriteJSON(w, provider.Catalog(), http.StatusOK)
}
