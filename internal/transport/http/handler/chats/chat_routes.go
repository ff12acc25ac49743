package chats

import (
	"net/http"

	"github.com/mandalnilabja/goatplan/internal/transport/http/handler/shared"
	"github.com/mandalnilabja/goatplan/internal/types"
)

// ListChats handles GET /chats.
func (h *Handlers) ListChats(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.Service.ListChats()
	if err != nil {
		h.writeError(w, r, err, titleListFailed)
		return
	}
	shared.WriteJSON(w, summaries, http.StatusOK)
}

// CreateChat handles POST /chats. The body is optional.
func (h *Handlers) CreateChat(w http.ResponseWriter, r *http.Request) {
	var req types.CreateChatRequest
	if err := shared.DecodeJSON(w, r, &req, true); err != nil {
		shared.WriteJSONError(w, types.ErrorTitleInvalidRequest, "invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.Service.CreateChat(req)
	if err != nil {
		h.writeError(w, r, err, titleCreateFailed)
		return
	}
	shared.WriteJSON(w, created, http.StatusCreated)
}

// GetChat handles GET /chats/{id}.
func (h *Handlers) GetChat(w http.ResponseWriter, r *http.Request) {
	found, err := h.Service.GetChat(r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err, titleGetFailed)
		return
	}
	shared.WriteJSON(w, found, http.StatusOK)
}
