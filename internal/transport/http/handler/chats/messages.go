package chats

import (
	"net/http"

	"github.com/mandalnilabja/goatplan/internal/plan"
	"github.com/mandalnilabja/goatplan/internal/transport/http/handler/shared"
	"github.com/mandalnilabja/goatplan/internal/types"
)

// MessagePartsResponse is the body of GET /chats/{id}/messages/{messageId}/parts.
type MessagePartsResponse struct {
	MessageID string             `json:"messageId"`
	Parts     []plan.MessagePart `json:"parts"`
}

// ParseResponse is the body of POST /parse.
type ParseResponse struct {
	Parts []plan.MessagePart `json:"parts"`
}

// SendMessage handles POST /chats/{id}/messages.
func (h *Handlers) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req types.SendMessageRequest
	if err := shared.DecodeJSON(w, r, &req, false); err != nil {
		shared.WriteJSONError(w, types.ErrorTitleInvalidRequest, "invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.Service.SendMessage(r.Context(), r.PathValue("id"), req)
	if err != nil {
		h.writeError(w, r, err, titleSendFailed)
		return
	}
	shared.WriteJSON(w, resp, http.StatusOK)
}

// MessageParts handles GET /chats/{id}/messages/{messageId}/parts.
func (h *Handlers) MessageParts(w http.ResponseWriter, r *http.Request) {
	messageID := r.PathValue("messageId")
	parts, err := h.Service.MessageParts(r.PathValue("id"), messageID)
	if err != nil {
		h.writeError(w, r, err, types.ErrorTitleServer)
		return
	}
	shared.WriteJSON(w, MessagePartsResponse{MessageID: messageID, Parts: parts}, http.StatusOK)
}

// Parse handles POST /parse.
func (h *Handlers) Parse(w http.ResponseWriter, r *http.Request) {
	var req types.ParseRequest
	if err := shared.DecodeJSON(w, r, &req, false); err != nil {
		shared.WriteJSONError(w, types.ErrorTitleInvalidRequest, "invalid request body", http.StatusBadRequest)
		return
	}
	shared.WriteJSON(w, ParseResponse{Parts: h.Service.ParseContent(req.Content)}, http.StatusOK)
}
