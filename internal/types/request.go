package types

// CreateChatRequest is the body of POST /chats.
type CreateChatRequest struct {
	Name     string `json:"name,omitempty"`
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
}

// SendMessageRequest is the body of POST /chats/{id}/messages.
// Provider and Model override the chat's stored selection when set.
type SendMessageRequest struct {
	Content  string `json:"content"`
	Model    string `json:"model,omitempty"`
	Provider string `json:"provider,omitempty"`
}

// ParseRequest is the body of POST /parse.
type ParseRequest struct {
	Content string `json:"content"`
}
