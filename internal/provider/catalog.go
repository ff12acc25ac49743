package provider

// Model describes a selectable model.
type Model struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Provider    string `json:"provider"`
	Description string `json:"description,omitempty"`
}

var catalog = []Model{
	{ID: "gpt-5.2", Name: "GPT-5.2", Provider: OpenAI, Description: "Most capable OpenAI model"},
	{ID: "gpt-5-mini", Name: "GPT-5 Mini", Provider: OpenAI, Description: "Fast and cost-effective"},
	{ID: "gpt-4o", Name: "GPT-4o", Provider: OpenAI, Description: "Previous generation flagship"},

	{ID: "claude-3-5-sonnet-20241022", Name: "Claude 3.5 Sonnet", Provider: Anthropic, Description: "Best for complex tasks"},
	{ID: "claude-3-5-haiku-20241022", Name: "Claude 3.5 Haiku", Provider: Anthropic, Description: "Fast and efficient"},
	{ID: "claude-3-opus-20240229", Name: "Claude 3 Opus", Provider: Anthropic, Description: "Most powerful Claude model"},

	{ID: "gemini-2.5-pro", Name: "Gemini 2.5 Pro", Provider: Gemini, Description: "Long context understanding"},
	{ID: "gemini-2.5-flash", Name: "Gemini 2.5 Flash", Provider: Gemini, Description: "Fast multimodal model"},
	{ID: "gemini-1.5-flash", Name: "Gemini 1.5 Flash", Provider: Gemini, Description: "Fast and efficient"},
}

// Catalog returns the models offered to clients, grouped by provider.
// The first entry is the client's default selection.
func Catalog() []Model {
	out := make([]Model, len(catalog))
	copy(out, catalog)
	return out
}

// LookupModel returns the catalog entry for id.
func LookupModel(id string) (Model, bool) {
	for _, m := range catalog {
		if m.ID == id {
			return m, true
		}
	}
	return Model{}, false
}
