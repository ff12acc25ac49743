// Package chat orchestrates conversations: it records user turns, selects a
// provider, calls it and records the reply or a fallback.
package chat

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mandalnilabja/goatplan/internal/plan"
	"github.com/mandalnilabja/goatplan/internal/storage"
	"github.com/mandalnilabja/goatplan/internal/storage/models"
	"github.com/mandalnilabja/goatplan/internal/tokenizer"
	"github.com/mandalnilabja/goatplan/internal/types"
)

// DefaultProvider is used when neither the request nor the chat names one.
const DefaultProvider = "openai"

// ProviderFactory creates adapters and resolves their credentials.
type ProviderFactory interface {
	Create(providerID, credential, model string) (types.Provider, error)
	ResolveDefaultCredential(providerID string) (string, error)
}

// Parser splits message content into renderable parts.
type Parser interface {
	Parse(text string) []plan.MessagePart
}

// TokenCounter estimates token usage for request logs.
type TokenCounter interface {
	PromptTokens(messages []types.Message, model string) int
	CompletionTokens(text, model string) int
}

type parserFunc func(string) []plan.MessagePart

func (f parserFunc) Parse(text string) []plan.MessagePart { return f(text) }

// SendMessageResponse is the result of a successful turn.
type SendMessageResponse struct {
	UserMessage      *models.ChatMessage `json:"userMessage"`
	AssistantMessage *models.ChatMessage `json:"assistantMessage"`
	Chat             *models.Chat        `json:"chat"`
}

// Service is the conversation orchestrator.
type Service struct {
	store           storage.Storage
	providers       ProviderFactory
	parser          Parser
	tokens          TokenCounter
	logger          *slog.Logger
	defaultProvider string
	now             func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithDefaultProvider overrides DefaultProvider.
func WithDefaultProvider(id string) Option {
	return func(s *Service) {
		if id != "" {
			s.defaultProvider = id
		}
	}
}

// WithParser sets the content parser, typically a *plan.Cache.
func WithParser(p Parser) Option {
	return func(s *Service) { s.parser = p }
}

// WithTokenCounter sets the usage token counter.
func WithTokenCounter(c TokenCounter) Option {
	return func(s *Service) { s.tokens = c }
}

// WithClock overrides the time source used for usage accounting.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a Service over the given storage and provider factory.
func New(store storage.Storage, providers ProviderFactory, opts ...Option) *Service {
	s := &Service{
		store:           store,
		providers:       providers,
		parser:          parserFunc(plan.Parse),
		tokens:          tokenizer.New(),
		logger:          slog.Default(),
		defaultProvider: DefaultProvider,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateChat creates an empty chat. The name defaults to "Chat N" and the
// provider to the configured default.
func (s *Service) CreateChat(req types.CreateChatRequest) (*models.Chat, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		n, err := s.store.CountChats()
		if err != nil {
			return nil, fmt.Errorf("failed to count chats: %w", err)
		}
		name = fmt.Sprintf("Chat %d", n+1)
	}

	chat := &models.Chat{
		Name:     name,
		Provider: cmp.Or(req.Provider, s.defaultProvider),
		Model:    req.Model,
	}
	if err := s.store.CreateChat(chat); err != nil {
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}
	return chat, nil
}

// ListChats returns chat summaries, most recently updated first.
func (s *Service) ListChats() ([]*models.ChatSummary, error) {
	chats, err := s.store.ListChats()
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	summaries := make([]*models.ChatSummary, len(chats))
	for i, c := range chats {
		summaries[i] = c.Summary()
	}
	return summaries, nil
}

// GetChat returns a chat with its full history.
func (s *Service) GetChat(id string) (*models.Chat, error) {
	chat, err := s.store.GetChat(id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, chatNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}
	return chat, nil
}

// MessageParts parses a stored message into renderable parts.
func (s *Service) MessageParts(chatID, messageID string) ([]plan.MessagePart, error) {
	chat, err := s.GetChat(chatID)
	if err != nil {
		return nil, err
	}
	msg := chat.FindMessage(messageID)
	if msg == nil {
		return nil, &NotFoundError{Kind: ErrMessageNotFound, ID: messageID}
	}
	return s.parser.Parse(msg.Content), nil
}

// ParseContent parses arbitrary text into renderable parts.
func (s *Service) ParseContent(text string) []plan.MessagePart {
	return s.parser.Parse(text)
}

// SendMessage records a user turn, asks the effective provider for a reply
// and records it. When the provider step fails, FallbackReply is recorded
// instead and a *CompletionError wrapping the cause is returned.
func (s *Service) SendMessage(ctx context.Context, chatID string, req types.SendMessageRequest) (*SendMessageResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrInvalidContent
	}

	chat, err := s.GetChat(chatID)
	if err != nil {
		return nil, err
	}

	userMessage := &models.ChatMessage{Role: types.RoleUser, Content: content}
	if err := s.store.AppendMessage(chatID, userMessage); err != nil {
		return nil, fmt.Errorf("failed to add message: %w", err)
	}

	providerID := cmp.Or(req.Provider, chat.Provider, s.defaultProvider)
	model := cmp.Or(req.Model, chat.Model)

	completion, err := s.complete(ctx, chat, providerID, model, req)
	if err != nil {
		s.logger.Error("completion failed",
			"chat_id", chatID,
			"provider", providerID,
			"model", model,
			"request_id", types.RequestIDFromContext(ctx),
			"error", err,
		)

		fallback := &models.ChatMessage{Role: types.RoleAssistant, Content: FallbackReply}
		if appendErr := s.store.AppendMessage(chatID, fallback); appendErr != nil {
			s.logger.Error("failed to record fallback reply", "chat_id", chatID, "error", appendErr)
		}
		return nil, &CompletionError{Provider: providerID, Model: model, Err: err}
	}

	assistantMessage := &models.ChatMessage{Role: types.RoleAssistant, Content: completion.Content}
	if err := s.store.AppendMessage(chatID, assistantMessage); err != nil {
		return nil, fmt.Errorf("failed to add message: %w", err)
	}

	refreshed, err := s.GetChat(chatID)
	if err != nil {
		return nil, err
	}

	return &SendMessageResponse{
		UserMessage:      userMessage,
		AssistantMessage: assistantMessage,
		Chat:             refreshed,
	}, nil
}

// complete runs everything between the user append and the reply append.
// Every error it returns takes the fallback path.
func (s *Service) complete(ctx context.Context, chat *models.Chat, providerID, model string, req types.SendMessageRequest) (*types.Completion, error) {
	credential, err := s.providers.ResolveDefaultCredential(providerID)
	if err != nil {
		return nil, err
	}

	llm, err := s.providers.Create(providerID, credential, model)
	if err != nil {
		return nil, err
	}

	if err := s.updateSelection(chat, req); err != nil {
		return nil, err
	}

	current, err := s.store.GetChat(chat.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	messages := BuildPrompt(current.Messages)

	start := s.now()
	completion, err := llm.GenerateCompletion(ctx, messages)
	s.recordUsage(ctx, chat.ID, llm, messages, completion, err, s.now().Sub(start))
	if err != nil {
		return nil, err
	}
	return completion, nil
}

// updateSelection persists request provider/model values that differ from
// the chat's stored ones so later turns reuse them.
func (s *Service) updateSelection(chat *models.Chat, req types.SendMessageRequest) error {
	var provider, model string
	if req.Provider != "" && req.Provider != chat.Provider {
		provider = req.Provider
	}
	if req.Model != "" && req.Model != chat.Model {
		model = req.Model
	}
	if provider == "" && model == "" {
		return nil
	}
	if err := s.store.SetChatSelection(chat.ID, provider, model); err != nil {
		return fmt.Errorf("failed to update chat selection: %w", err)
	}
	return nil
}

// BuildPrompt converts stored history to provider messages, prepending
// ProjectPlanSystemPrompt when the history has no system message.
func BuildPrompt(history []*models.ChatMessage) []types.Message {
	messages := make([]types.Message, 0, len(history)+1)
	hasSystem := false
	for _, m := range history {
		if m.Role == types.RoleSystem {
			hasSystem = true
		}
		messages = append(messages, m.ToMessage())
	}
	if !hasSystem {
		messages = append([]types.Message{{Role: types.RoleSystem, Content: ProjectPlanSystemPrompt}}, messages...)
	}
	return messages
}

// recordUsage writes the request log and daily aggregate for one provider call.
// Failures are logged and never affect the turn.
func (s *Service) recordUsage(ctx context.Context, chatID string, llm types.Provider, prompt []types.Message, completion *types.Completion, callErr error, elapsed time.Duration) {
	model := llm.Model()
	promptTokens := s.tokens.PromptTokens(prompt, model)
	completionTokens := 0
	if completion != nil {
		completionTokens = s.tokens.CompletionTokens(completion.Content, model)
	}

	entry := &models.RequestLog{
		RequestID:        types.RequestIDFromContext(ctx),
		ChatID:           chatID,
		Provider:         llm.Name(),
		Model:            model,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      promptTokens + completionTokens,
		StatusCode:       statusOf(callErr),
		DurationMs:       elapsed.Milliseconds(),
	}
	if callErr != nil {
		entry.ErrorMessage = callErr.Error()
	}
	if err := s.store.LogRequest(entry); err != nil {
		s.logger.Warn("failed to log request", "chat_id", chatID, "error", err)
	}

	usage := &models.DailyUsage{
		Date:             s.now().UTC().Format(models.DateLayout),
		Provider:         llm.Name(),
		Model:            model,
		RequestCount:     1,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      promptTokens + completionTokens,
	}
	if callErr != nil {
		usage.ErrorCount = 1
	}
	if err := s.store.UpdateDailyUsage(usage); err != nil {
		s.logger.Warn("failed to update daily usage", "chat_id", chatID, "error", err)
	}
}

// statusOf maps a provider call result to the status recorded in logs.
func statusOf(err error) int {
	var reqErr *types.ProviderRequestError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &reqErr):
		return reqErr.StatusCode
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
