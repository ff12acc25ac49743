package tokenizer

import (
	"strings"

	"github.com/mandalnilabja/goatplan/internal/types"
)

// Message token overhead varies by model family.
// These values are based on OpenAI's documentation.
const (
	// Per-message overhead tokens
	messageOverheadGPT4  = 3 // <|start|>role<|end|>
	messageOverheadGPT35 = 4

	// Reply priming tokens (assistant response start)
	replyPrimingTokens = 3

	// charsPerToken is the rough ratio used when no encoding is available.
	charsPerToken = 4
)

// CountMessages counts tokens for a slice of messages.
func (t *TiktokenTokenizer) CountMessages(messages []types.Message, model string) (int, error) {
	total := 0
	overhead := messageOverhead(model)

	for _, msg := range messages {
		roleTokens, err := t.CountTokens(msg.Role, model)
		if err != nil {
			return 0, err
		}
		contentTokens, err := t.CountTokens(msg.Content, model)
		if err != nil {
			return 0, err
		}
		total += roleTokens + contentTokens + overhead
	}

	return total + replyPrimingTokens, nil
}

// PromptTokens counts messages, falling back to a character estimate when
// the encoding cannot be loaded.
func (t *TiktokenTokenizer) PromptTokens(messages []types.Message, model string) int {
	if n, err := t.CountMessages(messages, model); err == nil {
		return n
	}
	return EstimateMessages(messages, model)
}

// CompletionTokens counts text, falling back to a character estimate.
func (t *TiktokenTokenizer) CompletionTokens(text, model string) int {
	if n, err := t.CountTokens(text, model); err == nil {
		return n
	}
	return Estimate(text)
}

// Estimate approximates the token count of text without an encoding.
func Estimate(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + charsPerToken - 1) / charsPerToken
}

// EstimateMessages approximates CountMessages without an encoding.
func EstimateMessages(messages []types.Message, model string) int {
	total := 0
	overhead := messageOverhead(model)
	for _, msg := range messages {
		total += Estimate(msg.Role) + Estimate(msg.Content) + overhead
	}
	return total + replyPrimingTokens
}

// messageOverhead returns the per-message token overhead for a model.
func messageOverhead(model string) int {
	if strings.HasPrefix(strings.ToLower(model), "gpt-3.5") {
		return messageOverheadGPT35
	}
	return messageOverheadGPT4
}
