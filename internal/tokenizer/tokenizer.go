// Package tokenizer estimates token counts for usage accounting.
package tokenizer

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/mandalnilabja/goatplan/internal/types"
)

// Tokenizer counts tokens for chat messages.
type Tokenizer interface {
	// CountTokens counts tokens in a text string for a given model.
	CountTokens(text string, model string) (int, error)

	// CountMessages counts tokens for a slice of messages.
	CountMessages(messages []types.Message, model string) (int, error)
}

// Encoding names used by tiktoken.
const (
	EncodingCL100kBase = "cl100k_base" // GPT-4, GPT-3.5-turbo
	EncodingO200kBase  = "o200k_base"  // GPT-4o, GPT-5, o-series
)

// modelEncoding pairs a prefix with its encoding.
type modelEncoding struct {
	prefix   string
	encoding string
}

// modelEncodings lists model prefixes and their encodings.
// Longer prefixes come first so "gpt-4o" is not caught by "gpt-4".
var modelEncodings = []modelEncoding{
	{"gpt-4o", EncodingO200kBase},
	{"gpt-5", EncodingO200kBase},
	{"gpt-3.5", EncodingCL100kBase},
	{"gpt-4", EncodingCL100kBase},
	{"chatgpt", EncodingO200kBase},
	{"o1", EncodingO200kBase},
	{"o3", EncodingO200kBase},
}

// TiktokenTokenizer implements Tokenizer using tiktoken-go.
type TiktokenTokenizer struct {
	mu        sync.RWMutex
	encodings map[string]*tiktoken.Tiktoken
	failed    map[string]error
	load      func(encoding string) (*tiktoken.Tiktoken, error)
}

// New creates a new TiktokenTokenizer.
func New() *TiktokenTokenizer {
	return &TiktokenTokenizer{
		encodings: make(map[string]*tiktoken.Tiktoken),
		failed:    make(map[string]error),
		load:      tiktoken.GetEncoding,
	}
}

// getEncoding returns the tiktoken encoding for a model, with caching.
func (t *TiktokenTokenizer) getEncoding(model string) (*tiktoken.Tiktoken, error) {
	encodingName := t.resolveEncoding(model)

	t.mu.RLock()
	enc, ok := t.encodings[encodingName]
	t.mu.RUnlock()
	if ok {
		return enc, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Double-check after acquiring write lock
	if enc, ok = t.encodings[encodingName]; ok {
		return enc, nil
	}
	// A failed load (usually no network for the BPE file) is not retried.
	if err, ok := t.failed[encodingName]; ok {
		return nil, err
	}

	enc, err := t.load(encodingName)
	if err != nil {
		t.failed[encodingName] = err
		return nil, err
	}
	t.encodings[encodingName] = enc
	return enc, nil
}

// resolveEncoding determines the encoding name for a model.
func (t *TiktokenTokenizer) resolveEncoding(model string) string {
	modelLower := strings.ToLower(model)

	for _, me := range modelEncodings {
		if strings.HasPrefix(modelLower, me.prefix) {
			return me.encoding
		}
	}

	// Claude and Gemini have no public BPE; cl100k_base is a close enough proxy.
	return EncodingCL100kBase
}

// CountTokens counts tokens in a text string for a given model.
func (t *TiktokenTokenizer) CountTokens(text string, model string) (int, error) {
	enc, err := t.getEncoding(model)
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, nil, nil)), nil
}
