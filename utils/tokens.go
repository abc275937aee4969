// Package utils provides small shared utilities used across the research
// engine: token counting, and other helpers with no natural package home.
package utils

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter handles accurate, per-model token counting for progress
// metrics (ProgressMetrics.TokensUsed) and any prompt-budget trimming the
// advisor layer needs to do before calling out to the LLM.
type TokenCounter struct {
	encoding *tiktoken.Tiktoken
	model    string
	mu       sync.RWMutex
}

var (
	encodingCache = make(map[string]*tiktoken.Tiktoken)
	cacheMu       sync.RWMutex
)

// NewTokenCounter returns a counter for the given model, falling back to
// cl100k_base when the model has no known encoding.
func NewTokenCounter(model string) (*TokenCounter, error) {
	cacheMu.RLock()
	cached, exists := encodingCache[model]
	cacheMu.RUnlock()
	if exists {
		return &TokenCounter{encoding: cached, model: model}, nil
	}

	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		encoding, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, fmt.Errorf("get encoding for model %q: %w", model, err)
		}
	}

	cacheMu.Lock()
	encodingCache[model] = encoding
	cacheMu.Unlock()

	return &TokenCounter{encoding: encoding, model: model}, nil
}

// Count returns the exact BPE token count for text.
func (tc *TokenCounter) Count(text string) int {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return len(tc.encoding.Encode(text, nil, nil))
}

// GetModel returns the model this counter was built for.
func (tc *TokenCounter) GetModel() string {
	return tc.model
}

// EstimateTokens is a cheap fallback for call sites without a configured
// model (e.g. early CLI validation, before any advisor has been wired up).
func EstimateTokens(text string) int {
	return len(text) / 4
}
