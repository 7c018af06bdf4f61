package ai

import (
	"log/slog"

	"github.com/pkoukk/tiktoken-go"
)

// fallbackCharsPerToken approximates English text at roughly four characters
// per token when no tokenizer is available for the model.
const fallbackCharsPerToken = 4

// TokenCounter estimates token counts for a specific model. When the model
// has no known tiktoken encoding (or the encoding cannot be loaded), the
// counter degrades to a length/4 heuristic instead of failing.
type TokenCounter struct {
	model string
	enc   *tiktoken.Tiktoken
}

// NewTokenCounter creates a counter for the given model. It never fails;
// an unavailable encoding is logged once and replaced by the heuristic.
func NewTokenCounter(model string) *TokenCounter {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		slog.Default().With("component", "ai").Warn("no tokenizer for model, using length heuristic",
			"model", model, "err", err)
		return &TokenCounter{model: model}
	}
	return &TokenCounter{model: model, enc: enc}
}

// Model returns the model identifier the counter was built for.
func (c *TokenCounter) Model() string {
	return c.model
}

// Count estimates the token count of a single text. Empty text counts zero;
// any other text counts at least one token.
func (c *TokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	if c.enc == nil {
		n := len(text) / fallbackCharsPerToken
		if n == 0 {
			n = 1
		}
		return n
	}
	return len(c.enc.Encode(text, nil, nil))
}

// CountAll sums the token estimates of every text.
func (c *TokenCounter) CountAll(texts []string) int {
	total := 0
	for _, text := range texts {
		total += c.Count(text)
	}
	return total
}
