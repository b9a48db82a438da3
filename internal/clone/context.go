package clone

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Budget measures and trims prompt content against a model's context window.
type Budget struct {
	tokenizer *tiktoken.Tiktoken
	maxTokens int
	reserve   int
}

// NewBudget creates a token budget for the given model. maxTokens is the
// model's context window size; reserve is held back for the model's response.
func NewBudget(model string, maxTokens, reserve int) (*Budget, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		// Fallback to cl100k_base for unknown models
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, fmt.Errorf("get tokenizer: %w", err)
		}
	}
	return &Budget{
		tokenizer: enc,
		maxTokens: maxTokens,
		reserve:   reserve,
	}, nil
}

func (b *Budget) inputBudget() int {
	return b.maxTokens - b.reserve
}

// countTokens returns the token count for a string.
func (b *Budget) countTokens(text string) int {
	return len(b.tokenizer.Encode(text, nil, nil))
}

// truncate trims text to at most budget tokens, cutting on token boundaries.
func (b *Budget) truncate(text string, budget int) string {
	if budget <= 0 {
		return ""
	}
	tokens := b.tokenizer.Encode(text, nil, nil)
	if len(tokens) <= budget {
		return text
	}
	return b.tokenizer.Decode(tokens[:budget])
}
