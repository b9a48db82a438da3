// Package clone implements the digital clone's reasoning stages: planning a
// browsing cycle, synthesizing raw browsing results into a brief, and
// answering follow-up questions over an exploration session.
package clone

import (
	"github.com/manavm12/parallel-u/pkg/llm"
)

// Engine runs the model-backed stages of an exploration cycle.
type Engine struct {
	provider llm.Provider
	budget   *Budget
}

// New creates an engine over the given provider. budget controls how much
// raw browsing content the chat stage feeds back to the model.
func New(provider llm.Provider, budget *Budget) *Engine {
	return &Engine{
		provider: provider,
		budget:   budget,
	}
}
