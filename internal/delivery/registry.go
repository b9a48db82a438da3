// Package delivery routes finished briefs to outbound channels.
package delivery

import (
	"fmt"
	"strings"
	"sync"

	"github.com/manavm12/parallel-u/internal/archive"
)

// Handler delivers a report to the destination identified by key.
type Handler func(key string, report *archive.Report) error

// Registry routes reports to the appropriate delivery handler based on
// destination key prefix (e.g. "telegram:").
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates an empty delivery registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

// Register adds a handler for destination keys starting with prefix.
func (r *Registry) Register(prefix string, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[prefix] = handler
}

// Deliver finds the handler matching the key prefix and calls it.
// Returns an error if no handler is registered for the prefix.
func (r *Registry) Deliver(key string, report *archive.Report) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for prefix, handler := range r.handlers {
		if strings.HasPrefix(key, prefix) {
			return handler(key, report)
		}
	}
	return fmt.Errorf("no delivery handler for key: %s", key)
}
