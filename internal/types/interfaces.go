// internal/types/interfaces.go
package types

import (
	"context"
)

// Browser executes one browsing task against an automation backend and
// always produces a RunResult; transport and task failures are folded into
// the result, never returned as errors.
type Browser interface {
	Run(ctx context.Context, task BrowsingTask) RunResult
}

// SessionStore owns the session map. Same-id operations serialize;
// different ids do not contend. Not-found is a normal outcome reported by
// the boolean returns.
type SessionStore interface {
	Create(userID string, topics []string, goal string, brief *Brief, results []RunResult) SessionID
	Get(id SessionID) (*Session, bool)
	AppendMessage(id SessionID, role, content string) bool
	Delete(id SessionID) bool
}
