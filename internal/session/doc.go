// Package session provides the in-memory session store.
package session

import "github.com/manavm12/parallel-u/internal/types"

// Compile-time interface compliance check.
var _ types.SessionStore = (*Store)(nil)
