// internal/session/store.go
package session

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/manavm12/parallel-u/internal/types"
)

const sweepInterval = 5 * time.Minute

// Store is a concurrent in-memory session store. The outer lock guards the
// map; each session carries its own mutex so operations on the same id
// serialize without blocking unrelated sessions. Sessions live until
// deleted, evicted by the idle TTL, or the process exits.
type Store struct {
	mu       sync.RWMutex
	sessions map[types.SessionID]*entry

	ttl      time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

type entry struct {
	mu      sync.Mutex
	session *types.Session
}

// NewStore creates a Store. When ttl > 0 a background janitor evicts
// sessions idle for longer than ttl; Close stops it. A ttl of zero disables
// eviction.
func NewStore(ttl time.Duration) *Store {
	s := &Store{
		sessions: make(map[types.SessionID]*entry),
		ttl:      ttl,
		stop:     make(chan struct{}),
	}
	if ttl > 0 {
		go s.janitor()
	}
	return s
}

// Close stops the eviction janitor. Safe to call more than once.
func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Create stores an immutable snapshot of the supplied fields under a fresh
// session id and returns it. The id never collides with a live or previously
// issued one.
func (s *Store) Create(userID string, topics []string, goal string, brief *types.Brief, results []types.RunResult) types.SessionID {
	now := time.Now()
	sess := &types.Session{
		SessionID:       types.NewSessionID(),
		UserID:          userID,
		Topics:          slices.Clone(topics),
		Goal:            goal,
		Brief:           cloneBrief(brief),
		BrowsingResults: slices.Clone(results),
		ChatHistory:     []types.ChatMessage{},
		CreatedAt:       now,
		LastActive:      now,
	}

	s.mu.Lock()
	s.sessions[sess.SessionID] = &entry{session: sess}
	s.mu.Unlock()

	return sess.SessionID
}

// Get returns a read-only snapshot of the session, or false if it does not
// exist. Repeated calls without intervening mutation return equal snapshots.
func (s *Store) Get(id types.SessionID) (*types.Session, bool) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshot(e.session), true
}

// AppendMessage appends one transcript turn. Appends on the same session are
// atomic with respect to each other; appends on different sessions do not
// contend. Returns false, with no side effects, if the session is unknown.
func (s *Store) AppendMessage(id types.SessionID, role, content string) bool {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return false
	}

	e.mu.Lock()
	e.session.ChatHistory = append(e.session.ChatHistory, types.ChatMessage{Role: role, Content: content})
	e.session.LastActive = time.Now()
	e.mu.Unlock()
	return true
}

// Delete removes the session. Returns false if the id is unknown; other
// sessions are never affected.
func (s *Store) Delete(id types.SessionID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) janitor() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.evictIdle(time.Now())
		case <-s.stop:
			return
		}
	}
}

// evictIdle removes sessions whose last activity is older than the TTL.
func (s *Store) evictIdle(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.sessions {
		e.mu.Lock()
		idle := now.Sub(e.session.LastActive)
		e.mu.Unlock()
		if idle > s.ttl {
			delete(s.sessions, id)
			slog.Debug("evicted idle session", "session_id", string(id), "idle", idle)
		}
	}
}

// snapshot deep-copies a session so callers can never race with store
// mutation through a shared slice or Brief pointer.
func snapshot(sess *types.Session) *types.Session {
	cp := *sess
	cp.Topics = slices.Clone(sess.Topics)
	cp.BrowsingResults = slices.Clone(sess.BrowsingResults)
	cp.ChatHistory = slices.Clone(sess.ChatHistory)
	cp.Brief = cloneBrief(sess.Brief)
	return &cp
}

func cloneBrief(brief *types.Brief) *types.Brief {
	if brief == nil {
		return nil
	}
	cp := *brief
	cp.TopThings = slices.Clone(brief.TopThings)
	cp.SourcesUsed = slices.Clone(brief.SourcesUsed)
	return &cp
}
