// Package explore composes the clone engine, the browsing orchestrator, the
// session store and the report archive into full exploration cycles.
package explore

import (
	"context"
	"errors"
	"log/slog"

	"github.com/manavm12/parallel-u/internal/archive"
	"github.com/manavm12/parallel-u/internal/types"
)

// ErrSessionNotFound is returned by Chat when the session ID is unknown,
// either never created or already evicted.
var ErrSessionNotFound = errors.New("session not found")

// Clone covers the model-backed stages of a cycle.
type Clone interface {
	Plan(ctx context.Context, topics []string, depth types.Depth, timeBudgetMin int) (*types.Plan, error)
	Synthesize(ctx context.Context, goal string, topics []string, results []types.RunResult) (*types.Brief, error)
	Chat(ctx context.Context, question string, session *types.Session) (string, error)
}

// Runner executes a plan's browsing tasks and returns positional results.
type Runner interface {
	RunPlan(ctx context.Context, tasks []types.BrowsingTask) ([]types.RunResult, error)
}

// Archiver records finished explorations. May be nil to disable archiving.
type Archiver interface {
	Put(ctx context.Context, userID, goal string, topics []string, brief *types.Brief, results []types.RunResult) (*archive.Report, error)
}

// Request describes one exploration cycle to run.
type Request struct {
	UserID        string      `json:"user_id"`
	Topics        []string    `json:"topics"`
	Depth         types.Depth `json:"depth"`
	TimeBudgetMin int         `json:"time_budget_min"`
}

// SynthesizeRequest asks for a brief over externally supplied results.
type SynthesizeRequest struct {
	UserID  string            `json:"user_id"`
	Goal    string            `json:"goal"`
	Topics  []string          `json:"topics"`
	Results []types.RunResult `json:"browsing_results"`
}

// Outcome is a finished cycle: the brief plus the session opened for
// follow-up chat.
type Outcome struct {
	Goal      string            `json:"goal"`
	Brief     *types.Brief      `json:"brief"`
	SessionID types.SessionID   `json:"session_id"`
	Results   []types.RunResult `json:"-"`
}

// Service runs exploration cycles end to end.
type Service struct {
	clone    Clone
	runner   Runner
	sessions types.SessionStore
	archiver Archiver
	logger   *slog.Logger
}

// New creates an exploration service. archiver may be nil.
func New(clone Clone, runner Runner, sessions types.SessionStore, archiver Archiver, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		clone:    clone,
		runner:   runner,
		sessions: sessions,
		archiver: archiver,
		logger:   logger,
	}
}

// Plan produces a browsing plan without executing it.
func (s *Service) Plan(ctx context.Context, req Request) (*types.Plan, error) {
	return s.clone.Plan(ctx, req.Topics, normalizeDepth(req.Depth), normalizeBudget(req.TimeBudgetMin))
}

// Explore runs a full cycle: plan, browse, synthesize, open a session,
// archive. Browsing failures flow into synthesis as failed results rather
// than aborting the cycle; only context cancellation stops it mid-plan.
func (s *Service) Explore(ctx context.Context, req Request) (*Outcome, error) {
	plan, err := s.Plan(ctx, req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("plan ready", "user_id", req.UserID, "goal", plan.Goal, "tasks", len(plan.Tasks))

	results, err := s.runner.RunPlan(ctx, plan.Tasks)
	if err != nil {
		return nil, err
	}
	completed := 0
	for _, r := range results {
		if r.Status == types.RunCompleted {
			completed++
		}
	}
	if completed == 0 {
		s.logger.Warn("no browsing tasks completed", "user_id", req.UserID, "tasks", len(results))
	}

	return s.finish(ctx, req.UserID, plan.Goal, req.Topics, results)
}

// Synthesize produces a brief and session from caller-supplied results.
func (s *Service) Synthesize(ctx context.Context, req SynthesizeRequest) (*Outcome, error) {
	return s.finish(ctx, req.UserID, req.Goal, req.Topics, req.Results)
}

func (s *Service) finish(ctx context.Context, userID, goal string, topics []string, results []types.RunResult) (*Outcome, error) {
	brief, err := s.clone.Synthesize(ctx, goal, topics, results)
	if err != nil {
		return nil, err
	}

	sessionID := s.sessions.Create(userID, topics, goal, brief, results)
	s.logger.Info("session created", "session_id", sessionID, "user_id", userID)

	if s.archiver != nil {
		if _, err := s.archiver.Put(ctx, userID, goal, topics, brief, results); err != nil {
			// Archiving is best-effort; the cycle already succeeded.
			s.logger.Error("archive report", "error", err)
		}
	}

	return &Outcome{
		Goal:      goal,
		Brief:     brief,
		SessionID: sessionID,
		Results:   results,
	}, nil
}

// Chat answers a follow-up question in an existing session. The user and
// assistant turns are appended to the transcript only after the model
// answers, so a failed call leaves the session unchanged.
func (s *Service) Chat(ctx context.Context, sessionID types.SessionID, message string) (string, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return "", ErrSessionNotFound
	}

	answer, err := s.clone.Chat(ctx, message, session)
	if err != nil {
		return "", err
	}

	s.sessions.AppendMessage(sessionID, "user", message)
	s.sessions.AppendMessage(sessionID, "assistant", answer)
	return answer, nil
}

func normalizeDepth(d types.Depth) types.Depth {
	switch d {
	case types.DepthShallow, types.DepthMedium, types.DepthDeep:
		return d
	default:
		return types.DepthMedium
	}
}

func normalizeBudget(minutes int) int {
	if minutes <= 0 {
		return 5
	}
	return minutes
}
