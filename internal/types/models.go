// internal/types/models.go
package types

import (
	"time"
)

// Depth controls how far a browsing plan digs into each source.
type Depth string

const (
	DepthShallow Depth = "shallow"
	DepthMedium  Depth = "medium"
	DepthDeep    Depth = "deep"
)

// BrowsingTask is one unit of a plan: a target URL plus natural-language
// instructions for the automation provider.
type BrowsingTask struct {
	Website      string `json:"website"`
	Instructions string `json:"instructions"`
}

// Plan is the planner's output for one exploration cycle.
type Plan struct {
	Goal  string         `json:"goal"`
	Tasks []BrowsingTask `json:"tasks"`
}

// RunStatus is the lifecycle state of a single automation run.
type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
	RunCancelled RunStatus = "cancelled"
	RunError     RunStatus = "error"
)

// Terminal reports whether the status is final. pending and running are the
// only non-terminal states; anything the provider reports via a COMPLETE
// event is terminal.
func (s RunStatus) Terminal() bool {
	return s != RunPending && s != RunRunning
}

// RunResult is the terminal outcome of one automation run. Website always
// equals the task's input URL; Content is set exactly once, by a successful
// COMPLETE event; Error is non-empty iff the run failed.
type RunResult struct {
	Website      string    `json:"website"`
	Content      string    `json:"content"`
	Status       RunStatus `json:"status"`
	Error        string    `json:"error,omitempty"`
	RunID        RunID     `json:"run_id,omitempty"`
	StreamingURL string    `json:"streaming_url,omitempty"`
	EventCount   int       `json:"event_count,omitempty"`
}

// Finding is one entry of a brief's top findings.
type Finding struct {
	Title        string `json:"title"`
	Summary      string `json:"summary"`
	WhyItMatters string `json:"why_it_matters"`
	SourceLink   string `json:"source_link"`
}

// Brief is the synthesized, condensed output of an exploration cycle.
type Brief struct {
	TopThings        []Finding `json:"top_3_things"`
	OneDeeperInsight string    `json:"one_deeper_insight"`
	OneOpportunity   string    `json:"one_opportunity"`
	SourcesUsed      []string  `json:"sources_used"`
}

// ChatMessage is one turn of a session's transcript.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Session ties a brief and its browsing results to a chat transcript for
// follow-up Q&A. Sessions are owned by the session store; callers receive
// snapshots and mutate only through store operations.
type Session struct {
	SessionID       SessionID     `json:"session_id"`
	UserID          string        `json:"user_id"`
	Topics          []string      `json:"topics"`
	Goal            string        `json:"goal"`
	Brief           *Brief        `json:"brief"`
	BrowsingResults []RunResult   `json:"browsing_results"`
	ChatHistory     []ChatMessage `json:"chat_history"`
	CreatedAt       time.Time     `json:"created_at"`
	LastActive      time.Time     `json:"last_active"`
}
