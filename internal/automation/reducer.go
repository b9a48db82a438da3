// internal/automation/reducer.go
package automation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/manavm12/parallel-u/internal/types"
)

// maxEventLog bounds the per-run diagnostic log of observed event kinds.
const maxEventLog = 256

// Reducer folds the ordered event stream of a single automation run into one
// RunResult. Once a terminal state is reached it is sticky: later events are
// still counted but change nothing. A reducer is owned by exactly one run
// and is not safe for concurrent use.
type Reducer struct {
	result   types.RunResult
	terminal bool
	events   int
	log      []EventKind
}

// NewReducer creates a reducer for a run targeting the given URL. Website is
// fixed at construction and never overwritten from event data.
func NewReducer(website string) *Reducer {
	return &Reducer{
		result: types.RunResult{Website: website, Status: types.RunPending},
	}
}

// Apply folds one event into the run state.
func (r *Reducer) Apply(ev Event) {
	r.events++
	if len(r.log) < maxEventLog {
		r.log = append(r.log, ev.Kind)
	}
	if r.terminal {
		return
	}

	switch ev.Kind {
	case KindStarted:
		r.result.Status = types.RunRunning
		if ev.RunID != "" {
			r.result.RunID = types.RunID(ev.RunID)
		}
		if ev.StreamURL != "" {
			r.result.StreamingURL = ev.StreamURL
		}
	case KindStreamingURL:
		if ev.StreamURL != "" {
			r.result.StreamingURL = ev.StreamURL
		}
	case KindComplete:
		r.complete(ev)
	case KindProgress, KindHeartbeat, KindUnknown:
		// Informational only; never touches status or terminal fields.
	}
}

func (r *Reducer) complete(ev Event) {
	r.terminal = true
	if ev.Status == "COMPLETED" {
		r.result.Status = types.RunCompleted
		r.result.Content = renderResult(ev.Result)
		return
	}
	if ev.Status == "" {
		r.result.Status = types.RunFailed
		r.result.Error = "Automation returned no terminal status"
		return
	}
	r.result.Status = types.RunStatus(strings.ToLower(ev.Status))
	r.result.Error = "Automation " + ev.Status
}

// Fail forces the run into the terminal error state with the given
// diagnostic. Used for transport-level outcomes that bypass the event
// stream. No-op if the run is already terminal.
func (r *Reducer) Fail(msg string) {
	if r.terminal {
		return
	}
	r.terminal = true
	r.result.Status = types.RunError
	r.result.Error = msg
}

// Finish marks the end of the stream. A stream that emitted events but no
// terminal event is an error; a stream that emitted nothing at all leaves
// the result pending with neither content nor error.
func (r *Reducer) Finish() {
	if r.terminal || r.events == 0 {
		return
	}
	r.Fail("Stream ended before completion")
}

// Terminal reports whether the run has reached a final state.
func (r *Reducer) Terminal() bool {
	return r.terminal
}

// Result returns the folded outcome. EventCount reflects every event seen,
// including ones applied after the terminal state.
func (r *Reducer) Result() types.RunResult {
	res := r.result
	res.EventCount = r.events
	return res
}

// Log returns the bounded diagnostic log of observed event kinds.
func (r *Reducer) Log() []EventKind {
	return r.log
}

// renderResult turns a COMPLETE payload into the content string: structured
// records are pretty-printed, scalars rendered in string form.
func renderResult(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	switch val := v.(type) {
	case map[string]any, []any:
		pretty, err := json.MarshalIndent(val, "", "  ")
		if err != nil {
			return string(raw)
		}
		return string(pretty)
	case string:
		return val
	case nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}
