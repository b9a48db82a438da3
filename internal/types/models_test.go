// internal/types/models_test.go
package types

import (
	"encoding/json"
	"testing"
)

func TestRunStatusTerminal(t *testing.T) {
	cases := []struct {
		status   RunStatus
		terminal bool
	}{
		{RunPending, false},
		{RunRunning, false},
		{RunCompleted, true},
		{RunFailed, true},
		{RunCancelled, true},
		{RunError, true},
		{RunStatus("timed_out"), true},
	}
	for _, tc := range cases {
		if got := tc.status.Terminal(); got != tc.terminal {
			t.Errorf("Terminal(%q) = %v, want %v", tc.status, got, tc.terminal)
		}
	}
}

func TestBriefJSONFieldNames(t *testing.T) {
	brief := Brief{
		TopThings:        []Finding{{Title: "t", Summary: "s", WhyItMatters: "w", SourceLink: "l"}},
		OneDeeperInsight: "insight",
		OneOpportunity:   "opportunity",
		SourcesUsed:      []string{"https://a.test"},
	}

	data, err := json.Marshal(brief)
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"top_3_things", "one_deeper_insight", "one_opportunity", "sources_used"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing JSON key %q", key)
		}
	}
}

func TestRunResultErrorOmitted(t *testing.T) {
	data, err := json.Marshal(RunResult{Website: "https://a.test", Status: RunCompleted})
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if _, ok := raw["error"]; ok {
		t.Error("expected error field to be omitted when empty")
	}
}
