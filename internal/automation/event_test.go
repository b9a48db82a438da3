// internal/automation/event_test.go
package automation

import (
	"testing"
)

func TestParseLineSkips(t *testing.T) {
	cases := []string{
		"",
		"   ",
		": keep-alive comment",
		"event: message",
		"data:",
		"data:   ",
		"data: not json at all",
		"data: [1, 2, 3]",
		`data: "just a string"`,
		"random garbage line",
	}
	for _, line := range cases {
		if _, ok := ParseLine(line); ok {
			t.Errorf("ParseLine(%q) = ok, want skip", line)
		}
	}
}

func TestParseLineStarted(t *testing.T) {
	ev, ok := ParseLine(`data: {"type":"STARTED","runId":"run-1","timestamp":1712345,"liveViewUrl":"https://live.test/x"}`)
	if !ok {
		t.Fatal("expected event")
	}
	if ev.Kind != KindStarted {
		t.Errorf("kind = %s, want STARTED", ev.Kind)
	}
	if ev.RunID != "run-1" {
		t.Errorf("run id = %q", ev.RunID)
	}
	if ev.StreamURL != "https://live.test/x" {
		t.Errorf("stream url = %q", ev.StreamURL)
	}
	if string(ev.Timestamp) != "1712345" {
		t.Errorf("timestamp = %s, want pass-through", ev.Timestamp)
	}
}

func TestParseLineStreamingURLFieldNames(t *testing.T) {
	for _, line := range []string{
		`data: {"type":"STREAMING_URL","streamingUrl":"https://s.test"}`,
		`data: {"type":"STREAMING_URL","streaming_url":"https://s.test"}`,
	} {
		ev, ok := ParseLine(line)
		if !ok {
			t.Fatalf("expected event for %q", line)
		}
		if ev.Kind != KindStreamingURL || ev.StreamURL != "https://s.test" {
			t.Errorf("ParseLine(%q): kind=%s url=%q", line, ev.Kind, ev.StreamURL)
		}
	}
}

func TestParseLineCompleteWithResult(t *testing.T) {
	ev, ok := ParseLine(`data: {"type":"COMPLETE","status":"COMPLETED","resultJson":{"k":"v"}}`)
	if !ok {
		t.Fatal("expected event")
	}
	if ev.Kind != KindComplete {
		t.Errorf("kind = %s", ev.Kind)
	}
	if ev.Status != "COMPLETED" {
		t.Errorf("status = %q", ev.Status)
	}
	if string(ev.Result) != `{"k":"v"}` {
		t.Errorf("result = %s", ev.Result)
	}
}

func TestParseLineUnknownTypeStillEmitted(t *testing.T) {
	ev, ok := ParseLine(`data: {"type":"SCREENSHOT","imageUrl":"https://img.test"}`)
	if !ok {
		t.Fatal("unknown types must be emitted, not skipped")
	}
	if ev.Kind != KindUnknown {
		t.Errorf("kind = %s, want UNKNOWN", ev.Kind)
	}
	if ev.Type != "SCREENSHOT" {
		t.Errorf("raw type = %q", ev.Type)
	}
	if _, ok := ev.Fields["imageUrl"]; !ok {
		t.Error("unrecognized field not preserved in Fields")
	}
}

func TestParseLineNoSpaceAfterMarker(t *testing.T) {
	ev, ok := ParseLine(`data:{"type":"HEARTBEAT"}`)
	if !ok {
		t.Fatal("expected event")
	}
	if ev.Kind != KindHeartbeat {
		t.Errorf("kind = %s", ev.Kind)
	}
}

func TestParseLineWrongFieldTypesTolerated(t *testing.T) {
	ev, ok := ParseLine(`data: {"type":"STARTED","runId":42}`)
	if !ok {
		t.Fatal("expected event")
	}
	if ev.RunID != "42" {
		t.Errorf("run id = %q, want raw fallback", ev.RunID)
	}
}
