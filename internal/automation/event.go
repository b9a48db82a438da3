// internal/automation/event.go
package automation

import (
	"encoding/json"
	"strings"
)

// EventKind classifies one decoded frame from the automation stream.
type EventKind string

const (
	KindStarted      EventKind = "STARTED"
	KindStreamingURL EventKind = "STREAMING_URL"
	KindProgress     EventKind = "PROGRESS"
	KindComplete     EventKind = "COMPLETE"
	KindHeartbeat    EventKind = "HEARTBEAT"
	KindUnknown      EventKind = "UNKNOWN"
)

// Event is one decoded frame. The typed fields cover everything the reducer
// reads; any other keys the provider sends are preserved in Fields so schema
// additions survive a round trip through the parser.
type Event struct {
	Kind      EventKind
	Type      string
	Timestamp json.RawMessage
	RunID     string
	Status    string
	Result    json.RawMessage
	Message   string
	StreamURL string
	Fields    map[string]json.RawMessage
}

const dataPrefix = "data:"

// ParseLine decodes one line of the stream. It returns ok=false for blank
// lines, lines without the data: marker, and data lines whose body is not a
// JSON object; none of those are errors. Unrecognized type strings still
// produce an event, with KindUnknown.
func ParseLine(line string) (Event, bool) {
	if !strings.HasPrefix(line, dataPrefix) {
		return Event{}, false
	}
	body := strings.TrimSpace(line[len(dataPrefix):])
	if body == "" {
		return Event{}, false
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		// Keep-alives and comments arrive in non-conforming shapes; skip.
		return Event{}, false
	}

	ev := Event{Kind: KindUnknown}
	for key, value := range raw {
		switch key {
		case "type":
			ev.Type = rawString(value)
		case "timestamp":
			ev.Timestamp = value
		case "runId", "run_id":
			if ev.RunID == "" {
				ev.RunID = rawString(value)
			}
		case "status":
			ev.Status = rawString(value)
		case "resultJson", "result_json":
			ev.Result = value
		case "message":
			ev.Message = rawString(value)
		case "streamingUrl", "streaming_url", "liveViewUrl":
			if ev.StreamURL == "" {
				ev.StreamURL = rawString(value)
			}
		default:
			if ev.Fields == nil {
				ev.Fields = make(map[string]json.RawMessage)
			}
			ev.Fields[key] = value
		}
	}

	switch ev.Type {
	case "STARTED":
		ev.Kind = KindStarted
	case "STREAMING_URL":
		ev.Kind = KindStreamingURL
	case "PROGRESS":
		ev.Kind = KindProgress
	case "COMPLETE":
		ev.Kind = KindComplete
	case "HEARTBEAT":
		ev.Kind = KindHeartbeat
	}

	return ev, true
}

// rawString decodes a JSON string value, falling back to the raw text for
// non-string values so the parser never fails on a field of the wrong type.
func rawString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
