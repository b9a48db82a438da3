// internal/automation/client_test.go
package automation

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/manavm12/parallel-u/internal/types"
)

func sseServer(t *testing.T, lines []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "text/event-stream" {
			t.Errorf("missing Accept header, got %q", r.Header.Get("Accept"))
		}
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, line := range lines {
			fmt.Fprintln(w, line)
			flusher.Flush()
		}
	}))
}

func testTask() types.BrowsingTask {
	return types.BrowsingTask{Website: "https://a.test", Instructions: "find the top stories"}
}

func TestClientRunSuccess(t *testing.T) {
	srv := sseServer(t, []string{
		`data: {"type":"STARTED","runId":"run-1","liveViewUrl":"https://live.test"}`,
		``,
		`data: {"type":"PROGRESS","message":"reading"}`,
		`: comment line`,
		`data: {"type":"COMPLETE","status":"COMPLETED","resultJson":{"k":"v"}}`,
	})
	defer srv.Close()

	c := New(Config{APIKey: "key", BaseURL: srv.URL})
	res := c.Run(context.Background(), testTask())

	if res.Status != types.RunCompleted {
		t.Fatalf("status = %s, error = %q", res.Status, res.Error)
	}
	if res.Website != "https://a.test" {
		t.Errorf("website = %q", res.Website)
	}
	if res.RunID != "run-1" {
		t.Errorf("run id = %s", res.RunID)
	}
	if res.StreamingURL != "https://live.test" {
		t.Errorf("streaming url = %q", res.StreamingURL)
	}
	if !strings.Contains(res.Content, `"k": "v"`) {
		t.Errorf("content = %q", res.Content)
	}
	if res.Error != "" {
		t.Errorf("error = %q", res.Error)
	}
}

func TestClientRunUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(Config{APIKey: "bad", BaseURL: srv.URL})
	res := c.Run(context.Background(), testTask())

	if res.Status != types.RunError {
		t.Errorf("status = %s", res.Status)
	}
	if res.Error != "Unauthorized: Invalid or missing API key" {
		t.Errorf("error = %q", res.Error)
	}
	if res.EventCount != 0 {
		t.Errorf("event count = %d, want zero events processed", res.EventCount)
	}
}

func TestClientRunHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(Config{APIKey: "key", BaseURL: srv.URL})
	res := c.Run(context.Background(), testTask())

	if res.Status != types.RunError {
		t.Errorf("status = %s", res.Status)
	}
	if !strings.Contains(res.Error, "HTTP 502") || !strings.Contains(res.Error, "backend exploded") {
		t.Errorf("error = %q", res.Error)
	}
}

func TestClientRunMalformedLinesIgnored(t *testing.T) {
	srv := sseServer(t, []string{
		`data: {not json`,
		`random noise`,
		`data: {"type":"STARTED","runId":"run-1"}`,
		`data: [1,2,3]`,
		`data: {"type":"COMPLETE","status":"COMPLETED","resultJson":"ok"}`,
	})
	defer srv.Close()

	c := New(Config{APIKey: "key", BaseURL: srv.URL})
	res := c.Run(context.Background(), testTask())

	if res.Status != types.RunCompleted {
		t.Fatalf("status = %s, error = %q", res.Status, res.Error)
	}
	if res.Content != "ok" {
		t.Errorf("content = %q", res.Content)
	}
	if res.EventCount != 2 {
		t.Errorf("event count = %d, want 2 (malformed lines skipped)", res.EventCount)
	}
}

func TestClientRunStreamEndsEarly(t *testing.T) {
	srv := sseServer(t, []string{
		`data: {"type":"STARTED","runId":"run-1"}`,
	})
	defer srv.Close()

	c := New(Config{APIKey: "key", BaseURL: srv.URL})
	res := c.Run(context.Background(), testTask())

	if res.Status != types.RunError {
		t.Errorf("status = %s", res.Status)
	}
	if res.Error != "Stream ended before completion" {
		t.Errorf("error = %q", res.Error)
	}
	if res.Content != "" {
		t.Errorf("content = %q, want empty", res.Content)
	}
}

func TestClientRunConnectionDrop(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintln(w, `data: {"type":"STARTED","runId":"run-1"}`)
		w.(http.Flusher).Flush()
		panic(http.ErrAbortHandler)
	}))
	defer srv.Close()

	c := New(Config{APIKey: "key", BaseURL: srv.URL})
	res := c.Run(context.Background(), testTask())

	if res.Status != types.RunError {
		t.Errorf("status = %s", res.Status)
	}
	if !strings.HasPrefix(res.Error, "Request failed:") {
		t.Errorf("error = %q, want transport fault", res.Error)
	}
}

func TestClientRunTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintln(w, `data: {"type":"STARTED","runId":"run-1"}`)
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := New(Config{APIKey: "key", BaseURL: srv.URL, Timeout: 100 * time.Millisecond})
	res := c.Run(context.Background(), testTask())

	if res.Status != types.RunError {
		t.Errorf("status = %s", res.Status)
	}
	if !strings.HasPrefix(res.Error, "Request timed out") {
		t.Errorf("error = %q, want timeout message", res.Error)
	}
}

func TestClientRunConnectionRefused(t *testing.T) {
	c := New(Config{APIKey: "key", BaseURL: "http://127.0.0.1:1"})
	res := c.Run(context.Background(), testTask())

	if res.Status != types.RunError {
		t.Errorf("status = %s", res.Status)
	}
	if !strings.HasPrefix(res.Error, "Request failed:") {
		t.Errorf("error = %q", res.Error)
	}
}

func TestClientProxyPayload(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf, _ := io.ReadAll(r.Body)
		gotBody = string(buf)
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintln(w, `data: {"type":"COMPLETE","status":"COMPLETED","resultJson":"ok"}`)
	}))
	defer srv.Close()

	c := New(Config{APIKey: "key", BaseURL: srv.URL, ProxyCountry: "DE", BrowserProfile: "stealth"})
	c.Run(context.Background(), testTask())

	for _, want := range []string{`"country_code":"DE"`, `"enabled":true`, `"browser_profile":"stealth"`} {
		if !strings.Contains(gotBody, want) {
			t.Errorf("request body missing %s: %s", want, gotBody)
		}
	}
}
