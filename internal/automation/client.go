// internal/automation/client.go
package automation

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/manavm12/parallel-u/internal/types"
)

const (
	defaultBaseURL = "https://mino.ai"
	defaultTimeout = 300 * time.Second
	runEndpoint    = "/v1/automation/run-sse"

	unauthorizedMessage = "Unauthorized: Invalid or missing API key"

	// maxLineBytes bounds a single SSE line; result payloads can be large.
	maxLineBytes = 1 << 20
	// maxErrorBody bounds how much of a non-2xx response body lands in the
	// diagnostic message.
	maxErrorBody = 4096
)

// Config holds the automation provider settings.
type Config struct {
	APIKey         string
	BaseURL        string
	BrowserProfile string        // "lite" or "stealth"
	ProxyCountry   string        // enables the provider proxy when set
	Timeout        time.Duration // wall-clock bound per run
}

// Client streams browsing runs from a Mino-compatible automation provider
// over its SSE endpoint. One Run is one bounded attempt; there is no retry.
type Client struct {
	config     Config
	endpoint   string
	httpClient *http.Client
}

// New creates a Client. The HTTP client carries no timeout of its own; each
// run is bounded by a per-request context deadline instead, so the stream
// can stay open for the full run.
func New(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.BrowserProfile == "" {
		config.BrowserProfile = "lite"
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	return &Client{
		config:   config,
		endpoint: strings.TrimSuffix(config.BaseURL, "/") + runEndpoint,
		httpClient: &http.Client{},
	}
}

type runRequest struct {
	URL            string       `json:"url"`
	Goal           string       `json:"goal"`
	BrowserProfile string       `json:"browser_profile"`
	ProxyConfig    *proxyConfig `json:"proxy_config,omitempty"`
}

type proxyConfig struct {
	Enabled     bool   `json:"enabled"`
	CountryCode string `json:"country_code"`
}

// Run executes one browsing task and folds the event stream into a
// RunResult. It never returns an error: transport faults, auth rejections,
// non-success statuses, and timeouts all become terminal error results.
func (c *Client) Run(ctx context.Context, task types.BrowsingTask) types.RunResult {
	red := NewReducer(task.Website)

	payload := runRequest{
		URL:            task.Website,
		Goal:           task.Instructions,
		BrowserProfile: c.config.BrowserProfile,
	}
	if c.config.ProxyCountry != "" {
		payload.ProxyConfig = &proxyConfig{Enabled: true, CountryCode: c.config.ProxyCountry}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		red.Fail("Request failed: " + err.Error())
		return red.Result()
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		red.Fail("Request failed: " + err.Error())
		return red.Result()
	}
	req.Header.Set("X-API-Key", c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		red.Fail(c.transportMessage(err))
		return red.Result()
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		red.Fail(unauthorizedMessage)
		return red.Result()
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		red.Fail(fmt.Sprintf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(b))))
		return red.Result()
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		ev, ok := ParseLine(scanner.Text())
		if !ok {
			continue
		}
		slog.Debug("automation event", "website", task.Website, "type", ev.Type)
		red.Apply(ev)
		if red.Terminal() {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		red.Fail(c.transportMessage(err))
	}
	red.Finish()

	return red.Result()
}

// transportMessage maps a transport fault to the run's diagnostic string,
// distinguishing the per-run deadline from other faults.
func (c *Client) transportMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("Request timed out after %d seconds", int(c.config.Timeout.Seconds()))
	}
	return "Request failed: " + err.Error()
}
