// internal/automation/fetch.go
package automation

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/manavm12/parallel-u/internal/types"
)

const maxFetchChars = 50000

// Fetcher is a degraded Browser used when no automation provider is
// configured: it fetches the target page directly and converts the HTML to
// markdown. Task instructions are not interpreted.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a Fetcher with a 30-second request timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Run fetches the task's website and returns a completed result with the
// page as markdown, or a terminal error result. Like the streaming client,
// it never returns an error.
func (f *Fetcher) Run(ctx context.Context, task types.BrowsingTask) types.RunResult {
	res := types.RunResult{Website: task.Website, Status: types.RunRunning}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, task.Website, nil)
	if err != nil {
		res.Status = types.RunError
		res.Error = "Request failed: " + err.Error()
		return res
	}
	req.Header.Set("User-Agent", "parallel-u/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		res.Status = types.RunError
		res.Error = "Request failed: " + err.Error()
		return res
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		res.Status = types.RunError
		res.Error = fmt.Sprintf("HTTP %d: fetch failed", resp.StatusCode)
		return res
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		res.Status = types.RunError
		res.Error = "Request failed: " + err.Error()
		return res
	}

	md, err := htmltomarkdown.ConvertString(string(body))
	if err != nil {
		res.Status = types.RunError
		res.Error = "Convert to markdown: " + err.Error()
		return res
	}
	if len(md) > maxFetchChars {
		md = md[:maxFetchChars] + "\n\n[Content truncated]"
	}

	res.Status = types.RunCompleted
	res.Content = md
	return res
}
