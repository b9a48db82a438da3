// internal/automation/orchestrator.go
package automation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/manavm12/parallel-u/internal/types"
)

// Orchestrator executes a plan's browsing tasks through a Browser and
// returns results in task order. Concurrency is bounded by a weighted
// semaphore; the default of 1 runs tasks sequentially.
type Orchestrator struct {
	browser     types.Browser
	concurrency int64
}

// NewOrchestrator creates an Orchestrator. concurrency values below 1 are
// treated as 1.
func NewOrchestrator(browser types.Browser, concurrency int64) *Orchestrator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Orchestrator{browser: browser, concurrency: concurrency}
}

// RunPlan executes every task and returns exactly one result per task, with
// results[i] corresponding to tasks[i] regardless of completion order.
// Per-task failures are recorded in their result and never abort siblings.
// The only error return is a context that is already done before execution
// can begin.
func (o *Orchestrator) RunPlan(ctx context.Context, tasks []types.BrowsingTask) ([]types.RunResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run plan: %w", err)
	}

	results := make([]types.RunResult, len(tasks))
	sem := semaphore.NewWeighted(o.concurrency)
	var wg sync.WaitGroup

	for i, task := range tasks {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Context cancelled mid-plan: the remaining tasks still get a
			// positional result.
			for j := i; j < len(tasks); j++ {
				results[j] = types.RunResult{
					Website: tasks[j].Website,
					Status:  types.RunError,
					Error:   "Request failed: " + err.Error(),
				}
			}
			break
		}

		slog.Info("executing browsing task", "index", i, "website", task.Website)
		wg.Add(1)
		go func(i int, task types.BrowsingTask) {
			defer wg.Done()
			defer sem.Release(1)
			results[i] = o.browser.Run(ctx, task)
		}(i, task)
	}
	wg.Wait()

	for i, res := range results {
		slog.Info("browsing task finished",
			"index", i,
			"website", res.Website,
			"status", string(res.Status),
			"content_length", len(res.Content),
			"error", res.Error,
		)
	}
	return results, nil
}
