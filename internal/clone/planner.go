package clone

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/manavm12/parallel-u/internal/types"
	"github.com/manavm12/parallel-u/pkg/llm"
)

const planSystemPrompt = `You are an intelligent exploration planner for "Parallel U" - a digital clone that browses the web on behalf of users.

Your job is to create a focused browsing plan based on the user's interests. You must output valid JSON matching the schema exactly.

Guidelines:
- Choose 1-2 relevant websites to browse (prefer Hacker News or Reddit as they have rich content)
- Write clear, specific browsing instructions that a web automation tool can follow
- The goal should be specific and actionable for today's exploration
- Match the depth to the user's preference (shallow = headlines only, medium = read top discussions, deep = explore comments and linked articles)

Output JSON schema:
{
  "goal": "string - specific exploration goal for today",
  "tasks": [
    {
      "website": "string - full URL to start browsing",
      "instructions": "string - detailed instructions for what to look for and extract"
    }
  ]
}`

// Plan asks the model for a browsing plan covering the user's topics. The
// returned plan always has a non-empty goal and at least one fully specified
// task.
func (e *Engine) Plan(ctx context.Context, topics []string, depth types.Depth, timeBudgetMin int) (*types.Plan, error) {
	userPrompt := fmt.Sprintf(`Create a browsing plan for a user interested in: %s

Depth preference: %s
Time budget: %d minutes

Generate a focused plan with 1-2 browsing tasks that will find the most relevant, high-signal content for this user.`,
		strings.Join(topics, ", "), depth, timeBudgetMin)

	resp, err := e.provider.Complete(ctx, []llm.Message{
		{Role: "system", Content: planSystemPrompt},
		{Role: "user", Content: userPrompt},
	}, &llm.Options{Temperature: llm.Temp(0.7), JSONOnly: true})
	if err != nil {
		return nil, &StageError{Stage: StagePlan, Err: err}
	}

	var plan types.Plan
	if err := json.Unmarshal([]byte(resp.Content), &plan); err != nil {
		return nil, &StageError{Stage: StagePlan, Err: fmt.Errorf("parsing plan: %w", err)}
	}
	if err := validatePlan(&plan); err != nil {
		return nil, &StageError{Stage: StagePlan, Err: err}
	}
	return &plan, nil
}

func validatePlan(plan *types.Plan) error {
	if strings.TrimSpace(plan.Goal) == "" {
		return fmt.Errorf("plan has no goal")
	}
	if len(plan.Tasks) == 0 {
		return fmt.Errorf("plan has no tasks")
	}
	for i, task := range plan.Tasks {
		if strings.TrimSpace(task.Website) == "" {
			return fmt.Errorf("task %d has no website", i)
		}
		if strings.TrimSpace(task.Instructions) == "" {
			return fmt.Errorf("task %d has no instructions", i)
		}
	}
	return nil
}
