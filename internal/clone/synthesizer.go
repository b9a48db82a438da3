package clone

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/manavm12/parallel-u/internal/types"
	"github.com/manavm12/parallel-u/pkg/llm"
)

const synthesizeSystemPrompt = `You are the synthesis engine for "Parallel U" - a digital clone that delivers condensed intelligence to users.

Your job is to take raw browsing results and create a highly personalized, actionable brief. Output valid JSON matching the schema exactly.

CRITICAL RULES:
- You can ONLY report on information that is ACTUALLY present in the browsing results provided
- If the browsing results are empty, contain errors, or have no useful content, you MUST say so honestly
- NEVER make up or hallucinate information that wasn't in the actual browsing data
- If there's no real content, return empty top_3_things array and explain in one_deeper_insight

Guidelines (when you have real data):
- Focus on what matters most to THIS specific user based on their topics
- Be concrete and specific, not generic
- The "why_it_matters" should connect directly to the user's interests
- The deeper insight should reveal a non-obvious pattern
- The opportunity should be immediately actionable with a specific link if possible

Output JSON schema:
{
  "top_3_things": [
    {
      "title": "string - concise title",
      "summary": "string - 2-4 sentences explaining what this is",
      "why_it_matters": "string - why this matters to THIS user specifically",
      "source_link": "string - URL to the source"
    }
  ],
  "one_deeper_insight": "string - non-obvious pattern or implication across findings",
  "one_opportunity": "string - specific action with link if available",
  "sources_used": ["string - list of URLs consulted"]
}`

// Synthesize condenses browsing results into a brief. Failed runs are passed
// through to the model with their errors so the brief stays honest about what
// was actually found.
func (e *Engine) Synthesize(ctx context.Context, goal string, topics []string, results []types.RunResult) (*types.Brief, error) {
	userPrompt := fmt.Sprintf(`The user is interested in: %s

Exploration goal was: %s

Here are the raw browsing results:
%s

Create a condensed intelligence brief with exactly 3 top findings (or fewer if the results don't support 3 meaningful findings - in that case, include what's available).`,
		strings.Join(topics, ", "), goal, formatResults(results))

	resp, err := e.provider.Complete(ctx, []llm.Message{
		{Role: "system", Content: synthesizeSystemPrompt},
		{Role: "user", Content: userPrompt},
	}, &llm.Options{Temperature: llm.Temp(0.5), JSONOnly: true})
	if err != nil {
		return nil, &StageError{Stage: StageSynthesize, Err: err}
	}

	var brief types.Brief
	if err := json.Unmarshal([]byte(resp.Content), &brief); err != nil {
		return nil, &StageError{Stage: StageSynthesize, Err: fmt.Errorf("parsing brief: %w", err)}
	}
	if brief.TopThings == nil {
		brief.TopThings = []types.Finding{}
	}
	if brief.SourcesUsed == nil {
		brief.SourcesUsed = []string{}
	}
	return &brief, nil
}

func formatResults(results []types.RunResult) string {
	var sb strings.Builder
	for i, result := range results {
		fmt.Fprintf(&sb, "\n--- Result %d ---\n", i+1)
		fmt.Fprintf(&sb, "Website: %s\n", result.Website)
		fmt.Fprintf(&sb, "Status: %s\n", result.Status)
		if result.Error != "" {
			fmt.Fprintf(&sb, "Error: %s\n", result.Error)
		}
		content := result.Content
		if content == "" {
			content = "No content"
		}
		fmt.Fprintf(&sb, "Content: %s\n", content)
	}
	return sb.String()
}
