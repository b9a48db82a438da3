package clone

import (
	"context"
	"fmt"
	"strings"

	"github.com/manavm12/parallel-u/internal/types"
	"github.com/manavm12/parallel-u/pkg/llm"
)

// Share of leftover prompt budget spent on raw browsing excerpts.
const resultShare = 0.7

// Chat answers a follow-up question about a finished exploration. The system
// prompt carries the brief and token-budgeted excerpts of the raw browsing
// results, then the session's prior turns and the question follow.
func (e *Engine) Chat(ctx context.Context, question string, session *types.Session) (string, error) {
	sysPrompt := e.buildChatSystemPrompt(session, question)

	messages := make([]llm.Message, 0, len(session.ChatHistory)+2)
	messages = append(messages, llm.Message{Role: "system", Content: sysPrompt})
	for _, msg := range session.ChatHistory {
		messages = append(messages, llm.Message{Role: msg.Role, Content: msg.Content})
	}
	messages = append(messages, llm.Message{Role: "user", Content: question})

	resp, err := e.provider.Complete(ctx, messages, &llm.Options{Temperature: llm.Temp(0.7)})
	if err != nil {
		return "", &StageError{Stage: StageChat, Err: err}
	}
	return resp.Content, nil
}

func (e *Engine) buildChatSystemPrompt(session *types.Session, question string) string {
	base := fmt.Sprintf(`You are the conversational interface for "Parallel U" - a digital clone that has just explored the web for the user.

You have context about:
- The user's interests: %s
- The exploration goal: %s
- The findings from your exploration

Answer questions helpfully and specifically. Reference the actual content you found. If the user asks about something not covered in your exploration, acknowledge that and suggest it for future exploration.

Be conversational but concise. You can share additional details from the raw browsing results that weren't included in the main brief.`,
		strings.Join(session.Topics, ", "), session.Goal)

	var sb strings.Builder
	sb.WriteString(base)

	if session.Brief != nil {
		titles := make([]string, 0, len(session.Brief.TopThings))
		for _, f := range session.Brief.TopThings {
			titles = append(titles, f.Title)
		}
		fmt.Fprintf(&sb, `

Your exploration summary:
- Top findings: %s
- Deeper insight: %s
- Opportunity: %s
- Sources: %s
`,
			strings.Join(titles, "; "),
			session.Brief.OneDeeperInsight,
			session.Brief.OneOpportunity,
			strings.Join(session.Brief.SourcesUsed, ", "))
	}

	sb.WriteString("\nRaw browsing data:\n")
	sb.WriteString(e.buildResultsContext(session, sb.String(), question))
	return sb.String()
}

// buildResultsContext spends what remains of the input budget on raw result
// excerpts, split evenly across results so one long page cannot crowd out the
// rest.
func (e *Engine) buildResultsContext(session *types.Session, promptSoFar, question string) string {
	if len(session.BrowsingResults) == 0 {
		return "(no raw results)\n"
	}

	used := e.budget.countTokens(promptSoFar) + e.budget.countTokens(question)
	for _, msg := range session.ChatHistory {
		used += e.budget.countTokens(msg.Content)
	}
	remaining := e.budget.inputBudget() - used
	resultBudget := int(float64(remaining) * resultShare)
	perResult := resultBudget / len(session.BrowsingResults)

	var sb strings.Builder
	for _, result := range session.BrowsingResults {
		excerpt := e.budget.truncate(result.Content, perResult)
		fmt.Fprintf(&sb, "- %s: %s\n", result.Website, excerpt)
	}
	return sb.String()
}
