// Package telegram sends finished briefs to Telegram chats.
package telegram

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/manavm12/parallel-u/internal/archive"
)

const maxTelegramMessage = 4096

// KeyPrefix is the delivery key prefix handled by this notifier.
const KeyPrefix = "telegram:"

// Notifier delivers briefs to Telegram chats addressed as "telegram:<chatID>".
type Notifier struct {
	bot *tgbotapi.BotAPI
}

// New creates a Notifier with the given bot token.
func New(token string) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return &Notifier{bot: bot}, nil
}

// Deliver formats the report's brief and sends it to the chat named by key.
func (n *Notifier) Deliver(key string, report *archive.Report) error {
	chatID, err := parseChatID(key)
	if err != nil {
		return err
	}

	parts := splitMessage(FormatBrief(report))
	for _, part := range parts {
		msg := tgbotapi.NewMessage(chatID, part)
		msg.ParseMode = "Markdown"
		if _, err := n.bot.Send(msg); err != nil {
			// Retry without markdown if it fails
			msg.ParseMode = ""
			if _, err := n.bot.Send(msg); err != nil {
				return fmt.Errorf("send message: %w", err)
			}
		}
	}
	return nil
}

func parseChatID(key string) (int64, error) {
	raw, ok := strings.CutPrefix(key, KeyPrefix)
	if !ok {
		return 0, fmt.Errorf("not a telegram key: %s", key)
	}
	chatID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad chat id in key %q: %w", key, err)
	}
	return chatID, nil
}

// FormatBrief renders a report's brief as a Telegram-friendly message.
func FormatBrief(report *archive.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "*Your exploration is done*\n_%s_\n", report.Goal)

	if report.Brief == nil || len(report.Brief.TopThings) == 0 {
		sb.WriteString("\nNo solid findings this time.\n")
	} else {
		for i, f := range report.Brief.TopThings {
			fmt.Fprintf(&sb, "\n%d. *%s*\n%s\n", i+1, f.Title, f.Summary)
			if f.WhyItMatters != "" {
				fmt.Fprintf(&sb, "Why it matters: %s\n", f.WhyItMatters)
			}
			if f.SourceLink != "" {
				fmt.Fprintf(&sb, "%s\n", f.SourceLink)
			}
		}
	}

	if report.Brief != nil {
		if report.Brief.OneDeeperInsight != "" {
			fmt.Fprintf(&sb, "\n*Deeper insight:* %s\n", report.Brief.OneDeeperInsight)
		}
		if report.Brief.OneOpportunity != "" {
			fmt.Fprintf(&sb, "\n*Opportunity:* %s\n", report.Brief.OneOpportunity)
		}
	}
	return sb.String()
}

func splitMessage(text string) []string {
	if len(text) <= maxTelegramMessage {
		return []string{text}
	}
	var parts []string
	for len(text) > 0 {
		end := maxTelegramMessage
		if end > len(text) {
			end = len(text)
		}
		parts = append(parts, text[:end])
		text = text[end:]
	}
	return parts
}
