package telegram

import (
	"fmt"
	"strings"

	"go-jobmarket-scraper/internal/pipeline"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot reports scrape runs to one chat.
type Bot struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &Bot{
		api:    api,
		chatID: chatID,
	}, nil
}

func escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
		")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
		"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
		"}", "\\}", ".", "\\.", "!", "\\!",
	)
	return replacer.Replace(text)
}

func formatSummary(source string, s pipeline.Summary) string {
	icon := "✅"
	if s.HaltReason == pipeline.HaltStoreFailed {
		icon = "❌"
	} else if s.HaltReason == pipeline.HaltFetchFailed || s.HaltReason == pipeline.HaltCanceled {
		icon = "⚠️"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s *%s scrape finished*\n", icon, escapeMarkdown(source))
	fmt.Fprintf(&b, "📄 Pages: %d\n", s.PagesVisited)
	fmt.Fprintf(&b, "📦 Listings seen: %d\n", s.ListingsSeen)
	fmt.Fprintf(&b, "🆕 New jobs: %d\n", s.Inserted)
	fmt.Fprintf(&b, "♻️ Already known: %d\n", s.Duplicates)
	if s.Dropped > 0 {
		fmt.Fprintf(&b, "🗑️ Dropped \\(no link\\): %d\n", s.Dropped)
	}
	fmt.Fprintf(&b, "🛑 Stopped: %s\n", escapeMarkdown(string(s.HaltReason)))
	fmt.Fprintf(&b, "⏱️ Took: %s", escapeMarkdown(s.Duration().Round(1e9).String()))
	return b.String()
}

func (b *Bot) SendSummary(source string, summary pipeline.Summary) error {
	msg := tgbotapi.NewMessage(b.chatID, formatSummary(source, summary))
	msg.ParseMode = "MarkdownV2"
	msg.DisableWebPagePreview = true
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) SendError(err error) error {
	msg := tgbotapi.NewMessage(b.chatID, fmt.Sprintf("❌ Error: %v", err))
	_, sendErr := b.api.Send(msg)
	return sendErr
}

func (b *Bot) SendStatus(message string) error {
	msg := tgbotapi.NewMessage(b.chatID, "ℹ️ "+message)
	_, err := b.api.Send(msg)
	return err
}
