package reporter

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rotisserie/eris"

	"go-vagas-scraper/internal/runner"
)

type TelegramReporter struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramReporter(token string, chatID int64) (*TelegramReporter, error) {
	return NewTelegramReporterWithEndpoint(token, chatID, tgbotapi.APIEndpoint)
}

// NewTelegramReporterWithEndpoint talks to a Bot API server other than
// api.telegram.org, endpoint has the form "https://host/bot%s/%s"
func NewTelegramReporterWithEndpoint(token string, chatID int64, endpoint string) (*TelegramReporter, error) {
	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, eris.Wrap(err, "failed to init telegram bot")
	}

	//turn this on in case of debug
	//bot.Debug = true

	return &TelegramReporter{
		bot:    bot,
		chatID: chatID,
	}, nil
}

func (t *TelegramReporter) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, err := t.bot.Send(msg)
	return err
}

// SendRunSummary posts the end-of-run report
func (t *TelegramReporter) SendRunSummary(s runner.Summary) error {
	return t.SendMessage(FormatSummary(s))
}

// SendError reports a run that could not start
func (t *TelegramReporter) SendError(errReq error) error {
	return t.SendMessage(FormatError(errReq))
}

func FormatError(err error) string {
	return fmt.Sprintf("⚠️ <b>Vagas scraper error</b>:\n%s", html.EscapeString(err.Error()))
}

// FormatSummary renders s as Telegram HTML
func FormatSummary(s runner.Summary) string {
	var b strings.Builder

	icon := "✅"
	if s.ExportErr != nil {
		icon = "❌"
	}
	fmt.Fprintf(&b, "%s <b>%s run finished</b>\n", icon, html.EscapeString(s.Source))
	fmt.Fprintf(&b, "🆔 <code>%s</code>\n", html.EscapeString(s.RunID))
	fmt.Fprintf(&b, "📄 Pages: %s\n", humanize.Comma(int64(s.Pages)))
	fmt.Fprintf(&b, "📦 Jobs: %s\n", humanize.Comma(int64(s.Records)))
	if s.Skipped > 0 {
		fmt.Fprintf(&b, "⏭ Skipped cards: %s\n", humanize.Comma(int64(s.Skipped)))
	}
	fmt.Fprintf(&b, "🛑 Stopped: %s (page %d)\n", html.EscapeString(string(s.StopReason)), s.LastPage)
	fmt.Fprintf(&b, "⏱ Took: %s", s.Duration().Round(time.Second))
	if s.ExportErr != nil {
		fmt.Fprintf(&b, "\n⚠️ JSON export failed: %s", html.EscapeString(s.ExportErr.Error()))
	}
	return b.String()
}
