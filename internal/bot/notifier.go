package bot

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/wordbook/internal/achievement"
	"github.com/example/wordbook/internal/logger"
	"github.com/example/wordbook/internal/vocabulary"
)

// sendTimeout bounds every Telegram API call.
const sendTimeout = 10 * time.Second

// maxListedMismatches keeps audit reports within one Telegram message.
const maxListedMismatches = 20

// Notifier posts achievement unlocks and audit reports to a parent's Telegram chat.
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	log    *logger.Logger
}

// New connects to the Telegram Bot API with the given token
func New(token string, chatID int64, log *logger.Logger) (*Notifier, error) {
	return NewWithEndpoint(token, tgbotapi.APIEndpoint, chatID, log)
}

// NewWithEndpoint connects to a Bot API compatible server. endpoint is a
// format string taking the token and method name.
func NewWithEndpoint(token, endpoint string, chatID int64, log *logger.Logger) (*Notifier, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is not set")
	}
	if chatID == 0 {
		return nil, fmt.Errorf("telegram chat id is not set")
	}
	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, &http.Client{Timeout: sendTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	log = log.With("component", "telegram")
	log.Info("telegram notifier ready", "bot", api.Self.UserName)
	return &Notifier{api: api, chatID: chatID, log: log}, nil
}

func (n *Notifier) send(text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// NotifyUnlock implements achievement.Notifier.
func (n *Notifier) NotifyUnlock(ctx context.Context, userID int64, a achievement.Achievement) error {
	text := fmt.Sprintf("%s 用户 %d 解锁了成就「%s」\n%s", a.Icon, userID, a.Name, a.Description)
	return n.send(text)
}

// ReportAudit posts the outcome of a phonetic audit run.
func (n *Notifier) ReportAudit(ctx context.Context, report *vocabulary.AuditReport) error {
	if len(report.Mismatches) == 0 {
		return nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "拼音检查：共 %d 个生字，%d 个不一致，已修正 %d 个\n",
		report.Checked, len(report.Mismatches), report.Fixed)
	for i, m := range report.Mismatches {
		if i == maxListedMismatches {
			fmt.Fprintf(&b, "…另外 %d 个\n", len(report.Mismatches)-i)
			break
		}
		fmt.Fprintf(&b, "%s: %s → %s\n", m.Text, m.Stored, m.Expected)
	}
	return n.send(b.String())
}
