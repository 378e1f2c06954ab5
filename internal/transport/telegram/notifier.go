package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	contentDomain "github.com/copilotwatch/reddit-monitor/internal/modules/content/domain"
	"github.com/copilotwatch/reddit-monitor/internal/shared/config"
	sharederrors "github.com/copilotwatch/reddit-monitor/internal/shared/errors"
	"github.com/go-telegram/bot"
	"github.com/samber/oops"
)

// Notifier sends flagged-content alerts to a Telegram chat. Alerting is
// outbound only and optional; a nil Notifier is safe to call.
type Notifier struct {
	bot    *bot.Bot
	chatID int64
}

// New creates the notifier, or returns nil when alerting is not configured.
// A half-configured credential pair is an error rather than silent disabling.
func New(cfg *config.Config) (*Notifier, error) {
	if cfg.TelegramBotToken == "" && cfg.TelegramChatID == 0 {
		return nil, nil
	}
	if !cfg.HasTelegramCredentials() {
		return nil, oops.With("context", "telegram alerting needs both bot token and chat id").
			Wrap(sharederrors.ErrMissingCredentials)
	}

	b, err := bot.New(cfg.TelegramBotToken)
	if err != nil {
		return nil, err
	}

	slog.Info("Telegram alert notifier initialized", "chat_id", cfg.TelegramChatID)
	return &Notifier{bot: b, chatID: cfg.TelegramChatID}, nil
}

// NotifySnapshot sends an alert when a cycle produced flagged images.
// Failures are logged, never propagated: alerting must not break monitoring.
func (n *Notifier) NotifySnapshot(ctx context.Context, snap contentDomain.Snapshot) {
	if n == nil {
		return
	}

	var flagged []contentDomain.ImageItem
	for _, img := range snap.Images {
		if img.Flagged() {
			flagged = append(flagged, img)
		}
	}
	if len(flagged) == 0 {
		return
	}

	text := fmt.Sprintf("Content alert: %d flagged image(s) this cycle\n", len(flagged))
	for i, img := range flagged {
		if i == 5 {
			text += fmt.Sprintf("... and %d more\n", len(flagged)-i)
			break
		}
		text += fmt.Sprintf("- r/%s post %s: %s\n", img.Subreddit, img.PostID, describeFlags(img))
	}
	text += fmt.Sprintf("Time: %s", snap.FetchedAt.Format(time.RFC3339))

	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: n.chatID,
		Text:   text,
	})
	if err != nil {
		slog.Error("Failed to send Telegram alert", "error", err)
	}
}

func describeFlags(img contentDomain.ImageItem) string {
	var parts []string
	if img.Flags.NSFW {
		parts = append(parts, "nsfw")
	}
	if img.Flags.Violence {
		parts = append(parts, "violence")
	}
	if img.Flags.Spam {
		parts = append(parts, "spam")
	}
	if img.Flags.Inappropriate {
		parts = append(parts, "inappropriate")
	}
	if len(parts) == 0 {
		return "flagged"
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += ", " + p
	}
	return out
}
