// Package notifier pushes outbound alert messages. The telegram notifier is
// send-only: it never polls for updates or handles commands.
package notifier

import (
	"context"
	"time"

	"golang.org/x/time/rate"
	"gopkg.in/telebot.v3"

	"stock-analyse/config"
	"stock-analyse/pkg/logger"
)

type Notifier interface {
	Notify(ctx context.Context, message string) error
}

type telegramNotifier struct {
	cfg     *config.TelegramConfig
	log     *logger.Logger
	bot     *telebot.Bot
	limiter *rate.Limiter
}

// NewTelegramNotifier builds the notifier, or a no-op one when telegram is
// disabled in config.
func NewTelegramNotifier(cfg *config.TelegramConfig, log *logger.Logger) (Notifier, error) {
	if !cfg.Enabled {
		return &noopNotifier{}, nil
	}

	bot, err := telebot.NewBot(telebot.Settings{
		Token:  cfg.BotToken,
		Poller: nil,
	})
	if err != nil {
		return nil, err
	}

	return &telegramNotifier{
		cfg: cfg,
		log: log,
		bot: bot,
		// Telegram allows roughly one message per second per chat.
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}, nil
}

func (t *telegramNotifier) Notify(ctx context.Context, message string) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}

	_, err := t.bot.Send(&telebot.User{ID: t.cfg.ChatID}, message, telebot.ModeMarkdown)
	if err != nil {
		t.log.ErrorContext(ctx, "failed to send telegram notification", logger.ErrorField(err))
		return err
	}
	return nil
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, string) error {
	return nil
}
