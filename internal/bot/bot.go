package bot

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hray3182/julius/internal/chat"
)

// Handler answers one normalized event.
type Handler interface {
	Handle(ctx context.Context, ev chat.Event) []chat.Reply
}

type Bot struct {
	api     *tgbotapi.BotAPI
	handler Handler
	queue   *Queue
	logger  *slog.Logger
}

func New(token string, handler Handler, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	return NewWithAPI(api, handler, logger), nil
}

func NewWithAPI(api *tgbotapi.BotAPI, handler Handler, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		api:     api,
		handler: handler,
		queue:   NewQueue(),
		logger:  logger,
	}
}

// Start long-polls for updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Authorized on account", "username", b.api.Self.UserName, "transport", "polling")

	// getUpdates is rejected while a webhook is registered
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.queue.Wait()
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.dispatch(ctx, update)
		}
	}
}

// SetWebhook registers url with Telegram, dropping updates queued meanwhile.
func (b *Bot) SetWebhook(url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("invalid webhook url: %w", err)
	}
	wh.DropPendingUpdates = true
	if _, err := b.api.Request(wh); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}
	b.logger.Info("Webhook registered", "username", b.api.Self.UserName, "url", url)
	return nil
}

// WebhookHandler accepts updates pushed by Telegram. Work runs on the
// per-user queue under ctx, so the request returns right away.
func (b *Bot) WebhookHandler(ctx context.Context) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		update, err := b.api.HandleUpdate(r)
		if err != nil {
			b.logger.Warn("Rejected webhook request", "error", err)
			http.Error(w, `{"status":"error"}`, http.StatusBadRequest)
			return
		}
		b.dispatch(ctx, *update)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success"}`))
	})
}

// Wait blocks until queued updates are processed.
func (b *Bot) Wait() {
	b.queue.Wait()
}

func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	ev, ok := toEvent(update)
	if !ok {
		return
	}
	b.queue.Submit(ev.UserID, func() {
		b.handleEvent(ctx, ev)
	})
}

func (b *Bot) handleEvent(ctx context.Context, ev chat.Event) {
	replies := b.handler.Handle(ctx, ev)

	if ev.IsCallback() {
		alert := ""
		for _, r := range replies {
			if r.Alert != "" {
				alert = r.Alert
			}
		}
		b.answerCallback(ev.CallbackID, alert)
	}

	for _, r := range replies {
		c := toChattable(ev.ChatID, r)
		if c == nil {
			continue
		}
		if _, err := b.api.Send(c); err != nil {
			b.logger.Error("Failed to send message", "chat_id", ev.ChatID, "error", err)
		}
	}
}

func (b *Bot) answerCallback(id, alert string) {
	answer := tgbotapi.NewCallback(id, "")
	if alert != "" {
		answer = tgbotapi.NewCallbackWithAlert(id, alert)
	}
	if _, err := b.api.Request(answer); err != nil {
		b.logger.Error("Failed to answer callback", "error", err)
	}
}
