package handlers

import (
	"context"
	"log/slog"
	"strings"

	"github.com/hray3182/julius/internal/ai"
	"github.com/hray3182/julius/internal/chat"
	"github.com/hray3182/julius/internal/dialogue"
	"github.com/hray3182/julius/internal/format"
	"github.com/hray3182/julius/internal/ledger"
	"github.com/hray3182/julius/internal/session"
)

const recentLimit = 10

// Extractor turns free text into an expense draft.
type Extractor interface {
	ExtractExpense(ctx context.Context, text string, categories []string) (*ai.Draft, error)
}

type Handlers struct {
	ledger   *ledger.Service
	dialogue *dialogue.Engine
	ai       Extractor
	drafts   *session.Store[ai.Draft]
	logger   *slog.Logger
	devMode  bool
}

type Option func(*Handlers)

// WithAI enables drafts for free text that is neither dialogue input nor a
// quick entry.
func WithAI(x Extractor, drafts *session.Store[ai.Draft]) Option {
	return func(h *Handlers) {
		h.ai = x
		h.drafts = drafts
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(h *Handlers) { h.logger = l }
}

func WithDevMode(on bool) Option {
	return func(h *Handlers) { h.devMode = on }
}

func New(svc *ledger.Service, engine *dialogue.Engine, opts ...Option) *Handlers {
	h := &Handlers{
		ledger:   svc,
		dialogue: engine,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Drafts is nil when the AI assistant is disabled.
func (h *Handlers) Drafts() *session.Store[ai.Draft] { return h.drafts }

// Handle routes one event and returns the replies to send, in order.
func (h *Handlers) Handle(ctx context.Context, ev chat.Event) []chat.Reply {
	h.debug("Incoming event",
		"user_id", ev.UserID, "username", ev.UserName, "command", ev.Command, "text", ev.Text, "callback", ev.CallbackData)

	switch {
	case ev.IsCallback():
		return h.HandleCallback(ctx, ev)
	case ev.IsCommand():
		return h.HandleCommand(ctx, ev)
	default:
		return h.HandleMessage(ctx, ev)
	}
}

func (h *Handlers) HandleCommand(ctx context.Context, ev chat.Event) []chat.Reply {
	switch ev.Command {
	case "start", "ajuda", "help":
		return reply(chat.Markdown(format.Welcome(ev.UserName)))
	case "novogasto":
		h.dropDraft(ev.UserID)
		return reply(h.dialogue.Start(ev.UserID))
	case "cancelar":
		return reply(h.handleCancel(ev))
	case "limite":
		return reply(h.handleLimit(ctx, ev))
	case "saldo":
		return reply(h.handleBalance(ctx, ev))
	case "relatorio":
		return reply(h.handleReport(ctx))
	case "categorias":
		return reply(chat.Markdown(format.Categories(h.ledger.Registry())))
	case "gastos":
		return reply(h.handleRecent(ctx, ev))
	default:
		return reply(chat.Text(format.UnknownCmd))
	}
}

func (h *Handlers) handleCancel(ev chat.Event) chat.Reply {
	hadDraft := h.dropDraft(ev.UserID)
	r := h.dialogue.Cancel(ev.UserID)
	if hadDraft && r.Text == format.NothingToCancel {
		r.Text = format.Cancelled
	}
	return r
}

// handleLimit treats the last argument as the value and the rest as the
// category, so multi-word categories need no quoting.
func (h *Handlers) handleLimit(ctx context.Context, ev chat.Event) chat.Reply {
	if len(ev.Args) < 2 {
		return chat.Text(format.UsageLimit)
	}
	last := len(ev.Args) - 1
	category := strings.Join(ev.Args[:last], " ")

	amount, err := h.ledger.Parser().Limit(ev.Args[last])
	if err != nil {
		return chat.Text(format.ErrorText(err))
	}
	cat, err := h.ledger.SetLimit(ctx, category, amount)
	if err != nil {
		h.logFailure(ctx, "Failed to set limit", ev, err)
		return chat.Text(format.ErrorText(err))
	}
	return chat.Text(format.LimitSet(cat, amount))
}

func (h *Handlers) handleBalance(ctx context.Context, ev chat.Event) chat.Reply {
	if len(ev.Args) == 0 {
		return chat.Text(format.UsageBalance)
	}
	bal, err := h.ledger.Balance(ctx, strings.Join(ev.Args, " "))
	if err != nil {
		h.logFailure(ctx, "Failed to compute balance", ev, err)
		return chat.Text(format.ErrorText(err))
	}
	return chat.Markdown(format.Balance(bal))
}

func (h *Handlers) handleReport(ctx context.Context) chat.Reply {
	rep, err := h.ledger.Report(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to build report", "error", err)
		return chat.Text(format.ErrorText(err))
	}
	return chat.Markdown(format.Report(rep))
}

func (h *Handlers) handleRecent(ctx context.Context, ev chat.Event) chat.Reply {
	records, err := h.ledger.Recent(ctx, strings.Join(ev.Args, " "), recentLimit)
	if err != nil {
		h.logFailure(ctx, "Failed to list expenses", ev, err)
		return chat.Text(format.ErrorText(err))
	}
	return chat.Markdown(format.Recent(h.ledger.Registry(), records))
}

// logFailure logs store failures. Validation errors are the user's typos.
func (h *Handlers) logFailure(ctx context.Context, msg string, ev chat.Event, err error) {
	if ledger.IsValidation(err) {
		h.debug(msg, "user_id", ev.UserID, "error", err)
		return
	}
	h.logger.ErrorContext(ctx, msg, "user_id", ev.UserID, "error", err)
}

func (h *Handlers) debug(msg string, args ...any) {
	if h.devMode {
		h.logger.Debug(msg, args...)
	}
}

func reply(r chat.Reply) []chat.Reply {
	return []chat.Reply{r}
}
