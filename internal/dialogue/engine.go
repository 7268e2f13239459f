// Package dialogue runs the three step "new expense" form.
package dialogue

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hray3182/julius/internal/chat"
	"github.com/hray3182/julius/internal/format"
	"github.com/hray3182/julius/internal/ledger"
	"github.com/hray3182/julius/internal/models"
	"github.com/hray3182/julius/internal/money"
	"github.com/hray3182/julius/internal/session"
)

type State int

const (
	AwaitingDescription State = iota
	AwaitingAmount
	AwaitingCategory
)

func (s State) String() string {
	switch s {
	case AwaitingDescription:
		return "awaiting_description"
	case AwaitingAmount:
		return "awaiting_amount"
	case AwaitingCategory:
		return "awaiting_category"
	default:
		return "unknown"
	}
}

// Session is the partial expense of one user.
type Session struct {
	State       State
	Description string
	Amount      decimal.Decimal
}

// Recorder persists a completed form.
type Recorder interface {
	Record(ctx context.Context, in ledger.Entry) (*ledger.Receipt, error)
}

type Engine struct {
	sessions *session.Store[Session]
	recorder Recorder
	registry *models.Registry
	parser   money.Parser
	logger   *slog.Logger
}

func New(sessions *session.Store[Session], recorder Recorder, registry *models.Registry, parser money.Parser, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		sessions: sessions,
		recorder: recorder,
		registry: registry,
		parser:   parser,
		logger:   logger,
	}
}

// Sessions exposes the store so the janitor can sweep it.
func (e *Engine) Sessions() *session.Store[Session] { return e.sessions }

// Start opens a fresh form for userID, discarding any previous one.
func (e *Engine) Start(userID int64) chat.Reply {
	e.sessions.Put(userID, Session{State: AwaitingDescription})
	return chat.Reply{Text: format.PromptDescription, RemoveKeyboard: true}
}

// Cancel discards the form of userID.
func (e *Engine) Cancel(userID int64) chat.Reply {
	if !e.sessions.Delete(userID) {
		return chat.Reply{Text: format.NothingToCancel, RemoveKeyboard: true}
	}
	return chat.Reply{Text: format.Cancelled, RemoveKeyboard: true}
}

func (e *Engine) Active(userID int64) bool {
	_, ok := e.sessions.Get(userID)
	return ok
}

// Handle feeds text into the form of userID. It returns false when the user
// has no open form.
func (e *Engine) Handle(ctx context.Context, userID int64, text string) (chat.Reply, bool) {
	s, ok := e.sessions.Get(userID)
	if !ok {
		return chat.Reply{}, false
	}

	switch s.State {
	case AwaitingDescription:
		desc := strings.TrimSpace(text)
		if desc == "" {
			return chat.Text(format.PromptDescription), true
		}
		s.Description = desc
		s.State = AwaitingAmount
		e.sessions.Put(userID, s)
		return chat.Text(format.PromptAmount), true

	case AwaitingAmount:
		amount, err := e.parser.Amount(text)
		if err != nil {
			return chat.Text(format.InvalidAmount), true
		}
		s.Amount = amount
		s.State = AwaitingCategory
		e.sessions.Put(userID, s)
		return e.picker(format.PromptCategory), true

	case AwaitingCategory:
		cat, ok := e.registry.Lookup(text)
		if !ok {
			e.sessions.Put(userID, s)
			return e.picker(format.InvalidCategory), true
		}
		return e.complete(ctx, userID, s, cat), true
	}

	e.sessions.Delete(userID)
	return chat.Reply{}, false
}

func (e *Engine) complete(ctx context.Context, userID int64, s Session, cat models.CategoryInfo) chat.Reply {
	// the form ends here whatever the outcome
	e.sessions.Delete(userID)

	receipt, err := e.recorder.Record(ctx, ledger.Entry{
		UserID:      userID,
		Description: s.Description,
		Amount:      s.Amount,
		Category:    string(cat.Name),
	})
	if err != nil {
		e.logger.ErrorContext(ctx, "Failed to record expense",
			"user_id", userID, "category", cat.Name, "error", err)
		return chat.Reply{Text: format.ErrorText(err), RemoveKeyboard: true}
	}
	return chat.Reply{Text: format.Receipt(receipt), Markdown: true, RemoveKeyboard: true}
}

func (e *Engine) picker(prompt string) chat.Reply {
	return chat.Reply{Text: prompt, Keyboard: e.registry.Names()}
}
