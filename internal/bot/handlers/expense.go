package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hray3182/julius/internal/ai"
	"github.com/hray3182/julius/internal/chat"
	"github.com/hray3182/julius/internal/format"
	"github.com/hray3182/julius/internal/ledger"
)

const (
	actionConfirm = "confirm"
	actionCancel  = "cancel"
)

// HandleMessage handles plain text: dialogue input first, then quick entry,
// then an AI draft when enabled.
func (h *Handlers) HandleMessage(ctx context.Context, ev chat.Event) []chat.Reply {
	if r, ok := h.dialogue.Handle(ctx, ev.UserID, ev.Text); ok {
		return reply(r)
	}

	if ledger.LooksLikeQuickEntry(ev.Text) {
		return reply(h.handleQuickEntry(ctx, ev))
	}

	if h.ai != nil {
		return reply(h.handleDraft(ctx, ev))
	}
	return reply(chat.Text(format.QuickHint))
}

func (h *Handlers) handleQuickEntry(ctx context.Context, ev chat.Event) chat.Reply {
	receipt, err := h.ledger.QuickEntry(ctx, ev.UserID, ev.Text)
	if err != nil {
		h.logFailure(ctx, "Failed to record quick entry", ev, err)
		return chat.Text(format.ErrorText(err))
	}
	return chat.Markdown(format.Receipt(receipt))
}

func (h *Handlers) handleDraft(ctx context.Context, ev chat.Event) chat.Reply {
	draft, err := h.ai.ExtractExpense(ctx, ev.Text, h.ledger.Registry().Names())
	if err != nil {
		if !errors.Is(err, ai.ErrNotExpense) {
			h.logger.ErrorContext(ctx, "Failed to extract expense", "user_id", ev.UserID, "error", err)
		}
		return chat.Text(format.QuickHint)
	}
	cat, err := h.ledger.Category(draft.Category)
	if err != nil {
		h.debug("Draft with unknown category", "category", draft.Category)
		return chat.Text(format.QuickHint)
	}
	draft.Category = string(cat.Name)

	h.drafts.Put(ev.UserID, *draft)
	r := chat.Markdown(format.Draft(draft))
	r.Actions = []chat.Action{
		{Label: "✅ Confirmar", Data: callbackData(actionConfirm, ev.UserID)},
		{Label: "❌ Cancelar", Data: callbackData(actionCancel, ev.UserID)},
	}
	return r
}

// HandleCallback resolves a confirm or cancel button on a draft.
func (h *Handlers) HandleCallback(ctx context.Context, ev chat.Event) []chat.Reply {
	action, owner, ok := parseCallbackData(ev.CallbackData)
	if !ok || h.drafts == nil {
		return nil
	}
	if owner != ev.UserID {
		return reply(chat.Reply{Alert: format.NotYourDraft})
	}

	draft, ok := h.drafts.Take(owner)
	if !ok {
		return reply(chat.Reply{Text: format.DraftExpired, EditMessageID: ev.MessageID})
	}

	switch action {
	case actionConfirm:
		receipt, err := h.ledger.Record(ctx, ledger.Entry{
			UserID:      owner,
			Description: draft.Description,
			Amount:      draft.Amount,
			Category:    draft.Category,
		})
		if err != nil {
			h.logFailure(ctx, "Failed to record draft", ev, err)
			return reply(chat.Reply{Text: format.ErrorText(err), EditMessageID: ev.MessageID})
		}
		return reply(chat.Reply{Text: format.Receipt(receipt), Markdown: true, EditMessageID: ev.MessageID})
	default:
		return reply(chat.Reply{Text: format.DraftCancelled, EditMessageID: ev.MessageID})
	}
}

func (h *Handlers) dropDraft(userID int64) bool {
	return h.drafts != nil && h.drafts.Delete(userID)
}

func callbackData(action string, userID int64) string {
	return fmt.Sprintf("%s:%d", action, userID)
}

// parseCallbackData splits "action:userID".
func parseCallbackData(data string) (string, int64, bool) {
	action, id, found := strings.Cut(data, ":")
	if !found {
		return "", 0, false
	}
	if action != actionConfirm && action != actionCancel {
		return "", 0, false
	}
	userID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return "", 0, false
	}
	return action, userID, true
}
