package bot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hray3182/julius/internal/chat"
	"github.com/hray3182/julius/internal/format"
)

// toEvent normalizes an update. Updates the bot does not handle report false.
func toEvent(u tgbotapi.Update) (chat.Event, bool) {
	switch {
	case u.CallbackQuery != nil:
		cq := u.CallbackQuery
		if cq.From == nil {
			return chat.Event{}, false
		}
		ev := chat.Event{
			UserID:       cq.From.ID,
			UserName:     cq.From.FirstName,
			CallbackID:   cq.ID,
			CallbackData: cq.Data,
		}
		if cq.Message != nil {
			ev.ChatID = cq.Message.Chat.ID
			ev.MessageID = cq.Message.MessageID
		}
		return ev, true

	case u.Message != nil:
		m := u.Message
		if m.From == nil || m.Chat == nil || m.Text == "" {
			return chat.Event{}, false
		}
		ev := chat.Event{
			ChatID:   m.Chat.ID,
			UserID:   m.From.ID,
			UserName: m.From.FirstName,
			Text:     m.Text,
		}
		if m.IsCommand() {
			ev.Command = strings.ToLower(m.Command())
			ev.Args = strings.Fields(m.CommandArguments())
		}
		return ev, true
	}
	return chat.Event{}, false
}

// toChattable builds the outgoing request for one reply. It returns nil for
// replies that carry nothing to send.
func toChattable(chatID int64, r chat.Reply) tgbotapi.Chattable {
	if r.Text == "" {
		return nil
	}

	text := r.Text
	var entities []tgbotapi.MessageEntity
	if r.Markdown {
		parsed := format.ParseMarkdown(r.Text)
		text, entities = parsed.Text, parsed.Entities
	}

	if r.EditMessageID != 0 {
		edit := tgbotapi.NewEditMessageText(chatID, r.EditMessageID, text)
		edit.Entities = entities
		return edit
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.Entities = entities
	switch {
	case len(r.Actions) > 0:
		buttons := make([]tgbotapi.InlineKeyboardButton, len(r.Actions))
		for i, a := range r.Actions {
			buttons[i] = tgbotapi.NewInlineKeyboardButtonData(a.Label, a.Data)
		}
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(buttons...))
	case len(r.Keyboard) > 0:
		rows := make([][]tgbotapi.KeyboardButton, len(r.Keyboard))
		for i, label := range r.Keyboard {
			rows[i] = tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(label))
		}
		msg.ReplyMarkup = tgbotapi.NewOneTimeReplyKeyboard(rows...)
	case r.RemoveKeyboard:
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	}
	return msg
}
