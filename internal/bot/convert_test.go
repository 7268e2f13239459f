package bot

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hray3182/julius/internal/chat"
)

func commandMessage(text string, cmdLen int) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 3,
		From:      &tgbotapi.User{ID: 10, FirstName: "Ana"},
		Chat:      &tgbotapi.Chat{ID: 20},
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}},
	}
}

func TestToEventCommand(t *testing.T) {
	ev, ok := toEvent(tgbotapi.Update{Message: commandMessage("/Limite DOCUMENTAÇÃO CARRO 300", 7)})
	require.True(t, ok)
	assert.Equal(t, int64(20), ev.ChatID)
	assert.Equal(t, int64(10), ev.UserID)
	assert.Equal(t, "Ana", ev.UserName)
	assert.Equal(t, "limite", ev.Command)
	assert.Equal(t, []string{"DOCUMENTAÇÃO", "CARRO", "300"}, ev.Args)
}

func TestToEventText(t *testing.T) {
	ev, ok := toEvent(tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: 1},
		Chat: &tgbotapi.Chat{ID: 1},
		Text: "Lunch - 42 - MERCADO",
	}})
	require.True(t, ok)
	assert.False(t, ev.IsCommand())
	assert.Equal(t, "Lunch - 42 - MERCADO", ev.Text)
}

func TestToEventCallback(t *testing.T) {
	ev, ok := toEvent(tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb1",
		From:    &tgbotapi.User{ID: 5},
		Data:    "confirm:5",
		Message: &tgbotapi.Message{MessageID: 77, Chat: &tgbotapi.Chat{ID: 9}},
	}})
	require.True(t, ok)
	assert.True(t, ev.IsCallback())
	assert.Equal(t, int64(9), ev.ChatID)
	assert.Equal(t, 77, ev.MessageID)
	assert.Equal(t, "confirm:5", ev.CallbackData)
}

func TestToEventIgnored(t *testing.T) {
	for _, u := range []tgbotapi.Update{
		{},
		{Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1}, Text: "no sender"}},
		{Message: &tgbotapi.Message{From: &tgbotapi.User{ID: 1}, Chat: &tgbotapi.Chat{ID: 1}}},
		{EditedMessage: &tgbotapi.Message{Text: "edited"}},
	} {
		_, ok := toEvent(u)
		assert.False(t, ok)
	}
}

func TestToChattable(t *testing.T) {
	assert.Nil(t, toChattable(1, chat.Reply{Alert: "x"}))

	msg, ok := toChattable(1, chat.Reply{Text: "**Saldo** 🛒", Markdown: true}).(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, "Saldo 🛒", msg.Text)
	assert.Equal(t, []tgbotapi.MessageEntity{{Type: "bold", Offset: 0, Length: 5}}, msg.Entities)
	assert.Empty(t, msg.ParseMode)

	msg = toChattable(1, chat.Reply{Text: "pick", Keyboard: []string{"A", "B"}}).(tgbotapi.MessageConfig)
	kb, ok := msg.ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
	require.True(t, ok)
	assert.True(t, kb.OneTimeKeyboard)
	require.Len(t, kb.Keyboard, 2)
	assert.Equal(t, "B", kb.Keyboard[1][0].Text)

	msg = toChattable(1, chat.Reply{Text: "done", RemoveKeyboard: true}).(tgbotapi.MessageConfig)
	rm, ok := msg.ReplyMarkup.(tgbotapi.ReplyKeyboardRemove)
	require.True(t, ok)
	assert.True(t, rm.RemoveKeyboard)

	msg = toChattable(1, chat.Reply{Text: "ok?", Actions: []chat.Action{{Label: "Sim", Data: "confirm:1"}}}).(tgbotapi.MessageConfig)
	inline, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.NotNil(t, inline.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "confirm:1", *inline.InlineKeyboard[0][0].CallbackData)

	edit, ok := toChattable(1, chat.Reply{Text: "expired", EditMessageID: 4}).(tgbotapi.EditMessageTextConfig)
	require.True(t, ok)
	assert.Equal(t, 4, edit.MessageID)
	assert.Equal(t, "expired", edit.Text)
}
