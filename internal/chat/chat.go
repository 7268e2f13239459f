// Package chat holds the transport-neutral message types exchanged between the
// Telegram adapters and the command handlers.
package chat

// Event is one incoming update, either a text message or a button press.
type Event struct {
	ChatID   int64
	UserID   int64
	UserName string

	// Text is the raw message text. For commands, Command holds the name
	// without the slash and Args the whitespace separated arguments.
	Text    string
	Command string
	Args    []string

	CallbackID   string
	CallbackData string
	// MessageID is the message a callback button belongs to.
	MessageID int
}

func (e Event) IsCommand() bool { return e.Command != "" }

func (e Event) IsCallback() bool { return e.CallbackID != "" }

// Action is an inline button attached to a reply.
type Action struct {
	Label string
	Data  string
}

// Reply is one outgoing message.
type Reply struct {
	Text string
	// Markdown replies are converted to message entities before sending.
	Markdown bool

	// Keyboard is shown as a one-time reply keyboard, one option per row.
	Keyboard       []string
	RemoveKeyboard bool
	Actions        []Action

	// EditMessageID, when set, replaces the text of an existing message
	// instead of sending a new one.
	EditMessageID int
	// Alert is shown as a popup answer to the callback that caused this reply.
	Alert string
}

func Text(s string) Reply { return Reply{Text: s} }

func Markdown(s string) Reply { return Reply{Text: s, Markdown: true} }
