package format

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ParseResult contains plain text and message entities
type ParseResult struct {
	Text     string
	Entities []tgbotapi.MessageEntity
}

// UTF16Len returns the length of s in UTF-16 code units, the unit Telegram
// uses for entity offsets and lengths.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += runeUnits(r)
	}
	return n
}

func runeUnits(r rune) int {
	if n := len(utf16.AppendRune(nil, r)); n > 0 {
		return n
	}
	return 1
}

const markers = "*_`\\"

// Escape protects user supplied text so ParseMarkdown keeps it literal.
func Escape(s string) string {
	if !strings.ContainsAny(s, markers) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(markers, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ParseMarkdown converts a small Markdown subset into Telegram message entities:
//   - **bold**
//   - *italic* or _italic_
//   - `code`
//
// A backslash makes the following marker literal. Spans never cross a line
// break and unmatched markers are kept as text.
func ParseMarkdown(text string) ParseResult {
	var (
		out      strings.Builder
		entities []tgbotapi.MessageEntity
		offset   int
	)

	emit := func(kind, inner string) {
		n := UTF16Len(inner)
		entities = append(entities, tgbotapi.MessageEntity{Type: kind, Offset: offset, Length: n})
		out.WriteString(inner)
		offset += n
	}

	for i := 0; i < len(text); {
		rest := text[i:]
		switch {
		case rest[0] == '\\' && len(rest) > 1 && strings.IndexByte(markers, rest[1]) >= 0:
			out.WriteByte(rest[1])
			offset++
			i += 2
			continue
		case rest[0] == '`':
			if end := strings.IndexAny(rest[1:], "`\n"); end > 0 && rest[1+end] == '`' {
				emit("code", rest[1:1+end])
				i += end + 2
				continue
			}
		case strings.HasPrefix(rest, "**"):
			if inner, n, ok := span(rest[2:], "**"); ok {
				emit("bold", inner)
				i += 2 + n
				continue
			}
		case rest[0] == '*' || rest[0] == '_':
			if inner, n, ok := span(rest[1:], rest[:1]); ok {
				emit("italic", inner)
				i += 1 + n
				continue
			}
		}

		r, size := utf8.DecodeRuneInString(rest)
		out.WriteString(rest[:size])
		offset += runeUnits(r)
		i += size
	}

	return ParseResult{
		Text:     strings.TrimRight(out.String(), " \n"),
		Entities: entities,
	}
}

// span looks for the closing marker in s. It returns the unescaped inner text
// and the number of bytes consumed including the closing marker.
func span(s, marker string) (string, int, bool) {
	var inner strings.Builder
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\n':
			return "", 0, false
		case s[i] == '\\' && i+1 < len(s) && strings.IndexByte(markers, s[i+1]) >= 0:
			inner.WriteByte(s[i+1])
			i++
		case strings.HasPrefix(s[i:], marker):
			if inner.Len() == 0 {
				return "", 0, false
			}
			return inner.String(), i + len(marker), true
		default:
			inner.WriteByte(s[i])
		}
	}
	return "", 0, false
}
