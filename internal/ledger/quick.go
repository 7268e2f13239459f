package ledger

import (
	"strings"

	"github.com/hray3182/julius/internal/models"
	"github.com/hray3182/julius/internal/money"
)

const quickSeparator = " - "

// LooksLikeQuickEntry reports whether free text should go through ParseQuickEntry.
func LooksLikeQuickEntry(line string) bool {
	return strings.Contains(line, "-")
}

// ParseQuickEntry parses "description - amount - category". The separator is
// the " - " token; lines without it fall back to a bare "-". Exactly three
// segments are required.
func ParseQuickEntry(line string, registry *models.Registry, parser money.Parser) (Entry, error) {
	sep := quickSeparator
	if !strings.Contains(line, sep) {
		sep = "-"
	}
	parts := strings.Split(line, sep)
	if len(parts) != 3 {
		return Entry{}, invalid("entry", strings.TrimSpace(line), ErrMalformedEntry)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if parts[0] == "" {
		return Entry{}, invalid("description", parts[0], ErrEmptyDescription)
	}
	amount, err := parser.Amount(parts[1])
	if err != nil {
		return Entry{}, invalid("amount", parts[1], err)
	}
	cat, ok := registry.Lookup(parts[2])
	if !ok {
		return Entry{}, invalid("category", parts[2], ErrUnknownCategory)
	}

	return Entry{
		Description: parts[0],
		Amount:      amount,
		Category:    string(cat.Name),
	}, nil
}
