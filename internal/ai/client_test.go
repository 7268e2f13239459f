package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDraft(t *testing.T) {
	d, err := parseDraft(`{"is_expense":true,"description":" Almoço ","amount":"42,5","category":"mercado"}`)
	require.NoError(t, err)
	assert.Equal(t, "Almoço", d.Description)
	assert.Equal(t, "42.50", d.Amount.StringFixed(2))
	assert.Equal(t, "MERCADO", d.Category)
}

func TestParseDraftRejects(t *testing.T) {
	tests := map[string]string{
		"not an expense": `{"is_expense":false,"description":"","amount":"","category":""}`,
		"no description": `{"is_expense":true,"description":"  ","amount":"10","category":"LAZER"}`,
		"zero amount":    `{"is_expense":true,"description":"x","amount":"0","category":"LAZER"}`,
		"bad amount":     `{"is_expense":true,"description":"x","amount":"dez","category":"LAZER"}`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parseDraft(content)
			assert.ErrorIs(t, err, ErrNotExpense)
		})
	}

	_, err := parseDraft("not json")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotExpense)
}

func TestSystemPromptListsCategories(t *testing.T) {
	c := New("key", "http://localhost", "model")
	c.now = func() time.Time { return time.Date(2025, 5, 1, 8, 30, 0, 0, time.UTC) }

	p := c.systemPrompt([]string{"MERCADO", "LAZER"})
	assert.Contains(t, p, "- MERCADO\n- LAZER\n")
	assert.Contains(t, p, "2025-05-01 08:30")
	assert.Equal(t, "model", c.Model())
}
