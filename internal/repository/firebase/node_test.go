package firebase

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hray3182/julius/internal/models"
)

func TestNodeRoundTrip(t *testing.T) {
	at := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	e := models.Expense{
		UserID: 77, Description: "Gasolina", Amount: decimal.RequireFromString("150.5"),
		Category: "COMBUSTÍVEL", CreatedAt: at,
	}

	raw, err := json.Marshal(toNode(e))
	require.NoError(t, err)
	assert.JSONEq(t, `{"descricao":"Gasolina","valor":150.5,"categoria":"COMBUSTÍVEL","data":"2025-02-03T04:05:06Z","user_id":77}`, string(raw))

	var n expenseNode
	require.NoError(t, json.Unmarshal(raw, &n))
	got := n.toExpense("-Nabc")
	assert.Equal(t, "-Nabc", got.ID)
	assert.Equal(t, "150.50", got.Amount.StringFixed(2))
	assert.Equal(t, e.Category, got.Category)
	assert.True(t, at.Equal(got.CreatedAt))
}

func TestLegacyNodes(t *testing.T) {
	raw := `{"descricao":"Almoço","valor":42.1,"categoria":"mercado","data":"2024-11-05T12:34:56.789012","user_id":5}`
	var n expenseNode
	require.NoError(t, json.Unmarshal([]byte(raw), &n))

	got := n.toExpense("k")
	assert.Equal(t, models.Category("MERCADO"), got.Category)
	assert.Equal(t, "42.10", got.Amount.StringFixed(2))
	assert.Equal(t, 2024, got.CreatedAt.Year())
	assert.Equal(t, 34, got.CreatedAt.Minute())
}

func TestParseTimeFallsBackToZero(t *testing.T) {
	assert.True(t, parseTime("").IsZero())
	assert.True(t, parseTime("yesterday").IsZero())
	assert.False(t, parseTime("2024-11-05T12:34:56").IsZero())
}
