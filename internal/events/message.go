package events

import (
	"encoding/json"
	"time"

	"github.com/hray3182/julius/internal/models"
)

// RoutingKeyExpenseRecorded is used for every ExpenseRecorded message.
const RoutingKeyExpenseRecorded = "expense.recorded"

// ExpenseRecorded is published once per persisted expense.
type ExpenseRecorded struct {
	ID          string    `json:"id"`
	UserID      int64     `json:"user_id"`
	Description string    `json:"description"`
	// Amount keeps two decimals as a string so consumers never see float rounding.
	Amount      string    `json:"amount"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	PublishedAt time.Time `json:"published_at"`
}

func NewExpenseRecorded(e models.Expense, now time.Time) *ExpenseRecorded {
	return &ExpenseRecorded{
		ID:          e.ID,
		UserID:      e.UserID,
		Description: e.Description,
		Amount:      e.Amount.StringFixed(2),
		Category:    string(e.Category),
		CreatedAt:   e.CreatedAt,
		PublishedAt: now,
	}
}

func (m *ExpenseRecorded) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpenseRecordedFromJSON(data []byte) (*ExpenseRecorded, error) {
	var msg ExpenseRecorded
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
