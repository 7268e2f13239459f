package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is an immutable ledger record.
type Expense struct {
	ID          string          `json:"id"`
	UserID      int64           `json:"user_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    Category        `json:"category"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Limit is the spending ceiling configured for a category.
type Limit struct {
	Category Category        `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}
