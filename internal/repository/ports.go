package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/hray3182/julius/internal/models"
)

// LimitStore keeps one spending limit per category. Unknown categories read as zero.
type LimitStore interface {
	GetLimit(ctx context.Context, category models.Category) (decimal.Decimal, error)
	SetLimit(ctx context.Context, category models.Category, amount decimal.Decimal) error
	Limits(ctx context.Context) (map[models.Category]decimal.Decimal, error)
}

// LedgerStore is an append-only list of expenses in insertion order.
// Append fills in ID (and CreatedAt when zero).
type LedgerStore interface {
	Append(ctx context.Context, e *models.Expense) error
	All(ctx context.Context) ([]models.Expense, error)
	ByCategory(ctx context.Context, category models.Category) ([]models.Expense, error)
}

// Store is a complete persistence backend.
type Store interface {
	LimitStore
	LedgerStore
	Close() error
}
