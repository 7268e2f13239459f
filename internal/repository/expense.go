package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/hray3182/julius/internal/database"
	"github.com/hray3182/julius/internal/models"
)

type ExpenseRepository struct {
	db *database.DB
}

func NewExpenseRepository(db *database.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Append(ctx context.Context, e *models.Expense) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	var id int64
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO expense (user_id, description, amount, category, created_at)
		 VALUES ($1, $2, $3::numeric, $4, $5)
		 RETURNING expense_id`,
		e.UserID, e.Description, e.Amount.StringFixed(2), string(e.Category), e.CreatedAt,
	).Scan(&id)
	if err != nil {
		return err
	}
	e.ID = strconv.FormatInt(id, 10)
	return nil
}

func (r *ExpenseRepository) All(ctx context.Context) ([]models.Expense, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT expense_id, user_id, description, amount::text, category, created_at
		 FROM expense ORDER BY expense_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanExpenses(rows)
}

func (r *ExpenseRepository) ByCategory(ctx context.Context, category models.Category) ([]models.Expense, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT expense_id, user_id, description, amount::text, category, created_at
		 FROM expense WHERE category = $1 ORDER BY expense_id`,
		string(category),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanExpenses(rows)
}

func scanExpenses(rows pgx.Rows) ([]models.Expense, error) {
	var expenses []models.Expense
	for rows.Next() {
		var (
			e        models.Expense
			id       int64
			amount   string
			category string
		)
		if err := rows.Scan(&id, &e.UserID, &e.Description, &amount, &category, &e.CreatedAt); err != nil {
			return nil, err
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("expense %d: bad amount %q: %w", id, amount, err)
		}
		e.ID = strconv.FormatInt(id, 10)
		e.Amount = d
		e.Category = models.Category(category)
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}
