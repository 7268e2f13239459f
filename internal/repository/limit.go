package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/hray3182/julius/internal/database"
	"github.com/hray3182/julius/internal/models"
)

type LimitRepository struct {
	db *database.DB
}

func NewLimitRepository(db *database.DB) *LimitRepository {
	return &LimitRepository{db: db}
}

func (r *LimitRepository) GetLimit(ctx context.Context, category models.Category) (decimal.Decimal, error) {
	var amount string
	err := r.db.Pool.QueryRow(ctx,
		`SELECT amount::text FROM category_limit WHERE category = $1`,
		string(category),
	).Scan(&amount)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(amount)
}

func (r *LimitRepository) SetLimit(ctx context.Context, category models.Category, amount decimal.Decimal) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO category_limit (category, amount, updated_at) VALUES ($1, $2::numeric, NOW())
		 ON CONFLICT (category) DO UPDATE SET amount = EXCLUDED.amount, updated_at = NOW()`,
		string(category), amount.StringFixed(2),
	)
	return err
}

func (r *LimitRepository) Limits(ctx context.Context) (map[models.Category]decimal.Decimal, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT category, amount::text FROM category_limit`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	limits := make(map[models.Category]decimal.Decimal)
	for rows.Next() {
		var category, amount string
		if err := rows.Scan(&category, &amount); err != nil {
			return nil, err
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("limit %s: bad amount %q: %w", category, amount, err)
		}
		limits[models.Category(category)] = d
	}
	return limits, rows.Err()
}

// PostgresStore bundles the two repositories over one pool.
type PostgresStore struct {
	*LimitRepository
	*ExpenseRepository
	db *database.DB
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{
		LimitRepository:   NewLimitRepository(db),
		ExpenseRepository: NewExpenseRepository(db),
		db:                db,
	}
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
