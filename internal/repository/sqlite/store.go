// Package sqlite persists limits and expenses in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hray3182/julius/internal/models"
	"github.com/hray3182/julius/internal/repository"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

var _ repository.Store = (*Store)(nil)

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// one writer at a time keeps SQLITE_BUSY away
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) GetLimit(ctx context.Context, category models.Category) (decimal.Decimal, error) {
	var amount string
	err := s.db.QueryRowContext(ctx,
		`SELECT amount FROM category_limits WHERE category = ?`, string(category),
	).Scan(&amount)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("get limit: %w", err)
	}
	return decimal.NewFromString(amount)
}

func (s *Store) SetLimit(ctx context.Context, category models.Category, amount decimal.Decimal) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO category_limits (category, amount, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (category) DO UPDATE SET amount = excluded.amount, updated_at = excluded.updated_at`,
		string(category), amount.StringFixed(2), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("set limit: %w", err)
	}
	return nil
}

func (s *Store) Limits(ctx context.Context) (map[models.Category]decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT category, amount FROM category_limits`)
	if err != nil {
		return nil, fmt.Errorf("list limits: %w", err)
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
			return nil, fmt.Errorf("limit %s: %w", category, err)
		}
		limits[models.Category(category)] = d
	}
	return limits, rows.Err()
}

func (s *Store) Append(ctx context.Context, e *models.Expense) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (user_id, description, amount, category, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.UserID, e.Description, e.Amount.StringFixed(2), string(e.Category),
		e.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	e.ID = strconv.FormatInt(id, 10)
	return nil
}

func (s *Store) All(ctx context.Context) ([]models.Expense, error) {
	return s.query(ctx,
		`SELECT id, user_id, description, amount, category, created_at FROM expenses ORDER BY id`)
}

func (s *Store) ByCategory(ctx context.Context, category models.Category) ([]models.Expense, error) {
	return s.query(ctx,
		`SELECT id, user_id, description, amount, category, created_at FROM expenses
		 WHERE category = ? ORDER BY id`, string(category))
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []models.Expense
	for rows.Next() {
		var (
			e                           models.Expense
			id                          int64
			amount, category, createdAt string
		)
		if err := rows.Scan(&id, &e.UserID, &e.Description, &amount, &category, &createdAt); err != nil {
			return nil, err
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("expense %d: bad amount %q: %w", id, amount, err)
		}
		if e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("expense %d: bad timestamp %q: %w", id, createdAt, err)
		}
		e.ID = strconv.FormatInt(id, 10)
		e.Category = models.Category(category)
		out = append(out, e)
	}
	return out, rows.Err()
}
