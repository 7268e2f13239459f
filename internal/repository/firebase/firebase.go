// Package firebase stores expenses and limits in a Firebase Realtime Database,
// keeping the node layout of the bot's first deployment:
//
//	/limites/<CATEGORIA> = 150.0
//	/gastos/<push id>    = {descricao, valor, categoria, data, user_id}
package firebase

import (
	"context"
	"errors"
	"fmt"
	"time"

	fb "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"github.com/shopspring/decimal"
	"google.golang.org/api/option"

	"github.com/hray3182/julius/internal/models"
	"github.com/hray3182/julius/internal/repository"
)

const (
	limitsPath   = "limites"
	expensesPath = "gastos"
)

type Config struct {
	DatabaseURL     string
	CredentialsJSON []byte
}

type Store struct {
	client *db.Client
}

var _ repository.Store = (*Store)(nil)

func New(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Store, error) {
	if cfg.DatabaseURL == "" {
		return nil, errors.New("missing firebase database url")
	}
	if len(cfg.CredentialsJSON) > 0 {
		opts = append(opts, option.WithCredentialsJSON(cfg.CredentialsJSON))
	}
	app, err := fb.NewApp(ctx, &fb.Config{DatabaseURL: cfg.DatabaseURL}, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase database: %w", err)
	}
	return &Store{client: client}, nil
}

func (s *Store) Close() error { return nil }

func (s *Store) GetLimit(ctx context.Context, category models.Category) (decimal.Decimal, error) {
	var v float64
	if err := s.client.NewRef(limitsPath).Child(string(category)).Get(ctx, &v); err != nil {
		return decimal.Zero, fmt.Errorf("get limit %s: %w", category, err)
	}
	return fromFloat(v), nil
}

func (s *Store) SetLimit(ctx context.Context, category models.Category, amount decimal.Decimal) error {
	if err := s.client.NewRef(limitsPath).Child(string(category)).Set(ctx, amount.Round(2).InexactFloat64()); err != nil {
		return fmt.Errorf("set limit %s: %w", category, err)
	}
	return nil
}

func (s *Store) Limits(ctx context.Context) (map[models.Category]decimal.Decimal, error) {
	var raw map[string]float64
	if err := s.client.NewRef(limitsPath).Get(ctx, &raw); err != nil {
		return nil, fmt.Errorf("get limits: %w", err)
	}
	limits := make(map[models.Category]decimal.Decimal, len(raw))
	for k, v := range raw {
		limits[models.Category(models.NormalizeCategory(k))] = fromFloat(v)
	}
	return limits, nil
}

func (s *Store) Append(ctx context.Context, e *models.Expense) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	ref, err := s.client.NewRef(expensesPath).Push(ctx, toNode(*e))
	if err != nil {
		return fmt.Errorf("push expense: %w", err)
	}
	e.ID = ref.Key
	return nil
}

func (s *Store) All(ctx context.Context) ([]models.Expense, error) {
	nodes, err := s.client.NewRef(expensesPath).OrderByKey().GetOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return fromQueryNodes(nodes)
}

func (s *Store) ByCategory(ctx context.Context, category models.Category) ([]models.Expense, error) {
	nodes, err := s.client.NewRef(expensesPath).
		OrderByChild("categoria").
		EqualTo(string(category)).
		GetOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses for %s: %w", category, err)
	}
	return fromQueryNodes(nodes)
}

func fromQueryNodes(nodes []db.QueryNode) ([]models.Expense, error) {
	out := make([]models.Expense, 0, len(nodes))
	for _, n := range nodes {
		var node expenseNode
		if err := n.Unmarshal(&node); err != nil {
			return nil, fmt.Errorf("decode expense %v: %w", n.Key(), err)
		}
		key := n.Key()
		out = append(out, node.toExpense(key))
	}
	return out, nil
}
