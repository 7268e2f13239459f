package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hray3182/julius/internal/models"
	"github.com/hray3182/julius/internal/repository"
)

// Store keeps limits and expenses in process memory.
type Store struct {
	mu     sync.Mutex
	limits map[models.Category]decimal.Decimal
	items  []models.Expense
}

var _ repository.Store = (*Store)(nil)

func New() *Store {
	return &Store{limits: make(map[models.Category]decimal.Decimal)}
}

func (s *Store) GetLimit(_ context.Context, category models.Category) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.limits[category], nil
}

func (s *Store) SetLimit(_ context.Context, category models.Category, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limits[category] = amount
	return nil
}

func (s *Store) Limits(_ context.Context) (map[models.Category]decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[models.Category]decimal.Decimal, len(s.limits))
	for k, v := range s.limits {
		out[k] = v
	}
	return out, nil
}

// Append stores a copy of e after assigning its ID.
func (s *Store) Append(_ context.Context, e *models.Expense) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	e.ID = uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, *e)
	return nil
}

func (s *Store) All(_ context.Context) ([]models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Expense(nil), s.items...), nil
}

func (s *Store) ByCategory(_ context.Context, category models.Category) ([]models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Expense
	for _, e := range s.items {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) Close() error { return nil }
