// Package ledger records expenses and computes balances and reports over the
// configured stores.
package ledger

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hray3182/julius/internal/models"
	"github.com/hray3182/julius/internal/money"
	"github.com/hray3182/julius/internal/repository"
)

// Notifier is told about every persisted expense.
type Notifier interface {
	ExpenseRecorded(ctx context.Context, e models.Expense) error
}

// Entry is an expense that has not been validated or persisted yet.
type Entry struct {
	UserID      int64
	Description string
	Amount      decimal.Decimal
	Category    string
}

// Balance is the state of one category.
type Balance struct {
	Category  models.CategoryInfo
	Limit     decimal.Decimal
	Spent     decimal.Decimal
	Remaining decimal.Decimal
	// Percent is Spent/Limit*100, or zero when no limit is set.
	Percent decimal.Decimal
	At      time.Time
}

// Receipt confirms a recorded expense together with the balance right after it.
type Receipt struct {
	Expense  models.Expense
	Category models.CategoryInfo
	Balance  Balance
}

type Report struct {
	Categories     []Balance
	TotalSpent     decimal.Decimal
	TotalLimit     decimal.Decimal
	TotalRemaining decimal.Decimal
	At             time.Time
}

type Service struct {
	registry *models.Registry
	limits   repository.LimitStore
	ledger   repository.LedgerStore
	parser   money.Parser
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

type Option func(*Service)

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithParser(p money.Parser) Option {
	return func(s *Service) { s.parser = p }
}

func New(registry *models.Registry, limits repository.LimitStore, ledger repository.LedgerStore, opts ...Option) *Service {
	s := &Service{
		registry: registry,
		limits:   limits,
		ledger:   ledger,
		parser:   money.Parser{AcceptComma: true},
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Registry() *models.Registry { return s.registry }

func (s *Service) Parser() money.Parser { return s.parser }

// Category resolves user input against the registry.
func (s *Service) Category(input string) (models.CategoryInfo, error) {
	c, ok := s.registry.Lookup(input)
	if !ok {
		return models.CategoryInfo{}, invalid("category", input, ErrUnknownCategory)
	}
	return c, nil
}

// Record validates and persists an entry, then reads the category balance.
// The balance read happens after the write so it includes the new record.
func (s *Service) Record(ctx context.Context, in Entry) (*Receipt, error) {
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return nil, invalid("description", in.Description, ErrEmptyDescription)
	}
	if !in.Amount.IsPositive() {
		return nil, invalid("amount", in.Amount.String(), money.ErrNotPositive)
	}
	cat, err := s.Category(in.Category)
	if err != nil {
		return nil, err
	}

	e := models.Expense{
		UserID:      in.UserID,
		Description: desc,
		Amount:      in.Amount,
		Category:    cat.Name,
		CreatedAt:   s.now(),
	}
	if err := s.ledger.Append(ctx, &e); err != nil {
		return nil, persistence("append expense", err)
	}
	s.logger.InfoContext(ctx, "Expense recorded",
		"id", e.ID,
		"user_id", e.UserID,
		"category", e.Category,
		"amount", e.Amount.StringFixed(2))

	if s.notifier != nil {
		if err := s.notifier.ExpenseRecorded(ctx, e); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish expense", "id", e.ID, "error", err)
		}
	}

	bal, err := s.balance(ctx, cat)
	if err != nil {
		return nil, err
	}
	return &Receipt{Expense: e, Category: cat, Balance: *bal}, nil
}

// QuickEntry parses a "description - amount - category" line and records it.
func (s *Service) QuickEntry(ctx context.Context, userID int64, line string) (*Receipt, error) {
	entry, err := ParseQuickEntry(line, s.registry, s.parser)
	if err != nil {
		return nil, err
	}
	entry.UserID = userID
	return s.Record(ctx, entry)
}

// SetLimit overwrites the limit of a category.
func (s *Service) SetLimit(ctx context.Context, categoryInput string, amount decimal.Decimal) (models.CategoryInfo, error) {
	cat, err := s.Category(categoryInput)
	if err != nil {
		return models.CategoryInfo{}, err
	}
	if amount.IsNegative() {
		return models.CategoryInfo{}, invalid("limit", amount.String(), money.ErrNegative)
	}
	if err := s.limits.SetLimit(ctx, cat.Name, amount); err != nil {
		return models.CategoryInfo{}, persistence("set limit", err)
	}
	s.logger.InfoContext(ctx, "Limit updated",
		"category", cat.Name, "amount", amount.StringFixed(2))
	return cat, nil
}

// Balance computes limit, spent, remaining and percent for one category.
func (s *Service) Balance(ctx context.Context, categoryInput string) (*Balance, error) {
	cat, err := s.Category(categoryInput)
	if err != nil {
		return nil, err
	}
	return s.balance(ctx, cat)
}

func (s *Service) balance(ctx context.Context, cat models.CategoryInfo) (*Balance, error) {
	limit, err := s.limits.GetLimit(ctx, cat.Name)
	if err != nil {
		return nil, persistence("get limit", err)
	}
	records, err := s.ledger.ByCategory(ctx, cat.Name)
	if err != nil {
		return nil, persistence("query expenses", err)
	}
	spent := decimal.Zero
	for _, r := range records {
		spent = spent.Add(r.Amount)
	}
	b := newBalance(cat, limit, spent)
	b.At = s.now()
	return &b, nil
}

// Report aggregates every registered category, in registry order.
func (s *Service) Report(ctx context.Context) (*Report, error) {
	limits, err := s.limits.Limits(ctx)
	if err != nil {
		return nil, persistence("get limits", err)
	}
	records, err := s.ledger.All(ctx)
	if err != nil {
		return nil, persistence("query expenses", err)
	}

	spent := make(map[models.Category]decimal.Decimal)
	for _, r := range records {
		spent[r.Category] = spent[r.Category].Add(r.Amount)
	}

	rep := &Report{
		TotalSpent: decimal.Zero,
		TotalLimit: decimal.Zero,
		At:         s.now(),
	}
	for _, cat := range s.registry.All() {
		b := newBalance(cat, limits[cat.Name], spent[cat.Name])
		b.At = rep.At
		rep.Categories = append(rep.Categories, b)
		rep.TotalSpent = rep.TotalSpent.Add(b.Spent)
		rep.TotalLimit = rep.TotalLimit.Add(b.Limit)
	}
	rep.TotalRemaining = rep.TotalLimit.Sub(rep.TotalSpent)
	return rep, nil
}

// Recent returns up to n records, newest first. An empty categoryInput means all.
func (s *Service) Recent(ctx context.Context, categoryInput string, n int) ([]models.Expense, error) {
	var (
		records []models.Expense
		err     error
	)
	if strings.TrimSpace(categoryInput) == "" {
		records, err = s.ledger.All(ctx)
	} else {
		cat, cerr := s.Category(categoryInput)
		if cerr != nil {
			return nil, cerr
		}
		records, err = s.ledger.ByCategory(ctx, cat.Name)
	}
	if err != nil {
		return nil, persistence("query expenses", err)
	}

	// stores return insertion order; reverse it
	out := make([]models.Expense, len(records))
	for i, r := range records {
		out[len(records)-1-i] = r
	}
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}

var hundred = decimal.NewFromInt(100)

func newBalance(cat models.CategoryInfo, limit, spent decimal.Decimal) Balance {
	b := Balance{
		Category:  cat,
		Limit:     limit,
		Spent:     spent,
		Remaining: limit.Sub(spent),
		Percent:   decimal.Zero,
	}
	if limit.IsPositive() {
		b.Percent = spent.Div(limit).Mul(hundred)
	}
	return b
}
