// Package sheets stores expenses and limits in a Google Sheets spreadsheet.
//
// Expenses live in one tab with the columns
//
//	ID | Data | Descrição | Valor | Categoria | Usuário
//
// and limits in another with
//
//	Categoria | Limite
//
// A header row is optional; rows that do not parse are skipped.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/hray3182/julius/internal/models"
	"github.com/hray3182/julius/internal/repository"
)

type Config struct {
	SpreadsheetID   string
	ExpensesSheet   string
	LimitsSheet     string
	CredentialsJSON []byte
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	expensesSheet string
	limitsSheet   string
	now           func() time.Time
}

var _ repository.Store = (*Client)(nil)

// New builds a client authenticated with service-account credentials.
func New(ctx context.Context, cfg Config, opts ...goption.ClientOption) (*Client, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if len(cfg.CredentialsJSON) > 0 {
		opts = append(opts,
			goption.WithCredentialsJSON(cfg.CredentialsJSON),
			goption.WithScopes(gsheet.SpreadsheetsScope))
	}
	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	slog.InfoContext(ctx, "Google Sheets service created",
		"component", "sheets",
		"spreadsheet_id", cfg.SpreadsheetID,
		"expenses_sheet", cfg.ExpensesSheet,
		"limits_sheet", cfg.LimitsSheet)

	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		expensesSheet: orDefault(cfg.ExpensesSheet, "Gastos"),
		limitsSheet:   orDefault(cfg.LimitsSheet, "Limites"),
		now:           time.Now,
	}, nil
}

func (c *Client) Close() error { return nil }

func (c *Client) Append(ctx context.Context, e *models.Expense) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = c.now()
	}
	e.ID = uuid.NewString()

	rng := fmt.Sprintf("%s!A:F", c.expensesSheet)
	vr := &gsheet.ValueRange{Values: [][]any{expenseRow(*e)}}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", c.expensesSheet, err)
	}
	return nil
}

func (c *Client) All(ctx context.Context) ([]models.Expense, error) {
	values, err := c.read(ctx, fmt.Sprintf("%s!A:F", c.expensesSheet))
	if err != nil {
		return nil, err
	}
	return parseExpenseRows(values), nil
}

func (c *Client) ByCategory(ctx context.Context, category models.Category) ([]models.Expense, error) {
	all, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Expense
	for _, e := range all {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out, nil
}

func (c *Client) GetLimit(ctx context.Context, category models.Category) (decimal.Decimal, error) {
	limits, err := c.Limits(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return limits[category], nil
}

func (c *Client) Limits(ctx context.Context) (map[models.Category]decimal.Decimal, error) {
	values, err := c.read(ctx, fmt.Sprintf("%s!A:B", c.limitsSheet))
	if err != nil {
		return nil, err
	}
	return parseLimitRows(values), nil
}

// SetLimit overwrites the category's row in place, or appends one.
func (c *Client) SetLimit(ctx context.Context, category models.Category, amount decimal.Decimal) error {
	values, err := c.read(ctx, fmt.Sprintf("%s!A:B", c.limitsSheet))
	if err != nil {
		return err
	}
	row := []any{string(category), amount.StringFixed(2)}

	if idx := findLimitRow(values, category); idx >= 0 {
		rng := fmt.Sprintf("%s!A%d:B%d", c.limitsSheet, idx+1, idx+1)
		_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, &gsheet.ValueRange{Values: [][]any{row}}).
			ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("update %s: %w", rng, err)
		}
		return nil
	}

	rng := fmt.Sprintf("%s!A:B", c.limitsSheet)
	_, err = c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, &gsheet.ValueRange{Values: [][]any{row}}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to %s: %w", c.limitsSheet, err)
	}
	return nil
}

func (c *Client) read(ctx context.Context, rng string) ([][]any, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return resp.Values, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
