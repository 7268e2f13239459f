package sheets

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hray3182/julius/internal/models"
)

func expenseRow(e models.Expense) []any {
	return []any{
		e.ID,
		e.CreatedAt.Format(time.RFC3339),
		e.Description,
		e.Amount.StringFixed(2),
		string(e.Category),
		strconv.FormatInt(e.UserID, 10),
	}
}

func parseExpenseRows(values [][]any) []models.Expense {
	var out []models.Expense
	for _, row := range values {
		cells := toStrings(row)
		if len(cells) < 5 {
			continue
		}
		amount, ok := parseAmountCell(cells[3])
		if !ok {
			continue
		}
		e := models.Expense{
			ID:          cells[0],
			Description: cells[2],
			Amount:      amount,
			Category:    models.Category(models.NormalizeCategory(cells[4])),
		}
		if t, err := time.Parse(time.RFC3339, cells[1]); err == nil {
			e.CreatedAt = t
		}
		if len(cells) > 5 {
			e.UserID, _ = strconv.ParseInt(cells[5], 10, 64)
		}
		out = append(out, e)
	}
	return out
}

func parseLimitRows(values [][]any) map[models.Category]decimal.Decimal {
	limits := make(map[models.Category]decimal.Decimal)
	for _, row := range values {
		cells := toStrings(row)
		if len(cells) < 2 || cells[0] == "" {
			continue
		}
		amount, ok := parseAmountCell(cells[1])
		if !ok {
			continue
		}
		limits[models.Category(models.NormalizeCategory(cells[0]))] = amount
	}
	return limits
}

// findLimitRow returns the zero-based row index holding category, or -1.
func findLimitRow(values [][]any, category models.Category) int {
	for i, row := range values {
		cells := toStrings(row)
		if len(cells) > 0 && models.Category(models.NormalizeCategory(cells[0])) == category {
			return i
		}
	}
	return -1
}

// parseAmountCell accepts values typed by hand too: "R$ 1.234,56", "42,5", "42.50".
func parseAmountCell(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if s == "" {
		return decimal.Zero, false
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
