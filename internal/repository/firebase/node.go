package firebase

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hray3182/julius/internal/models"
)

type expenseNode struct {
	Descricao string  `json:"descricao"`
	Valor     float64 `json:"valor"`
	Categoria string  `json:"categoria"`
	Data      string  `json:"data"`
	UserID    int64   `json:"user_id"`
}

// Older records were written with Python's isoformat(), which omits the zone.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

func toNode(e models.Expense) expenseNode {
	return expenseNode{
		Descricao: e.Description,
		Valor:     e.Amount.Round(2).InexactFloat64(),
		Categoria: string(e.Category),
		Data:      e.CreatedAt.Format(time.RFC3339Nano),
		UserID:    e.UserID,
	}
}

func (n expenseNode) toExpense(key string) models.Expense {
	return models.Expense{
		ID:          key,
		UserID:      n.UserID,
		Description: n.Descricao,
		Amount:      fromFloat(n.Valor),
		Category:    models.Category(models.NormalizeCategory(n.Categoria)),
		CreatedAt:   parseTime(n.Data),
	}
}

func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

func fromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
