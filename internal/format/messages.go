// Package format renders bot replies.
package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hray3182/julius/internal/ai"
	"github.com/hray3182/julius/internal/ledger"
	"github.com/hray3182/julius/internal/models"
	"github.com/hray3182/julius/internal/money"
)

const (
	PromptDescription = "📝 Digite a descrição do gasto:"
	PromptAmount      = "💵 Digite o valor (ex: 150.50):"
	PromptCategory    = "🏷️ Selecione a categoria:"
	InvalidAmount     = "❌ Valor inválido! Digite novamente:"
	InvalidCategory   = "❌ Categoria inválida! Selecione:"
	Cancelled         = "❌ Operação cancelada com sucesso!"
	NothingToCancel   = "Nenhuma operação em andamento."

	UsageLimit   = "Formato: /limite [categoria] [valor]\nExemplo: /limite MERCADO 800"
	UsageBalance = "Formato: /saldo [categoria]\nExemplo: /saldo MERCADO"
	QuickHint    = "Não entendi. Use /novogasto ou envie: descrição - valor - categoria"
	UnknownCmd   = "Comando desconhecido. Use /ajuda para ver os comandos."

	DraftExpired   = "⏰ Confirmação expirada"
	DraftCancelled = "❌ Gasto descartado"
	NotYourDraft   = "Esta operação não é sua"
)

const dateLayout = "02/01 15:04"

// Welcome lists the available commands.
func Welcome(name string) string {
	var b strings.Builder
	b.WriteString("💰 **Bem-vindo ao Gestor de Gastos!** 💰\n\n")
	if name != "" {
		fmt.Fprintf(&b, "Olá, %s!\n\n", Escape(name))
	}
	b.WriteString("📌 **Comandos disponíveis:**\n")
	b.WriteString("/novogasto - Registrar novo gasto\n")
	b.WriteString("/limite [categoria] [valor] - Definir limite\n")
	b.WriteString("/saldo [categoria] - Ver saldo\n")
	b.WriteString("/relatorio - Gerar relatório\n")
	b.WriteString("/categorias - Listar categorias\n")
	b.WriteString("/gastos [categoria] - Últimos gastos\n")
	b.WriteString("/cancelar - Cancelar operação\n\n")
	b.WriteString("⚡ Registro rápido: `Almoço - 42.00 - MERCADO`")
	return b.String()
}

// ProgressBar renders ten segments followed by the rounded percentage,
// e.g. "▓▓▓░░░░░░░ 36%".
func ProgressBar(percent decimal.Decimal) string {
	filled := percent.Div(decimal.NewFromInt(10)).Floor().IntPart()
	if filled < 0 {
		filled = 0
	}
	if filled > 10 {
		filled = 10
	}
	return strings.Repeat("▓", int(filled)) + strings.Repeat("░", 10-int(filled)) +
		" " + percent.Round(0).String() + "%"
}

func Receipt(r *ledger.Receipt) string {
	var b strings.Builder
	b.WriteString("✅ **Gasto registrado!**\n\n")
	fmt.Fprintf(&b, "📝 %s\n", Escape(r.Expense.Description))
	fmt.Fprintf(&b, "💵 %s\n", money.Format(r.Expense.Amount))
	fmt.Fprintf(&b, "🏷️ %s\n", r.Category.Label())
	fmt.Fprintf(&b, "💰 Saldo: %s / %s\n", money.Format(r.Balance.Remaining), r.Balance.Limit.StringFixed(2))
	if r.Balance.Limit.IsPositive() {
		fmt.Fprintf(&b, "📈 %s", ProgressBar(r.Balance.Percent))
	}
	return b.String()
}

func LimitSet(cat models.CategoryInfo, amount decimal.Decimal) string {
	return fmt.Sprintf("✅ Limite de %s definido para %s", cat.Name, money.Format(amount))
}

func Balance(bal *ledger.Balance) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 **Saldo %s** %s\n\n", bal.Category.Name, bal.Category.Glyph)
	fmt.Fprintf(&b, "🏦 Limite: %s\n", money.Format(bal.Limit))
	fmt.Fprintf(&b, "💸 Gasto: %s\n", money.Format(bal.Spent))
	fmt.Fprintf(&b, "💎 Saldo: %s\n", money.Format(bal.Remaining))
	fmt.Fprintf(&b, "📈 %s\n", ProgressBar(bal.Percent))
	fmt.Fprintf(&b, "📆 Atualizado em: %s", bal.At.Format(dateLayout))
	return b.String()
}

func Report(rep *ledger.Report) string {
	var b strings.Builder
	b.WriteString("📊 **Relatório Completo**\n\n")
	for _, c := range rep.Categories {
		fmt.Fprintf(&b, "%s **%s**\n", c.Category.Glyph, c.Category.Name)
		fmt.Fprintf(&b, "▫️ Gasto: %s\n", money.Format(c.Spent))
		fmt.Fprintf(&b, "▫️ Limite: %s\n", money.Format(c.Limit))
		fmt.Fprintf(&b, "▫️ Saldo: %s\n", money.Format(c.Remaining))
		if c.Limit.IsPositive() {
			fmt.Fprintf(&b, "▫️ %s\n", ProgressBar(c.Percent))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "💵 **Total Gasto:** %s\n", money.Format(rep.TotalSpent))
	fmt.Fprintf(&b, "🏦 **Total Limite:** %s\n", money.Format(rep.TotalLimit))
	fmt.Fprintf(&b, "💎 **Saldo Total:** %s", money.Format(rep.TotalRemaining))
	return b.String()
}

func Categories(reg *models.Registry) string {
	var b strings.Builder
	b.WriteString("🏷️ **Categorias Disponíveis:**\n\n")
	for _, c := range reg.All() {
		fmt.Fprintf(&b, "%s %s\n", c.Glyph, c.Name)
	}
	b.WriteString("\nUse /limite para definir valores")
	return b.String()
}

// Recent lists expenses in the order given.
func Recent(reg *models.Registry, records []models.Expense) string {
	if len(records) == 0 {
		return "📭 Nenhum gasto registrado."
	}
	var b strings.Builder
	b.WriteString("🧾 **Últimos gastos**\n\n")
	for _, e := range records {
		glyph := "•"
		if c, ok := reg.Lookup(string(e.Category)); ok {
			glyph = c.Glyph
		}
		fmt.Fprintf(&b, "%s %s %s - %s (%s)\n",
			glyph, e.CreatedAt.Format(dateLayout), Escape(e.Description), money.Format(e.Amount), e.Category)
	}
	return b.String()
}

// Draft asks the user to confirm an expense extracted from free text.
func Draft(d *ai.Draft) string {
	var b strings.Builder
	b.WriteString("🤖 **Confirma este gasto?**\n\n")
	fmt.Fprintf(&b, "📝 %s\n", Escape(d.Description))
	fmt.Fprintf(&b, "💵 %s\n", money.Format(d.Amount))
	fmt.Fprintf(&b, "🏷️ %s", d.Category)
	return b.String()
}

// ErrorText picks the user facing message for err by its kind.
func ErrorText(err error) string {
	switch {
	case err == nil:
		return ""
	case ledger.IsPersistence(err):
		return "🔥 Erro ao acessar o banco de dados. Tente novamente mais tarde."
	case errors.Is(err, ledger.ErrUnknownCategory):
		return "❌ Categoria inválida! Use /categorias para ver as opções."
	case errors.Is(err, ledger.ErrMalformedEntry):
		return "❌ Formato inválido! Use: descrição - valor - categoria"
	case errors.Is(err, ledger.ErrEmptyDescription):
		return "❌ A descrição não pode ficar vazia."
	case errors.Is(err, money.ErrNegative):
		return "❌ O limite não pode ser negativo."
	case errors.Is(err, money.ErrInvalidAmount), errors.Is(err, money.ErrNotPositive):
		return "❌ Valor inválido!"
	default:
		return "❌ Algo deu errado. Tente novamente."
	}
}
