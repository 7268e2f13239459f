package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"
)

// ErrNotExpense is returned when the message does not describe an expense.
var ErrNotExpense = errors.New("message does not describe an expense")

type Client struct {
	client *openai.Client
	model  string
	now    func() time.Time
}

func New(apiKey, baseURL, model string) *Client {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
		now:    time.Now,
	}
}

func (c *Client) Model() string {
	return c.model
}

// Draft is an expense proposed from free text, not yet confirmed by the user.
type Draft struct {
	Description string
	Amount      decimal.Decimal
	Category    string
}

type draftResponse struct {
	IsExpense   bool   `json:"is_expense"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
}

const systemPromptTemplate = `Você é o assistente de um bot de controle de gastos pessoais.
Extraia um único gasto da mensagem do usuário.

Data atual: %s

Categorias permitidas (use exatamente um destes nomes):
%s

Regras:
1. is_expense = false quando a mensagem não descreve um gasto.
2. description: descrição curta do gasto, no idioma do usuário.
3. amount: valor positivo com ponto decimal, sem símbolo de moeda (ex: "42.50").
4. category: a categoria permitida mais adequada. Na dúvida, use IMPREVISTO.`

func (c *Client) systemPrompt(categories []string) string {
	var b strings.Builder
	for _, name := range categories {
		b.WriteString("- ")
		b.WriteString(name)
		b.WriteString("\n")
	}
	return fmt.Sprintf(systemPromptTemplate, c.now().Format("2006-01-02 15:04"), b.String())
}

// JSON Schema for structured output
var draftSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"is_expense": {
			"type": "boolean",
			"description": "Whether the message describes an expense"
		},
		"description": {
			"type": "string",
			"description": "Short description of the expense"
		},
		"amount": {
			"type": "string",
			"description": "Positive amount using a dot as decimal separator"
		},
		"category": {
			"type": "string",
			"description": "One of the allowed category names"
		}
	},
	"required": ["is_expense", "description", "amount", "category"],
	"additionalProperties": false
}`)

// ExtractExpense asks the model to turn text into a Draft restricted to categories.
func (c *Client) ExtractExpense(ctx context.Context, text string, categories []string) (*Draft, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: c.systemPrompt(categories),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "expense_draft",
				Schema: draftSchema,
				Strict: true,
			},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call AI API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from AI")
	}

	return parseDraft(resp.Choices[0].Message.Content)
}

func parseDraft(content string) (*Draft, error) {
	var r draftResponse
	if err := json.Unmarshal([]byte(content), &r); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}
	if !r.IsExpense {
		return nil, ErrNotExpense
	}

	desc := strings.TrimSpace(r.Description)
	if desc == "" {
		return nil, fmt.Errorf("draft without description: %w", ErrNotExpense)
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(r.Amount), ",", "."))
	if err != nil || !amount.IsPositive() {
		return nil, fmt.Errorf("draft amount %q: %w", r.Amount, ErrNotExpense)
	}

	return &Draft{
		Description: desc,
		Amount:      amount.Round(2),
		Category:    strings.ToUpper(strings.TrimSpace(r.Category)),
	}, nil
}
