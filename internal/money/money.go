// Package money parses and formats the decimal amounts handled by the bot.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrNotPositive   = errors.New("amount must be greater than zero")
	ErrNegative      = errors.New("amount must not be negative")
)

// Parser turns user input into amounts rounded to cents.
type Parser struct {
	// AcceptComma allows "150,50" as well as "150.50".
	AcceptComma bool
}

// Amount parses a strictly positive expense amount.
func (p Parser) Amount(s string) (decimal.Decimal, error) {
	d, err := p.parse(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrNotPositive
	}
	return d, nil
}

// Limit parses a non-negative spending limit.
func (p Parser) Limit(s string) (decimal.Decimal, error) {
	d, err := p.parse(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegative
	}
	return d, nil
}

func (p Parser) parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	if p.AcceptComma {
		s = strings.ReplaceAll(s, ",", ".")
	}
	// decimal accepts exponents; user input never needs them
	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d.Round(2), nil
}

// Format renders an amount as "R$ 1234.50".
func Format(d decimal.Decimal) string {
	return "R$ " + d.StringFixed(2)
}

// Sum adds up the given amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
