package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParserAmount(t *testing.T) {
	p := Parser{AcceptComma: true}
	cases := []struct {
		in  string
		out string
		err error
	}{
		{"150.50", "150.5", nil},
		{"150,50", "150.5", nil},
		{" 42 ", "42", nil},
		{"R$ 10,00", "10", nil},
		{"0.005", "0.01", nil},
		{"0", "", ErrNotPositive},
		{"0.001", "", ErrNotPositive},
		{"-5", "", ErrNotPositive},
		{"abc", "", ErrInvalidAmount},
		{"", "", ErrInvalidAmount},
		{"1e3", "", ErrInvalidAmount},
		{"1.234,56", "", ErrInvalidAmount},
	}
	for _, tc := range cases {
		got, err := p.Amount(tc.in)
		if tc.err != nil {
			assert.ErrorIs(t, err, tc.err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.True(t, decimal.RequireFromString(tc.out).Equal(got), "%q -> %s", tc.in, got)
	}
}

func TestParserWithoutComma(t *testing.T) {
	p := Parser{}
	_, err := p.Amount("150,50")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	got, err := p.Amount("150.50")
	require.NoError(t, err)
	assert.Equal(t, "150.50", got.StringFixed(2))
}

func TestParserLimit(t *testing.T) {
	p := Parser{AcceptComma: true}

	got, err := p.Limit("0")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	got, err = p.Limit("100,00")
	require.NoError(t, err)
	assert.Equal(t, "100.00", got.StringFixed(2))

	_, err = p.Limit("-1")
	assert.ErrorIs(t, err, ErrNegative)
}

func TestFormatAndSum(t *testing.T) {
	total := Sum(decimal.RequireFromString("10.10"), decimal.RequireFromString("0.2"))
	assert.Equal(t, "R$ 10.30", Format(total))
	assert.Equal(t, "R$ 0.00", Format(Sum()))
	assert.Equal(t, "R$ -5.00", Format(decimal.NewFromInt(-5)))
}
