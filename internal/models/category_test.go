package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryOrder(t *testing.T) {
	r := DefaultRegistry()
	require.Equal(t, 8, r.Len())
	assert.Equal(t, []string{
		"COMUNICAÇÃO", "MERCADO", "BELEZA", "COMBUSTÍVEL",
		"CELULA", "LAZER", "DOCUMENTAÇÃO CARRO", "IMPREVISTO",
	}, r.Names())
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	r := DefaultRegistry()

	for _, in := range []string{"mercado", "MERCADO", "  Mercado ", "MeRcAdO"} {
		c, ok := r.Lookup(in)
		require.True(t, ok, in)
		assert.Equal(t, Category("MERCADO"), c.Name)
		assert.Equal(t, "🛒", c.Glyph)
	}

	c, ok := r.Lookup("documentação   carro")
	require.True(t, ok)
	assert.Equal(t, Category("DOCUMENTAÇÃO CARRO"), c.Name)

	c, ok = r.Lookup("combustível")
	require.True(t, ok)
	assert.Equal(t, Category("COMBUSTÍVEL"), c.Name)

	_, ok = r.Lookup("ALUGUEL")
	assert.False(t, ok)
	_, ok = r.Lookup("")
	assert.False(t, ok)
}

func TestRegistriesAreIsolated(t *testing.T) {
	a := NewRegistry(CategoryInfo{Name: "x", Glyph: "1"})
	b := DefaultRegistry()

	assert.True(t, a.Contains("X"))
	assert.False(t, b.Contains("X"))

	all := a.All()
	all[0].Glyph = "changed"
	c, _ := a.Lookup("x")
	assert.Equal(t, "1", c.Glyph)
}

func TestNewRegistrySkipsDuplicates(t *testing.T) {
	r := NewRegistry(
		CategoryInfo{Name: "a", Glyph: "1"},
		CategoryInfo{Name: "A", Glyph: "2"},
		CategoryInfo{Name: " ", Glyph: "3"},
	)
	require.Equal(t, 1, r.Len())
	c, _ := r.Lookup("a")
	assert.Equal(t, "1", c.Glyph)
	assert.Equal(t, "A 1", c.Label())
}
