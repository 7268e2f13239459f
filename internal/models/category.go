package models

import "strings"

// Category is the canonical (upper-case) name of an expense category.
type Category string

// CategoryInfo pairs a category with the glyph shown next to it.
type CategoryInfo struct {
	Name  Category `json:"name"`
	Glyph string   `json:"glyph"`
}

// Label renders "NAME glyph".
func (c CategoryInfo) Label() string {
	return string(c.Name) + " " + c.Glyph
}

// Registry is the fixed, ordered set of categories an expense may belong to.
type Registry struct {
	items []CategoryInfo
	index map[Category]int
}

// NewRegistry builds a registry keeping the given order. Names are normalized
// to upper case; later duplicates are ignored.
func NewRegistry(items ...CategoryInfo) *Registry {
	r := &Registry{index: make(map[Category]int, len(items))}
	for _, it := range items {
		it.Name = Category(NormalizeCategory(string(it.Name)))
		if it.Name == "" {
			continue
		}
		if _, ok := r.index[it.Name]; ok {
			continue
		}
		r.index[it.Name] = len(r.items)
		r.items = append(r.items, it)
	}
	return r
}

// DefaultRegistry returns the eight categories the bot ships with.
func DefaultRegistry() *Registry {
	return NewRegistry(
		CategoryInfo{Name: "COMUNICAÇÃO", Glyph: "📞"},
		CategoryInfo{Name: "MERCADO", Glyph: "🛒"},
		CategoryInfo{Name: "BELEZA", Glyph: "💅"},
		CategoryInfo{Name: "COMBUSTÍVEL", Glyph: "⛽"},
		CategoryInfo{Name: "CELULA", Glyph: "📱"},
		CategoryInfo{Name: "LAZER", Glyph: "🎮"},
		CategoryInfo{Name: "DOCUMENTAÇÃO CARRO", Glyph: "🚗"},
		CategoryInfo{Name: "IMPREVISTO", Glyph: "⚠️"},
	)
}

// NormalizeCategory trims the input, collapses inner whitespace and upper-cases it.
func NormalizeCategory(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

// Lookup resolves free user input to a registered category.
func (r *Registry) Lookup(input string) (CategoryInfo, bool) {
	i, ok := r.index[Category(NormalizeCategory(input))]
	if !ok {
		return CategoryInfo{}, false
	}
	return r.items[i], true
}

// Contains reports whether c is a registered canonical name.
func (r *Registry) Contains(c Category) bool {
	_, ok := r.index[c]
	return ok
}

// All returns the categories in enumeration order.
func (r *Registry) All() []CategoryInfo {
	return append([]CategoryInfo(nil), r.items...)
}

// Names returns the canonical names in enumeration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.items))
	for i, it := range r.items {
		names[i] = string(it.Name)
	}
	return names
}

func (r *Registry) Len() int {
	return len(r.items)
}
