package catalog

import (
	"sort"
	"strings"
)

// Filter returns the products matching every criterion, in their original order.
// The input slice is never modified.
func Filter(products []Product, c FilterCriteria) []Product {
	q := strings.ToLower(strings.TrimSpace(c.Query))
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if matches(p, c, q) {
			out = append(out, p)
		}
	}
	return out
}

// matches checks a single product; q is the normalised query.
func matches(p Product, c FilterCriteria, q string) bool {
	if q != "" &&
		!strings.Contains(strings.ToLower(p.Name), q) &&
		!strings.Contains(strings.ToLower(p.Category), q) {
		return false
	}
	if c.Category != AllCategories && p.Category != c.Category {
		return false
	}
	if c.InStockOnly && p.Stock <= 0 {
		return false
	}
	return p.Price >= c.PriceMin && c.PriceMax.allows(p.Price)
}

// Categories returns the distinct non-empty categories of products, sorted.
func Categories(products []Product) []string {
	seen := make(map[string]struct{}, len(products))
	out := make([]string, 0)
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}
