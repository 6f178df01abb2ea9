// Package catalog holds the storefront state engine: the catalog and cart model,
// the filter evaluator, the cart ledger and the reducer that drives every transition.
//
// Everything in this package is pure. Functions never mutate their inputs and never fail.
package catalog

import (
	"encoding/json"
	"fmt"
)

// AllCategories is the category sentinel that disables category filtering.
const AllCategories = "all"

// Product is a catalog item as served by the data source.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Stock    int     `json:"stock"`
}

// withStock returns a copy of the product with the stock replaced.
func (p Product) withStock(stock int) Product {
	p.Stock = stock
	return p
}

// Limit is an optional upper price bound. The zero value is unbounded.
type Limit struct {
	value   float64
	bounded bool
}

// Unbounded returns a limit that accepts any price.
func Unbounded() Limit {
	return Limit{}
}

// Max returns a limit bounded at v (inclusive).
func Max(v float64) Limit {
	return Limit{value: v, bounded: true}
}

// Value returns the bound and whether the limit is bounded at all.
func (l Limit) Value() (float64, bool) {
	return l.value, l.bounded
}

// allows reports whether price is within the limit.
func (l Limit) allows(price float64) bool {
	return !l.bounded || price <= l.value
}

// MarshalJSON encodes an unbounded limit as null.
func (l Limit) MarshalJSON() ([]byte, error) {
	if !l.bounded {
		return []byte("null"), nil
	}
	return json.Marshal(l.value)
}

// UnmarshalJSON decodes null as unbounded and a number as a bound.
func (l *Limit) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = Unbounded()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("price limit must be a number or null: %w", err)
	}
	*l = Max(v)
	return nil
}

func (l Limit) String() string {
	if !l.bounded {
		return "unbounded"
	}
	return fmt.Sprintf("%g", l.value)
}

// FilterCriteria narrows the product list shown to consumers.
// PriceMin > PriceMax is allowed and simply matches nothing.
type FilterCriteria struct {
	Query       string  `json:"query"`
	Category    string  `json:"category"`
	InStockOnly bool    `json:"inStockOnly"`
	PriceMin    float64 `json:"priceMin"`
	PriceMax    Limit   `json:"priceMax"`
}

// DefaultFilters returns criteria that match every product.
func DefaultFilters() FilterCriteria {
	return FilterCriteria{
		Category: AllCategories,
		PriceMax: Unbounded(),
	}
}

// FilterPatch is a partial update of FilterCriteria. Nil fields are left untouched.
type FilterPatch struct {
	Query       *string
	Category    *string
	InStockOnly *bool
	PriceMin    *float64
	PriceMax    *Limit
}

// apply shallow-merges the patch into c.
func (p FilterPatch) apply(c FilterCriteria) FilterCriteria {
	if p.Query != nil {
		c.Query = *p.Query
	}
	if p.Category != nil {
		c.Category = *p.Category
	}
	if p.InStockOnly != nil {
		c.InStockOnly = *p.InStockOnly
	}
	if p.PriceMin != nil {
		c.PriceMin = *p.PriceMin
	}
	if p.PriceMax != nil {
		c.PriceMax = *p.PriceMax
	}
	return c
}

// CartEntry is a product snapshot with the reserved quantity.
// Qty is always in (0, Product.Stock].
type CartEntry struct {
	Product Product `json:"product"`
	Qty     int     `json:"qty"`
}

// Cart maps product id to its entry.
type Cart map[string]CartEntry

// clone returns a shallow copy of the cart.
func (c Cart) clone() Cart {
	out := make(Cart, len(c))
	for id, e := range c {
		out[id] = e
	}
	return out
}

// State is the canonical catalog/cart state of one session.
//
// States are values: Reduce never mutates the Products slice or the Cart map of a
// state it was given, so a State obtained from the store stays valid after later
// transitions. Callers must treat both as read-only.
type State struct {
	Products []Product      `json:"products"`
	Loading  bool           `json:"loading"`
	Error    string         `json:"error,omitempty"`
	Filters  FilterCriteria `json:"filters"`
	Cart     Cart           `json:"cart"`
}

// NewState returns the initial state of a session.
func NewState() State {
	return State{
		Products: []Product{},
		Filters:  DefaultFilters(),
		Cart:     Cart{},
	}
}
