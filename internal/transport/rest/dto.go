package rest

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abgdnv/storefront/internal/catalog"
)

// CatalogView summarises the catalog state.
type CatalogView struct {
	Loading      bool                   `json:"loading"`
	Error        *string                `json:"error"`
	Filters      catalog.FilterCriteria `json:"filters"`
	ProductCount int                    `json:"productCount"`
	ItemCount    int                    `json:"itemCount"`
	Total        float64                `json:"total"`
}

// CartView lists the cart entries ordered by product id.
type CartView struct {
	Items     []catalog.CartEntry `json:"items"`
	ItemCount int                 `json:"itemCount"`
	Total     float64             `json:"total"`
}

// FilterPatchDto is a partial filter update. Absent fields are left untouched;
// "priceMax": null removes the upper bound.
type FilterPatchDto struct {
	Query       *string         `json:"query"`
	Category    *string         `json:"category"`
	InStockOnly *bool           `json:"inStockOnly"`
	PriceMin    *float64        `json:"priceMin" validate:"omitempty,gte=0"`
	PriceMax    json.RawMessage `json:"priceMax"`
}

var errNegativePriceMax = errors.New("priceMax must be a non-negative number or null")

// toPatch converts the DTO into a catalog.FilterPatch.
func (d FilterPatchDto) toPatch() (catalog.FilterPatch, error) {
	patch := catalog.FilterPatch{
		Query:       d.Query,
		Category:    d.Category,
		InStockOnly: d.InStockOnly,
		PriceMin:    d.PriceMin,
	}
	if len(d.PriceMax) == 0 {
		return patch, nil
	}
	var limit catalog.Limit
	if err := json.Unmarshal(d.PriceMax, &limit); err != nil {
		return patch, fmt.Errorf("invalid priceMax: %w", err)
	}
	if v, bounded := limit.Value(); bounded && v < 0 {
		return patch, errNegativePriceMax
	}
	patch.PriceMax = &limit
	return patch, nil
}

// AddItemDto adds a product to the cart; a missing qty means one unit.
type AddItemDto struct {
	ProductID string `json:"productId" validate:"required"`
	Qty       *int   `json:"qty" validate:"omitempty,gte=1"`
}

// SetQtyDto sets the quantity of a cart entry. Out-of-range values are clamped.
type SetQtyDto struct {
	Qty *int `json:"qty" validate:"required"`
}
