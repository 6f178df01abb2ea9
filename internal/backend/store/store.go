// Package store keeps the products served by the demo data backend.
package store

import (
	"context"

	"github.com/abgdnv/storefront/internal/catalog"
)

// ProductStore defines the operations of a product store.
type ProductStore interface {
	// FindAll returns every product in catalog order.
	FindAll(ctx context.Context) ([]catalog.Product, error)
	// Stock returns the current stock level of every product.
	Stock(ctx context.Context) ([]StockLevel, error)
	// UpdateStock sets the stock of a product.
	// Returns ErrProductNotFound if the product does not exist.
	UpdateStock(ctx context.Context, id string, stock int) (*catalog.Product, error)
}

// StockLevel is one element of the stock payload.
type StockLevel struct {
	ID    string `json:"id"`
	Stock int    `json:"stock"`
}

// SeedProducts returns the demo catalog.
func SeedProducts() []catalog.Product {
	return []catalog.Product{
		{ID: "p1", Name: "Laptop", Price: 1200, Category: "Electronics", Stock: 5},
		{ID: "p2", Name: "Desk Chair", Price: 150, Category: "Furniture", Stock: 3},
		{ID: "p3", Name: "Phone", Price: 900, Category: "Electronics", Stock: 4},
		{ID: "p4", Name: "Purse", Price: 200, Category: "Apparel", Stock: 5},
		{ID: "p5", Name: "Watch", Price: 150, Category: "Apparel", Stock: 2},
		{ID: "p6", Name: "Couch", Price: 1000, Category: "Furniture", Stock: 3},
		{ID: "p7", Name: "Desk", Price: 100, Category: "Furniture", Stock: 6},
		{ID: "p8", Name: "Speaker", Price: 80, Category: "Electronics", Stock: 4},
		{ID: "p9", Name: "Headphones", Price: 250, Category: "Electronics", Stock: 3},
		{ID: "p10", Name: "Shirt", Price: 25, Category: "Apparel", Stock: 10},
		{ID: "p11", Name: "Pants", Price: 20, Category: "Apparel", Stock: 9},
		{ID: "p12", Name: "Lamp", Price: 40, Category: "Furniture", Stock: 5},
	}
}
