package store

import (
	"context"
	"sync"

	"github.com/abgdnv/storefront/internal/backend/errors"
	"github.com/abgdnv/storefront/internal/catalog"
)

// inMemory implements ProductStore using an in-memory map. Catalog order is insertion order.
type inMemory struct {
	mu       sync.RWMutex
	products map[string]catalog.Product
	order    []string
}

// NewInMemoryStore creates a store holding products.
func NewInMemoryStore(products []catalog.Product) ProductStore {
	s := &inMemory{
		products: make(map[string]catalog.Product, len(products)),
		order:    make([]string, 0, len(products)),
	}
	for _, p := range products {
		if _, dup := s.products[p.ID]; !dup {
			s.order = append(s.order, p.ID)
		}
		s.products[p.ID] = p
	}
	return s
}

// FindAll retrieves all products.
func (s *inMemory) FindAll(_ context.Context) ([]catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]catalog.Product, 0, len(s.order))
	for _, id := range s.order {
		list = append(list, s.products[id])
	}
	return list, nil
}

// Stock retrieves the stock level of every product.
func (s *inMemory) Stock(_ context.Context) ([]StockLevel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	levels := make([]StockLevel, 0, len(s.order))
	for _, id := range s.order {
		levels = append(levels, StockLevel{ID: id, Stock: s.products[id].Stock})
	}
	return levels, nil
}

// UpdateStock sets the stock of a product.
func (s *inMemory) UpdateStock(_ context.Context, id string, stock int) (*catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, errors.ErrProductNotFound
	}
	p.Stock = stock
	s.products[id] = p
	return &p, nil
}
