// Package store provides the single per-session facade over the catalog state.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/abgdnv/storefront/internal/catalog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Store owns the canonical catalog state of one session.
// All transitions go through Dispatch, which applies actions one at a time in call order.
type Store struct {
	mu      sync.Mutex
	state   catalog.State
	version uint64 // bumped when the product list may have changed
	closed  bool
	memo    filterMemo

	subs    map[int]chan struct{}
	nextSub int

	logger     *slog.Logger
	dispatched metric.Int64Counter
}

// filterMemo caches the filtered product list for a (product version, criteria) pair.
type filterMemo struct {
	valid    bool
	version  uint64
	criteria catalog.FilterCriteria
	products []catalog.Product
}

// New creates a store holding the initial state.
func New(logger *slog.Logger) *Store {
	meter := otel.Meter("storefront-store")
	dispatched, err := meter.Int64Counter("storefront_actions_dispatched", metric.WithDescription("Total number of dispatched catalog actions"))
	if err != nil {
		panic(fmt.Sprintf("failed to create storefront_actions_dispatched counter: %v", err))
	}
	return &Store{
		state:      catalog.NewState(),
		subs:       make(map[int]chan struct{}),
		logger:     logger.With("component", "store"),
		dispatched: dispatched,
	}
}

// Dispatch applies a to the current state. Actions dispatched after Close are dropped.
func (s *Store) Dispatch(a catalog.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.logger.Debug("Dropping action on closed store", "kind", a.Kind())
		return
	}
	s.state = catalog.Reduce(s.state, a)
	switch a.Kind() {
	case catalog.KindFetchOK, catalog.KindStockPatch:
		s.version++
	}
	s.dispatched.Add(context.Background(), 1, metric.WithAttributes(attribute.String("kind", string(a.Kind()))))
	s.logger.Debug("Action applied", "kind", a.Kind(), "products", len(s.state.Products), "cart_entries", len(s.state.Cart))
	s.notify()
}

// State returns the current state. The returned value must be treated as read-only.
func (s *Store) State() catalog.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Filtered returns the products matching the current filters.
// The result is recomputed only when the product list or the filters change.
func (s *Store) Filtered() []catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.memo.valid && s.memo.version == s.version && s.memo.criteria == s.state.Filters {
		return s.memo.products
	}
	s.memo = filterMemo{
		valid:    true,
		version:  s.version,
		criteria: s.state.Filters,
		products: catalog.Filter(s.state.Products, s.state.Filters),
	}
	return s.memo.products
}

// Categories returns the distinct categories of the loaded products.
func (s *Store) Categories() []string {
	return catalog.Categories(s.State().Products)
}

// ItemCount returns the number of units in the cart.
func (s *Store) ItemCount() int {
	return catalog.ItemCount(s.State().Cart)
}

// Total returns the cart value.
func (s *Store) Total() float64 {
	return catalog.Total(s.State().Cart)
}

// CartEntries returns the cart entries ordered by product id.
func (s *Store) CartEntries() []catalog.CartEntry {
	return catalog.Entries(s.State().Cart)
}

// SetFilters merges patch into the current filters.
func (s *Store) SetFilters(patch catalog.FilterPatch) {
	s.Dispatch(catalog.SetFilters{Patch: patch})
}

// Add puts qty units of p in the cart; qty 0 means one unit.
func (s *Store) Add(p catalog.Product, qty int) {
	s.Dispatch(catalog.Add{Product: p, Qty: qty})
}

// SetQty sets the quantity of a cart entry.
func (s *Store) SetQty(id string, qty int) {
	s.Dispatch(catalog.SetQty{ID: id, Qty: qty})
}

// Remove drops a cart entry.
func (s *Store) Remove(id string) {
	s.Dispatch(catalog.Remove{ID: id})
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.Dispatch(catalog.Clear{})
}

// Subscribe returns a channel signalled after every applied action, and a function
// that cancels the subscription. Signals coalesce: a slow reader sees one pending
// signal and should re-read State. The channel is closed on unsubscribe or Close.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan struct{}, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if sub, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(sub)
			}
		})
	}
}

// notify signals subscribers without blocking. Caller holds s.mu.
func (s *Store) notify() {
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Close tears the store down: later actions are dropped and subscriptions end.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.logger.Debug("Store closed")
}
