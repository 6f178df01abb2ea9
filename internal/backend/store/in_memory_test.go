package store

import (
	"context"
	"sync"
	"testing"

	"github.com/abgdnv/storefront/internal/backend/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_InMemory_FindAllKeepsOrder(t *testing.T) {
	// given
	s := NewInMemoryStore(SeedProducts())

	// when
	products, err := s.FindAll(context.Background())

	// then
	require.NoError(t, err)
	require.Len(t, products, 12)
	assert.Equal(t, "p1", products[0].ID)
	assert.Equal(t, "p10", products[9].ID)
	assert.Equal(t, "Lamp", products[11].Name)
}

func Test_InMemory_Stock(t *testing.T) {
	// given
	s := NewInMemoryStore(SeedProducts()[:2])

	// when
	levels, err := s.Stock(context.Background())

	// then
	require.NoError(t, err)
	assert.Equal(t, []StockLevel{{ID: "p1", Stock: 5}, {ID: "p2", Stock: 3}}, levels)
}

func Test_InMemory_UpdateStock(t *testing.T) {
	testCases := []struct {
		name          string
		id            string
		stock         int
		expectedError error
	}{
		{name: "Success - existing product", id: "p1", stock: 1},
		{name: "Success - sold out", id: "p2", stock: 0},
		{name: "Error - unknown product", id: "p99", stock: 1, expectedError: errors.ErrProductNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			s := NewInMemoryStore(SeedProducts())

			// when
			updated, err := s.UpdateStock(context.Background(), tc.id, tc.stock)

			// then
			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.stock, updated.Stock)
			levels, _ := s.Stock(context.Background())
			for _, l := range levels {
				if l.ID == tc.id {
					assert.Equal(t, tc.stock, l.Stock)
				}
			}
		})
	}
}

func Test_InMemory_ConcurrentAccess(t *testing.T) {
	// given
	s := NewInMemoryStore(SeedProducts())
	var wg sync.WaitGroup

	// when
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.UpdateStock(context.Background(), "p1", i)
		}()
		go func() {
			defer wg.Done()
			_, _ = s.FindAll(context.Background())
		}()
	}
	wg.Wait()

	// then
	products, err := s.FindAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 12)
}
