package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// demoProducts mirrors the demo data source seed.
var demoProducts = []Product{
	{ID: "p1", Name: "Laptop", Price: 1200, Category: "Electronics", Stock: 5},
	{ID: "p2", Name: "Desk Chair", Price: 150, Category: "Furniture", Stock: 3},
	{ID: "p3", Name: "Phone", Price: 900, Category: "Electronics", Stock: 0},
	{ID: "p4", Name: "Purse", Price: 200, Category: "Apparel", Stock: 5},
	{ID: "p8", Name: "Speaker", Price: 80, Category: "Electronics", Stock: 4},
	{ID: "p12", Name: "Lamp", Price: 40, Category: "Furniture", Stock: 5},
}

func ids(products []Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func Test_Filter(t *testing.T) {
	testCases := []struct {
		name     string
		criteria FilterCriteria
		expected []string
	}{
		{
			name:     "default criteria match everything",
			criteria: DefaultFilters(),
			expected: []string{"p1", "p2", "p3", "p4", "p8", "p12"},
		},
		{
			name:     "category keeps source order",
			criteria: FilterCriteria{Category: "Electronics", PriceMax: Unbounded()},
			expected: []string{"p1", "p3", "p8"},
		},
		{
			name:     "query matches name case-insensitively",
			criteria: FilterCriteria{Query: "  DESK ", Category: AllCategories},
			expected: []string{"p2"},
		},
		{
			name:     "query matches category",
			criteria: FilterCriteria{Query: "furn", Category: AllCategories},
			expected: []string{"p2", "p12"},
		},
		{
			name:     "in stock only",
			criteria: FilterCriteria{Category: "Electronics", InStockOnly: true},
			expected: []string{"p1", "p8"},
		},
		{
			name:     "price range is inclusive",
			criteria: FilterCriteria{Category: AllCategories, PriceMin: 150, PriceMax: Max(200)},
			expected: []string{"p2", "p4"},
		},
		{
			name:     "inverted price range matches nothing",
			criteria: FilterCriteria{Category: AllCategories, PriceMin: 500, PriceMax: Max(100)},
			expected: []string{},
		},
		{
			name:     "unknown category matches nothing",
			criteria: FilterCriteria{Category: "Garden"},
			expected: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			got := Filter(demoProducts, tc.criteria)
			// then
			assert.Equal(t, tc.expected, ids(got))
		})
	}
}

func Test_Filter_Idempotent(t *testing.T) {
	criteria := []FilterCriteria{
		DefaultFilters(),
		{Query: "e", Category: AllCategories, InStockOnly: true, PriceMin: 50, PriceMax: Max(1000)},
		{Category: "Furniture"},
	}
	for _, c := range criteria {
		// given
		once := Filter(demoProducts, c)
		// when
		twice := Filter(once, c)
		// then
		assert.Equal(t, once, twice)
	}
}

func Test_Filter_AfterSetFiltersScenario(t *testing.T) {
	// given
	category := "Electronics"
	s := Reduce(NewState(), FetchOK{Products: demoProducts})
	// when
	s = Reduce(s, SetFilters{Patch: FilterPatch{Category: &category}})
	got := Filter(s.Products, s.Filters)
	// then
	assert.Equal(t, []string{"p1", "p3", "p8"}, ids(got))
}

func Test_Filter_DoesNotModifyInput(t *testing.T) {
	// given
	input := append([]Product(nil), demoProducts...)
	// when
	_ = Filter(input, FilterCriteria{Category: "Apparel"})
	// then
	assert.Equal(t, demoProducts, input)
}

func Test_Categories(t *testing.T) {
	// given
	products := append([]Product{{ID: "x", Name: "Mystery"}}, demoProducts...)
	// when
	got := Categories(products)
	// then
	assert.Equal(t, []string{"Apparel", "Electronics", "Furniture"}, got)
	assert.Empty(t, Categories(nil))
}

func Test_Limit_JSON(t *testing.T) {
	var l Limit
	assert.NoError(t, l.UnmarshalJSON([]byte("250")))
	v, bounded := l.Value()
	assert.True(t, bounded)
	assert.Equal(t, 250.0, v)

	assert.NoError(t, l.UnmarshalJSON([]byte("null")))
	_, bounded = l.Value()
	assert.False(t, bounded)

	assert.Error(t, l.UnmarshalJSON([]byte(`"cheap"`)))

	out, err := Unbounded().MarshalJSON()
	assert.NoError(t, err)
	assert.Equal(t, "null", string(out))
}
