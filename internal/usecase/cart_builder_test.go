package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCarts(t *testing.T) {
	terms := []string{"aceite 1.5l", "yerba", "arroz", "caviar importado"}
	stores := []string{"Disco", "Jumbo", "Carrefour"}
	matches := storeMatches{
		"Disco":     {"aceite 1.5l": matchAt(2250), "yerba": matchAt(3000), "arroz": matchAt(1200)},
		"Jumbo":     {"aceite 1.5l": matchAt(2100), "yerba": matchAt(3000.004)},
		"Carrefour": {},
	}

	agg := aggregateMatches(terms, stores, matches)
	carts := buildCarts(terms, stores, matches, agg, defaultCheapestTolerance)

	require.Len(t, carts, 2, "store without matches must be dropped")
	disco, jumbo := carts[0], carts[1]
	assert.Equal(t, "Disco", disco.StoreName)
	assert.Equal(t, "Jumbo", jumbo.StoreName)

	t.Run("items follow term order", func(t *testing.T) {
		require.Len(t, disco.Items, 3)
		assert.Equal(t, "aceite 1.5l", disco.Items[0].SearchTerm)
		assert.Equal(t, "yerba", disco.Items[1].SearchTerm)
		assert.Equal(t, "arroz", disco.Items[2].SearchTerm)
	})

	t.Run("cheapest flags with tolerance", func(t *testing.T) {
		assert.False(t, disco.Items[0].IsCheapest)
		assert.True(t, jumbo.Items[0].IsCheapest)

		// 3000 vs 3000.004 are both the cheapest within tolerance
		assert.True(t, disco.Items[1].IsCheapest)
		assert.True(t, jumbo.Items[1].IsCheapest)

		// only Disco sells arroz
		assert.True(t, disco.Items[2].IsCheapest)

		assert.Equal(t, 2, disco.CheapestCount)
		assert.Equal(t, 2, jumbo.CheapestCount)
	})

	t.Run("average price gating", func(t *testing.T) {
		require.NotNil(t, disco.Items[0].AveragePrice)
		require.NotNil(t, jumbo.Items[0].AveragePrice)
		assert.Equal(t, 2175.0, *disco.Items[0].AveragePrice)
		assert.Equal(t, 2175.0, *jumbo.Items[0].AveragePrice)

		assert.Nil(t, disco.Items[2].AveragePrice)
	})

	t.Run("totals", func(t *testing.T) {
		assert.Equal(t, 6450.0, disco.TotalPrice)
		assert.Equal(t, 5100.0, jumbo.TotalPrice)
	})

	t.Run("missing terms exclude globally not found", func(t *testing.T) {
		assert.Empty(t, disco.MissingTerms)
		assert.Equal(t, []string{"arroz"}, jumbo.MissingTerms)
		assert.NotContains(t, jumbo.MissingTerms, "caviar importado")
	})

	t.Run("total searched excludes not found", func(t *testing.T) {
		assert.Equal(t, 3, disco.TotalSearched)
		assert.Equal(t, 3, jumbo.TotalSearched)
	})
}

func TestBuildCarts_NoStores(t *testing.T) {
	agg := aggregateMatches([]string{"a"}, nil, storeMatches{})
	carts := buildCarts([]string{"a"}, nil, storeMatches{}, agg, defaultCheapestTolerance)

	assert.NotNil(t, carts)
	assert.Empty(t, carts)
}

func TestBuildCarts_HigherPriceNeverCheapest(t *testing.T) {
	terms := []string{"leche"}
	stores := []string{"A", "B"}
	matches := storeMatches{
		"A": {"leche": matchAt(1000)},
		"B": {"leche": matchAt(1000.02)},
	}

	agg := aggregateMatches(terms, stores, matches)
	carts := buildCarts(terms, stores, matches, agg, defaultCheapestTolerance)

	require.Len(t, carts, 2)
	assert.True(t, carts[0].Items[0].IsCheapest)
	assert.False(t, carts[1].Items[0].IsCheapest)
}

func TestWithinTolerance_Boundary(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		min   float64
		want  bool
	}{
		{"equal", 100, 100, true},
		{"below one cent", 100.009, 100, true},
		{"exactly one cent", 100.01, 100, false},
		{"above one cent", 100.02, 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, withinTolerance(tt.price, tt.min, defaultCheapestTolerance))
		})
	}
}
