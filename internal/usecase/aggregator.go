package usecase

import (
	"github.com/cartcompare/backend/internal/domain"
	"github.com/shopspring/decimal"
)

// storeMatches maps store name -> search term -> selected match.
// A missing entry means the store had no match for that term.
type storeMatches map[string]map[string]*domain.TermMatch

// termStats holds the cross-store figures for one matched term
type termStats struct {
	minPrice     float64
	averagePrice *float64 // nil unless at least two stores matched
	matchedBy    int
}

// aggregation is the cross-store view of a comparison
type aggregation struct {
	stats      map[string]termStats
	notFound   []string
	searchable []string
}

// aggregateMatches computes the minimum and average price per term and splits
// the terms into searchable and not found. Stores are visited in storeOrder so
// the result does not depend on map iteration.
func aggregateMatches(terms, storeOrder []string, matches storeMatches) aggregation {
	agg := aggregation{
		stats:      make(map[string]termStats, len(terms)),
		notFound:   []string{},
		searchable: make([]string, 0, len(terms)),
	}

	for _, term := range terms {
		var (
			stats termStats
			sum   = decimal.Zero
		)
		for _, store := range storeOrder {
			match, ok := matches[store][term]
			if !ok || match == nil {
				continue
			}
			price := match.Product.Price
			if stats.matchedBy == 0 || price < stats.minPrice {
				stats.minPrice = price
			}
			sum = sum.Add(decimal.NewFromFloat(price))
			stats.matchedBy++
		}

		if stats.matchedBy == 0 {
			agg.notFound = append(agg.notFound, term)
			continue
		}

		if stats.matchedBy >= 2 {
			avg := sum.Div(decimal.NewFromInt(int64(stats.matchedBy))).InexactFloat64()
			stats.averagePrice = &avg
		}

		agg.stats[term] = stats
		agg.searchable = append(agg.searchable, term)
	}

	return agg
}
