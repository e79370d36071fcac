package usecase

import (
	"github.com/cartcompare/backend/internal/domain"
	"github.com/shopspring/decimal"
)

// defaultCheapestTolerance absorbs float noise when comparing a price to the term minimum
const defaultCheapestTolerance = 0.01

// withinTolerance reports |price-minPrice| < tolerance, computed on the decimal
// forms of the prices so a gap of exactly one tolerance is never cheapest.
func withinTolerance(price, minPrice, tolerance float64) bool {
	diff := decimal.NewFromFloat(price).Sub(decimal.NewFromFloat(minPrice)).Abs()
	return diff.LessThan(decimal.NewFromFloat(tolerance))
}

// buildCarts assembles one cart per store that matched at least one term.
// Items follow the original term order; carts follow storeOrder.
func buildCarts(terms, storeOrder []string, matches storeMatches, agg aggregation, tolerance float64) []domain.StoreCart {
	carts := make([]domain.StoreCart, 0, len(storeOrder))

	for _, store := range storeOrder {
		byTerm := matches[store]
		if len(byTerm) == 0 {
			continue
		}

		cart := domain.StoreCart{
			StoreName:     store,
			Items:         make([]domain.CartLineItem, 0, len(byTerm)),
			MissingTerms:  []string{},
			TotalSearched: len(agg.searchable),
		}
		total := decimal.Zero

		for _, term := range terms {
			match, ok := byTerm[term]
			if !ok || match == nil {
				continue
			}
			stats := agg.stats[term]

			item := domain.CartLineItem{
				SearchTerm:   term,
				Name:         match.Product.Name,
				Price:        match.Product.Price,
				ListPrice:    match.Product.ListPrice,
				ImageURL:     match.Product.ImageURL,
				Link:         match.Product.Link,
				UnitInfo:     match.UnitInfo,
				Alternatives: match.Alternatives,
				IsCheapest:   withinTolerance(match.Product.Price, stats.minPrice, tolerance),
				AveragePrice: stats.averagePrice,
			}
			if item.IsCheapest {
				cart.CheapestCount++
			}
			total = total.Add(decimal.NewFromFloat(item.Price))
			cart.Items = append(cart.Items, item)
		}

		if len(cart.Items) == 0 {
			continue
		}

		for _, term := range agg.searchable {
			if _, ok := byTerm[term]; !ok {
				cart.MissingTerms = append(cart.MissingTerms, term)
			}
		}

		cart.TotalPrice = total.Round(2).InexactFloat64()
		carts = append(carts, cart)
	}

	return carts
}
