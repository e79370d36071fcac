package catalog

import (
	"fmt"
	"strings"

	"github.com/cartcompare/backend/internal/domain"
	"github.com/tidwall/gjson"
)

// MapProducts converts a VTEX catalog search response into listings.
// Products without an available, positively priced offer are skipped.
func MapProducts(body []byte, baseURL string) ([]domain.ProductListing, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid JSON response", domain.ErrCatalogFailure)
	}

	result := gjson.ParseBytes(body)
	if !result.IsArray() {
		return nil, fmt.Errorf("%w: expected a product array", domain.ErrCatalogFailure)
	}

	listings := make([]domain.ProductListing, 0, len(result.Array()))
	result.ForEach(func(_, product gjson.Result) bool {
		if listing, ok := mapProduct(product, baseURL); ok {
			listings = append(listings, listing)
		}
		return true
	})

	return listings, nil
}

// mapProduct reads the first item's first available seller offer
func mapProduct(product gjson.Result, baseURL string) (domain.ProductListing, bool) {
	name := strings.TrimSpace(product.Get("productName").String())
	if name == "" {
		return domain.ProductListing{}, false
	}

	item := product.Get("items.0")
	if !item.Exists() {
		return domain.ProductListing{}, false
	}

	var offer gjson.Result
	item.Get("sellers").ForEach(func(_, seller gjson.Result) bool {
		o := seller.Get("commertialOffer")
		if o.Get("Price").Float() > 0 && o.Get("AvailableQuantity").Int() > 0 {
			offer = o
			return false
		}
		return true
	})
	if !offer.Exists() {
		return domain.ProductListing{}, false
	}

	listing := domain.ProductListing{
		Name:     name,
		Price:    offer.Get("Price").Float(),
		ImageURL: item.Get("images.0.imageUrl").String(),
		Link:     productLink(product, baseURL),
	}

	if listPrice := offer.Get("ListPrice").Float(); listPrice > listing.Price {
		listing.ListPrice = &listPrice
	}

	return listing, true
}

// productLink prefers the absolute link and falls back to {base}/{linkText}/p
func productLink(product gjson.Result, baseURL string) string {
	if link := product.Get("link").String(); link != "" {
		return link
	}
	if linkText := product.Get("linkText").String(); linkText != "" {
		return strings.TrimRight(baseURL, "/") + "/" + linkText + "/p"
	}
	return ""
}
