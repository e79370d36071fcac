package domain

import "time"

// CartLineItem is one term's result inside a store's cart
type CartLineItem struct {
	SearchTerm   string        `json:"searchTerm"`
	Name         string        `json:"name"`
	Price        float64       `json:"price"`
	ListPrice    *float64      `json:"listPrice,omitempty"`
	ImageURL     string        `json:"imageUrl,omitempty"`
	Link         string        `json:"link"`
	UnitInfo     *UnitInfo     `json:"unitInfo,omitempty"`
	Alternatives []Alternative `json:"alternatives"`
	IsCheapest   bool          `json:"isCheapest"`
	AveragePrice *float64      `json:"averagePrice,omitempty"` // set only when at least two stores matched the term
}

// StoreCart is one store's priced cart
type StoreCart struct {
	StoreName     string         `json:"storeName"`
	Items         []CartLineItem `json:"items"`
	TotalPrice    float64        `json:"totalPrice"`
	CheapestCount int            `json:"cheapestCount"`
	MissingTerms  []string       `json:"missingTerms"`
	TotalSearched int            `json:"totalSearched"`
}

// Completeness is the fraction of searchable terms this store matched
func (c StoreCart) Completeness() float64 {
	if c.TotalSearched == 0 {
		return 0
	}
	return float64(len(c.Items)) / float64(c.TotalSearched)
}

// ShoppingPlanResult is the outcome of one comparison
type ShoppingPlanResult struct {
	StoreCarts []StoreCart `json:"storeCarts"`
	NotFound   []string    `json:"notFound"`
	SearchedAt time.Time   `json:"searchedAt"`
}

// CompareRequest is the HTTP payload for a comparison
type CompareRequest struct {
	SearchTerms []string `json:"searchTerms" binding:"required"`
	Region      string   `json:"region,omitempty"`
}
