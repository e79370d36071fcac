package domain

// ProductListing is one product returned by a store's catalog for a search term
type ProductListing struct {
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	ListPrice *float64 `json:"listPrice,omitempty"` // pre-discount reference price, nil when the store reports none
	ImageURL  string   `json:"imageUrl,omitempty"`
	Link      string   `json:"link"`
}

// Measure is a normalized quantity extracted from free text (e.g. 1.5 "L")
type Measure struct {
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// UnitInfo is a listing's measure plus its derived price per unit
type UnitInfo struct {
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	PricePerUnit float64 `json:"pricePerUnit"`
}

// NewUnitInfo derives the price per unit for a listing price. Returns nil for
// a non-positive quantity.
func NewUnitInfo(m Measure, price float64) *UnitInfo {
	if m.Quantity <= 0 {
		return nil
	}
	return &UnitInfo{
		Quantity:     m.Quantity,
		Unit:         m.Unit,
		PricePerUnit: price / m.Quantity,
	}
}

// Alternative is a runner-up listing for a (store, term) pair
type Alternative struct {
	Name     string    `json:"name"`
	Price    float64   `json:"price"`
	Link     string    `json:"link"`
	UnitInfo *UnitInfo `json:"unitInfo,omitempty"`
}

// TermMatch is the selected listing for one (store, term) pair.
// The primary listing never appears in Alternatives.
type TermMatch struct {
	Product      ProductListing `json:"product"`
	UnitInfo     *UnitInfo      `json:"unitInfo,omitempty"`
	Alternatives []Alternative  `json:"alternatives"`
}

// StoreQueryResult is one store's raw answer for a search term
type StoreQueryResult struct {
	StoreName string           `json:"storeName"`
	Products  []ProductListing `json:"products"`
	Failed    bool             `json:"failed"`
	Err       string           `json:"error,omitempty"`
}

// StoreInfo describes a store taking part in comparisons
type StoreInfo struct {
	Name    string   `json:"name"`
	Regions []string `json:"regions"`
}
