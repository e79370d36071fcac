package catalog

import (
	"testing"

	"github.com/cartcompare/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapProducts(t *testing.T) {
	body := []byte(`[
	  {
	    "productName": "  Arroz Largo Fino 1 Kg ",
	    "linkText": "arroz-largo-fino",
	    "items": [{
	      "images": [],
	      "sellers": [
	        {"commertialOffer": {"Price": 900, "ListPrice": 900, "AvailableQuantity": 0}},
	        {"commertialOffer": {"Price": 950, "ListPrice": 900, "AvailableQuantity": 3}}
	      ]
	    }]
	  },
	  {
	    "productName": "Sin stock",
	    "items": [{"sellers": [{"commertialOffer": {"Price": 100, "AvailableQuantity": 0}}]}]
	  },
	  {
	    "productName": "Precio cero",
	    "items": [{"sellers": [{"commertialOffer": {"Price": 0, "AvailableQuantity": 5}}]}]
	  },
	  {
	    "productName": "",
	    "items": [{"sellers": [{"commertialOffer": {"Price": 10, "AvailableQuantity": 5}}]}]
	  },
	  {
	    "productName": "Sin items",
	    "items": []
	  }
	]`)

	listings, err := MapProducts(body, "https://store.example/")
	require.NoError(t, err)
	require.Len(t, listings, 1)

	got := listings[0]
	assert.Equal(t, "Arroz Largo Fino 1 Kg", got.Name)
	assert.Equal(t, 950.0, got.Price)
	assert.Nil(t, got.ListPrice, "list price at or below price is dropped")
	assert.Equal(t, "", got.ImageURL)
	assert.Equal(t, "https://store.example/arroz-largo-fino/p", got.Link)
}

func TestMapProducts_EmptyArray(t *testing.T) {
	listings, err := MapProducts([]byte(`[]`), "https://store.example")
	require.NoError(t, err)
	assert.NotNil(t, listings)
	assert.Empty(t, listings)
}

func TestMapProducts_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `[{"productName":`},
		{"object instead of array", `{"productName": "x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MapProducts([]byte(tt.body), "https://store.example")
			assert.ErrorIs(t, err, domain.ErrCatalogFailure)
		})
	}
}
