package usecase

import (
	"sort"

	"github.com/cartcompare/backend/internal/domain"
)

// rankCarts orders carts by completeness (descending) then total price
// (ascending). Ties keep builder order.
func rankCarts(carts []domain.StoreCart) {
	sort.SliceStable(carts, func(i, j int) bool {
		ci, cj := carts[i].Completeness(), carts[j].Completeness()
		if ci != cj {
			return ci > cj
		}
		return carts[i].TotalPrice < carts[j].TotalPrice
	})
}
