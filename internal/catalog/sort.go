package catalog

import (
	"sort"

	"github.com/vignerons/storefront-backend/pkg/woocommerce"
)

// Sort keys supported by the catalog. Anything else keeps the source order.
const (
	SortPriceAsc      = "price-asc"
	SortPriceDesc     = "price-desc"
	SortDateAddedDesc = "date-added-desc"
)

// Sort returns a new slice ordered by the given key. Sorting is stable so
// ties keep the source order.
func Sort(products []woocommerce.Product, key string) []woocommerce.Product {
	sorted := make([]woocommerce.Product, len(products))
	copy(sorted, products)

	switch key {
	case SortPriceAsc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return effectivePrice(sorted[i]).LessThan(effectivePrice(sorted[j]))
		})
	case SortPriceDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return effectivePrice(sorted[i]).GreaterThan(effectivePrice(sorted[j]))
		})
	case SortDateAddedDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].DateCreated.After(sorted[j].DateCreated)
		})
	}
	return sorted
}
