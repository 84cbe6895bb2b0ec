package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/vignerons/storefront-backend/pkg/config"
	"github.com/vignerons/storefront-backend/pkg/db/models"
)

// DeliveryMethod selects the shipping cost rule at checkout.
type DeliveryMethod string

const (
	DeliveryStandard DeliveryMethod = "standard"
	DeliveryPickup   DeliveryMethod = "pickup"
)

// Rates carries the shipping tariff. Six bottles from a single estate ship
// free, whatever the delivery method.
type Rates struct {
	Standard        decimal.Decimal
	Pickup          decimal.Decimal
	FreeBottleCount int
}

// DefaultRates returns the observed defaults: 10 EUR flat, free at 6
// bottles of the same vendor.
func DefaultRates() Rates {
	return Rates{
		Standard:        decimal.NewFromInt(10),
		Pickup:          decimal.NewFromInt(10),
		FreeBottleCount: 6,
	}
}

// RatesFromConfig parses the configured tariff, falling back to the
// defaults for anything unparsable.
func RatesFromConfig(cfg config.ShippingConfig) Rates {
	rates := DefaultRates()
	if standard, err := decimal.NewFromString(cfg.StandardRate); err == nil {
		rates.Standard = standard
	}
	if pickup, err := decimal.NewFromString(cfg.PickupRate); err == nil {
		rates.Pickup = pickup
	}
	if cfg.FreeBottleCount > 0 {
		rates.FreeBottleCount = cfg.FreeBottleCount
	}
	return rates
}

// Cost returns the shipping cost for the delivery method and cart content.
func (r Rates) Cost(method DeliveryMethod, items []models.CartLineItem) decimal.Decimal {
	if r.qualifiesFreeShipping(items) {
		return decimal.Zero
	}
	if method == DeliveryPickup {
		return r.Pickup
	}
	return r.Standard
}

// qualifiesFreeShipping reports whether any single vendor accounts for at
// least the free-shipping bottle count.
func (r Rates) qualifiesFreeShipping(items []models.CartLineItem) bool {
	if r.FreeBottleCount <= 0 {
		return false
	}
	unitsByVendor := map[string]int{}
	for _, item := range items {
		unitsByVendor[item.VendorID] += item.Quantity
		if unitsByVendor[item.VendorID] >= r.FreeBottleCount {
			return true
		}
	}
	return false
}
