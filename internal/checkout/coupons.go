package checkout

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vignerons/storefront-backend/internal/cart"
	pkgerrors "github.com/vignerons/storefront-backend/pkg/errors"
	"github.com/vignerons/storefront-backend/pkg/woocommerce"
)

var percentBase = decimal.NewFromInt(100)

// ApplyCoupon evaluates the coupon rules in their fixed order and returns
// the discount for the first coupon matching code. The first failing rule
// rejects with its own message; the cart is never mutated and a rejection
// leaves the discount at zero.
//
// Rule order: code match, expiry, usage limit, minimum amount, maximum
// amount, sale-item exclusion, then the discount computation.
func ApplyCoupon(coupons []woocommerce.Coupon, code string, summary *cart.Summary, now time.Time) (decimal.Decimal, error) {
	coupon, ok := findCoupon(coupons, code)
	if !ok {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeCouponRejected, "coupon code not found")
	}

	if coupon.DateExpires != nil && coupon.DateExpires.Before(now) {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeCouponRejected, "coupon has expired")
	}

	if coupon.UsageLimit != nil && coupon.UsageCount >= *coupon.UsageLimit {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeCouponRejected, "coupon usage limit reached")
	}

	if coupon.MinimumAmount != nil && summary.Total.LessThan(*coupon.MinimumAmount) {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeCouponRejected, "cart total is below the coupon minimum")
	}

	if coupon.MaximumAmount != nil && summary.Total.GreaterThan(*coupon.MaximumAmount) {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeCouponRejected, "cart total is above the coupon maximum")
	}

	if coupon.ExcludeSaleItems && anyOnSale(summary) {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeCouponRejected, "coupon excludes sale items")
	}

	if coupon.DiscountType == woocommerce.DiscountTypeFixed {
		return coupon.Amount.Round(2), nil
	}
	return summary.Total.Mul(coupon.Amount).Div(percentBase).Round(2), nil
}

// Codes match case-sensitively and exactly.
func findCoupon(coupons []woocommerce.Coupon, code string) (woocommerce.Coupon, bool) {
	for _, coupon := range coupons {
		if coupon.Code == code {
			return coupon, true
		}
	}
	return woocommerce.Coupon{}, false
}

func anyOnSale(summary *cart.Summary) bool {
	for _, item := range summary.Items {
		if item.OnSale {
			return true
		}
	}
	return false
}
