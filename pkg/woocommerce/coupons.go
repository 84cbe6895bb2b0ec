package woocommerce

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Coupon mirrors the WooCommerce coupon schema used at checkout. Coupons are
// read-only from the storefront's perspective.
type Coupon struct {
	ID               int64            `json:"id"`
	Code             string           `json:"code"`
	DiscountType     string           `json:"discount_type"`
	Amount           decimal.Decimal  `json:"amount"`
	DateExpires      *time.Time       `json:"date_expires,omitempty"`
	UsageLimit       *int             `json:"usage_limit,omitempty"`
	UsageCount       int              `json:"usage_count"`
	MinimumAmount    *decimal.Decimal `json:"minimum_amount,omitempty"`
	MaximumAmount    *decimal.Decimal `json:"maximum_amount,omitempty"`
	ExcludeSaleItems bool             `json:"exclude_sale_items"`
}

// Discount types accepted by the checkout engine.
const (
	DiscountTypePercent = "percent"
	DiscountTypeFixed   = "fixed"
)

type couponPayload struct {
	ID               int64  `json:"id"`
	Code             string `json:"code"`
	DiscountType     string `json:"discount_type"`
	Amount           string `json:"amount"`
	DateExpires      string `json:"date_expires"`
	UsageLimit       *int   `json:"usage_limit"`
	UsageCount       int    `json:"usage_count"`
	MinimumAmount    string `json:"minimum_amount"`
	MaximumAmount    string `json:"maximum_amount"`
	ExcludeSaleItems bool   `json:"exclude_sale_items"`
}

// ListCoupons fetches all published coupons.
func (c *Client) ListCoupons(ctx context.Context) ([]Coupon, error) {
	var payloads []couponPayload
	query := url.Values{}
	query.Set("per_page", "100")
	err := c.doJSON(ctx, requestSpec{
		method:    http.MethodGet,
		path:      restAPIPath + "/coupons",
		query:     query,
		keyedAuth: true,
	}, &payloads)
	if err != nil {
		return nil, err
	}

	coupons := make([]Coupon, 0, len(payloads))
	for _, payload := range payloads {
		coupons = append(coupons, payload.toCoupon())
	}
	return coupons, nil
}

func (p couponPayload) toCoupon() Coupon {
	coupon := Coupon{
		ID:               p.ID,
		Code:             p.Code,
		DiscountType:     normalizeDiscountType(p.DiscountType),
		Amount:           parsePrice(p.Amount),
		UsageLimit:       p.UsageLimit,
		UsageCount:       p.UsageCount,
		MinimumAmount:    parseOptionalAmount(p.MinimumAmount),
		MaximumAmount:    parseOptionalAmount(p.MaximumAmount),
		ExcludeSaleItems: p.ExcludeSaleItems,
	}
	if trimmed := strings.TrimSpace(p.DateExpires); trimmed != "" {
		if parsed, err := time.Parse("2006-01-02T15:04:05", trimmed); err == nil {
			coupon.DateExpires = &parsed
		}
	}
	return coupon
}

func normalizeDiscountType(raw string) string {
	if strings.TrimSpace(raw) == DiscountTypeFixed || strings.HasPrefix(raw, "fixed") {
		return DiscountTypeFixed
	}
	return DiscountTypePercent
}

// WooCommerce reports an unset bound as "0.00"; treat it as absent.
func parseOptionalAmount(raw string) *decimal.Decimal {
	amount := parseOptionalPrice(raw)
	if amount == nil || amount.IsZero() {
		return nil
	}
	return amount
}
