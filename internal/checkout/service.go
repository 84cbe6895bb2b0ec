package checkout

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vignerons/storefront-backend/internal/cart"
	"github.com/vignerons/storefront-backend/pkg/config"
	pkgerrors "github.com/vignerons/storefront-backend/pkg/errors"
	"github.com/vignerons/storefront-backend/pkg/logger"
	"github.com/vignerons/storefront-backend/pkg/types"
	"github.com/vignerons/storefront-backend/pkg/woocommerce"
)

type cartStore interface {
	GetSummary(ctx context.Context, token string) (*cart.Summary, error)
	Clear(ctx context.Context, token string) error
}

type couponSource interface {
	ListCoupons(ctx context.Context) ([]woocommerce.Coupon, error)
}

type orderCreator interface {
	CreateOrder(ctx context.Context, req woocommerce.OrderRequest) (*woocommerce.Order, error)
}

type cacheStore interface {
	GetJSON(ctx context.Context, key string, dest any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(parts ...string) string
}

// Service runs the checkout rules: quoting (shipping + coupon + totals)
// and order submission.
type Service interface {
	Quote(ctx context.Context, token string, input QuoteInput) (*Quote, error)
	Submit(ctx context.Context, token string, input SubmitInput) (*woocommerce.Order, error)
	Coupons(ctx context.Context) ([]woocommerce.Coupon, error)
}

type service struct {
	carts     cartStore
	coupons   couponSource
	orders    orderCreator
	cache     cacheStore
	couponTTL time.Duration
	rates     Rates
	shipping  config.ShippingConfig
	logg      *logger.Logger
	now       func() time.Time
}

// ServiceParams wires the checkout service.
type ServiceParams struct {
	Carts     cartStore
	Coupons   couponSource
	Orders    orderCreator
	Cache     cacheStore
	CouponTTL time.Duration
	Shipping  config.ShippingConfig
	Logger    *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if params.Coupons == nil {
		return nil, fmt.Errorf("coupon source required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order creator required")
	}
	return &service{
		carts:     params.Carts,
		coupons:   params.Coupons,
		orders:    params.Orders,
		cache:     params.Cache,
		couponTTL: params.CouponTTL,
		rates:     RatesFromConfig(params.Shipping),
		shipping:  params.Shipping,
		logg:      params.Logger,
		now:       time.Now,
	}, nil
}

// QuoteInput selects the rules a quote applies.
type QuoteInput struct {
	DeliveryMethod DeliveryMethod `json:"delivery_method"`
	CouponCode     string         `json:"coupon_code"`
}

// Quote is the priced view of the cart before submission. Total is
// cart total + shipping - discount, clamped at zero.
type Quote struct {
	CartTotal  decimal.Decimal `json:"cart_total"`
	Shipping   decimal.Decimal `json:"shipping"`
	Discount   decimal.Decimal `json:"discount"`
	Total      decimal.Decimal `json:"total"`
	CouponCode string          `json:"coupon_code,omitempty"`
	LineCount  int             `json:"line_count"`
	UnitCount  int             `json:"unit_count"`
}

// SubmitInput is the full order form: contact + delivery details plus the
// quote selections.
type SubmitInput struct {
	StepInput
	CouponCode    string `json:"coupon_code"`
	PaymentMethod string `json:"payment_method"`
	CustomerNote  string `json:"customer_note"`
	CustomerID    int64  `json:"-"`
}

func (s *service) Quote(ctx context.Context, token string, input QuoteInput) (*Quote, error) {
	summary, err := s.carts.GetSummary(ctx, token)
	if err != nil {
		return nil, err
	}
	if len(summary.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	return s.quoteSummary(ctx, summary, input)
}

// quoteSummary applies the rules in order: shipping tier, then coupon. A
// coupon rejection aborts the quote and leaves the cart untouched.
func (s *service) quoteSummary(ctx context.Context, summary *cart.Summary, input QuoteInput) (*Quote, error) {
	method := input.DeliveryMethod
	if method == "" {
		method = DeliveryStandard
	}
	shippingCost := s.rates.Cost(method, summary.Items)

	discount := decimal.Zero
	code := strings.TrimSpace(input.CouponCode)
	if code != "" {
		coupons, err := s.loadCoupons(ctx)
		if err != nil {
			return nil, err
		}
		discount, err = ApplyCoupon(coupons, code, summary, s.now())
		if err != nil {
			return nil, err
		}
	}

	total := summary.Total.Add(shippingCost).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return &Quote{
		CartTotal:  summary.Total,
		Shipping:   shippingCost,
		Discount:   discount,
		Total:      total.Round(2),
		CouponCode: code,
		LineCount:  summary.LineCount,
		UnitCount:  summary.UnitCount,
	}, nil
}

// Submit validates the gated steps, re-quotes, assembles the order payload
// and posts it. The cart is cleared only after the backend accepts the
// order; on any failure it is preserved as-is.
func (s *service) Submit(ctx context.Context, token string, input SubmitInput) (*woocommerce.Order, error) {
	for _, step := range []int{StepContact, StepDelivery} {
		if err := ValidateStep(step, input.StepInput); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error()).
				WithDetails(map[string]any{"step": step})
		}
	}

	summary, err := s.carts.GetSummary(ctx, token)
	if err != nil {
		return nil, err
	}
	if len(summary.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	quote, err := s.quoteSummary(ctx, summary, QuoteInput{
		DeliveryMethod: input.DeliveryMethod,
		CouponCode:     input.CouponCode,
	})
	if err != nil {
		return nil, err
	}

	req, err := s.buildOrderRequest(summary, quote, input)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.CreateOrder(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, token); err != nil && s.logg != nil {
		ctx = s.logg.WithField(ctx, "order_id", order.ID)
		s.logg.Error(ctx, "order accepted but cart clear failed", err)
	}
	return order, nil
}

func (s *service) buildOrderRequest(summary *cart.Summary, quote *Quote, input SubmitInput) (woocommerce.OrderRequest, error) {
	lineItems := make([]woocommerce.OrderLineItem, 0, len(summary.Items))
	for _, item := range summary.Items {
		productID, err := strconv.ParseInt(item.ProductID, 10, 64)
		if err != nil {
			return woocommerce.OrderRequest{}, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("cart line %q has a non-numeric product id", item.ProductID))
		}
		var variationID int64
		if item.VariationID != "" {
			variationID, err = strconv.ParseInt(item.VariationID, 10, 64)
			if err != nil {
				return woocommerce.OrderRequest{}, pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("cart line %q has a non-numeric variation id", item.VariationID))
			}
		}
		lineTotal := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
		lineItems = append(lineItems, woocommerce.OrderLineItem{
			ProductID:   productID,
			VariationID: variationID,
			Name:        item.Name,
			Quantity:    item.Quantity,
			Total:       lineTotal.StringFixed(2),
		})
	}

	address := input.Address
	address.Email = input.Email
	address.Phone = input.Phone

	shippingAddr := address
	if input.DeliveryMethod == DeliveryPickup && input.RelayPoint != nil {
		shippingAddr = types.Address{
			FirstName: address.FirstName,
			LastName:  address.LastName,
			Address1:  input.RelayPoint.Name + ", " + input.RelayPoint.Address,
			City:      input.RelayPoint.City,
			Postcode:  input.RelayPoint.Postcode,
			Country:   address.Country,
			Email:     input.Email,
			Phone:     input.Phone,
		}
	}

	req := woocommerce.OrderRequest{
		PaymentMethod: input.PaymentMethod,
		SetPaid:       false,
		Billing:       address,
		Shipping:      shippingAddr,
		LineItems:     lineItems,
		ShippingLines: []types.ShippingLine{s.shippingLine(input.DeliveryMethod, quote.Shipping)},
		CustomerNote:  input.CustomerNote,
		CustomerID:    input.CustomerID,
	}
	if quote.CouponCode != "" {
		req.CouponLines = []woocommerce.CouponLine{{Code: quote.CouponCode}}
	}
	return req, nil
}

func (s *service) shippingLine(method DeliveryMethod, cost decimal.Decimal) types.ShippingLine {
	line := types.ShippingLine{
		MethodID:    s.shipping.StandardMethodID,
		MethodTitle: s.shipping.StandardMethodLbl,
		Total:       cost.StringFixed(2),
	}
	if method == DeliveryPickup {
		line.MethodID = s.shipping.PickupMethodID
		line.MethodTitle = s.shipping.PickupMethodLbl
	}
	return line
}

// Coupons lists the available coupons, cache-aside with a short TTL.
func (s *service) Coupons(ctx context.Context) ([]woocommerce.Coupon, error) {
	return s.loadCoupons(ctx)
}

func (s *service) loadCoupons(ctx context.Context) ([]woocommerce.Coupon, error) {
	if s.cache == nil {
		return s.coupons.ListCoupons(ctx)
	}

	key := s.cache.CacheKey("checkout", "coupons")
	var cached []woocommerce.Coupon
	if err := s.cache.GetJSON(ctx, key, &cached); err == nil && len(cached) > 0 {
		return cached, nil
	}

	coupons, err := s.coupons.ListCoupons(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.SetJSON(ctx, key, coupons, s.couponTTL)
	return coupons, nil
}
