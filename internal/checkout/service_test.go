package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/vignerons/storefront-backend/internal/cart"
	"github.com/vignerons/storefront-backend/pkg/config"
	"github.com/vignerons/storefront-backend/pkg/db/models"
	pkgerrors "github.com/vignerons/storefront-backend/pkg/errors"
	"github.com/vignerons/storefront-backend/pkg/types"
	"github.com/vignerons/storefront-backend/pkg/woocommerce"
)

type stubCartStore struct {
	summary *cart.Summary
	cleared int
}

func (s *stubCartStore) GetSummary(ctx context.Context, token string) (*cart.Summary, error) {
	return s.summary, nil
}

func (s *stubCartStore) Clear(ctx context.Context, token string) error {
	s.cleared++
	return nil
}

type stubCouponSource struct {
	coupons []woocommerce.Coupon
	calls   int
}

func (s *stubCouponSource) ListCoupons(ctx context.Context) ([]woocommerce.Coupon, error) {
	s.calls++
	return s.coupons, nil
}

type stubOrderCreator struct {
	err   error
	order *woocommerce.Order
	last  *woocommerce.OrderRequest
}

func (s *stubOrderCreator) CreateOrder(ctx context.Context, req woocommerce.OrderRequest) (*woocommerce.Order, error) {
	s.last = &req
	if s.err != nil {
		return nil, s.err
	}
	return s.order, nil
}

func testSummary() *cart.Summary {
	items := []models.CartLineItem{
		{ProductID: "42", VariationID: "101", Name: "Rouge", Quantity: 2, Price: d("15.50"), VendorID: "v1"},
	}
	return &cart.Summary{Items: items, Total: d("31.00"), LineCount: 1, UnitCount: 2}
}

func newCheckoutService(t *testing.T, carts *stubCartStore, coupons *stubCouponSource, orders *stubOrderCreator) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Carts:    carts,
		Coupons:  coupons,
		Orders:   orders,
		Shipping: config.ShippingConfig{StandardRate: "10", PickupRate: "10", FreeBottleCount: 6, StandardMethodID: "flat_rate", StandardMethodLbl: "Livraison à domicile", PickupMethodID: "local_pickup", PickupMethodLbl: "Point relais"},
	})
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc
}

func TestQuoteAddsShipping(t *testing.T) {
	svc := newCheckoutService(t, &stubCartStore{summary: testSummary()}, &stubCouponSource{}, &stubOrderCreator{})

	quote, err := svc.Quote(context.Background(), "tok", QuoteInput{})
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if !quote.CartTotal.Equal(d("31.00")) || !quote.Shipping.Equal(d("10")) {
		t.Fatalf("unexpected quote %+v", quote)
	}
	if !quote.Total.Equal(d("41.00")) {
		t.Fatalf("expected 41.00, got %s", quote.Total)
	}
}

func TestQuoteAppliesPercentCoupon(t *testing.T) {
	coupons := &stubCouponSource{coupons: []woocommerce.Coupon{
		{Code: "ETE10", DiscountType: woocommerce.DiscountTypePercent, Amount: d("10")},
	}}
	carts := &stubCartStore{summary: testSummary()}
	svc := newCheckoutService(t, carts, coupons, &stubOrderCreator{})

	quote, err := svc.Quote(context.Background(), "tok", QuoteInput{CouponCode: "ETE10"})
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	// 31.00 + 10.00 shipping - 3.10 discount
	if !quote.Discount.Equal(d("3.10")) || !quote.Total.Equal(d("37.90")) {
		t.Fatalf("unexpected quote %+v", quote)
	}
}

func TestQuoteRejectedCouponLeavesCartUntouched(t *testing.T) {
	carts := &stubCartStore{summary: testSummary()}
	svc := newCheckoutService(t, carts, &stubCouponSource{}, &stubOrderCreator{})

	_, err := svc.Quote(context.Background(), "tok", QuoteInput{CouponCode: "NOPE"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeCouponRejected {
		t.Fatalf("expected coupon rejection, got %v", err)
	}
	if carts.cleared != 0 {
		t.Fatalf("a rejected coupon must not touch the cart")
	}
}

func TestQuoteClampsNegativeTotal(t *testing.T) {
	coupons := &stubCouponSource{coupons: []woocommerce.Coupon{
		{Code: "GROS", DiscountType: woocommerce.DiscountTypeFixed, Amount: d("100")},
	}}
	svc := newCheckoutService(t, &stubCartStore{summary: testSummary()}, coupons, &stubOrderCreator{})

	quote, err := svc.Quote(context.Background(), "tok", QuoteInput{CouponCode: "GROS"})
	if err != nil {
		t.Fatalf("quote failed: %v", err)
	}
	if !quote.Total.IsZero() {
		t.Fatalf("total must clamp at zero, got %s", quote.Total)
	}
}

func TestQuoteEmptyCart(t *testing.T) {
	svc := newCheckoutService(t, &stubCartStore{summary: &cart.Summary{}}, &stubCouponSource{}, &stubOrderCreator{})

	_, err := svc.Quote(context.Background(), "tok", QuoteInput{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty cart, got %v", err)
	}
}

func validSubmit() SubmitInput {
	return SubmitInput{
		StepInput: StepInput{
			Email:          "client@example.fr",
			Phone:          "0612345678",
			DeliveryMethod: DeliveryStandard,
			Address: types.Address{
				FirstName: "Jeanne",
				LastName:  "Martin",
				Address1:  "3 rue des Vignes",
				City:      "Lyon",
				Postcode:  "69002",
			},
		},
		PaymentMethod: "stripe",
	}
}

func TestSubmitClearsCartOnSuccess(t *testing.T) {
	carts := &stubCartStore{summary: testSummary()}
	orders := &stubOrderCreator{order: &woocommerce.Order{ID: 77, Status: "pending"}}
	svc := newCheckoutService(t, carts, &stubCouponSource{}, orders)

	order, err := svc.Submit(context.Background(), "tok", validSubmit())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if order.ID != 77 {
		t.Fatalf("unexpected order %+v", order)
	}
	if carts.cleared != 1 {
		t.Fatalf("cart must be cleared after an accepted order")
	}

	if len(orders.last.LineItems) != 1 {
		t.Fatalf("expected one line item")
	}
	line := orders.last.LineItems[0]
	if line.ProductID != 42 || line.VariationID != 101 || line.Quantity != 2 || line.Total != "31.00" {
		t.Fatalf("unexpected line snapshot %+v", line)
	}
	if len(orders.last.ShippingLines) != 1 || orders.last.ShippingLines[0].Total != "10.00" {
		t.Fatalf("unexpected shipping line %+v", orders.last.ShippingLines)
	}
}

func TestSubmitPreservesCartOnFailure(t *testing.T) {
	carts := &stubCartStore{summary: testSummary()}
	orders := &stubOrderCreator{err: errors.New("backend down")}
	svc := newCheckoutService(t, carts, &stubCouponSource{}, orders)

	if _, err := svc.Submit(context.Background(), "tok", validSubmit()); err == nil {
		t.Fatalf("expected submission failure to surface")
	}
	if carts.cleared != 0 {
		t.Fatalf("cart must be preserved when the order is rejected")
	}
}

func TestSubmitBlocksOnIncompleteStep(t *testing.T) {
	carts := &stubCartStore{summary: testSummary()}
	svc := newCheckoutService(t, carts, &stubCouponSource{}, &stubOrderCreator{})

	input := validSubmit()
	input.Email = "not-an-email"
	_, err := svc.Submit(context.Background(), "tok", input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected step validation error, got %v", err)
	}
}
