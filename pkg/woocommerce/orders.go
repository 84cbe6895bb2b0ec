package woocommerce

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vignerons/storefront-backend/pkg/types"
)

// OrderLineItem is the line-item snapshot written into an order at submit
// time; prices are not re-fetched.
type OrderLineItem struct {
	ProductID   int64  `json:"product_id"`
	VariationID int64  `json:"variation_id,omitempty"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	Total       string `json:"total"`
}

// OrderRequest is the write-once payload for order creation.
type OrderRequest struct {
	PaymentMethod      string               `json:"payment_method"`
	PaymentMethodTitle string               `json:"payment_method_title,omitempty"`
	SetPaid            bool                 `json:"set_paid"`
	Billing            types.Address        `json:"billing"`
	Shipping           types.Address        `json:"shipping"`
	LineItems          []OrderLineItem      `json:"line_items"`
	ShippingLines      []types.ShippingLine `json:"shipping_lines"`
	CouponLines        []CouponLine         `json:"coupon_lines,omitempty"`
	CustomerNote       string               `json:"customer_note,omitempty"`
	CustomerID         int64                `json:"customer_id,omitempty"`
}

// CouponLine records an applied coupon code on the order.
type CouponLine struct {
	Code string `json:"code"`
}

// Order is the backend's view of a created order. Status updates after
// submission belong to the external system.
type Order struct {
	ID        int64           `json:"id"`
	Status    string          `json:"status"`
	Total     string          `json:"total"`
	OrderKey  string          `json:"order_key"`
	Billing   types.Address   `json:"billing"`
	Shipping  types.Address   `json:"shipping"`
	LineItems []OrderLineItem `json:"line_items"`
}

// CreateOrder submits the order payload to the commerce backend.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	var order Order
	err := c.doJSON(ctx, requestSpec{
		method:    http.MethodPost,
		path:      restAPIPath + "/orders",
		body:      req,
		keyedAuth: true,
	}, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrder fetches an order by id.
func (c *Client) GetOrder(ctx context.Context, id int64) (*Order, error) {
	var order Order
	err := c.doJSON(ctx, requestSpec{
		method:    http.MethodGet,
		path:      fmt.Sprintf("%s/orders/%d", restAPIPath, id),
		keyedAuth: true,
	}, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListCustomerOrders fetches the orders belonging to a customer.
func (c *Client) ListCustomerOrders(ctx context.Context, customerID int64) ([]Order, error) {
	var orders []Order
	query := url.Values{}
	query.Set("customer", strconv.FormatInt(customerID, 10))
	err := c.doJSON(ctx, requestSpec{
		method:    http.MethodGet,
		path:      restAPIPath + "/orders",
		query:     query,
		keyedAuth: true,
	}, &orders)
	if err != nil {
		return nil, err
	}
	return orders, nil
}
