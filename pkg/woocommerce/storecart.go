package woocommerce

import (
	"context"
	"net/http"
)

// StoreCart is the backend-side cart view returned by the Store API. It is
// distinct from the storefront's own cart store; the storefront only syncs
// additions into it.
type StoreCart struct {
	ItemsCount int    `json:"items_count"`
	TotalPrice string `json:"total_price"`
}

type addStoreCartItemRequest struct {
	ID       int64 `json:"id"`
	Quantity int   `json:"quantity"`
}

// AddStoreCartItem mirrors an add-to-cart into the backend cart session
// identified by token. The variation id, when set, addresses the variation
// instead of the parent product.
func (c *Client) AddStoreCartItem(ctx context.Context, token string, productID int64, variationID int64, quantity int) error {
	id := productID
	if variationID != 0 {
		id = variationID
	}
	return c.doJSON(ctx, requestSpec{
		method:  http.MethodPost,
		path:    storeAPIPath + "/cart/add-item",
		body:    addStoreCartItemRequest{ID: id, Quantity: quantity},
		headers: map[string]string{cartTokenHeader: token},
	}, nil)
}

// GetStoreCart reads the backend cart session identified by token.
func (c *Client) GetStoreCart(ctx context.Context, token string) (*StoreCart, error) {
	var cart StoreCart
	err := c.doJSON(ctx, requestSpec{
		method:  http.MethodGet,
		path:    storeAPIPath + "/cart",
		headers: map[string]string{cartTokenHeader: token},
	}, &cart)
	if err != nil {
		return nil, err
	}
	return &cart, nil
}
