package woocommerce

import (
	"context"
	"fmt"
	"net/http"
)

// Vendor is a winemaking estate listed on the marketplace.
type Vendor struct {
	ID          int64  `json:"id"`
	StoreName   string `json:"store_name"`
	Description string `json:"shop_description,omitempty"`
	Banner      string `json:"banner,omitempty"`
	Logo        string `json:"gravatar,omitempty"`
	Address     struct {
		City    string `json:"city,omitempty"`
		Country string `json:"country,omitempty"`
	} `json:"address"`
}

// GetVendor fetches a vendor profile from the marketplace plugin API.
func (c *Client) GetVendor(ctx context.Context, id int64) (*Vendor, error) {
	var vendor Vendor
	err := c.doJSON(ctx, requestSpec{
		method:    http.MethodGet,
		path:      fmt.Sprintf("%s/store-vendors/%d", vendorAPIPath, id),
		keyedAuth: true,
	}, &vendor)
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

// ListVendorProducts fetches the products listed by a vendor.
func (c *Client) ListVendorProducts(ctx context.Context, vendorID int64) ([]Product, error) {
	var payloads []productPayload
	err := c.doJSON(ctx, requestSpec{
		method:    http.MethodGet,
		path:      fmt.Sprintf("%s/store-vendors/%d/products", vendorAPIPath, vendorID),
		keyedAuth: true,
	}, &payloads)
	if err != nil {
		return nil, err
	}
	products := make([]Product, 0, len(payloads))
	for _, payload := range payloads {
		products = append(products, payload.toProduct())
	}
	return products, nil
}
