package types

// ShippingLine mirrors the shipping_lines entry of a WooCommerce order.
type ShippingLine struct {
	MethodID    string `json:"method_id"`
	MethodTitle string `json:"method_title"`
	Total       string `json:"total"`
}
