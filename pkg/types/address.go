package types

// Address is the billing/shipping block sent to the commerce backend on
// order creation. Field names follow the WooCommerce order schema. Which
// fields are required depends on the checkout step and delivery method,
// so the gate logic owns that, not struct tags.
type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company,omitempty"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2,omitempty"`
	City      string `json:"city"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// RelayPoint is a third-party parcel pickup location selected at checkout.
type RelayPoint struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Postcode string `json:"postcode"`
}
