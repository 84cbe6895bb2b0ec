package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartLineItem is one row of a persisted cart. A cart is the set of rows
// sharing a cart token; (cart_token, product_id, variation_id) is unique so
// re-adding a product merges into the existing row.
type CartLineItem struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CartToken   string            `gorm:"column:cart_token;size:64;not null;uniqueIndex:idx_cart_line_identity,priority:1" json:"-"`
	ProductID   string            `gorm:"column:product_id;size:32;not null;uniqueIndex:idx_cart_line_identity,priority:2" json:"product_id"`
	VariationID string            `gorm:"column:variation_id;size:32;not null;default:'';uniqueIndex:idx_cart_line_identity,priority:3" json:"variation_id,omitempty"`
	Name        string            `gorm:"column:name;not null" json:"name"`
	Quantity    int               `gorm:"column:quantity;not null" json:"quantity"`
	Price       decimal.Decimal   `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	Image       string            `gorm:"column:image" json:"image,omitempty"`
	Categories  []string          `gorm:"column:categories;type:jsonb;serializer:json" json:"categories,omitempty"`
	Variation   map[string]string `gorm:"column:variation;type:jsonb;serializer:json" json:"variation,omitempty"`
	VendorID    string            `gorm:"column:vendor_id;size:32" json:"vendor_id,omitempty"`
	OnSale      bool              `gorm:"column:on_sale;not null;default:false" json:"on_sale"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

// TableName pins the table used by the cart repository.
func (CartLineItem) TableName() string {
	return "cart_line_items"
}

// BeforeCreate assigns the row id client-side so the model also works on the
// sqlite dev driver.
func (c *CartLineItem) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
