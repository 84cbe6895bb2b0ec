package woocommerce

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Meta keys used by the storefront's product attributes.
const (
	metaCertification = "certification"
	metaRegionPays    = "region__pays"
	metaMillesime     = "millesime"
	metaStyle         = "style"
	metaVolume        = "volume"
	metaAccordMets    = "accord_mets"
	metaSansSulfites  = "sans_sulfites_"
)

// Product is the storefront projection of a WooCommerce product. Prices are
// parsed into decimals and the wine attributes are lifted out of meta_data.
type Product struct {
	ID            int64            `json:"id"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	RegularPrice  *decimal.Decimal `json:"regular_price,omitempty"`
	SalePrice     *decimal.Decimal `json:"sale_price,omitempty"`
	OnSale        bool             `json:"on_sale"`
	Image         string           `json:"image,omitempty"`
	Categories    []string         `json:"categories"`
	Certification string           `json:"certification,omitempty"`
	RegionPays    string           `json:"region__pays,omitempty"`
	Millesime     string           `json:"millesime,omitempty"`
	Style         string           `json:"style,omitempty"`
	Volume        string           `json:"volume,omitempty"`
	AccordMets    []string         `json:"accord_mets,omitempty"`
	SansSulfites  string           `json:"sans_sulfites_,omitempty"`
	VendorID      int64            `json:"vendor"`
	StoreName     string           `json:"store_name,omitempty"`
	DateCreated   time.Time        `json:"date_created"`
}

type productPayload struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Price        string `json:"price"`
	RegularPrice string `json:"regular_price"`
	SalePrice    string `json:"sale_price"`
	OnSale       bool   `json:"on_sale"`
	DateCreated  string `json:"date_created"`
	Categories   []struct {
		Name string `json:"name"`
	} `json:"categories"`
	Images []struct {
		Src string `json:"src"`
	} `json:"images"`
	MetaData []struct {
		Key   string `json:"key"`
		Value any    `json:"value"`
	} `json:"meta_data"`
	StoreInfo struct {
		VendorID  int64  `json:"vendor_id"`
		StoreName string `json:"store_name"`
	} `json:"store"`
}

// ListProducts fetches the full catalog page by page.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	products := []Product{}
	for page := 1; ; page++ {
		var batch []productPayload
		query := url.Values{}
		query.Set("per_page", "100")
		query.Set("page", strconv.Itoa(page))
		err := c.doJSON(ctx, requestSpec{
			method:    http.MethodGet,
			path:      restAPIPath + "/products",
			query:     query,
			keyedAuth: true,
		}, &batch)
		if err != nil {
			return nil, err
		}
		for _, payload := range batch {
			products = append(products, payload.toProduct())
		}
		if len(batch) < 100 {
			return products, nil
		}
	}
}

// GetProduct fetches a single product by id.
func (c *Client) GetProduct(ctx context.Context, id int64) (*Product, error) {
	var payload productPayload
	err := c.doJSON(ctx, requestSpec{
		method:    http.MethodGet,
		path:      fmt.Sprintf("%s/products/%d", restAPIPath, id),
		keyedAuth: true,
	}, &payload)
	if err != nil {
		return nil, err
	}
	product := payload.toProduct()
	return &product, nil
}

func (p productPayload) toProduct() Product {
	product := Product{
		ID:        p.ID,
		Name:      p.Name,
		Price:     parsePrice(p.Price),
		OnSale:    p.OnSale,
		VendorID:  p.StoreInfo.VendorID,
		StoreName: p.StoreInfo.StoreName,
	}
	if price := parseOptionalPrice(p.RegularPrice); price != nil {
		product.RegularPrice = price
	}
	if price := parseOptionalPrice(p.SalePrice); price != nil {
		product.SalePrice = price
	}
	if parsed, err := time.Parse("2006-01-02T15:04:05", p.DateCreated); err == nil {
		product.DateCreated = parsed
	}
	for _, category := range p.Categories {
		product.Categories = append(product.Categories, category.Name)
	}
	if len(p.Images) > 0 {
		product.Image = p.Images[0].Src
	}
	for _, meta := range p.MetaData {
		switch meta.Key {
		case metaCertification:
			product.Certification = metaString(meta.Value)
		case metaRegionPays:
			product.RegionPays = metaString(meta.Value)
		case metaMillesime:
			product.Millesime = metaString(meta.Value)
		case metaStyle:
			product.Style = metaString(meta.Value)
		case metaVolume:
			product.Volume = metaString(meta.Value)
		case metaSansSulfites:
			product.SansSulfites = metaString(meta.Value)
		case metaAccordMets:
			product.AccordMets = metaStrings(meta.Value)
		}
	}
	return product
}

func parsePrice(raw string) decimal.Decimal {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero
	}
	return price
}

func parseOptionalPrice(raw string) *decimal.Decimal {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	price, err := decimal.NewFromString(trimmed)
	if err != nil {
		return nil
	}
	return &price
}

// Meta values arrive as strings or arrays depending on the field plugin.
func metaString(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case []any:
		if len(typed) > 0 {
			return metaString(typed[0])
		}
	}
	return ""
}

func metaStrings(value any) []string {
	switch typed := value.(type) {
	case string:
		if typed == "" {
			return nil
		}
		parts := strings.Split(typed, ",")
		out := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(typed))
		for _, entry := range typed {
			if s := metaString(entry); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
