package vendors

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/vignerons/storefront-backend/pkg/woocommerce"
)

type vendorSource interface {
	GetVendor(ctx context.Context, id int64) (*woocommerce.Vendor, error)
	ListVendorProducts(ctx context.Context, vendorID int64) ([]woocommerce.Product, error)
}

type cacheStore interface {
	GetJSON(ctx context.Context, key string, dest any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(parts ...string) string
}

// Service exposes the vendor directory: profile and per-vendor product
// list, cache-aside with a TTL so repeated page loads do not hammer the
// upstream marketplace API.
type Service interface {
	GetVendor(ctx context.Context, id int64) (*woocommerce.Vendor, error)
	ListVendorProducts(ctx context.Context, vendorID int64) ([]woocommerce.Product, error)
}

type service struct {
	source     vendorSource
	cache      cacheStore
	vendorTTL  time.Duration
	productTTL time.Duration
}

func NewService(source vendorSource, cache cacheStore, vendorTTL, productTTL time.Duration) (Service, error) {
	if source == nil {
		return nil, fmt.Errorf("vendor source required")
	}
	return &service{
		source:     source,
		cache:      cache,
		vendorTTL:  vendorTTL,
		productTTL: productTTL,
	}, nil
}

func (s *service) GetVendor(ctx context.Context, id int64) (*woocommerce.Vendor, error) {
	if s.cache == nil {
		return s.source.GetVendor(ctx, id)
	}

	key := s.cache.CacheKey("vendors", strconv.FormatInt(id, 10))
	var cached woocommerce.Vendor
	if err := s.cache.GetJSON(ctx, key, &cached); err == nil && cached.ID != 0 {
		return &cached, nil
	}

	vendor, err := s.source.GetVendor(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = s.cache.SetJSON(ctx, key, vendor, s.vendorTTL)
	return vendor, nil
}

// cachedProducts keeps the fetch timestamp alongside the list so staleness
// is observable.
type cachedProducts struct {
	FetchedAt int64                 `json:"fetched_at"`
	Products  []woocommerce.Product `json:"products"`
}

func (s *service) ListVendorProducts(ctx context.Context, vendorID int64) ([]woocommerce.Product, error) {
	if s.cache == nil {
		return s.source.ListVendorProducts(ctx, vendorID)
	}

	key := s.cache.CacheKey("vendors", strconv.FormatInt(vendorID, 10), "products")
	var cached cachedProducts
	if err := s.cache.GetJSON(ctx, key, &cached); err == nil && len(cached.Products) > 0 {
		return cached.Products, nil
	}

	products, err := s.source.ListVendorProducts(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	_ = s.cache.SetJSON(ctx, key, cachedProducts{
		FetchedAt: time.Now().Unix(),
		Products:  products,
	}, s.productTTL)
	return products, nil
}
