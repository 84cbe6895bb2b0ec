package vendors

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vignerons/storefront-backend/pkg/woocommerce"
)

type stubVendorSource struct {
	vendor       *woocommerce.Vendor
	products     []woocommerce.Product
	vendorCalls  int
	productCalls int
}

func (s *stubVendorSource) GetVendor(ctx context.Context, id int64) (*woocommerce.Vendor, error) {
	s.vendorCalls++
	if s.vendor == nil {
		return nil, errors.New("no vendor")
	}
	return s.vendor, nil
}

func (s *stubVendorSource) ListVendorProducts(ctx context.Context, vendorID int64) ([]woocommerce.Product, error) {
	s.productCalls++
	return s.products, nil
}

type memCache struct {
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) GetJSON(ctx context.Context, key string, dest any) error {
	raw, ok := c.data[key]
	if !ok {
		return errors.New("cache miss")
	}
	return json.Unmarshal(raw, dest)
}

func (c *memCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *memCache) CacheKey(parts ...string) string {
	key := "cache"
	for _, part := range parts {
		key += ":" + part
	}
	return key
}

func testVendor() *woocommerce.Vendor {
	return &woocommerce.Vendor{ID: 7, StoreName: "Domaine Test"}
}

func TestGetVendorCachesProfile(t *testing.T) {
	source := &stubVendorSource{vendor: testVendor()}
	cache := newMemCache()
	svc, err := NewService(source, cache, time.Minute, time.Minute)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		vendor, err := svc.GetVendor(context.Background(), 7)
		if err != nil {
			t.Fatalf("GetVendor failed: %v", err)
		}
		if vendor.ID != 7 || vendor.StoreName != "Domaine Test" {
			t.Fatalf("unexpected vendor %+v", vendor)
		}
	}
	if source.vendorCalls != 1 {
		t.Fatalf("expected a single upstream fetch, got %d", source.vendorCalls)
	}
}

func TestGetVendorWithoutCacheHitsSource(t *testing.T) {
	source := &stubVendorSource{vendor: testVendor()}
	svc, err := NewService(source, nil, time.Minute, time.Minute)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := svc.GetVendor(context.Background(), 7); err != nil {
			t.Fatalf("GetVendor failed: %v", err)
		}
	}
	if source.vendorCalls != 2 {
		t.Fatalf("expected every call to hit the source, got %d", source.vendorCalls)
	}
}

func TestListVendorProductsCachesList(t *testing.T) {
	price := decimal.RequireFromString("15.50")
	source := &stubVendorSource{products: []woocommerce.Product{
		{ID: 42, Name: "Rouge", Price: price, VendorID: 7},
	}}
	cache := newMemCache()
	svc, err := NewService(source, cache, time.Minute, time.Minute)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		products, err := svc.ListVendorProducts(context.Background(), 7)
		if err != nil {
			t.Fatalf("ListVendorProducts failed: %v", err)
		}
		if len(products) != 1 || products[0].ID != 42 {
			t.Fatalf("unexpected products %+v", products)
		}
		if !products[0].Price.Equal(price) {
			t.Fatalf("price lost through the cache: %s", products[0].Price)
		}
	}
	if source.productCalls != 1 {
		t.Fatalf("expected a single upstream fetch, got %d", source.productCalls)
	}
}

func TestListVendorProductsEmptyListNotPinned(t *testing.T) {
	source := &stubVendorSource{}
	cache := newMemCache()
	svc, err := NewService(source, cache, time.Minute, time.Minute)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := svc.ListVendorProducts(context.Background(), 7); err != nil {
			t.Fatalf("ListVendorProducts failed: %v", err)
		}
	}
	// An empty cached list is treated as a miss so a vendor's first
	// products show up without waiting out the TTL.
	if source.productCalls != 2 {
		t.Fatalf("expected refetch while list is empty, got %d", source.productCalls)
	}
}

func TestNewServiceRequiresSource(t *testing.T) {
	if _, err := NewService(nil, newMemCache(), time.Minute, time.Minute); err == nil {
		t.Fatalf("expected error for nil source")
	}
}
