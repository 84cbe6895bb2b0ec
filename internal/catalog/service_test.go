package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/vignerons/storefront-backend/pkg/woocommerce"
)

type stubProductSource struct {
	products  []woocommerce.Product
	listCalls int
	getCalls  int
}

func (s *stubProductSource) ListProducts(ctx context.Context) ([]woocommerce.Product, error) {
	s.listCalls++
	return s.products, nil
}

func (s *stubProductSource) GetProduct(ctx context.Context, id int64) (*woocommerce.Product, error) {
	s.getCalls++
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i], nil
		}
	}
	return nil, errors.New("not found")
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

func TestListProductsCachesCatalog(t *testing.T) {
	source := &stubProductSource{products: sampleCatalog()}
	cache := newMemCache()
	svc, err := NewService(source, cache, time.Minute)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		products, err := svc.ListProducts(context.Background(), Selection{}, "")
		if err != nil {
			t.Fatalf("ListProducts failed: %v", err)
		}
		if len(products) != len(sampleCatalog()) {
			t.Fatalf("unexpected catalog size %d", len(products))
		}
	}
	if source.listCalls != 1 {
		t.Fatalf("expected a single upstream fetch, got %d", source.listCalls)
	}
}

func TestListProductsFiltersAndSortsCachedCatalog(t *testing.T) {
	source := &stubProductSource{products: sampleCatalog()}
	svc, err := NewService(source, newMemCache(), time.Minute)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	selection := Selection{FacetColor: {"Rouge"}}
	products, err := svc.ListProducts(context.Background(), selection, SortPriceDesc)
	if err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}
	if got := ids(products); len(got) != 2 || got[0] != 3 || got[1] != 1 {
		t.Fatalf("unexpected filtered order %v", got)
	}
}

func TestListProductsWithoutCache(t *testing.T) {
	source := &stubProductSource{products: sampleCatalog()}
	svc, err := NewService(source, nil, time.Minute)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := svc.ListProducts(context.Background(), Selection{}, ""); err != nil {
			t.Fatalf("ListProducts failed: %v", err)
		}
	}
	if source.listCalls != 2 {
		t.Fatalf("expected every call to hit the source, got %d", source.listCalls)
	}
}

func TestGetProductBypassesCache(t *testing.T) {
	source := &stubProductSource{products: sampleCatalog()}
	svc, err := NewService(source, newMemCache(), time.Minute)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	product, err := svc.GetProduct(context.Background(), 2)
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if product.ID != 2 {
		t.Fatalf("unexpected product %+v", product)
	}
	if source.getCalls != 1 {
		t.Fatalf("expected a direct lookup, got %d calls", source.getCalls)
	}
}
