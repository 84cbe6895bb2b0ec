package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/vignerons/storefront-backend/pkg/woocommerce"
)

type productSource interface {
	ListProducts(ctx context.Context) ([]woocommerce.Product, error)
	GetProduct(ctx context.Context, id int64) (*woocommerce.Product, error)
}

type cacheStore interface {
	GetJSON(ctx context.Context, key string, dest any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(parts ...string) string
}

// Service exposes the filtered, sorted catalog backed by the commerce proxy.
type Service interface {
	ListProducts(ctx context.Context, selection Selection, sortKey string) ([]woocommerce.Product, error)
	GetProduct(ctx context.Context, id int64) (*woocommerce.Product, error)
}

type service struct {
	source productSource
	cache  cacheStore
	ttl    time.Duration
}

// NewService builds the catalog service. The cache is optional; without it
// every listing hits the commerce backend.
func NewService(source productSource, cache cacheStore, ttl time.Duration) (Service, error) {
	if source == nil {
		return nil, fmt.Errorf("product source required")
	}
	return &service{
		source: source,
		cache:  cache,
		ttl:    ttl,
	}, nil
}

// cachedCatalog carries the fetch timestamp alongside the product list so
// staleness stays observable to callers of the raw cache entry.
type cachedCatalog struct {
	FetchedAt int64                 `json:"fetched_at"`
	Products  []woocommerce.Product `json:"products"`
}

// ListProducts loads the catalog (cache-aside) then applies the facet
// selection and the sort key.
func (s *service) ListProducts(ctx context.Context, selection Selection, sortKey string) ([]woocommerce.Product, error) {
	products, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return Sort(Filter(products, selection), sortKey), nil
}

// GetProduct proxies a single product lookup.
func (s *service) GetProduct(ctx context.Context, id int64) (*woocommerce.Product, error) {
	return s.source.GetProduct(ctx, id)
}

func (s *service) loadCatalog(ctx context.Context) ([]woocommerce.Product, error) {
	if s.cache == nil {
		return s.source.ListProducts(ctx)
	}

	key := s.cache.CacheKey("catalog", "products")
	var cached cachedCatalog
	if err := s.cache.GetJSON(ctx, key, &cached); err == nil && len(cached.Products) > 0 {
		return cached.Products, nil
	}

	products, err := s.source.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	// Best effort: a failed cache write only costs the next call a refetch.
	_ = s.cache.SetJSON(ctx, key, cachedCatalog{
		FetchedAt: time.Now().UnixMilli(),
		Products:  products,
	}, s.ttl)

	return products, nil
}
