package woocommerce

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/vignerons/storefront-backend/pkg/config"
	pkgerrors "github.com/vignerons/storefront-backend/pkg/errors"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(config.WooCommerceConfig{
		StoreURL:       server.URL,
		ConsumerKey:    "ck_test",
		ConsumerSecret: "cs_test",
	}, WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client, server
}

func TestGetProductDecodesMeta(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wp-json/wc/v3/products/42" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("consumer_key") != "ck_test" {
			t.Fatalf("expected keyed auth on REST API calls")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": 42,
			"name": "Château Test Rouge",
			"price": "15.50",
			"regular_price": "18.00",
			"sale_price": "15.50",
			"on_sale": true,
			"date_created": "2024-02-01T09:30:00",
			"categories": [{"name": "Rouge"}],
			"images": [{"src": "https://img/42.jpg"}],
			"meta_data": [
				{"key": "certification", "value": "Bio"},
				{"key": "region__pays", "value": ["Bordeaux"]},
				{"key": "millesime", "value": "2019"},
				{"key": "accord_mets", "value": ["Viande rouge", "Fromage"]},
				{"key": "sans_sulfites_", "value": "Oui"}
			],
			"store": {"vendor_id": 7, "store_name": "Domaine Test"}
		}`))
	}))

	product, err := client.GetProduct(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}

	if product.Name != "Château Test Rouge" || !product.OnSale {
		t.Fatalf("unexpected product %+v", product)
	}
	if product.Price.String() != "15.5" {
		t.Fatalf("unexpected price %s", product.Price)
	}
	if product.SalePrice == nil || product.RegularPrice == nil {
		t.Fatalf("expected both prices parsed")
	}
	if product.Certification != "Bio" || product.RegionPays != "Bordeaux" || product.SansSulfites != "Oui" {
		t.Fatalf("meta fields not lifted: %+v", product)
	}
	if len(product.AccordMets) != 2 || product.AccordMets[0] != "Viande rouge" {
		t.Fatalf("unexpected pairings %v", product.AccordMets)
	}
	if product.VendorID != 7 || product.StoreName != "Domaine Test" {
		t.Fatalf("vendor info not decoded: %+v", product)
	}
	if product.Image != "https://img/42.jpg" {
		t.Fatalf("unexpected image %s", product.Image)
	}
}

func TestDoJSONRetriesOn429(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"id": 1, "name": "ok", "price": "5.00"}`))
	}))

	product, err := client.GetProduct(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if product.ID != 1 {
		t.Fatalf("unexpected product %+v", product)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
}

func TestDoJSONGivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	_, err := client.GetProduct(context.Background(), 1)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeRateLimit {
		t.Fatalf("expected rate limit error after exhausting retries, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != int32(maxRetries+1) {
		t.Fatalf("expected %d attempts, got %d", maxRetries+1, got)
	}
}

func TestDecodeAPIErrorMapsStatuses(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code": "woocommerce_rest_product_invalid_id", "message": "Invalid ID."}`))
	}))

	_, err := client.GetProduct(context.Background(), 999)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if typed.Message() != "Invalid ID." {
		t.Fatalf("expected upstream message to surface, got %q", typed.Message())
	}
}

func TestAddStoreCartItemSendsCartToken(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wp-json/wc/store/v1/cart/add-item" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Cart-Token") != "tok-123" {
			t.Fatalf("expected cart token header, got %q", r.Header.Get("Cart-Token"))
		}
		if r.URL.Query().Get("consumer_key") != "" {
			t.Fatalf("store API calls must not carry keyed auth")
		}
		w.Write([]byte(`{"items_count": 1}`))
	}))

	if err := client.AddStoreCartItem(context.Background(), "tok-123", 42, 0, 1); err != nil {
		t.Fatalf("AddStoreCartItem failed: %v", err)
	}
}
