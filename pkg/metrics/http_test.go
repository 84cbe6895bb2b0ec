package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			if !labelsMatch(metric, labels) {
				continue
			}
			return metric.GetCounter().GetValue()
		}
	}
	return 0
}

func labelsMatch(metric *dto.Metric, want map[string]string) bool {
	got := map[string]string{}
	for _, pair := range metric.GetLabel() {
		got[pair.GetName()] = pair.GetValue()
	}
	for name, value := range want {
		if got[name] != value {
			return false
		}
	}
	return true
}

func TestObserveRequestCountsByRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest("GET", "/api/v1/products", 200, 25*time.Millisecond)
	m.ObserveRequest("GET", "/api/v1/products", 200, 40*time.Millisecond)
	m.ObserveRequest("POST", "/api/v1/cart/items", 201, 10*time.Millisecond)

	got := counterValue(t, reg, "http_requests_total", map[string]string{
		"method": "GET",
		"route":  "/api/v1/products",
		"status": "200",
	})
	if got != 2 {
		t.Fatalf("expected 2 GET requests recorded, got %v", got)
	}

	got = counterValue(t, reg, "http_requests_total", map[string]string{
		"method": "POST",
		"route":  "/api/v1/cart/items",
		"status": "201",
	})
	if got != 1 {
		t.Fatalf("expected 1 POST request recorded, got %v", got)
	}
}

func TestObserveRequestNormalizesEmptyRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest("GET", "", 404, time.Millisecond)

	got := counterValue(t, reg, "http_requests_total", map[string]string{"route": "unknown"})
	if got != 1 {
		t.Fatalf("expected unmatched routes under the unknown label, got %v", got)
	}
}

func TestObserveRequestNilSafe(t *testing.T) {
	var m *HTTPMetrics
	m.ObserveRequest("GET", "/x", 200, time.Millisecond)

	unregistered := NewHTTPMetrics(nil)
	unregistered.ObserveRequest("GET", "/x", 200, time.Millisecond)
}
