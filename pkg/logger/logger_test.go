package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func logEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v; raw=%s", err, buf.String())
	}
	return entry
}

func TestErrorIncludesContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "storefront", Level: zerolog.DebugLevel, Output: buf})

	ctx := context.Background()
	ctx = log.WithRequestID(ctx, "req-123")
	ctx = log.WithCartToken(ctx, "tok-abc")
	ctx = log.WithCustomerID(ctx, "42")

	log.Error(ctx, "boom", errors.New("db down"))

	entry := logEntry(t, buf)
	if entry["request_id"] != "req-123" || entry["cart_token"] != "tok-abc" || entry["customer_id"] != "42" {
		t.Fatalf("context fields missing from entry %+v", entry)
	}
	if entry["service"] != "storefront" {
		t.Fatalf("expected service field, got %+v", entry)
	}
	if _, ok := entry["stack"]; !ok {
		t.Fatalf("expected stack trace on error entries")
	}
}

func TestContextFieldsDoNotLeakAcrossRequests(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "storefront", Level: zerolog.DebugLevel, Output: buf})

	enriched := log.WithVendorID(context.Background(), "7")
	_ = enriched

	log.Info(context.Background(), "plain")

	entry := logEntry(t, buf)
	if _, ok := entry["vendor_id"]; ok {
		t.Fatalf("vendor_id must stay scoped to its context, got %+v", entry)
	}
}

func TestWarnStackToggle(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "storefront", Level: zerolog.DebugLevel, Output: buf, WarnStack: true})
	log.Warn(context.Background(), "slow upstream")

	entry := logEntry(t, buf)
	if _, ok := entry["stack"]; !ok {
		t.Fatalf("expected stack when warn stack is enabled")
	}

	buf.Reset()
	quiet := New(Options{ServiceName: "storefront", Level: zerolog.DebugLevel, Output: buf})
	quiet.Warn(context.Background(), "slow upstream")

	entry = logEntry(t, buf)
	if _, ok := entry["stack"]; ok {
		t.Fatalf("stack must be opt-in for warnings")
	}
}

func TestParseLevel(t *testing.T) {
	if lvl := ParseLevel(""); lvl != zerolog.InfoLevel {
		t.Fatalf("empty level should default to info, got %v", lvl)
	}
	if lvl := ParseLevel("nonsense"); lvl != zerolog.InfoLevel {
		t.Fatalf("unknown level should fall back to info, got %v", lvl)
	}
	if lvl := ParseLevel(" DEBUG "); lvl != zerolog.DebugLevel {
		t.Fatalf("levels should parse case-insensitively, got %v", lvl)
	}
}
