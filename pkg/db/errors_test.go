package db

import (
	"errors"
	"testing"
)

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{"nil", nil, "", false},
		{"postgres", errors.New(`duplicate key value violates unique constraint "idx_cart_line_identity"`), "", true},
		{"postgres named", errors.New(`duplicate key value violates unique constraint "idx_cart_line_identity"`), "idx_cart_line_identity", true},
		{"postgres other index", errors.New(`duplicate key value violates unique constraint "idx_other"`), "idx_cart_line_identity", false},
		{"sqlite", errors.New("UNIQUE constraint failed: cart_line_items.cart_token"), "", true},
		{"unrelated", errors.New("connection refused"), "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsUniqueViolation(tc.err, tc.constraint); got != tc.want {
				t.Fatalf("IsUniqueViolation(%v, %q) = %v, want %v", tc.err, tc.constraint, got, tc.want)
			}
		})
	}
}
