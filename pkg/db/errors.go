package db

import "strings"

// IsUniqueViolation reports whether the error is a unique index violation.
// Covers both drivers this service runs against: postgres ("duplicate key
// value") and sqlite ("UNIQUE constraint failed"). When constraintName is
// provided, the error must reference that index.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if !strings.Contains(msg, "duplicate key value") &&
		!strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return true
}
