package utils

import (
	"math"
	"strings"

	"github.com/google/uuid"
)

// NewClaimTicketID returns a fresh claim ticket identifier
func NewClaimTicketID() string {
	return uuid.NewString()
}

// RoundFloat rounds v to the given number of decimal places
func RoundFloat(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// MaskAccountID keeps the first and last three characters of an account id for logs
func MaskAccountID(id string) string {
	if len(id) <= 6 {
		return strings.Repeat("*", len(id))
	}
	return id[:3] + strings.Repeat("*", len(id)-6) + id[len(id)-3:]
}

// ClampLimit applies a default when limit is unset and caps it at max
func ClampLimit(limit, def, max int) int {
	switch {
	case limit <= 0:
		return def
	case limit > max:
		return max
	default:
		return limit
	}
}
