package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Availability enum constants
const (
	AvailabilityInStock    = "IN_STOCK"
	AvailabilityLowStock   = "LOW_STOCK"
	AvailabilityOutOfStock = "OUT_OF_STOCK"
)

// Product represents an item that suppliers can list in exhibitions.
// Approved is the global approval flag and is independent of the
// per-exhibition status kept on ExhibitionProduct.
type Product struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	Unit         string          `json:"unit"`
	Threshold    int             `json:"threshold"`
	Expiry       *time.Time      `json:"expiry,omitempty"`
	Availability string          `json:"availability"`
	Approved     bool            `json:"approved"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ValidAvailability reports whether s is a known availability value.
func ValidAvailability(s string) bool {
	switch s {
	case AvailabilityInStock, AvailabilityLowStock, AvailabilityOutOfStock:
		return true
	}
	return false
}

// DeriveAvailability computes the availability implied by stock levels.
func DeriveAvailability(quantity, threshold int) string {
	switch {
	case quantity <= 0:
		return AvailabilityOutOfStock
	case quantity <= threshold:
		return AvailabilityLowStock
	default:
		return AvailabilityInStock
	}
}
