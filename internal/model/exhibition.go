package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExhibitionStatus constants
const (
	ExhibitionStatusPlanning  = "PLANNING"
	ExhibitionStatusActive    = "ACTIVE"
	ExhibitionStatusCompleted = "COMPLETED"
)

// Exhibition carries two identifiers: ID for identity and updates, and
// ExhibitionCode which every cross-table link (products, orders, lists) joins on.
type Exhibition struct {
	ID             string     `json:"id"`
	ExhibitionCode string     `json:"exhibition_code"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ValidExhibitionStatus reports whether s is a known exhibition status.
func ValidExhibitionStatus(s string) bool {
	switch s {
	case ExhibitionStatusPlanning, ExhibitionStatusActive, ExhibitionStatusCompleted:
		return true
	}
	return false
}

// Approval status constants, shared by exhibition products and product lists.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// ExhibitionProduct is the per-exhibition approval record for a product.
// A row is unique per (ExhibitionCode, ProductID). Status starts at pending
// regardless of the linked product's global Approved flag.
type ExhibitionProduct struct {
	ID             string           `json:"id"`
	ExhibitionCode string           `json:"exhibition_code"`
	ProductID      string           `json:"product_id"`
	Quantity       int              `json:"quantity"`
	Price          *decimal.Decimal `json:"price,omitempty"`
	Status         string           `json:"status"`
	SupplierID     string           `json:"supplier_id"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// ValidApprovalStatus reports whether s is one of the three approval states.
func ValidApprovalStatus(s string) bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}
