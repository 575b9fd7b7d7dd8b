package model

import "github.com/shopspring/decimal"

// ExhibitionStatistics aggregates review progress and order volume for one exhibition
type ExhibitionStatistics struct {
	ExhibitionCode   string           `json:"exhibition_code"`
	PendingProducts  int              `json:"pending_products"`
	ApprovedProducts int              `json:"approved_products"`
	RejectedProducts int              `json:"rejected_products"`
	TotalOrders      int              `json:"total_orders"`
	OrdersByStatus   map[string]int   `json:"orders_by_status"`
	OrderedValue     decimal.Decimal  `json:"ordered_value"`
	TopProducts      []ProductRanking `json:"top_products"`
}

// ProductRanking represents a ranked product based on accumulated quantities
type ProductRanking struct {
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	TotalQuantity int             `json:"total_quantity"`
	TotalValue    decimal.Decimal `json:"total_value"`
}
