package model

import "time"

// ProductList is a supplier's quantity manifest for one exhibition.
// TotalQuantity is always the sum of the current items' quantities.
type ProductList struct {
	ID             string    `json:"id"`
	ExhibitionCode string    `json:"exhibition_code"`
	SupplierID     string    `json:"supplier_id"`
	Status         string    `json:"status"`
	TotalQuantity  int       `json:"total_quantity"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ProductListItem is one line of a ProductList.
type ProductListItem struct {
	ID        string `json:"id"`
	ListID    string `json:"list_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// ProductListWithItems bundles a list with its items.
type ProductListWithItems struct {
	ProductList
	Items []ProductListItem `json:"items"`
}
