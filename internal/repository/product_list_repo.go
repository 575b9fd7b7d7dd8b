package repository

import (
	"expoflow/internal/model"
	"expoflow/internal/permission"
	"expoflow/pkg/apperror"
)

// ProductListItemInput is one line of a product list write.
type ProductListItemInput struct {
	ProductID string
	Quantity  int
}

// ProductListUpdate carries the optional parts of UpdateProductList.
// A nil Items leaves the items alone; a non-nil empty slice clears them.
type ProductListUpdate struct {
	Status *string
	Items  []ProductListItemInput
}

func validateListItems(items []ProductListItemInput) error {
	for _, item := range items {
		if item.ProductID == "" {
			return apperror.Validation("product_id is required")
		}
		if item.Quantity < 0 {
			return apperror.Validation("quantity for product %s must not be negative", item.ProductID)
		}
	}
	return nil
}

// CreateProductList records a supplier manifest for an exhibition. Product
// lists are not subject to the order approval gate.
func (s *Store) CreateProductList(g permission.Grant, code, supplierID string, items []ProductListItemInput) (model.ProductListWithItems, error) {
	if err := g.Require(permission.ProductCreate); err != nil {
		return model.ProductListWithItems{}, err
	}
	if supplierID == "" {
		return model.ProductListWithItems{}, apperror.Validation("supplier_id is required")
	}
	if err := validateListItems(items); err != nil {
		return model.ProductListWithItems{}, err
	}

	var out model.ProductListWithItems
	err := s.update(func() error {
		if _, ok := s.exhibitionByCodeLocked(code); !ok {
			return apperror.NotFound("exhibition %s not found", code)
		}
		id, err := s.ids.Next("pls_", s.productLists.has)
		if err != nil {
			return err
		}
		now := s.timestamp()
		list := model.ProductList{
			ID:             id,
			ExhibitionCode: code,
			SupplierID:     supplierID,
			Status:         model.ApprovalPending,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		s.productLists.put(id, list)
		if err := s.replaceItemsLocked(id, items); err != nil {
			s.productLists.remove(id)
			return err
		}
		out = s.listWithItemsLocked(id)
		return nil
	})
	if err != nil {
		return model.ProductListWithItems{}, err
	}
	return out, nil
}

// ListProductLists returns lists for one exhibition code, or all lists when code is empty.
func (s *Store) ListProductLists(code string) []model.ProductList {
	out := make([]model.ProductList, 0)
	s.view(func() {
		s.productLists.each(func(l model.ProductList) bool {
			if code == "" || l.ExhibitionCode == code {
				out = append(out, l)
			}
			return true
		})
	})
	return out
}

// GetProductListWithItems returns a list and its current items.
func (s *Store) GetProductListWithItems(id string) (model.ProductListWithItems, error) {
	var (
		out model.ProductListWithItems
		ok  bool
	)
	s.view(func() {
		if ok = s.productLists.has(id); ok {
			out = s.listWithItemsLocked(id)
		}
	})
	if !ok {
		return model.ProductListWithItems{}, apperror.NotFound("product list %s not found", id)
	}
	return out, nil
}

// UpdateProductList applies a status change and/or an item replacement in
// one write. Changing status needs an ApprovalApprove grant; replacing items
// needs a ProductUpdate grant.
func (s *Store) UpdateProductList(id string, upd ProductListUpdate, grants ...permission.Grant) (model.ProductListWithItems, error) {
	if upd.Status != nil {
		if err := requireAny(grants, permission.ApprovalApprove); err != nil {
			return model.ProductListWithItems{}, err
		}
		if !model.ValidApprovalStatus(*upd.Status) {
			return model.ProductListWithItems{}, apperror.Validation("unknown product list status %q", *upd.Status)
		}
	}
	if upd.Items != nil {
		if err := requireAny(grants, permission.ProductUpdate); err != nil {
			return model.ProductListWithItems{}, err
		}
		if err := validateListItems(upd.Items); err != nil {
			return model.ProductListWithItems{}, err
		}
	}

	var out model.ProductListWithItems
	err := s.update(func() error {
		if !s.productLists.has(id) {
			return apperror.NotFound("product list %s not found", id)
		}
		if upd.Items != nil {
			if err := s.replaceItemsLocked(id, upd.Items); err != nil {
				return err
			}
		}
		list, _ := s.productLists.get(id)
		if upd.Status != nil {
			list.Status = *upd.Status
		}
		list.UpdatedAt = s.timestamp()
		s.productLists.put(id, list)
		out = s.listWithItemsLocked(id)
		return nil
	})
	if err != nil {
		return model.ProductListWithItems{}, err
	}
	return out, nil
}

// ReplaceProductListItems swaps a list's items for a new set and recomputes
// TotalQuantity.
func (s *Store) ReplaceProductListItems(g permission.Grant, id string, items []ProductListItemInput) (model.ProductListWithItems, error) {
	if items == nil {
		items = []ProductListItemInput{}
	}
	return s.UpdateProductList(id, ProductListUpdate{Items: items}, g)
}

// replaceItemsLocked deletes the list's items, inserts the new set and
// recomputes the total from what is now stored.
func (s *Store) replaceItemsLocked(listID string, items []ProductListItemInput) error {
	// Allocate ids first so a failure leaves the old items in place.
	fresh := make(map[string]bool, len(items))
	ids := make([]string, 0, len(items))
	for range items {
		itemID, err := s.ids.Next("pli_", func(id string) bool { return fresh[id] || s.listItems.has(id) })
		if err != nil {
			return err
		}
		fresh[itemID] = true
		ids = append(ids, itemID)
	}

	var stale []string
	s.listItems.each(func(it model.ProductListItem) bool {
		if it.ListID == listID {
			stale = append(stale, it.ID)
		}
		return true
	})
	for _, itemID := range stale {
		s.listItems.remove(itemID)
	}

	for i, in := range items {
		s.listItems.put(ids[i], model.ProductListItem{
			ID:        ids[i],
			ListID:    listID,
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
		})
	}

	list, _ := s.productLists.get(listID)
	list.TotalQuantity = 0
	s.listItems.each(func(it model.ProductListItem) bool {
		if it.ListID == listID {
			list.TotalQuantity += it.Quantity
		}
		return true
	})
	s.productLists.put(listID, list)
	return nil
}

func (s *Store) listWithItemsLocked(id string) model.ProductListWithItems {
	list, _ := s.productLists.get(id)
	out := model.ProductListWithItems{ProductList: list, Items: make([]model.ProductListItem, 0)}
	s.listItems.each(func(it model.ProductListItem) bool {
		if it.ListID == id {
			out.Items = append(out.Items, it)
		}
		return true
	})
	return out
}

func requireAny(grants []permission.Grant, capability permission.Capability) error {
	for _, g := range grants {
		if g.Allows(capability) {
			return nil
		}
	}
	return apperror.Forbidden("missing grant for %s", capability)
}
