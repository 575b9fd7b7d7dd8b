package repository

import (
	"expoflow/internal/model"
	"expoflow/internal/permission"
	"expoflow/pkg/apperror"

	"github.com/shopspring/decimal"
)

// ExhibitionProductInput links one product into an exhibition.
type ExhibitionProductInput struct {
	ProductID  string
	Quantity   int
	Price      *decimal.Decimal
	SupplierID string
}

// checkExhibitionProductsLocked validates a batch before anything is written:
// each product must exist, and no (code, product) pair may already be linked
// or repeat within the batch.
func (s *Store) checkExhibitionProductsLocked(code string, items []ExhibitionProductInput) error {
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if item.ProductID == "" {
			return apperror.Validation("product_id is required")
		}
		if item.Quantity < 0 {
			return apperror.Validation("quantity for product %s must not be negative", item.ProductID)
		}
		if item.Price != nil && item.Price.IsNegative() {
			return apperror.Validation("price for product %s must not be negative", item.ProductID)
		}
		if !s.products.has(item.ProductID) {
			return apperror.NotFound("product %s not found", item.ProductID)
		}
		if seen[item.ProductID] {
			return apperror.Conflict("product %s appears more than once", item.ProductID).With("product_id", item.ProductID)
		}
		seen[item.ProductID] = true
		if _, linked := s.exhibitionProductLocked(code, item.ProductID); linked {
			return apperror.Conflict("product %s is already listed in exhibition %s", item.ProductID, code).
				With("product_id", item.ProductID)
		}
	}
	return nil
}

// insertExhibitionProductsLocked writes a batch already accepted by
// checkExhibitionProductsLocked. Every row starts pending.
func (s *Store) insertExhibitionProductsLocked(code string, items []ExhibitionProductInput) ([]model.ExhibitionProduct, error) {
	fresh := make(map[string]bool, len(items))
	ids := make([]string, 0, len(items))
	for range items {
		id, err := s.ids.Next("exp_", func(id string) bool { return fresh[id] || s.exhibitionProducts.has(id) })
		if err != nil {
			return nil, err
		}
		fresh[id] = true
		ids = append(ids, id)
	}

	out := make([]model.ExhibitionProduct, 0, len(items))
	now := s.timestamp()
	for i, item := range items {
		id := ids[i]
		row := model.ExhibitionProduct{
			ID:             id,
			ExhibitionCode: code,
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			Price:          cloneDecimal(item.Price),
			Status:         model.ApprovalPending,
			SupplierID:     item.SupplierID,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		s.exhibitionProducts.put(id, row)
		out = append(out, cloneExhibitionProduct(row))
	}
	return out, nil
}

func (s *Store) exhibitionProductLocked(code, productID string) (model.ExhibitionProduct, bool) {
	var (
		found model.ExhibitionProduct
		ok    bool
	)
	s.exhibitionProducts.each(func(ep model.ExhibitionProduct) bool {
		if ep.ExhibitionCode == code && ep.ProductID == productID {
			found, ok = ep, true
			return false
		}
		return true
	})
	return found, ok
}

// AddExhibitionProducts links products into an existing exhibition. The batch
// is all-or-nothing.
func (s *Store) AddExhibitionProducts(g permission.Grant, code string, items []ExhibitionProductInput) ([]model.ExhibitionProduct, error) {
	if err := g.Require(permission.ExhibitionUpdate); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperror.Validation("at least one product is required")
	}

	var out []model.ExhibitionProduct
	err := s.update(func() error {
		if _, ok := s.exhibitionByCodeLocked(code); !ok {
			return apperror.NotFound("exhibition %s not found", code)
		}
		if err := s.checkExhibitionProductsLocked(code, items); err != nil {
			return err
		}
		var err error
		out, err = s.insertExhibitionProductsLocked(code, items)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) filterExhibitionProducts(keep func(model.ExhibitionProduct) bool) []model.ExhibitionProduct {
	out := make([]model.ExhibitionProduct, 0)
	s.view(func() {
		s.exhibitionProducts.each(func(ep model.ExhibitionProduct) bool {
			if keep(ep) {
				out = append(out, cloneExhibitionProduct(ep))
			}
			return true
		})
	})
	return out
}

// ListExhibitionProducts returns every link for one exhibition code.
func (s *Store) ListExhibitionProducts(code string) []model.ExhibitionProduct {
	return s.filterExhibitionProducts(func(ep model.ExhibitionProduct) bool {
		return ep.ExhibitionCode == code
	})
}

// ListPendingExhibitionProducts returns every pending link across exhibitions.
func (s *Store) ListPendingExhibitionProducts() []model.ExhibitionProduct {
	return s.filterExhibitionProducts(func(ep model.ExhibitionProduct) bool {
		return ep.Status == model.ApprovalPending
	})
}

// ListApprovedExhibitionProducts returns the approved links for one exhibition.
func (s *Store) ListApprovedExhibitionProducts(code string) []model.ExhibitionProduct {
	return s.filterExhibitionProducts(func(ep model.ExhibitionProduct) bool {
		return ep.ExhibitionCode == code && ep.Status == model.ApprovalApproved
	})
}

// GetExhibitionProduct returns one link by id.
func (s *Store) GetExhibitionProduct(id string) (model.ExhibitionProduct, error) {
	var (
		ep model.ExhibitionProduct
		ok bool
	)
	s.view(func() { ep, ok = s.exhibitionProducts.get(id) })
	if !ok {
		return model.ExhibitionProduct{}, apperror.NotFound("exhibition product %s not found", id)
	}
	return cloneExhibitionProduct(ep), nil
}

// SetExhibitionProductStatus moves a link to approved or rejected. There is
// no transition back to pending. Re-applying the current status succeeds.
func (s *Store) SetExhibitionProductStatus(g permission.Grant, id, status string) (model.ExhibitionProduct, error) {
	if err := g.Require(permission.ApprovalApprove); err != nil {
		return model.ExhibitionProduct{}, err
	}
	if status != model.ApprovalApproved && status != model.ApprovalRejected {
		return model.ExhibitionProduct{}, apperror.Validation("status must be %q or %q, got %q",
			model.ApprovalApproved, model.ApprovalRejected, status)
	}

	var updated model.ExhibitionProduct
	err := s.update(func() error {
		ep, ok := s.exhibitionProducts.get(id)
		if !ok {
			return apperror.NotFound("exhibition product %s not found", id)
		}
		ep.Status = status
		ep.UpdatedAt = s.timestamp()
		s.exhibitionProducts.put(id, ep)
		updated = cloneExhibitionProduct(ep)
		return nil
	})
	if err != nil {
		return model.ExhibitionProduct{}, err
	}
	return updated, nil
}

// IsApproved reports whether productID is approved for the exhibition code.
// Unknown pairs are not approved.
func (s *Store) IsApproved(code, productID string) bool {
	var approved bool
	s.view(func() {
		ep, ok := s.exhibitionProductLocked(code, productID)
		approved = ok && ep.Status == model.ApprovalApproved
	})
	return approved
}
