package repository

import (
	"expoflow/internal/model"
	"expoflow/internal/permission"
	"expoflow/pkg/apperror"
)

// CreateOrder admits an order only if every item's product is approved for
// the exhibition. All items are checked before anything is written; the
// first failing item is reported with its product id and, when the product
// still exists, its name.
func (s *Store) CreateOrder(g permission.Grant, code string, items []model.OrderItem) (model.Order, error) {
	if err := g.Require(permission.OrderCreate); err != nil {
		return model.Order{}, err
	}
	if len(items) == 0 {
		return model.Order{}, apperror.Validation("an order needs at least one item")
	}

	var order model.Order
	err := s.update(func() error {
		for _, item := range items {
			if item.Quantity <= 0 {
				return apperror.Validation("quantity for product %s must be positive", item.ProductID).
					With("product_id", item.ProductID)
			}
			ep, ok := s.exhibitionProductLocked(code, item.ProductID)
			if ok && ep.Status == model.ApprovalApproved {
				continue
			}
			return s.unapprovedLocked(code, item.ProductID)
		}

		id, err := s.ids.Next("ord_", s.orders.has)
		if err != nil {
			return err
		}
		now := s.timestamp()
		order = model.Order{
			ID:             id,
			ExhibitionCode: code,
			Items:          append([]model.OrderItem(nil), items...),
			Status:         model.OrderStatusDraft,
			CreatedBy:      g.ActorID(),
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		s.orders.put(id, order)
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}
	return cloneOrder(order), nil
}

func (s *Store) unapprovedLocked(code, productID string) error {
	p, ok := s.products.get(productID)
	var verr *apperror.Error
	if ok {
		verr = apperror.Validation("product %s (%s) is not approved for exhibition %s", p.Name, productID, code).
			With("product_name", p.Name)
	} else {
		verr = apperror.Validation("product %s is not approved for exhibition %s", productID, code)
	}
	return verr.With("product_id", productID).With("exhibition_code", code)
}

// ListOrders returns orders for one exhibition code, or all orders when code is empty.
func (s *Store) ListOrders(code string) []model.Order {
	out := make([]model.Order, 0)
	s.view(func() {
		s.orders.each(func(o model.Order) bool {
			if code == "" || o.ExhibitionCode == code {
				out = append(out, cloneOrder(o))
			}
			return true
		})
	})
	return out
}

// GetOrder returns one order by id.
func (s *Store) GetOrder(id string) (model.Order, error) {
	var (
		o  model.Order
		ok bool
	)
	s.view(func() { o, ok = s.orders.get(id) })
	if !ok {
		return model.Order{}, apperror.NotFound("order %s not found", id)
	}
	return cloneOrder(o), nil
}

// UpdateOrderStatus sets an order's status to any known value.
func (s *Store) UpdateOrderStatus(g permission.Grant, id, status string) (model.Order, error) {
	if err := g.Require(permission.OrderUpdate); err != nil {
		return model.Order{}, err
	}
	if !model.ValidOrderStatus(status) {
		return model.Order{}, apperror.Validation("unknown order status %q", status)
	}

	var updated model.Order
	err := s.update(func() error {
		o, ok := s.orders.get(id)
		if !ok {
			return apperror.NotFound("order %s not found", id)
		}
		o.Status = status
		o.UpdatedAt = s.timestamp()
		s.orders.put(id, o)
		updated = cloneOrder(o)
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}
	return updated, nil
}
