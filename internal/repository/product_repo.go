package repository

import (
	"strings"
	"time"

	"expoflow/internal/model"
	"expoflow/internal/permission"
	"expoflow/pkg/apperror"

	"github.com/shopspring/decimal"
)

// ProductPatch carries optional fields for UpdateProduct; nil fields are left untouched.
type ProductPatch struct {
	Name         *string
	Category     *string
	Price        *decimal.Decimal
	Quantity     *int
	Unit         *string
	Threshold    *int
	Expiry       *time.Time
	Availability *string
	Approved     *bool
}

func validateProduct(p model.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return apperror.Validation("product name is required")
	}
	if p.Price.IsNegative() {
		return apperror.Validation("product price must not be negative")
	}
	if p.Quantity < 0 {
		return apperror.Validation("product quantity must not be negative")
	}
	if p.Threshold < 0 {
		return apperror.Validation("product threshold must not be negative")
	}
	if !model.ValidAvailability(p.Availability) {
		return apperror.Validation("unknown availability %q", p.Availability)
	}
	return nil
}

// ListProducts returns a snapshot of all products in creation order.
func (s *Store) ListProducts() []model.Product {
	var out []model.Product
	s.view(func() {
		out = make([]model.Product, 0, s.products.len())
		s.products.each(func(p model.Product) bool {
			out = append(out, cloneProduct(p))
			return true
		})
	})
	return out
}

// GetProduct returns a snapshot of one product.
func (s *Store) GetProduct(id string) (model.Product, error) {
	var (
		p  model.Product
		ok bool
	)
	s.view(func() { p, ok = s.products.get(id) })
	if !ok {
		return model.Product{}, apperror.NotFound("product %s not found", id)
	}
	return cloneProduct(p), nil
}

// CreateProduct inserts p under a fresh id. The global Approved flag always
// starts false; an empty availability is derived from stock levels.
func (s *Store) CreateProduct(g permission.Grant, p model.Product) (model.Product, error) {
	if err := g.Require(permission.ProductCreate); err != nil {
		return model.Product{}, err
	}
	p.Name = strings.TrimSpace(p.Name)
	p.Approved = false
	if p.Availability == "" {
		p.Availability = model.DeriveAvailability(p.Quantity, p.Threshold)
	}
	if err := validateProduct(p); err != nil {
		return model.Product{}, err
	}

	err := s.update(func() error {
		id, err := s.ids.Next("prd_", s.products.has)
		if err != nil {
			return err
		}
		now := s.timestamp()
		p.ID = id
		p.Expiry = cloneTime(p.Expiry)
		p.CreatedAt = now
		p.UpdatedAt = now
		s.products.put(id, p)
		return nil
	})
	if err != nil {
		return model.Product{}, err
	}
	return cloneProduct(p), nil
}

// UpdateProduct merges patch over the stored product.
func (s *Store) UpdateProduct(g permission.Grant, id string, patch ProductPatch) (model.Product, error) {
	if err := g.Require(permission.ProductUpdate); err != nil {
		return model.Product{}, err
	}

	var updated model.Product
	err := s.update(func() error {
		p, ok := s.products.get(id)
		if !ok {
			return apperror.NotFound("product %s not found", id)
		}
		if patch.Name != nil {
			p.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Category != nil {
			p.Category = *patch.Category
		}
		if patch.Price != nil {
			p.Price = *patch.Price
		}
		if patch.Quantity != nil {
			p.Quantity = *patch.Quantity
		}
		if patch.Unit != nil {
			p.Unit = *patch.Unit
		}
		if patch.Threshold != nil {
			p.Threshold = *patch.Threshold
		}
		if patch.Expiry != nil {
			p.Expiry = cloneTime(patch.Expiry)
		}
		switch {
		case patch.Availability != nil:
			p.Availability = *patch.Availability
		case patch.Quantity != nil || patch.Threshold != nil:
			p.Availability = model.DeriveAvailability(p.Quantity, p.Threshold)
		}
		if patch.Approved != nil {
			p.Approved = *patch.Approved
		}
		if err := validateProduct(p); err != nil {
			return err
		}
		p.UpdatedAt = s.timestamp()
		s.products.put(id, p)
		updated = cloneProduct(p)
		return nil
	})
	if err != nil {
		return model.Product{}, err
	}
	return updated, nil
}

// DeleteProduct removes a product and reports whether a row was removed.
// Exhibition links to the product are kept.
func (s *Store) DeleteProduct(g permission.Grant, id string) (bool, error) {
	if err := g.Require(permission.ProductDelete); err != nil {
		return false, err
	}
	var removed bool
	_ = s.update(func() error {
		removed = s.products.remove(id)
		return nil
	})
	return removed, nil
}
