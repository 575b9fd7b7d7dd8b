package repository

import (
	"time"

	"expoflow/internal/model"

	"github.com/shopspring/decimal"
)

// Rows are stored by value; these helpers detach every pointer and slice so
// returned snapshots share nothing with the tables.

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}

func cloneProduct(p model.Product) model.Product {
	p.Expiry = cloneTime(p.Expiry)
	return p
}

func cloneExhibition(e model.Exhibition) model.Exhibition {
	e.StartDate = cloneTime(e.StartDate)
	e.EndDate = cloneTime(e.EndDate)
	return e
}

func cloneExhibitionProduct(ep model.ExhibitionProduct) model.ExhibitionProduct {
	ep.Price = cloneDecimal(ep.Price)
	return ep
}

func cloneOrder(o model.Order) model.Order {
	items := make([]model.OrderItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}
