package repository_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"expoflow/internal/model"
	"expoflow/internal/permission"
	"expoflow/internal/repository"
	"expoflow/pkg/apperror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	admin    = &model.Actor{ID: "u-admin", Name: "Ada", Role: model.RoleAdmin}
	operator = &model.Actor{ID: "u-operator", Name: "Oli", Role: model.RoleOperator}
)

func newTestStore(t *testing.T, opts ...repository.Option) *repository.Store {
	t.Helper()
	base := []repository.Option{
		repository.WithClock(func() time.Time { return fixedNow }),
		repository.WithActors(*admin, *operator),
	}
	return repository.NewStore(append(base, opts...)...)
}

func grant(t *testing.T, actor *model.Actor, c permission.Capability) permission.Grant {
	t.Helper()
	g, err := permission.Authorize(actor, c)
	require.NoError(t, err)
	return g
}

func mustProduct(t *testing.T, s *repository.Store, name string) model.Product {
	t.Helper()
	p, err := s.CreateProduct(grant(t, admin, permission.ProductCreate), model.Product{
		Name:     name,
		Category: "tools",
		Price:    decimal.RequireFromString("9.99"),
		Quantity: 20,
		Unit:     "pcs",
	})
	require.NoError(t, err)
	return p
}

func mustExhibition(t *testing.T, s *repository.Store, code string) model.Exhibition {
	t.Helper()
	e, _, err := s.CreateExhibition(grant(t, admin, permission.ExhibitionCreate), model.Exhibition{
		ExhibitionCode: code,
		Name:           "Spring Fair",
	}, nil)
	require.NoError(t, err)
	return e
}

func mustLink(t *testing.T, s *repository.Store, code, productID string) model.ExhibitionProduct {
	t.Helper()
	rows, err := s.AddExhibitionProducts(grant(t, admin, permission.ExhibitionUpdate), code, []repository.ExhibitionProductInput{
		{ProductID: productID, Quantity: 10, SupplierID: "sup-1"},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	return rows[0]
}

func approve(t *testing.T, s *repository.Store, id string) {
	t.Helper()
	_, err := s.SetExhibitionProductStatus(grant(t, admin, permission.ApprovalApprove), id, model.ApprovalApproved)
	require.NoError(t, err)
}

func TestDefaults(t *testing.T) {
	s := newTestStore(t)
	p, err := s.CreateProduct(grant(t, admin, permission.ProductCreate), model.Product{Name: "Widget", Approved: true, Quantity: 3, Threshold: 5})
	require.NoError(t, err)

	assert.False(t, p.Approved, "global approval must start false")
	assert.Equal(t, model.AvailabilityLowStock, p.Availability)
	assert.Equal(t, fixedNow, p.CreatedAt)

	mustExhibition(t, s, "EX-1000")
	link := mustLink(t, s, "EX-1000", p.ID)
	assert.Equal(t, model.ApprovalPending, link.Status)
	assert.Equal(t, "EX-1000", link.ExhibitionCode)
}

func TestOrderGate(t *testing.T) {
	s := newTestStore(t)
	widget := mustProduct(t, s, "Widget")
	mustExhibition(t, s, "EX-1000")
	link := mustLink(t, s, "EX-1000", widget.ID)
	orderGrant := grant(t, operator, permission.OrderCreate)
	items := []model.OrderItem{{ProductID: widget.ID, Quantity: 5}}

	_, err := s.CreateOrder(orderGrant, "EX-1000", items)
	require.ErrorIs(t, err, apperror.ErrValidationFailed)
	details := apperror.DetailsOf(err)
	assert.Equal(t, widget.ID, details["product_id"])
	assert.Equal(t, "Widget", details["product_name"])
	assert.Empty(t, s.ListOrders(""))

	assert.False(t, s.IsApproved("EX-1000", widget.ID))
	approve(t, s, link.ID)
	assert.True(t, s.IsApproved("EX-1000", widget.ID))
	assert.False(t, s.IsApproved("EX-2000", widget.ID), "approval is per exhibition")

	order, err := s.CreateOrder(orderGrant, "EX-1000", items)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusDraft, order.Status)
	assert.Equal(t, items, order.Items)
	assert.Equal(t, "u-operator", order.CreatedBy)
	assert.Equal(t, fixedNow, order.CreatedAt)
	assert.Len(t, s.ListOrders("EX-1000"), 1)
}

func TestOrderGateRejectedAndUnknown(t *testing.T) {
	s := newTestStore(t)
	p := mustProduct(t, s, "Gadget")
	mustExhibition(t, s, "EX-1000")
	link := mustLink(t, s, "EX-1000", p.ID)
	_, err := s.SetExhibitionProductStatus(grant(t, admin, permission.ApprovalApprove), link.ID, model.ApprovalRejected)
	require.NoError(t, err)

	g := grant(t, admin, permission.OrderCreate)
	_, err = s.CreateOrder(g, "EX-1000", []model.OrderItem{{ProductID: p.ID, Quantity: 1}})
	assert.ErrorIs(t, err, apperror.ErrValidationFailed)

	_, err = s.CreateOrder(g, "EX-1000", []model.OrderItem{{ProductID: "ghost", Quantity: 1}})
	require.ErrorIs(t, err, apperror.ErrValidationFailed)
	assert.Equal(t, "ghost", apperror.DetailsOf(err)["product_id"])
	_, hasName := apperror.DetailsOf(err)["product_name"]
	assert.False(t, hasName)

	_, err = s.CreateOrder(g, "EX-1000", nil)
	assert.ErrorIs(t, err, apperror.ErrValidationFailed)
}

func TestOrderIsAllOrNothing(t *testing.T) {
	s := newTestStore(t)
	mustExhibition(t, s, "EX-1000")
	a := mustProduct(t, s, "A")
	b := mustProduct(t, s, "B")
	c := mustProduct(t, s, "C")
	approve(t, s, mustLink(t, s, "EX-1000", a.ID).ID)
	approve(t, s, mustLink(t, s, "EX-1000", b.ID).ID)
	mustLink(t, s, "EX-1000", c.ID)

	_, err := s.CreateOrder(grant(t, admin, permission.OrderCreate), "EX-1000", []model.OrderItem{
		{ProductID: a.ID, Quantity: 1},
		{ProductID: b.ID, Quantity: 1},
		{ProductID: c.ID, Quantity: 1},
		{ProductID: a.ID, Quantity: 2},
	})
	require.ErrorIs(t, err, apperror.ErrValidationFailed)
	assert.Equal(t, c.ID, apperror.DetailsOf(err)["product_id"])
	assert.Empty(t, s.ListOrders(""))
}

func TestSetExhibitionProductStatus(t *testing.T) {
	s := newTestStore(t)
	p := mustProduct(t, s, "Widget")
	mustExhibition(t, s, "EX-1000")
	link := mustLink(t, s, "EX-1000", p.ID)
	g := grant(t, admin, permission.ApprovalApprove)

	_, err := s.SetExhibitionProductStatus(g, link.ID, model.ApprovalPending)
	assert.ErrorIs(t, err, apperror.ErrValidationFailed, "no transition back to pending")
	_, err = s.SetExhibitionProductStatus(g, link.ID, "maybe")
	assert.ErrorIs(t, err, apperror.ErrValidationFailed)
	_, err = s.SetExhibitionProductStatus(g, "missing", model.ApprovalApproved)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	for i := 0; i < 2; i++ {
		row, err := s.SetExhibitionProductStatus(g, link.ID, model.ApprovalApproved)
		require.NoError(t, err)
		assert.Equal(t, model.ApprovalApproved, row.Status)
	}
	assert.Empty(t, s.ListPendingExhibitionProducts())
	assert.Len(t, s.ListApprovedExhibitionProducts("EX-1000"), 1)
}

func TestMutationsRequireMatchingGrant(t *testing.T) {
	s := newTestStore(t)
	read := grant(t, admin, permission.ProductRead)

	_, err := s.CreateProduct(read, model.Product{Name: "x"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	_, err = s.DeleteProduct(permission.Grant{}, "x")
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	_, err = s.CreateOrder(read, "EX-1", []model.OrderItem{{ProductID: "x", Quantity: 1}})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	_, err = s.SetExhibitionProductStatus(read, "x", model.ApprovalApproved)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Empty(t, s.ListProducts())
}

func TestDuplicateLinkConflict(t *testing.T) {
	s := newTestStore(t)
	p := mustProduct(t, s, "Widget")
	q := mustProduct(t, s, "Bolt")
	mustExhibition(t, s, "EX-1000")
	mustLink(t, s, "EX-1000", p.ID)
	g := grant(t, admin, permission.ExhibitionUpdate)

	_, err := s.AddExhibitionProducts(g, "EX-1000", []repository.ExhibitionProductInput{
		{ProductID: q.ID, Quantity: 1},
		{ProductID: p.ID, Quantity: 1},
	})
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Len(t, s.ListExhibitionProducts("EX-1000"), 1, "batch must not partially apply")

	_, err = s.AddExhibitionProducts(g, "EX-1000", []repository.ExhibitionProductInput{
		{ProductID: q.ID, Quantity: 1},
		{ProductID: q.ID, Quantity: 2},
	})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = s.AddExhibitionProducts(g, "EX-9999", []repository.ExhibitionProductInput{{ProductID: q.ID}})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = s.AddExhibitionProducts(g, "EX-1000", []repository.ExhibitionProductInput{{ProductID: "ghost"}})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestProductCRUD(t *testing.T) {
	s := newTestStore(t)
	p := mustProduct(t, s, "Widget")

	name := "Widget Pro"
	qty := 0
	updated, err := s.UpdateProduct(grant(t, admin, permission.ProductUpdate), p.ID, repository.ProductPatch{Name: &name, Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, "Widget Pro", updated.Name)
	assert.Equal(t, "tools", updated.Category, "absent fields are untouched")
	assert.True(t, updated.Price.Equal(decimal.RequireFromString("9.99")))
	assert.Equal(t, model.AvailabilityOutOfStock, updated.Availability)

	_, err = s.UpdateProduct(grant(t, admin, permission.ProductUpdate), "missing", repository.ProductPatch{Name: &name})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	neg := decimal.NewFromInt(-1)
	_, err = s.UpdateProduct(grant(t, admin, permission.ProductUpdate), p.ID, repository.ProductPatch{Price: &neg})
	assert.ErrorIs(t, err, apperror.ErrValidationFailed)

	del := grant(t, admin, permission.ProductDelete)
	removed, err := s.DeleteProduct(del, p.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = s.DeleteProduct(del, p.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = s.GetProduct(p.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestExhibitionCodesAndLookup(t *testing.T) {
	s := newTestStore(t)
	g := grant(t, admin, permission.ExhibitionCreate)

	first, _, err := s.CreateExhibition(g, model.Exhibition{Name: "One"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "EX-0001", first.ExhibitionCode)
	assert.Equal(t, model.ExhibitionStatusPlanning, first.Status)

	_, _, err = s.CreateExhibition(g, model.Exhibition{Name: "Manual", ExhibitionCode: "EX-0002"}, nil)
	require.NoError(t, err)
	third, _, err := s.CreateExhibition(g, model.Exhibition{Name: "Three"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "EX-0003", third.ExhibitionCode)

	_, _, err = s.CreateExhibition(g, model.Exhibition{Name: "Dup", ExhibitionCode: "EX-0001"}, nil)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	byID, err := s.GetExhibition(first.ID)
	require.NoError(t, err)
	byCode, err := s.GetExhibition("EX-0001")
	require.NoError(t, err)
	assert.Equal(t, byID, byCode)

	status := "BOGUS"
	_, err = s.UpdateExhibition(grant(t, admin, permission.ExhibitionUpdate), first.ID, repository.ExhibitionPatch{Status: &status})
	assert.ErrorIs(t, err, apperror.ErrValidationFailed)
	status = model.ExhibitionStatusActive
	updated, err := s.UpdateExhibition(grant(t, admin, permission.ExhibitionUpdate), first.ID, repository.ExhibitionPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "One", updated.Name)
	assert.Equal(t, model.ExhibitionStatusActive, updated.Status)
}

func TestExhibitionCodesCannotShadowIDs(t *testing.T) {
	raw := []string{"1", "2", "X", "3"}
	var i int
	s := newTestStore(t, repository.WithIDSource(func() string {
		id := raw[i%len(raw)]
		i++
		return id
	}))
	g := grant(t, admin, permission.ExhibitionCreate)

	first, _, err := s.CreateExhibition(g, model.Exhibition{Name: "One"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "exh_1", first.ID)

	_, _, err = s.CreateExhibition(g, model.Exhibition{Name: "Shadow", ExhibitionCode: first.ID}, nil)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	coded, _, err := s.CreateExhibition(g, model.Exhibition{Name: "Coded", ExhibitionCode: "exh_X"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "exh_2", coded.ID)

	// exh_X is already a code, so the generator moves on.
	third, _, err := s.CreateExhibition(g, model.Exhibition{Name: "Three"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "exh_3", third.ID)

	got, err := s.GetExhibition("exh_X")
	require.NoError(t, err)
	assert.Equal(t, "Coded", got.Name)
}

func TestCreateExhibitionWithInitialProductsIsAtomic(t *testing.T) {
	s := newTestStore(t)
	p := mustProduct(t, s, "Widget")
	g := grant(t, admin, permission.ExhibitionCreate)

	_, _, err := s.CreateExhibition(g, model.Exhibition{Name: "Bad", ExhibitionCode: "EX-7"}, []repository.ExhibitionProductInput{
		{ProductID: p.ID, Quantity: 1},
		{ProductID: "ghost", Quantity: 1},
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Empty(t, s.ListExhibitions())
	assert.Empty(t, s.ListExhibitionProducts("EX-7"))

	e, links, err := s.CreateExhibition(g, model.Exhibition{Name: "Good", ExhibitionCode: "EX-7"}, []repository.ExhibitionProductInput{
		{ProductID: p.ID, Quantity: 4},
	})
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, e.ExhibitionCode, links[0].ExhibitionCode)
	assert.Equal(t, model.ApprovalPending, links[0].Status)
}

func TestSnapshotsAreDetached(t *testing.T) {
	s := newTestStore(t)
	p := mustProduct(t, s, "Widget")
	mustExhibition(t, s, "EX-1000")
	link := mustLink(t, s, "EX-1000", p.ID)
	approve(t, s, link.ID)
	order, err := s.CreateOrder(grant(t, admin, permission.OrderCreate), "EX-1000", []model.OrderItem{{ProductID: p.ID, Quantity: 1}})
	require.NoError(t, err)

	approved := s.ListApprovedExhibitionProducts("EX-1000")
	approved[0].Status = model.ApprovalRejected
	assert.True(t, s.IsApproved("EX-1000", p.ID))

	order.Items[0].Quantity = 999
	stored, err := s.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Items[0].Quantity)

	products := s.ListProducts()
	products[0].Name = "Hacked"
	fresh, err := s.GetProduct(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", fresh.Name)
}

func TestProductListReplaceRecomputesTotal(t *testing.T) {
	s := newTestStore(t)
	mustExhibition(t, s, "EX-1000")
	list, err := s.CreateProductList(grant(t, operator, permission.ProductCreate), "EX-1000", "sup-1", []repository.ProductListItemInput{
		{ProductID: "a", Quantity: 3},
		{ProductID: "b", Quantity: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, list.TotalQuantity)
	assert.Equal(t, model.ApprovalPending, list.Status)
	assert.Len(t, list.Items, 2)

	replaced, err := s.ReplaceProductListItems(grant(t, admin, permission.ProductUpdate), list.ID, []repository.ProductListItemInput{
		{ProductID: "c", Quantity: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, 10, replaced.TotalQuantity)
	require.Len(t, replaced.Items, 1)
	assert.Equal(t, "c", replaced.Items[0].ProductID)

	cleared, err := s.ReplaceProductListItems(grant(t, admin, permission.ProductUpdate), list.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, cleared.TotalQuantity)
	assert.Empty(t, cleared.Items)
}

func TestUpdateProductListGrants(t *testing.T) {
	s := newTestStore(t)
	mustExhibition(t, s, "EX-1000")
	list, err := s.CreateProductList(grant(t, admin, permission.ProductCreate), "EX-1000", "sup-1", nil)
	require.NoError(t, err)

	status := model.ApprovalApproved
	_, err = s.UpdateProductList(list.ID, repository.ProductListUpdate{Status: &status}, grant(t, admin, permission.ProductUpdate))
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	got, err := s.UpdateProductList(list.ID, repository.ProductListUpdate{
		Status: &status,
		Items:  []repository.ProductListItemInput{{ProductID: "a", Quantity: 2}, {ProductID: "b", Quantity: 5}},
	}, grant(t, admin, permission.ApprovalApprove), grant(t, admin, permission.ProductUpdate))
	require.NoError(t, err)
	assert.Equal(t, model.ApprovalApproved, got.Status)
	assert.Equal(t, 7, got.TotalQuantity)

	bogus := "done"
	_, err = s.UpdateProductList(list.ID, repository.ProductListUpdate{Status: &bogus}, grant(t, admin, permission.ApprovalApprove))
	assert.ErrorIs(t, err, apperror.ErrValidationFailed)
	_, err = s.UpdateProductList("missing", repository.ProductListUpdate{Status: &status}, grant(t, admin, permission.ApprovalApprove))
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = s.CreateProductList(grant(t, admin, permission.ProductCreate), "EX-0404", "sup-1", nil)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Len(t, s.ListProductLists("EX-1000"), 1)
	assert.Len(t, s.ListProductLists(""), 1)
}

func TestIDsAreCollisionChecked(t *testing.T) {
	raw := []string{"a", "a", "b"}
	var i int
	s := newTestStore(t, repository.WithIDSource(func() string {
		id := raw[i%len(raw)]
		i++
		return id
	}))

	first := mustProduct(t, s, "One")
	second := mustProduct(t, s, "Two")
	assert.Equal(t, "prd_a", first.ID)
	assert.Equal(t, "prd_b", second.ID)

	stuck := repository.NewStore(repository.WithIDSource(func() string { return "same" }))
	_, err := stuck.CreateProduct(grant(t, admin, permission.ProductCreate), model.Product{Name: "x"})
	require.NoError(t, err)
	_, err = stuck.CreateProduct(grant(t, admin, permission.ProductCreate), model.Product{Name: "y"})
	assert.Error(t, err)
	assert.Len(t, stuck.ListProducts(), 1)
}

func TestActors(t *testing.T) {
	s := newTestStore(t)
	a, err := s.GetActor("u-admin")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, a.Role)
	_, err = s.GetActor("nobody")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.Len(t, s.ListActors(), 2)
}

func TestConcurrentOrdersAndApprovals(t *testing.T) {
	s := newTestStore(t)
	mustExhibition(t, s, "EX-1000")
	const n = 20
	links := make([]model.ExhibitionProduct, n)
	for i := range links {
		p := mustProduct(t, s, fmt.Sprintf("P%d", i))
		links[i] = mustLink(t, s, "EX-1000", p.ID)
	}
	approveGrant := grant(t, admin, permission.ApprovalApprove)
	orderGrant := grant(t, operator, permission.OrderCreate)

	var wg sync.WaitGroup
	for _, link := range links {
		wg.Add(2)
		go func(link model.ExhibitionProduct) {
			defer wg.Done()
			_, err := s.SetExhibitionProductStatus(approveGrant, link.ID, model.ApprovalApproved)
			assert.NoError(t, err)
		}(link)
		go func(link model.ExhibitionProduct) {
			defer wg.Done()
			_, err := s.CreateOrder(orderGrant, "EX-1000", []model.OrderItem{{ProductID: link.ProductID, Quantity: 1}})
			if err != nil {
				assert.ErrorIs(t, err, apperror.ErrValidationFailed)
			}
		}(link)
	}
	wg.Wait()

	assert.Len(t, s.ListApprovedExhibitionProducts("EX-1000"), n)
	for _, o := range s.ListOrders("EX-1000") {
		assert.True(t, s.IsApproved("EX-1000", o.Items[0].ProductID))
	}
}
