package service

import (
	"context"

	"expoflow/internal/model"
	"expoflow/internal/permission"
	"expoflow/internal/repository"
	"expoflow/pkg/apperror"

	"go.uber.org/zap"
)

// --- DTOs ---

type ProductListItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"min=0"`
}

type CreateProductListRequest struct {
	ExhibitionCode string                   `json:"exhibition_code" binding:"required"`
	SupplierID     string                   `json:"supplier_id"`
	Items          []ProductListItemRequest `json:"items" binding:"omitempty,dive"`
}

// UpdateProductListRequest changes the status, the items, or both. A nil
// Items leaves the items alone; an empty array clears them.
type UpdateProductListRequest struct {
	Status *string                   `json:"status" binding:"omitempty,oneof=pending approved rejected"`
	Items  *[]ProductListItemRequest `json:"items"`
}

// --- Interface ---

type ProductListService interface {
	ListProductLists(ctx context.Context, actor *model.Actor, exhibitionCode string) ([]model.ProductList, error)
	GetProductList(ctx context.Context, actor *model.Actor, id string) (model.ProductListWithItems, error)
	CreateProductList(ctx context.Context, actor *model.Actor, req CreateProductListRequest) (model.ProductListWithItems, error)
	UpdateProductList(ctx context.Context, actor *model.Actor, id string, req UpdateProductListRequest) (model.ProductListWithItems, error)
}

type productListService struct {
	base
	store *repository.Store
}

func NewProductListService(store *repository.Store, logger *zap.Logger, events Publisher) ProductListService {
	return &productListService{base: newBase(logger, events), store: store}
}

func toListItems(items []ProductListItemRequest) []repository.ProductListItemInput {
	out := make([]repository.ProductListItemInput, 0, len(items))
	for _, it := range items {
		out = append(out, repository.ProductListItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}

// --- Implementation ---

func (s *productListService) ListProductLists(ctx context.Context, actor *model.Actor, exhibitionCode string) ([]model.ProductList, error) {
	if err := s.check(actor, permission.ExhibitionRead); err != nil {
		return nil, err
	}
	return s.store.ListProductLists(exhibitionCode), nil
}

func (s *productListService) GetProductList(ctx context.Context, actor *model.Actor, id string) (model.ProductListWithItems, error) {
	if err := s.check(actor, permission.ExhibitionRead); err != nil {
		return model.ProductListWithItems{}, err
	}
	return s.store.GetProductListWithItems(id)
}

func (s *productListService) CreateProductList(ctx context.Context, actor *model.Actor, req CreateProductListRequest) (model.ProductListWithItems, error) {
	g, err := s.authorize(actor, permission.ProductCreate)
	if err != nil {
		return model.ProductListWithItems{}, err
	}

	supplier := req.SupplierID
	if supplier == "" {
		supplier = g.ActorID()
	}
	list, err := s.store.CreateProductList(g, req.ExhibitionCode, supplier, toListItems(req.Items))
	if err != nil {
		return model.ProductListWithItems{}, err
	}

	s.logger.Info("Product list created", append(actorFields(actor),
		zap.String("product_list_id", list.ID),
		zap.String("exhibition_code", list.ExhibitionCode),
		zap.Int("total_quantity", list.TotalQuantity))...)
	s.events.Publish(EventProductListCreated, list)
	return list, nil
}

// UpdateProductList authorizes each part of the request separately: item
// replacement needs product.update, a status change needs approval.approve.
func (s *productListService) UpdateProductList(ctx context.Context, actor *model.Actor, id string, req UpdateProductListRequest) (model.ProductListWithItems, error) {
	if req.Status == nil && req.Items == nil {
		return model.ProductListWithItems{}, apperror.Validation("nothing to update")
	}

	var (
		grants []permission.Grant
		upd    repository.ProductListUpdate
	)
	if req.Items != nil {
		g, err := s.authorize(actor, permission.ProductUpdate)
		if err != nil {
			return model.ProductListWithItems{}, err
		}
		grants = append(grants, g)
		upd.Items = toListItems(*req.Items)
	}
	if req.Status != nil {
		g, err := s.authorize(actor, permission.ApprovalApprove)
		if err != nil {
			return model.ProductListWithItems{}, err
		}
		grants = append(grants, g)
		upd.Status = req.Status
	}

	list, err := s.store.UpdateProductList(id, upd, grants...)
	if err != nil {
		return model.ProductListWithItems{}, err
	}

	s.logger.Info("Product list updated", append(actorFields(actor),
		zap.String("product_list_id", list.ID),
		zap.String("status", list.Status),
		zap.Int("total_quantity", list.TotalQuantity))...)
	s.events.Publish(EventProductListUpdated, list)
	return list, nil
}
