package service

import (
	"context"
	"time"

	"expoflow/internal/model"
	"expoflow/internal/permission"
	"expoflow/internal/repository"
	"expoflow/pkg/apperror"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// --- DTOs ---

type CreateProductRequest struct {
	Name         string          `json:"name" binding:"required"`
	Category     string          `json:"category"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity" binding:"min=0"`
	Unit         string          `json:"unit"`
	Threshold    int             `json:"threshold" binding:"min=0"`
	Expiry       *time.Time      `json:"expiry"`
	Availability string          `json:"availability" binding:"omitempty,oneof=IN_STOCK LOW_STOCK OUT_OF_STOCK"`
}

// UpdateProductRequest is a partial update; omitted fields keep their value.
type UpdateProductRequest struct {
	Name         *string          `json:"name" binding:"omitempty,min=1"`
	Category     *string          `json:"category"`
	Price        *decimal.Decimal `json:"price"`
	Quantity     *int             `json:"quantity" binding:"omitempty,min=0"`
	Unit         *string          `json:"unit"`
	Threshold    *int             `json:"threshold" binding:"omitempty,min=0"`
	Expiry       *time.Time       `json:"expiry"`
	Availability *string          `json:"availability" binding:"omitempty,oneof=IN_STOCK LOW_STOCK OUT_OF_STOCK"`
	Approved     *bool            `json:"approved"`
}

// --- Interface ---

type ProductService interface {
	ListProducts(ctx context.Context, actor *model.Actor) ([]model.Product, error)
	GetProduct(ctx context.Context, actor *model.Actor, id string) (model.Product, error)
	CreateProduct(ctx context.Context, actor *model.Actor, req CreateProductRequest) (model.Product, error)
	UpdateProduct(ctx context.Context, actor *model.Actor, id string, req UpdateProductRequest) (model.Product, error)
	DeleteProduct(ctx context.Context, actor *model.Actor, id string) error
}

type productService struct {
	base
	store *repository.Store
}

func NewProductService(store *repository.Store, logger *zap.Logger, events Publisher) ProductService {
	return &productService{base: newBase(logger, events), store: store}
}

// --- Implementation ---

func (s *productService) ListProducts(ctx context.Context, actor *model.Actor) ([]model.Product, error) {
	if err := s.check(actor, permission.ProductRead); err != nil {
		return nil, err
	}
	return s.store.ListProducts(), nil
}

func (s *productService) GetProduct(ctx context.Context, actor *model.Actor, id string) (model.Product, error) {
	if err := s.check(actor, permission.ProductRead); err != nil {
		return model.Product{}, err
	}
	return s.store.GetProduct(id)
}

func (s *productService) CreateProduct(ctx context.Context, actor *model.Actor, req CreateProductRequest) (model.Product, error) {
	g, err := s.authorize(actor, permission.ProductCreate)
	if err != nil {
		return model.Product{}, err
	}

	product, err := s.store.CreateProduct(g, model.Product{
		Name:         req.Name,
		Category:     req.Category,
		Price:        req.Price,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		Threshold:    req.Threshold,
		Expiry:       req.Expiry,
		Availability: req.Availability,
	})
	if err != nil {
		return model.Product{}, err
	}

	s.logger.Info("Product created", append(actorFields(actor), zap.String("product_id", product.ID), zap.String("name", product.Name))...)
	s.events.Publish(EventProductCreated, product)
	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, actor *model.Actor, id string, req UpdateProductRequest) (model.Product, error) {
	g, err := s.authorize(actor, permission.ProductUpdate)
	if err != nil {
		return model.Product{}, err
	}

	product, err := s.store.UpdateProduct(g, id, repository.ProductPatch{
		Name:         req.Name,
		Category:     req.Category,
		Price:        req.Price,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		Threshold:    req.Threshold,
		Expiry:       req.Expiry,
		Availability: req.Availability,
		Approved:     req.Approved,
	})
	if err != nil {
		return model.Product{}, err
	}

	s.logger.Info("Product updated", append(actorFields(actor), zap.String("product_id", product.ID))...)
	s.events.Publish(EventProductUpdated, product)
	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, actor *model.Actor, id string) error {
	g, err := s.authorize(actor, permission.ProductDelete)
	if err != nil {
		return err
	}

	removed, err := s.store.DeleteProduct(g, id)
	if err != nil {
		return err
	}
	if !removed {
		return apperror.NotFound("product %s not found", id)
	}

	s.logger.Info("Product deleted", append(actorFields(actor), zap.String("product_id", id))...)
	s.events.Publish(EventProductDeleted, map[string]string{"id": id})
	return nil
}
