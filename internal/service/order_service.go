package service

import (
	"context"

	"expoflow/internal/model"
	"expoflow/internal/permission"
	"expoflow/internal/repository"

	"go.uber.org/zap"
)

// --- DTOs ---

type OrderItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

type CreateOrderRequest struct {
	ExhibitionCode string             `json:"exhibition_code" binding:"required"`
	Items          []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=DRAFT CONFIRMED SHIPPED DELIVERED CANCELLED"`
}

// --- Interface ---

type OrderService interface {
	ListOrders(ctx context.Context, actor *model.Actor, exhibitionCode string) ([]model.Order, error)
	GetOrder(ctx context.Context, actor *model.Actor, id string) (model.Order, error)
	CreateOrder(ctx context.Context, actor *model.Actor, req CreateOrderRequest) (model.Order, error)
	UpdateOrderStatus(ctx context.Context, actor *model.Actor, id string, req UpdateOrderStatusRequest) (model.Order, error)
}

type orderService struct {
	base
	store *repository.Store
}

func NewOrderService(store *repository.Store, logger *zap.Logger, events Publisher) OrderService {
	return &orderService{base: newBase(logger, events), store: store}
}

// --- Implementation ---

func (s *orderService) ListOrders(ctx context.Context, actor *model.Actor, exhibitionCode string) ([]model.Order, error) {
	if err := s.check(actor, permission.OrderRead); err != nil {
		return nil, err
	}
	return s.store.ListOrders(exhibitionCode), nil
}

func (s *orderService) GetOrder(ctx context.Context, actor *model.Actor, id string) (model.Order, error) {
	if err := s.check(actor, permission.OrderRead); err != nil {
		return model.Order{}, err
	}
	return s.store.GetOrder(id)
}

// CreateOrder admits the order only when every line refers to a product
// approved for the exhibition. Nothing is written otherwise.
func (s *orderService) CreateOrder(ctx context.Context, actor *model.Actor, req CreateOrderRequest) (model.Order, error) {
	g, err := s.authorize(actor, permission.OrderCreate)
	if err != nil {
		return model.Order{}, err
	}

	items := make([]model.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, model.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	order, err := s.store.CreateOrder(g, req.ExhibitionCode, items)
	if err != nil {
		s.logger.Info("Order rejected", append(actorFields(actor),
			zap.String("exhibition_code", req.ExhibitionCode), zap.Error(err))...)
		return model.Order{}, err
	}

	s.logger.Info("Order created", append(actorFields(actor),
		zap.String("order_id", order.ID),
		zap.String("exhibition_code", order.ExhibitionCode),
		zap.Int("items", len(order.Items)))...)
	s.events.Publish(EventOrderCreated, order)
	return order, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, actor *model.Actor, id string, req UpdateOrderStatusRequest) (model.Order, error) {
	g, err := s.authorize(actor, permission.OrderUpdate)
	if err != nil {
		return model.Order{}, err
	}

	order, err := s.store.UpdateOrderStatus(g, id, req.Status)
	if err != nil {
		return model.Order{}, err
	}

	s.logger.Info("Order status changed", append(actorFields(actor),
		zap.String("order_id", order.ID), zap.String("status", order.Status))...)
	s.events.Publish(EventOrderStatusChanged, order)
	return order, nil
}
