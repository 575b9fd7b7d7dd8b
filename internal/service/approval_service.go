package service

import (
	"context"

	"expoflow/internal/model"
	"expoflow/internal/permission"
	"expoflow/internal/repository"

	"go.uber.org/zap"
)

// --- DTOs ---

type SetApprovalRequest struct {
	Status string `json:"status" binding:"required"`
}

// --- Interface ---

// ApprovalService reviews exhibition product links. Only approved links
// admit an order line for that product in that exhibition.
type ApprovalService interface {
	ListPendingApprovals(ctx context.Context, actor *model.Actor) ([]model.ExhibitionProduct, error)
	ListApproved(ctx context.Context, actor *model.Actor, exhibitionIDOrCode string) ([]model.ExhibitionProduct, error)
	SetApproval(ctx context.Context, actor *model.Actor, id string, req SetApprovalRequest) (model.ExhibitionProduct, error)
}

type approvalService struct {
	base
	store *repository.Store
}

func NewApprovalService(store *repository.Store, logger *zap.Logger, events Publisher) ApprovalService {
	return &approvalService{base: newBase(logger, events), store: store}
}

// --- Implementation ---

func (s *approvalService) ListPendingApprovals(ctx context.Context, actor *model.Actor) ([]model.ExhibitionProduct, error) {
	if err := s.check(actor, permission.ApprovalRead); err != nil {
		return nil, err
	}
	return s.store.ListPendingExhibitionProducts(), nil
}

func (s *approvalService) ListApproved(ctx context.Context, actor *model.Actor, exhibitionIDOrCode string) ([]model.ExhibitionProduct, error) {
	if err := s.check(actor, permission.ApprovalRead); err != nil {
		return nil, err
	}
	exhibition, err := s.store.GetExhibition(exhibitionIDOrCode)
	if err != nil {
		return nil, err
	}
	return s.store.ListApprovedExhibitionProducts(exhibition.ExhibitionCode), nil
}

func (s *approvalService) SetApproval(ctx context.Context, actor *model.Actor, id string, req SetApprovalRequest) (model.ExhibitionProduct, error) {
	g, err := s.authorize(actor, permission.ApprovalApprove)
	if err != nil {
		return model.ExhibitionProduct{}, err
	}

	link, err := s.store.SetExhibitionProductStatus(g, id, req.Status)
	if err != nil {
		return model.ExhibitionProduct{}, err
	}

	s.logger.Info("Exhibition product reviewed", append(actorFields(actor),
		zap.String("exhibition_product_id", link.ID),
		zap.String("exhibition_code", link.ExhibitionCode),
		zap.String("product_id", link.ProductID),
		zap.String("status", link.Status))...)
	s.events.Publish(EventExhibitionProductStatusSet, link)
	return link, nil
}
