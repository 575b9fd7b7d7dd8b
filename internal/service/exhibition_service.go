package service

import (
	"context"
	"time"

	"expoflow/internal/model"
	"expoflow/internal/permission"
	"expoflow/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// --- DTOs ---

type ExhibitionProductRequest struct {
	ProductID  string           `json:"product_id" binding:"required"`
	Quantity   int              `json:"quantity" binding:"min=0"`
	Price      *decimal.Decimal `json:"price"`
	SupplierID string           `json:"supplier_id"`
}

type CreateExhibitionRequest struct {
	ExhibitionCode string                     `json:"exhibition_code"`
	Name           string                     `json:"name" binding:"required"`
	Description    string                     `json:"description"`
	StartDate      *time.Time                 `json:"start_date"`
	EndDate        *time.Time                 `json:"end_date"`
	Status         string                     `json:"status" binding:"omitempty,oneof=PLANNING ACTIVE COMPLETED"`
	Products       []ExhibitionProductRequest `json:"products" binding:"omitempty,dive"`
}

type UpdateExhibitionRequest struct {
	Name        *string    `json:"name" binding:"omitempty,min=1"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Status      *string    `json:"status" binding:"omitempty,oneof=PLANNING ACTIVE COMPLETED"`
}

type AddExhibitionProductsRequest struct {
	Items []ExhibitionProductRequest `json:"items" binding:"required,min=1,dive"`
}

// ExhibitionDetail is an exhibition together with its product links.
type ExhibitionDetail struct {
	model.Exhibition
	Products []model.ExhibitionProduct `json:"products"`
}

// --- Interface ---

type ExhibitionService interface {
	ListExhibitions(ctx context.Context, actor *model.Actor) ([]model.Exhibition, error)
	GetExhibition(ctx context.Context, actor *model.Actor, idOrCode string) (model.Exhibition, error)
	CreateExhibition(ctx context.Context, actor *model.Actor, req CreateExhibitionRequest) (ExhibitionDetail, error)
	UpdateExhibition(ctx context.Context, actor *model.Actor, id string, req UpdateExhibitionRequest) (model.Exhibition, error)
	ListExhibitionProducts(ctx context.Context, actor *model.Actor, idOrCode string) ([]model.ExhibitionProduct, error)
	AddExhibitionProducts(ctx context.Context, actor *model.Actor, idOrCode string, req AddExhibitionProductsRequest) ([]model.ExhibitionProduct, error)
}

type exhibitionService struct {
	base
	store *repository.Store
}

func NewExhibitionService(store *repository.Store, logger *zap.Logger, events Publisher) ExhibitionService {
	return &exhibitionService{base: newBase(logger, events), store: store}
}

func toProductInputs(items []ExhibitionProductRequest) []repository.ExhibitionProductInput {
	out := make([]repository.ExhibitionProductInput, 0, len(items))
	for _, it := range items {
		out = append(out, repository.ExhibitionProductInput{
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			Price:      it.Price,
			SupplierID: it.SupplierID,
		})
	}
	return out
}

// --- Implementation ---

func (s *exhibitionService) ListExhibitions(ctx context.Context, actor *model.Actor) ([]model.Exhibition, error) {
	if err := s.check(actor, permission.ExhibitionRead); err != nil {
		return nil, err
	}
	return s.store.ListExhibitions(), nil
}

// GetExhibition accepts either the exhibition id or its code.
func (s *exhibitionService) GetExhibition(ctx context.Context, actor *model.Actor, idOrCode string) (model.Exhibition, error) {
	if err := s.check(actor, permission.ExhibitionRead); err != nil {
		return model.Exhibition{}, err
	}
	return s.store.GetExhibition(idOrCode)
}

func (s *exhibitionService) CreateExhibition(ctx context.Context, actor *model.Actor, req CreateExhibitionRequest) (ExhibitionDetail, error) {
	g, err := s.authorize(actor, permission.ExhibitionCreate)
	if err != nil {
		return ExhibitionDetail{}, err
	}

	exhibition, links, err := s.store.CreateExhibition(g, model.Exhibition{
		ExhibitionCode: req.ExhibitionCode,
		Name:           req.Name,
		Description:    req.Description,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Status:         req.Status,
	}, toProductInputs(req.Products))
	if err != nil {
		return ExhibitionDetail{}, err
	}

	s.logger.Info("Exhibition created", append(actorFields(actor),
		zap.String("exhibition_code", exhibition.ExhibitionCode),
		zap.Int("products", len(links)))...)
	detail := ExhibitionDetail{Exhibition: exhibition, Products: links}
	s.events.Publish(EventExhibitionCreated, detail)
	return detail, nil
}

func (s *exhibitionService) UpdateExhibition(ctx context.Context, actor *model.Actor, id string, req UpdateExhibitionRequest) (model.Exhibition, error) {
	g, err := s.authorize(actor, permission.ExhibitionUpdate)
	if err != nil {
		return model.Exhibition{}, err
	}

	exhibition, err := s.store.UpdateExhibition(g, id, repository.ExhibitionPatch{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      req.Status,
	})
	if err != nil {
		return model.Exhibition{}, err
	}

	s.logger.Info("Exhibition updated", append(actorFields(actor), zap.String("exhibition_code", exhibition.ExhibitionCode))...)
	s.events.Publish(EventExhibitionUpdated, exhibition)
	return exhibition, nil
}

func (s *exhibitionService) ListExhibitionProducts(ctx context.Context, actor *model.Actor, idOrCode string) ([]model.ExhibitionProduct, error) {
	if err := s.check(actor, permission.ExhibitionRead); err != nil {
		return nil, err
	}
	exhibition, err := s.store.GetExhibition(idOrCode)
	if err != nil {
		return nil, err
	}
	return s.store.ListExhibitionProducts(exhibition.ExhibitionCode), nil
}

func (s *exhibitionService) AddExhibitionProducts(ctx context.Context, actor *model.Actor, idOrCode string, req AddExhibitionProductsRequest) ([]model.ExhibitionProduct, error) {
	g, err := s.authorize(actor, permission.ExhibitionUpdate)
	if err != nil {
		return nil, err
	}
	exhibition, err := s.store.GetExhibition(idOrCode)
	if err != nil {
		return nil, err
	}
	code := exhibition.ExhibitionCode

	links, err := s.store.AddExhibitionProducts(g, code, toProductInputs(req.Items))
	if err != nil {
		return nil, err
	}

	s.logger.Info("Exhibition products added", append(actorFields(actor),
		zap.String("exhibition_code", code), zap.Int("count", len(links)))...)
	s.events.Publish(EventExhibitionProductsAdded, links)
	return links, nil
}
