package service

import (
	"context"
	"sort"

	"expoflow/internal/model"
	"expoflow/internal/permission"
	"expoflow/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const topProductsLimit = 5

type StatisticsService interface {
	GetExhibitionStatistics(ctx context.Context, actor *model.Actor, idOrCode string) (model.ExhibitionStatistics, error)
}

type statisticsService struct {
	base
	store *repository.Store
}

func NewStatisticsService(store *repository.Store, logger *zap.Logger) StatisticsService {
	return &statisticsService{base: newBase(logger, nil), store: store}
}

// GetExhibitionStatistics counts links per review status and ranks ordered
// products. Cancelled orders are counted by status but add no value. A line
// is priced from its exhibition link when set, else the catalogue price.
func (s *statisticsService) GetExhibitionStatistics(ctx context.Context, actor *model.Actor, idOrCode string) (model.ExhibitionStatistics, error) {
	if err := s.check(actor, permission.OrderRead); err != nil {
		return model.ExhibitionStatistics{}, err
	}
	exhibition, err := s.store.GetExhibition(idOrCode)
	if err != nil {
		return model.ExhibitionStatistics{}, err
	}
	code := exhibition.ExhibitionCode

	stats := model.ExhibitionStatistics{
		ExhibitionCode: code,
		OrdersByStatus: map[string]int{},
		OrderedValue:   decimal.Zero,
		TopProducts:    []model.ProductRanking{},
	}

	linkPrice := map[string]*decimal.Decimal{}
	for _, link := range s.store.ListExhibitionProducts(code) {
		switch link.Status {
		case model.ApprovalPending:
			stats.PendingProducts++
		case model.ApprovalApproved:
			stats.ApprovedProducts++
		case model.ApprovalRejected:
			stats.RejectedProducts++
		}
		linkPrice[link.ProductID] = link.Price
	}

	rankings := map[string]*model.ProductRanking{}
	for _, order := range s.store.ListOrders(code) {
		stats.TotalOrders++
		stats.OrdersByStatus[order.Status]++
		if order.Status == model.OrderStatusCancelled {
			continue
		}
		for _, item := range order.Items {
			r, ok := rankings[item.ProductID]
			if !ok {
				r = &model.ProductRanking{ProductID: item.ProductID, TotalValue: decimal.Zero}
				rankings[item.ProductID] = r
			}
			price := decimal.Zero
			if p := linkPrice[item.ProductID]; p != nil {
				price = *p
			}
			// Deleted products keep their order lines but lose name and price.
			if product, err := s.store.GetProduct(item.ProductID); err == nil {
				r.ProductName = product.Name
				if linkPrice[item.ProductID] == nil {
					price = product.Price
				}
			}
			value := price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			r.TotalQuantity += item.Quantity
			r.TotalValue = r.TotalValue.Add(value)
			stats.OrderedValue = stats.OrderedValue.Add(value)
		}
	}

	for _, r := range rankings {
		stats.TopProducts = append(stats.TopProducts, *r)
	}
	sort.Slice(stats.TopProducts, func(i, j int) bool {
		a, b := stats.TopProducts[i], stats.TopProducts[j]
		if a.TotalQuantity != b.TotalQuantity {
			return a.TotalQuantity > b.TotalQuantity
		}
		return a.ProductID < b.ProductID
	})
	if len(stats.TopProducts) > topProductsLimit {
		stats.TopProducts = stats.TopProducts[:topProductsLimit]
	}
	return stats, nil
}
