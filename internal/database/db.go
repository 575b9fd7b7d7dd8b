package database

import (
	"fmt"

	"expoflow/internal/model"
	"expoflow/internal/permission"
	"expoflow/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultActors are the fixed identities available at startup, one per role.
var DefaultActors = []model.Actor{
	{ID: "u-admin", Name: "Admin", Role: model.RoleAdmin},
	{ID: "u-manager", Name: "Manager", Role: model.RoleManager},
	{ID: "u-operator", Name: "Operator", Role: model.RoleOperator},
	{ID: "u-viewer", Name: "Viewer", Role: model.RoleViewer},
}

// NewStore builds the process-wide store with the fixed actors preloaded.
func NewStore(opts ...repository.Option) *repository.Store {
	return repository.NewStore(append([]repository.Option{repository.WithActors(DefaultActors...)}, opts...)...)
}

// SeedDemoData loads a small catalogue and one exhibition so a fresh process
// has something to approve and order. It acts as the preloaded admin and
// goes through the same grant checks as any caller.
func SeedDemoData(store *repository.Store, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	seeder, err := store.GetActor("u-admin")
	if err != nil {
		return fmt.Errorf("seed actor: %w", err)
	}
	createGrant, err := permission.Authorize(&seeder, permission.ProductCreate)
	if err != nil {
		return err
	}
	exhibitionGrant, err := permission.Authorize(&seeder, permission.ExhibitionCreate)
	if err != nil {
		return err
	}

	catalogue := []model.Product{
		{Name: "Organic Coffee Beans", Category: "food", Price: decimal.RequireFromString("18.50"), Quantity: 120, Unit: "kg", Threshold: 20},
		{Name: "Bamboo Cutlery Set", Category: "homeware", Price: decimal.RequireFromString("6.90"), Quantity: 15, Unit: "set", Threshold: 25},
		{Name: "Linen Tote Bag", Category: "textile", Price: decimal.RequireFromString("4.20"), Quantity: 0, Unit: "pcs", Threshold: 10},
	}
	initial := make([]repository.ExhibitionProductInput, 0, len(catalogue))
	for _, p := range catalogue {
		created, err := store.CreateProduct(createGrant, p)
		if err != nil {
			return fmt.Errorf("seed product %s: %w", p.Name, err)
		}
		initial = append(initial, repository.ExhibitionProductInput{
			ProductID:  created.ID,
			Quantity:   created.Quantity,
			SupplierID: "sup-demo",
		})
	}

	exhibition, links, err := store.CreateExhibition(exhibitionGrant, model.Exhibition{
		Name:        "Autumn Trade Fair",
		Description: "Demo exhibition",
		Status:      model.ExhibitionStatusActive,
	}, initial)
	if err != nil {
		return fmt.Errorf("seed exhibition: %w", err)
	}

	logger.Info("Seeded demo data",
		zap.Int("products", len(catalogue)),
		zap.String("exhibition_code", exhibition.ExhibitionCode),
		zap.Int("pending_links", len(links)),
	)
	return nil
}
