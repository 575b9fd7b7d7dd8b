package service

import (
	"time"

	"expoflow/internal/model"
	"expoflow/internal/permission"
	"expoflow/internal/repository"

	"go.uber.org/zap"
)

// Event names published to websocket subscribers.
const (
	EventProductCreated             = "product.created"
	EventProductUpdated             = "product.updated"
	EventProductDeleted             = "product.deleted"
	EventExhibitionCreated          = "exhibition.created"
	EventExhibitionUpdated          = "exhibition.updated"
	EventExhibitionProductsAdded    = "exhibition_product.added"
	EventExhibitionProductStatusSet = "exhibition_product.status_changed"
	EventOrderCreated               = "order.created"
	EventOrderStatusChanged         = "order.status_changed"
	EventProductListCreated         = "product_list.created"
	EventProductListUpdated         = "product_list.updated"
)

// Publisher receives workflow events after a successful mutation.
type Publisher interface {
	Publish(event string, data interface{})
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, interface{}) {}

// base carries what every service needs: logging, events and the
// permission check that produces store grants.
type base struct {
	logger *zap.Logger
	events Publisher
}

func newBase(logger *zap.Logger, events Publisher) base {
	if logger == nil {
		logger = zap.NewNop()
	}
	if events == nil {
		events = nopPublisher{}
	}
	return base{logger: logger, events: events}
}

func (b base) authorize(actor *model.Actor, capability permission.Capability) (permission.Grant, error) {
	g, err := permission.Authorize(actor, capability)
	if err != nil {
		b.logger.Warn("Permission denied",
			append(actorFields(actor), zap.String("capability", string(capability)), zap.Error(err))...)
	}
	return g, err
}

// check is authorize for reads, where the grant itself is not needed.
func (b base) check(actor *model.Actor, capability permission.Capability) error {
	_, err := b.authorize(actor, capability)
	return err
}

func actorFields(actor *model.Actor) []zap.Field {
	if actor == nil {
		return []zap.Field{zap.String("actor_id", "")}
	}
	return []zap.Field{zap.String("actor_id", actor.ID), zap.String("role", string(actor.Role))}
}

// Services bundles every service constructed over one store.
type Services struct {
	Products     ProductService
	Exhibitions  ExhibitionService
	Approvals    ApprovalService
	Orders       OrderService
	ProductLists ProductListService
	Actors       ActorService
	Roles        RoleService
	Statistics   StatisticsService
}

func New(store *repository.Store, secret []byte, tokenTTL time.Duration, logger *zap.Logger, events Publisher) *Services {
	return &Services{
		Products:     NewProductService(store, logger, events),
		Exhibitions:  NewExhibitionService(store, logger, events),
		Approvals:    NewApprovalService(store, logger, events),
		Orders:       NewOrderService(store, logger, events),
		ProductLists: NewProductListService(store, logger, events),
		Actors:       NewActorService(store, secret, tokenTTL, logger),
		Roles:        NewRoleService(),
		Statistics:   NewStatisticsService(store, logger),
	}
}
