// Package permission holds the static role/capability policy. Every role
// check in the service goes through Evaluate or Authorize.
package permission

import (
	"expoflow/internal/model"
	"expoflow/pkg/apperror"
)

// Capability names one category of read or mutation.
type Capability string

const (
	ProductCreate    Capability = "product.create"
	ProductRead      Capability = "product.read"
	ProductUpdate    Capability = "product.update"
	ProductDelete    Capability = "product.delete"
	ExhibitionCreate Capability = "exhibition.create"
	ExhibitionRead   Capability = "exhibition.read"
	ExhibitionUpdate Capability = "exhibition.update"
	ApprovalApprove  Capability = "approval.approve"
	ApprovalRead     Capability = "approval.read"
	OrderCreate      Capability = "order.create"
	OrderRead        Capability = "order.read"
	OrderUpdate      Capability = "order.update"
)

var (
	all     = []model.Role{model.RoleAdmin, model.RoleManager, model.RoleOperator, model.RoleViewer}
	writers = []model.Role{model.RoleAdmin, model.RoleManager, model.RoleOperator}
	leads   = []model.Role{model.RoleAdmin, model.RoleManager}
	admins  = []model.Role{model.RoleAdmin}
)

var policy = map[Capability]map[model.Role]bool{
	ProductCreate:    set(writers),
	ProductRead:      set(all),
	ProductUpdate:    set(leads),
	ProductDelete:    set(admins),
	ExhibitionCreate: set(leads),
	ExhibitionRead:   set(all),
	ExhibitionUpdate: set(leads),
	ApprovalApprove:  set(leads),
	ApprovalRead:     set(all),
	OrderCreate:      set(writers),
	OrderRead:        set(all),
	OrderUpdate:      set(leads),
}

func set(roles []model.Role) map[model.Role]bool {
	m := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		m[r] = true
	}
	return m
}

// Capabilities returns every known capability.
func Capabilities() []Capability {
	return []Capability{
		ProductCreate, ProductRead, ProductUpdate, ProductDelete,
		ExhibitionCreate, ExhibitionRead, ExhibitionUpdate,
		ApprovalApprove, ApprovalRead,
		OrderCreate, OrderRead, OrderUpdate,
	}
}

// Evaluate reports whether role may exercise capability. Unknown roles and
// unknown capabilities are denied.
func Evaluate(role model.Role, capability Capability) bool {
	return policy[capability][role]
}

// Grant proves that an actor passed Evaluate for one capability. Only this
// package can mint a non-zero Grant, so store mutations that demand one
// cannot be reached without a permission check.
type Grant struct {
	capability Capability
	actorID    string
}

// Authorize evaluates actor against capability and returns a Grant.
func Authorize(actor *model.Actor, capability Capability) (Grant, error) {
	if actor == nil || actor.ID == "" {
		return Grant{}, apperror.Unauthenticated("no resolvable actor")
	}
	if !Evaluate(actor.Role, capability) {
		return Grant{}, apperror.Forbidden("role %s lacks capability %s", actor.Role, capability)
	}
	return Grant{capability: capability, actorID: actor.ID}, nil
}

// Allows reports whether g was issued for capability.
func (g Grant) Allows(capability Capability) bool {
	return g.capability != "" && g.capability == capability
}

// Require returns a Forbidden error unless g was issued for capability.
func (g Grant) Require(capability Capability) error {
	if !g.Allows(capability) {
		return apperror.Forbidden("missing grant for %s", capability)
	}
	return nil
}

// ActorID is the actor the grant was issued to.
func (g Grant) ActorID() string { return g.actorID }

// Capability is the capability the grant was issued for.
func (g Grant) Capability() Capability { return g.capability }
