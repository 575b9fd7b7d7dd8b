package service

import (
	"context"

	"expoflow/internal/model"
	"expoflow/internal/permission"
)

// --- DTOs ---

type RoleResponse struct {
	Name         model.Role              `json:"name"`
	Capabilities []permission.Capability `json:"capabilities"`
}

// --- Interface ---

// RoleService exposes the static role policy for clients that hide
// actions the caller cannot perform.
type RoleService interface {
	ListRoles(ctx context.Context) []RoleResponse
	ListPermissions(ctx context.Context) []permission.Capability
}

type roleService struct{}

func NewRoleService() RoleService {
	return roleService{}
}

func (roleService) ListRoles(ctx context.Context) []RoleResponse {
	out := make([]RoleResponse, 0, len(model.Roles))
	for _, role := range model.Roles {
		caps := []permission.Capability{}
		for _, c := range permission.Capabilities() {
			if permission.Evaluate(role, c) {
				caps = append(caps, c)
			}
		}
		out = append(out, RoleResponse{Name: role, Capabilities: caps})
	}
	return out
}

func (roleService) ListPermissions(ctx context.Context) []permission.Capability {
	return permission.Capabilities()
}
