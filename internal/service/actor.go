package service

import (
	"slices"

	"github.com/ITyukz11/payops/internal/model"
)

type Role string

const (
	RoleSuperAdmin Role = "SUPERADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleLoader     Role = "LOADER"
	RoleAccounting Role = "ACCOUNTING"
	RoleSystem     Role = "SYSTEM"
)

// Actor is whoever performs an operation. It is written to performed_by_id on every
// log row.
type Actor struct {
	ID   string
	Role Role
}

var SystemActor = Actor{ID: "system", Role: RoleSystem}

func GatewayActor(name string) Actor {
	return Actor{ID: "gateway:" + name, Role: RoleSystem}
}

var allowedRoles = map[model.EntityType][]Role{
	model.EntityCashin:             {RoleSuperAdmin, RoleAdmin, RoleLoader},
	model.EntityTransactionRequest: {RoleSuperAdmin, RoleAdmin, RoleLoader},
	model.EntityCashout:            {RoleSuperAdmin, RoleAdmin, RoleAccounting},
	model.EntityCommission:         {RoleSuperAdmin, RoleAdmin, RoleAccounting},
}

func Authorize(actor Actor, entity model.EntityType) error {
	if actor.ID == "" || !slices.Contains(allowedRoles[entity], actor.Role) {
		return ErrUnauthorized
	}
	return nil
}
