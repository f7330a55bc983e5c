package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RoleName is a named authorization grant
type RoleName = string

const (
	// RoleAdmin grants the administrative scope
	RoleAdmin RoleName = "ADMIN"
	// RoleBasic is the default grant attached at self-service registration
	RoleBasic RoleName = "BASIC"
)

// IsValidRole checks the name against the known enumeration
func IsValidRole(name RoleName) bool {
	switch name {
	case RoleAdmin, RoleBasic:
		return true
	default:
		return false
	}
}

// Principal is an entity capable of authenticating. The password hash is
// never serialized; the plaintext secret never touches this model.
type Principal struct {
	bun.BaseModel `bun:"table:principals,alias:prn"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull,unique" json:"name,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	Roles         []*Role    `bun:"m2m:principal_roles,join:Principal=Role" json:"roles,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// RoleNames returns the names of the principal's roles
func (p *Principal) RoleNames() []string {
	if p == nil || len(p.Roles) == 0 {
		return nil
	}
	names := make([]string, 0, len(p.Roles))
	for _, role := range p.Roles {
		if role != nil {
			names = append(names, role.Name)
		}
	}
	return names
}

// Role is read-mostly reference data seeded at bootstrap. Principals point at
// roles; roles hold no back-reference.
type Role struct {
	bun.BaseModel `bun:"table:roles,alias:rol"`
	ID            uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          RoleName  `bun:"name,notnull,unique" json:"name,omitempty"`
}

// PrincipalToRole is the join model backing the principal/role association
type PrincipalToRole struct {
	bun.BaseModel `bun:"table:principal_roles,alias:ptr"`
	PrincipalID   uuid.UUID  `bun:"principal_id,pk,type:uuid" json:"principal_id,omitempty"`
	Principal     *Principal `bun:"rel:belongs-to,join:principal_id=id" json:"-"`
	RoleID        uuid.UUID  `bun:"role_id,pk,type:uuid" json:"role_id,omitempty"`
	Role          *Role      `bun:"rel:belongs-to,join:role_id=id" json:"-"`
}
