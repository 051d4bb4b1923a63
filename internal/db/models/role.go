package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/go-rbac-admin/go-rbac-admin/internal/domain"
)

// Role represents a role row in the role-based access control system.
// Permission grants live in the role_permissions junction table.
type Role struct {
	// ID is the unique identifier for the role.
	ID uuid.UUID `gorm:"type:char(36);primaryKey"`
	// Name is the human-readable role name.
	Name string `gorm:"size:100;not null"`
	// Code is the unique uppercase role code (e.g. "ADMIN").
	Code string `gorm:"unique;size:50;not null"`
	// Description provides a human-readable description of the role's purpose.
	Description string `gorm:"size:255"`
	// Level orders roles by privilege, higher is more privileged.
	Level int `gorm:"default:0"`
	// Active indicates whether the role may receive grants and be assigned.
	Active bool `gorm:"default:true"`
	// IsSystem indicates if this is a system role that cannot be deleted.
	IsSystem bool `gorm:"default:false"`
	// Deleted is the soft delete flag.
	Deleted bool `gorm:"default:false"`
	// SortOrder controls display ordering.
	SortOrder int `gorm:"default:0"`
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}

// ToDomain maps the row onto the domain aggregate. Permissions start empty
// and are attached by the caller after loading the junction rows.
func (r *Role) ToDomain() *domain.Role {
	return &domain.Role{
		ID:          r.ID,
		Name:        r.Name,
		Code:        r.Code,
		Description: r.Description,
		Level:       r.Level,
		IsActive:    r.Active,
		IsSystem:    r.IsSystem,
		IsDeleted:   r.Deleted,
		SortOrder:   r.SortOrder,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Permissions: domain.PermissionSet{},
	}
}

// RoleFromDomain maps a domain aggregate onto a row for persistence.
func RoleFromDomain(r *domain.Role) *Role {
	return &Role{
		ID:          r.ID,
		Name:        r.Name,
		Code:        r.Code,
		Description: r.Description,
		Level:       r.Level,
		Active:      r.IsActive,
		IsSystem:    r.IsSystem,
		Deleted:     r.IsDeleted,
		SortOrder:   r.SortOrder,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
