package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/go-rbac-admin/go-rbac-admin/internal/domain"
)

// Permission represents a permission row in the authorization system.
// Permissions define granular access rights to resources and actions and
// may additionally be scoped to an HTTP method and path pattern.
type Permission struct {
	// ID is the unique identifier for the permission.
	ID uuid.UUID `gorm:"type:char(36);primaryKey"`
	// Name is the human-readable permission name.
	Name string `gorm:"size:100;not null"`
	// Code is the unique dotted permission code (e.g. "users.read").
	Code string `gorm:"unique;size:100;not null"`
	// Resource is the resource this permission applies to (e.g. "users").
	Resource string `gorm:"size:100;not null"`
	// Action is the action allowed on the resource (e.g. "read", "update").
	Action string `gorm:"size:50;not null"`
	// Description provides a human-readable explanation of what this permission grants.
	Description string `gorm:"size:255"`
	// Method is the optional HTTP method this permission is scoped to.
	Method string `gorm:"size:10"`
	// Path is the optional path pattern this permission is scoped to.
	Path string `gorm:"size:255"`
	// Category is an optional grouping label.
	Category string `gorm:"size:100"`
	// IsSystem indicates if this is a system permission that cannot be changed or deleted.
	IsSystem bool `gorm:"default:false"`
	// Deleted is the soft delete flag.
	Deleted bool `gorm:"default:false"`
	// SortOrder controls display ordering.
	SortOrder int `gorm:"default:0"`
	// CreatedAt is the timestamp when the permission was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the permission was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Permission model.
func (Permission) TableName() string {
	return "permissions"
}

// ToDomain maps the row onto the domain entity.
func (p *Permission) ToDomain() *domain.Permission {
	return &domain.Permission{
		ID:          p.ID,
		Name:        p.Name,
		Code:        p.Code,
		Resource:    p.Resource,
		Action:      p.Action,
		Description: p.Description,
		Method:      p.Method,
		Path:        p.Path,
		Category:    p.Category,
		IsSystem:    p.IsSystem,
		IsDeleted:   p.Deleted,
		SortOrder:   p.SortOrder,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// PermissionFromDomain maps a domain entity onto a row for persistence.
func PermissionFromDomain(p *domain.Permission) *Permission {
	return &Permission{
		ID:          p.ID,
		Name:        p.Name,
		Code:        p.Code,
		Resource:    p.Resource,
		Action:      p.Action,
		Description: p.Description,
		Method:      p.Method,
		Path:        p.Path,
		Category:    p.Category,
		IsSystem:    p.IsSystem,
		Deleted:     p.IsDeleted,
		SortOrder:   p.SortOrder,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
