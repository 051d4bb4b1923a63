package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/go-rbac-admin/go-rbac-admin/internal/domain"
)

// RolePermission represents the many-to-many relationship between roles and permissions.
// This junction table maps which permissions are granted to which roles.
// When a role is deleted, its permission grants are automatically removed (CASCADE).
type RolePermission struct {
	// RoleID is the ID of the role in this mapping.
	RoleID uuid.UUID `gorm:"type:char(36);primaryKey;column:role_id"`
	// PermissionID is the ID of the permission in this mapping.
	PermissionID uuid.UUID `gorm:"type:char(36);primaryKey;column:permission_id"`
	// GrantedAt is the timestamp when the grant was made.
	GrantedAt time.Time
	// GrantedBy is the ID of the granting user, the zero UUID if unknown.
	GrantedBy uuid.UUID `gorm:"type:char(36)"`
	// Role is the associated role (loaded via foreign key).
	Role Role `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
	// Permission is the associated permission (loaded via foreign key).
	Permission Permission `gorm:"foreignKey:PermissionID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for the RolePermission model.
func (RolePermission) TableName() string {
	return "role_permissions"
}

// ToDomain maps the row onto the domain association record.
func (rp *RolePermission) ToDomain() *domain.RolePermission {
	return &domain.RolePermission{
		RoleID:       rp.RoleID,
		PermissionID: rp.PermissionID,
		GrantedAt:    rp.GrantedAt,
		GrantedBy:    rp.GrantedBy,
	}
}

// RolePermissionFromDomain maps a domain association record onto a row.
func RolePermissionFromDomain(rp *domain.RolePermission) *RolePermission {
	return &RolePermission{
		RoleID:       rp.RoleID,
		PermissionID: rp.PermissionID,
		GrantedAt:    rp.GrantedAt,
		GrantedBy:    rp.GrantedBy,
	}
}
