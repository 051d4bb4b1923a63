package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/go-rbac-admin/go-rbac-admin/internal/domain"
)

// UserRole represents the many-to-many relationship between users and roles.
// Assignments carry their own lifecycle: they can be switched off and may
// expire, independent of the user and role rows they connect.
type UserRole struct {
	// UserID is the ID of the user in this mapping.
	UserID uuid.UUID `gorm:"type:char(36);primaryKey;column:user_id"`
	// RoleID is the ID of the role in this mapping.
	RoleID uuid.UUID `gorm:"type:char(36);primaryKey;column:role_id"`
	// AssignedAt is the timestamp when the assignment was made.
	AssignedAt time.Time
	// AssignedBy is the ID of the assigning user, the zero UUID if unknown.
	AssignedBy uuid.UUID `gorm:"type:char(36)"`
	// ExpiresAt bounds the assignment in time, nil for a permanent grant.
	ExpiresAt *time.Time
	// Active indicates whether the assignment is currently switched on.
	Active bool `gorm:"default:true"`
	// User is the associated user (loaded via foreign key).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// Role is the associated role (loaded via foreign key).
	Role Role `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for the UserRole model.
func (UserRole) TableName() string {
	return "user_roles"
}

// ToDomain maps the row onto the domain association record.
func (ur *UserRole) ToDomain() *domain.UserRole {
	return &domain.UserRole{
		UserID:     ur.UserID,
		RoleID:     ur.RoleID,
		AssignedAt: ur.AssignedAt,
		AssignedBy: ur.AssignedBy,
		ExpiresAt:  ur.ExpiresAt,
		IsActive:   ur.Active,
	}
}

// UserRoleFromDomain maps a domain association record onto a row.
func UserRoleFromDomain(ur *domain.UserRole) *UserRole {
	return &UserRole{
		UserID:     ur.UserID,
		RoleID:     ur.RoleID,
		AssignedAt: ur.AssignedAt,
		AssignedBy: ur.AssignedBy,
		ExpiresAt:  ur.ExpiresAt,
		Active:     ur.IsActive,
	}
}
