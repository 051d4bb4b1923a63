package domain

import (
	"time"

	"github.com/google/uuid"
)

// RolePermission is the audit record of a permission grant: which role
// received which permission, when, and by whom. It is immutable once
// validated and never mutates the Role or Permission aggregates; those are
// only changed through the aggregate operations, with association records
// persisted alongside as a read-model projection.
type RolePermission struct {
	// RoleID identifies the role that received the grant.
	RoleID uuid.UUID
	// PermissionID identifies the granted permission.
	PermissionID uuid.UUID
	// GrantedAt is the grant timestamp.
	GrantedAt time.Time
	// GrantedBy identifies the granting user, uuid.Nil if unknown.
	GrantedBy uuid.UUID
}

// NewRolePermission validates and returns a grant record stamped with the
// current time. grantedBy may be uuid.Nil when the grantor is unknown.
func NewRolePermission(roleID, permissionID, grantedBy uuid.UUID) (*RolePermission, error) {
	rp := &RolePermission{
		RoleID:       roleID,
		PermissionID: permissionID,
		GrantedAt:    time.Now().UTC(),
		GrantedBy:    grantedBy,
	}

	if err := rp.Validate(); err != nil {
		return nil, err
	}

	return rp, nil
}

// Validate checks the record invariants: both identifiers present and
// distinct.
func (rp *RolePermission) Validate() error {
	if rp.RoleID == uuid.Nil {
		return validationError("role id cannot be empty")
	}

	if rp.PermissionID == uuid.Nil {
		return validationError("permission id cannot be empty")
	}

	if rp.RoleID == rp.PermissionID {
		return validationError("role id and permission id cannot be equal")
	}

	return nil
}

// IsGrantedBy reports whether the grant was made by the given user.
func (rp *RolePermission) IsGrantedBy(userID uuid.UUID) bool {
	return rp.GrantedBy != uuid.Nil && rp.GrantedBy == userID
}

// IsRecentGrant reports whether the grant happened within the given window.
func (rp *RolePermission) IsRecentGrant(window time.Duration) bool {
	if rp.GrantedAt.IsZero() {
		return false
	}

	return rp.GrantedAt.After(time.Now().UTC().Add(-window))
}

// GrantAgeDays returns the number of whole days since the grant.
func (rp *RolePermission) GrantAgeDays() int {
	if rp.GrantedAt.IsZero() {
		return 0
	}

	return int(time.Now().UTC().Sub(rp.GrantedAt).Hours() / 24)
}
