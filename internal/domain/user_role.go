package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserRole is the audit record of a role assignment, optionally
// time-bounded. Like RolePermission it never mutates the aggregates; it
// records who assigned which role to which user, when, and until when.
type UserRole struct {
	// UserID identifies the user that received the role.
	UserID uuid.UUID
	// RoleID identifies the assigned role.
	RoleID uuid.UUID
	// AssignedAt is the assignment timestamp.
	AssignedAt time.Time
	// AssignedBy identifies the assigning user, uuid.Nil if unknown.
	AssignedBy uuid.UUID
	// ExpiresAt bounds the assignment in time, nil for a permanent grant.
	// When set it is strictly after AssignedAt.
	ExpiresAt *time.Time
	// IsActive indicates whether the assignment is currently switched on.
	IsActive bool
}

// NewUserRole validates and returns an assignment record stamped with the
// current time. assignedBy may be uuid.Nil when the assignor is unknown;
// expiresAt may be nil for a permanent assignment.
func NewUserRole(userID, roleID, assignedBy uuid.UUID, expiresAt *time.Time) (*UserRole, error) {
	ur := &UserRole{
		UserID:     userID,
		RoleID:     roleID,
		AssignedAt: time.Now().UTC(),
		AssignedBy: assignedBy,
		ExpiresAt:  expiresAt,
		IsActive:   true,
	}

	if err := ur.Validate(); err != nil {
		return nil, err
	}

	return ur, nil
}

// Validate checks the record invariants: both identifiers present and
// distinct, and any expiry strictly after the assignment time.
func (ur *UserRole) Validate() error {
	if ur.UserID == uuid.Nil {
		return validationError("user id cannot be empty")
	}

	if ur.RoleID == uuid.Nil {
		return validationError("role id cannot be empty")
	}

	if ur.UserID == ur.RoleID {
		return validationError("user id and role id cannot be equal")
	}

	if ur.ExpiresAt != nil && !ur.ExpiresAt.After(ur.AssignedAt) {
		return validationError("expiry must be after assignment")
	}

	return nil
}

// IsExpired reports whether the assignment has passed its expiry. A
// permanent assignment never expires.
func (ur *UserRole) IsExpired() bool {
	if ur.ExpiresAt == nil {
		return false
	}

	return time.Now().UTC().After(*ur.ExpiresAt)
}

// IsValid reports whether the assignment is active and not expired.
func (ur *UserRole) IsValid() bool {
	return ur.IsActive && !ur.IsExpired()
}

// Activate switches the assignment on.
func (ur *UserRole) Activate() {
	ur.IsActive = true
}

// Deactivate switches the assignment off without deleting it.
func (ur *UserRole) Deactivate() {
	ur.IsActive = false
}

// ExtendExpiry moves the expiry forward. The new expiry must be in the
// future and, if an expiry is already set, strictly after it.
func (ur *UserRole) ExtendExpiry(newExpiresAt time.Time) error {
	if !newExpiresAt.After(time.Now().UTC()) {
		return validationError("new expiry must be in the future")
	}

	if ur.ExpiresAt != nil && !newExpiresAt.After(*ur.ExpiresAt) {
		return validationError("new expiry must be after the current expiry")
	}

	ur.ExpiresAt = &newExpiresAt

	return nil
}

// SetPermanent clears the expiry, making the assignment permanent.
func (ur *UserRole) SetPermanent() {
	ur.ExpiresAt = nil
}

// RemainingDays returns the number of whole days until expiry. The second
// return value is false for permanent assignments.
func (ur *UserRole) RemainingDays() (int, bool) {
	if ur.ExpiresAt == nil {
		return 0, false
	}

	remaining := int(time.Until(*ur.ExpiresAt).Hours() / 24)
	if remaining < 0 {
		remaining = 0
	}

	return remaining, true
}
