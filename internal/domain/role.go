package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is a named collection of permissions with an ordering level
// (0-999, higher means more privileged). Roles own an identity-keyed
// permission set; every mutation of that set goes through the grant,
// revoke, merge and clear operations below so that the invariants hold.
// System roles reject renaming, level changes, deactivation and deletion.
type Role struct {
	// ID is the unique identifier for the role.
	ID uuid.UUID
	// Name is the human-readable role name.
	Name string
	// Code is the unique uppercase role code (e.g. "ADMIN").
	Code string
	// Description provides an optional explanation of the role's purpose.
	Description string
	// Level orders roles by privilege: 0-999, higher is more privileged.
	Level int
	// IsActive indicates whether the role may receive grants and be assigned.
	IsActive bool
	// IsSystem marks the role as system-protected.
	IsSystem bool
	// IsDeleted is the soft-delete flag.
	IsDeleted bool
	// SortOrder controls display ordering.
	SortOrder int
	// CreatedAt is the creation timestamp.
	CreatedAt time.Time
	// UpdatedAt is the last mutation timestamp.
	UpdatedAt time.Time
	// Permissions is the identity-keyed set of granted permissions.
	Permissions PermissionSet
}

// RoleSpec carries the attributes accepted when creating a role.
type RoleSpec struct {
	Name        string
	Code        string
	Description string
	Level       int
	IsSystem    bool
}

// NewRole validates the spec and returns a new active role with a fresh
// identity and an empty permission set.
func NewRole(spec RoleSpec) (*Role, error) {
	if err := validateRoleName(spec.Name); err != nil {
		return nil, err
	}

	if _, err := NewRoleCode(spec.Code); err != nil {
		return nil, err
	}

	if err := validateRoleLevel(spec.Level); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	return &Role{
		ID:          uuid.New(),
		Name:        spec.Name,
		Code:        spec.Code,
		Description: spec.Description,
		Level:       spec.Level,
		IsActive:    true,
		IsSystem:    spec.IsSystem,
		CreatedAt:   now,
		UpdatedAt:   now,
		Permissions: make(PermissionSet),
	}, nil
}

// RoleUpdate carries optional field changes for Update. Nil fields are left
// untouched.
type RoleUpdate struct {
	Name        *string
	Description *string
	Level       *int
	SortOrder   *int
}

// Update applies the given field changes. System roles reject any
// modification; validation failures leave the role unchanged.
func (r *Role) Update(u RoleUpdate) error {
	if r.IsSystem {
		return validationError("system role cannot be modified")
	}

	if u.Name != nil {
		if err := validateRoleName(*u.Name); err != nil {
			return err
		}
	}

	if u.Level != nil {
		if err := validateRoleLevel(*u.Level); err != nil {
			return err
		}
	}

	if u.Name != nil {
		r.Name = *u.Name
	}

	if u.Description != nil {
		r.Description = *u.Description
	}

	if u.Level != nil {
		r.Level = *u.Level
	}

	if u.SortOrder != nil {
		r.SortOrder = *u.SortOrder
	}

	r.UpdatedAt = time.Now().UTC()

	return nil
}

// Activate marks the role active.
func (r *Role) Activate() {
	r.IsActive = true
	r.UpdatedAt = time.Now().UTC()
}

// Deactivate marks the role inactive. System roles cannot be deactivated.
func (r *Role) Deactivate() error {
	if r.IsSystem {
		return validationError("system role cannot be deactivated")
	}

	r.IsActive = false
	r.UpdatedAt = time.Now().UTC()

	return nil
}

// SoftDelete marks the role deleted and forces it inactive. System roles
// cannot be deleted.
func (r *Role) SoftDelete() error {
	if r.IsSystem {
		return validationError("system role cannot be deleted")
	}

	r.IsDeleted = true
	r.IsActive = false
	r.UpdatedAt = time.Now().UTC()

	return nil
}

// GrantPermission adds the permission to the role's set. The role must be
// active and the permission must not be soft-deleted. Granting an already
// held permission is a no-op by set semantics.
func (r *Role) GrantPermission(p *Permission) error {
	if !r.IsActive {
		return newError(CodeRoleAssignment, "cannot grant permission to an inactive role")
	}

	if p.IsDeleted {
		return newError(CodeRoleAssignment, "cannot grant a deleted permission")
	}

	r.Permissions.Add(p)
	r.UpdatedAt = time.Now().UTC()

	return nil
}

// RevokePermission removes the permission from the role's set. Revoking a
// system permission from a system role is forbidden; revoking an absent
// permission is a tolerated no-op.
func (r *Role) RevokePermission(p *Permission) error {
	if r.IsSystem && p.IsSystem {
		return validationError("cannot revoke a system permission from a system role")
	}

	r.Permissions.Discard(p.ID)
	r.UpdatedAt = time.Now().UTC()

	return nil
}

// HasPermission reports whether any owned permission carries the given code.
func (r *Role) HasPermission(code string) bool {
	for _, p := range r.Permissions {
		if p.Code == code {
			return true
		}
	}

	return false
}

// CanAccessResource reports whether any owned permission matches both
// resource and action exactly.
func (r *Role) CanAccessResource(resource, action string) bool {
	for _, p := range r.Permissions {
		if p.Resource == resource && p.Action == action {
			return true
		}
	}

	return false
}

// PermissionsByResource returns the owned permissions for the given resource.
func (r *Role) PermissionsByResource(resource string) []*Permission {
	var out []*Permission

	for _, p := range r.Permissions {
		if p.Resource == resource {
			out = append(out, p)
		}
	}

	return out
}

// PermissionsByCategory returns the owned permissions in the given category.
func (r *Role) PermissionsByCategory(category string) []*Permission {
	var out []*Permission

	for _, p := range r.Permissions {
		if p.Category == category {
			out = append(out, p)
		}
	}

	return out
}

// CanAssignToUser reports whether a user at the given level may assign this
// role. Only equal-or-higher-privileged users may assign a role, which
// prevents privilege escalation through assignment by a lower-privileged
// actor. Inactive roles can never be assigned.
func (r *Role) CanAssignToUser(userLevel int) bool {
	if !r.IsActive {
		return false
	}

	return userLevel >= r.Level
}

// IsHigherLevelThan reports whether this role strictly outranks other.
func (r *Role) IsHigherLevelThan(other *Role) bool {
	return r.Level > other.Level
}

// MergePermissionsFrom copies the non-system permissions of other into this
// role's set. System roles reject the merge.
func (r *Role) MergePermissionsFrom(other *Role) error {
	if r.IsSystem {
		return validationError("system role permissions cannot be modified")
	}

	for _, p := range other.Permissions {
		if !p.IsSystem {
			r.Permissions.Add(p)
		}
	}

	r.UpdatedAt = time.Now().UTC()

	return nil
}

// ClearPermissions empties the permission set. System roles reject the
// operation.
func (r *Role) ClearPermissions() error {
	if r.IsSystem {
		return validationError("system role permissions cannot be cleared")
	}

	r.Permissions = make(PermissionSet)
	r.UpdatedAt = time.Now().UTC()

	return nil
}

// PermissionCount returns the number of owned permissions.
func (r *Role) PermissionCount() int {
	return len(r.Permissions)
}

// HasSystemPermissions reports whether any owned permission is
// system-protected.
func (r *Role) HasSystemPermissions() bool {
	for _, p := range r.Permissions {
		if p.IsSystem {
			return true
		}
	}

	return false
}

func validateRoleName(name string) error {
	if name == "" {
		return validationError("role name cannot be empty")
	}

	if len(name) < 2 || len(name) > 100 {
		return validationError("role name must be between 2 and 100 characters")
	}

	return nil
}

func validateRoleLevel(level int) error {
	if level < 0 || level > 999 {
		return validationError("role level must be between 0 and 999")
	}

	return nil
}

// RoleSet is a set of roles keyed by identity, mirroring PermissionSet.
type RoleSet map[uuid.UUID]*Role

// Add inserts the role, replacing any entry with the same ID.
func (s RoleSet) Add(r *Role) {
	s[r.ID] = r
}

// Discard removes the role with the given ID if present.
func (s RoleSet) Discard(id uuid.UUID) {
	delete(s, id)
}

// Contains reports whether a role with the given ID is present.
func (s RoleSet) Contains(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

// Values returns the members in unspecified order.
func (s RoleSet) Values() []*Role {
	out := make([]*Role, 0, len(s))
	for _, r := range s {
		out = append(out, r)
	}

	return out
}
