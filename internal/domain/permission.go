package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	resourcePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)
	actionPattern   = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)
)

// validMethods is the set of HTTP methods a permission may declare.
var validMethods = map[string]struct{}{
	"GET": {}, "POST": {}, "PUT": {}, "DELETE": {},
	"PATCH": {}, "HEAD": {}, "OPTIONS": {},
}

// Permission describes a grantable capability, optionally scoped to an HTTP
// method and path pattern. A permission declaring both method and path is an
// API permission; one declaring neither is a general, resource/action-level
// permission. System permissions are immutable and cannot be deleted.
type Permission struct {
	// ID is the unique identifier for the permission.
	ID uuid.UUID
	// Name is the human-readable permission name.
	Name string
	// Code is the unique dotted permission code (e.g. "users.read").
	Code string
	// Resource is the resource the permission applies to.
	Resource string
	// Action is the action allowed on the resource.
	Action string
	// Description provides an optional explanation of what the permission grants.
	Description string
	// Method is the optional HTTP method this permission is scoped to.
	Method string
	// Path is the optional path pattern this permission is scoped to.
	Path string
	// Category is an optional grouping label.
	Category string
	// IsSystem marks the permission as system-protected: immutable and non-deletable.
	IsSystem bool
	// IsDeleted is the soft-delete flag; deleted permissions are never removed physically.
	IsDeleted bool
	// SortOrder controls display ordering.
	SortOrder int
	// CreatedAt is the creation timestamp.
	CreatedAt time.Time
	// UpdatedAt is the last mutation timestamp.
	UpdatedAt time.Time
}

// PermissionSpec carries the attributes accepted when creating a permission.
type PermissionSpec struct {
	Name        string
	Code        string
	Resource    string
	Action      string
	Description string
	Method      string
	Path        string
	Category    string
	IsSystem    bool
}

// NewPermission validates the spec and returns a new permission with a fresh
// identity. It is the only way to create a permission; rehydration from
// storage goes through the persistence layer which only restores previously
// validated state.
func NewPermission(spec PermissionSpec) (*Permission, error) {
	if err := validatePermissionName(spec.Name); err != nil {
		return nil, err
	}

	if _, err := NewPermissionCode(spec.Code); err != nil {
		return nil, err
	}

	if err := validateResource(spec.Resource); err != nil {
		return nil, err
	}

	if err := validateAction(spec.Action); err != nil {
		return nil, err
	}

	if spec.Method != "" {
		if err := validateMethod(spec.Method); err != nil {
			return nil, err
		}
	}

	if spec.Path != "" {
		if err := validatePath(spec.Path); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()

	return &Permission{
		ID:          uuid.New(),
		Name:        spec.Name,
		Code:        spec.Code,
		Resource:    spec.Resource,
		Action:      spec.Action,
		Description: spec.Description,
		Method:      strings.ToUpper(spec.Method),
		Path:        spec.Path,
		Category:    spec.Category,
		IsSystem:    spec.IsSystem,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// PermissionUpdate carries optional field changes for Update. Nil fields are
// left untouched.
type PermissionUpdate struct {
	Name        *string
	Description *string
	Method      *string
	Path        *string
	Category    *string
	SortOrder   *int
}

// Update applies the given field changes. System permissions reject any
// modification; validation failures leave the permission unchanged.
func (p *Permission) Update(u PermissionUpdate) error {
	if p.IsSystem {
		return validationError("system permission cannot be modified")
	}

	if u.Name != nil {
		if err := validatePermissionName(*u.Name); err != nil {
			return err
		}
	}

	if u.Method != nil {
		if err := validateMethod(*u.Method); err != nil {
			return err
		}
	}

	if u.Path != nil {
		if err := validatePath(*u.Path); err != nil {
			return err
		}
	}

	if u.Name != nil {
		p.Name = *u.Name
	}

	if u.Description != nil {
		p.Description = *u.Description
	}

	if u.Method != nil {
		p.Method = strings.ToUpper(*u.Method)
	}

	if u.Path != nil {
		p.Path = *u.Path
	}

	if u.Category != nil {
		p.Category = *u.Category
	}

	if u.SortOrder != nil {
		p.SortOrder = *u.SortOrder
	}

	p.UpdatedAt = time.Now().UTC()

	return nil
}

// SoftDelete marks the permission deleted. System permissions cannot be
// deleted.
func (p *Permission) SoftDelete() error {
	if p.IsSystem {
		return validationError("system permission cannot be deleted")
	}

	p.IsDeleted = true
	p.UpdatedAt = time.Now().UTC()

	return nil
}

// Restore clears the soft-delete flag.
func (p *Permission) Restore() {
	p.IsDeleted = false
	p.UpdatedAt = time.Now().UTC()
}

// IsAPIPermission reports whether the permission is scoped to a concrete
// HTTP method and path.
func (p *Permission) IsAPIPermission() bool {
	return p.Method != "" && p.Path != ""
}

// IsGeneralPermission reports whether the permission is a resource/action
// level grant without HTTP scoping.
func (p *Permission) IsGeneralPermission() bool {
	return !p.IsAPIPermission()
}

// CanBeInherited reports whether the permission may be copied between roles.
func (p *Permission) CanBeInherited() bool {
	return !p.IsSystem || p.IsGeneralPermission()
}

// Key returns a unique composite key built from resource, action and the
// optional HTTP scope.
func (p *Permission) Key() string {
	parts := []string{p.Resource, p.Action}
	if p.Method != "" {
		parts = append(parts, p.Method)
	}

	if p.Path != "" {
		parts = append(parts, p.Path)
	}

	return strings.Join(parts, ":")
}

func validatePermissionName(name string) error {
	if name == "" {
		return validationError("permission name cannot be empty")
	}

	if len(name) < 2 || len(name) > 100 {
		return validationError("permission name must be between 2 and 100 characters")
	}

	return nil
}

func validateResource(resource string) error {
	if resource == "" {
		return validationError("resource cannot be empty")
	}

	if len(resource) < 2 || len(resource) > 100 {
		return validationError("resource must be between 2 and 100 characters")
	}

	if !resourcePattern.MatchString(resource) {
		return validationError("resource must start with a letter and contain only letters, digits, underscores and hyphens")
	}

	return nil
}

func validateAction(action string) error {
	if action == "" {
		return validationError("action cannot be empty")
	}

	if len(action) < 2 || len(action) > 50 {
		return validationError("action must be between 2 and 50 characters")
	}

	if !actionPattern.MatchString(action) {
		return validationError("action must start with a letter and contain only letters, digits, underscores and hyphens")
	}

	return nil
}

func validateMethod(method string) error {
	if _, ok := validMethods[strings.ToUpper(method)]; !ok {
		return validationError("invalid HTTP method: %s", method)
	}

	return nil
}

func validatePath(path string) error {
	if !strings.HasPrefix(path, "/") {
		return validationError("path must start with /")
	}

	if len(path) > 255 {
		return validationError("path cannot exceed 255 characters")
	}

	return nil
}

// PermissionSet is a set of permissions keyed by identity. Two permissions
// are the same element iff their IDs are equal; adding an existing ID is a
// no-op replace, so duplicates are impossible.
type PermissionSet map[uuid.UUID]*Permission

// Add inserts the permission, replacing any entry with the same ID.
func (s PermissionSet) Add(p *Permission) {
	s[p.ID] = p
}

// Discard removes the permission with the given ID if present.
func (s PermissionSet) Discard(id uuid.UUID) {
	delete(s, id)
}

// Contains reports whether a permission with the given ID is present.
func (s PermissionSet) Contains(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

// Values returns the members in unspecified order.
func (s PermissionSet) Values() []*Permission {
	out := make([]*Permission, 0, len(s))
	for _, p := range s {
		out = append(out, p)
	}

	return out
}
