package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event is a domain event describing a completed state change. Services
// publish events after persisting the mutated aggregate; subscribers feed
// the audit log and external notifications.
type Event interface {
	// EventName returns the dotted event identifier, e.g. "user.login".
	EventName() string
	// OccurredAt returns when the event happened.
	OccurredAt() time.Time
}

type baseEvent struct {
	at time.Time
}

func newBaseEvent() baseEvent {
	return baseEvent{at: time.Now().UTC()}
}

func (e baseEvent) OccurredAt() time.Time { return e.at }

// UserCreatedEvent is published when a new user account is created.
type UserCreatedEvent struct {
	baseEvent
	UserID    uuid.UUID
	Username  string
	Email     string
	CreatedBy uuid.UUID
}

// NewUserCreatedEvent returns a UserCreatedEvent for the given user.
func NewUserCreatedEvent(user *User, createdBy uuid.UUID) UserCreatedEvent {
	return UserCreatedEvent{
		baseEvent: newBaseEvent(),
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedBy: createdBy,
	}
}

// EventName implements Event.
func (UserCreatedEvent) EventName() string { return "user.created" }

// UserLoginEvent is published after an authentication attempt.
type UserLoginEvent struct {
	baseEvent
	UserID    uuid.UUID
	Username  string
	IPAddress string
	UserAgent string
	Success   bool
}

// NewUserLoginEvent returns a UserLoginEvent for the given attempt.
func NewUserLoginEvent(userID uuid.UUID, username, ip, userAgent string, success bool) UserLoginEvent {
	return UserLoginEvent{
		baseEvent: newBaseEvent(),
		UserID:    userID,
		Username:  username,
		IPAddress: ip,
		UserAgent: userAgent,
		Success:   success,
	}
}

// EventName implements Event.
func (UserLoginEvent) EventName() string { return "user.login" }

// RoleAssignedEvent is published when a role is assigned to a user.
type RoleAssignedEvent struct {
	baseEvent
	UserID     uuid.UUID
	RoleID     uuid.UUID
	RoleCode   string
	AssignedBy uuid.UUID
	ExpiresAt  *time.Time
}

// NewRoleAssignedEvent returns a RoleAssignedEvent for the given assignment.
func NewRoleAssignedEvent(ur *UserRole, roleCode string) RoleAssignedEvent {
	return RoleAssignedEvent{
		baseEvent:  newBaseEvent(),
		UserID:     ur.UserID,
		RoleID:     ur.RoleID,
		RoleCode:   roleCode,
		AssignedBy: ur.AssignedBy,
		ExpiresAt:  ur.ExpiresAt,
	}
}

// EventName implements Event.
func (RoleAssignedEvent) EventName() string { return "role.assigned" }

// PermissionGrantedEvent is published when a permission is granted to a
// role.
type PermissionGrantedEvent struct {
	baseEvent
	RoleID         uuid.UUID
	PermissionID   uuid.UUID
	PermissionCode string
	GrantedBy      uuid.UUID
}

// NewPermissionGrantedEvent returns a PermissionGrantedEvent for the given
// grant.
func NewPermissionGrantedEvent(rp *RolePermission, permissionCode string) PermissionGrantedEvent {
	return PermissionGrantedEvent{
		baseEvent:      newBaseEvent(),
		RoleID:         rp.RoleID,
		PermissionID:   rp.PermissionID,
		PermissionCode: permissionCode,
		GrantedBy:      rp.GrantedBy,
	}
}

// EventName implements Event.
func (PermissionGrantedEvent) EventName() string { return "permission.granted" }

// ConfigUpdatedEvent is published when a configuration value changes.
type ConfigUpdatedEvent struct {
	baseEvent
	Key       string
	Version   int
	UpdatedBy uuid.UUID
}

// NewConfigUpdatedEvent returns a ConfigUpdatedEvent for the given entry.
func NewConfigUpdatedEvent(cfg *SystemConfig, updatedBy uuid.UUID) ConfigUpdatedEvent {
	return ConfigUpdatedEvent{
		baseEvent: newBaseEvent(),
		Key:       cfg.Key,
		Version:   cfg.Version,
		UpdatedBy: updatedBy,
	}
}

// EventName implements Event.
func (ConfigUpdatedEvent) EventName() string { return "config.updated" }
