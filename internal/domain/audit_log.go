package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AuditStatus classifies the outcome of an audited operation.
type AuditStatus string

// Audit statuses.
const (
	AuditSuccess AuditStatus = "success"
	AuditFailure AuditStatus = "failure"
	AuditWarning AuditStatus = "warning"
	AuditInfo    AuditStatus = "info"
)

// AuditAction identifies the audited operation.
type AuditAction string

// Audit actions.
const (
	ActionUserLogin        AuditAction = "user_login"
	ActionUserLogout       AuditAction = "user_logout"
	ActionUserCreate       AuditAction = "user_create"
	ActionUserUpdate       AuditAction = "user_update"
	ActionUserDelete       AuditAction = "user_delete"
	ActionUserActivate     AuditAction = "user_activate"
	ActionUserDeactivate   AuditAction = "user_deactivate"
	ActionRoleCreate       AuditAction = "role_create"
	ActionRoleUpdate       AuditAction = "role_update"
	ActionRoleDelete       AuditAction = "role_delete"
	ActionRoleAssign       AuditAction = "role_assign"
	ActionRoleRevoke       AuditAction = "role_revoke"
	ActionPermissionCreate AuditAction = "permission_create"
	ActionPermissionUpdate AuditAction = "permission_update"
	ActionPermissionDelete AuditAction = "permission_delete"
	ActionPermissionGrant  AuditAction = "permission_grant"
	ActionPermissionRevoke AuditAction = "permission_revoke"
	ActionConfigUpdate     AuditAction = "config_update"
	ActionAPIAccess        AuditAction = "api_access"
	ActionAPIError         AuditAction = "api_error"
)

// AuditLog records a single audited operation: who did what to which
// resource, with what outcome. It is the read model that the association
// records and domain events feed.
type AuditLog struct {
	// ID is the unique identifier for the record.
	ID uuid.UUID
	// UserID identifies the acting user, uuid.Nil for system actions.
	UserID uuid.UUID
	// Username is the acting user's name at the time of the action.
	Username string
	// Action identifies the audited operation.
	Action AuditAction
	// Resource names the affected resource type.
	Resource string
	// ResourceID identifies the affected resource instance.
	ResourceID string
	// Method is the HTTP method of the originating request, if any.
	Method string
	// Path is the request path of the originating request, if any.
	Path string
	// IPAddress is the caller's address.
	IPAddress string
	// UserAgent is the caller's user agent string.
	UserAgent string
	// Status classifies the outcome.
	Status AuditStatus
	// ErrorMessage carries the failure description for failed operations.
	ErrorMessage string
	// DurationMS is the operation duration in milliseconds.
	DurationMS int64
	// CreatedAt is the record timestamp.
	CreatedAt time.Time
}

// AuditLogSpec carries the attributes accepted when creating a record.
type AuditLogSpec struct {
	UserID     uuid.UUID
	Username   string
	Action     AuditAction
	Resource   string
	ResourceID string
	Method     string
	Path       string
	IPAddress  string
	UserAgent  string
}

// NewAuditLog validates the spec and returns a success-status record.
func NewAuditLog(spec AuditLogSpec) (*AuditLog, error) {
	if spec.Action == "" {
		return nil, validationError("audit action cannot be empty")
	}

	if spec.Resource == "" {
		return nil, validationError("audit resource cannot be empty")
	}

	return &AuditLog{
		ID:         uuid.New(),
		UserID:     spec.UserID,
		Username:   spec.Username,
		Action:     spec.Action,
		Resource:   spec.Resource,
		ResourceID: spec.ResourceID,
		Method:     spec.Method,
		Path:       spec.Path,
		IPAddress:  spec.IPAddress,
		UserAgent:  spec.UserAgent,
		Status:     AuditSuccess,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// IsSuccess reports whether the operation succeeded.
func (a *AuditLog) IsSuccess() bool {
	return a.Status == AuditSuccess
}

// IsFailure reports whether the operation failed.
func (a *AuditLog) IsFailure() bool {
	return a.Status == AuditFailure
}

// AddError marks the record failed with the given message.
func (a *AuditLog) AddError(message string) {
	a.Status = AuditFailure
	a.ErrorMessage = message
}

// SetDuration records the operation duration.
func (a *AuditLog) SetDuration(start, end time.Time) {
	a.DurationMS = end.Sub(start).Milliseconds()
}

// Summary returns a one-line human-readable description of the record.
func (a *AuditLog) Summary() string {
	actor := "System"
	if a.Username != "" {
		actor = "User " + a.Username
	}

	action := strings.ReplaceAll(string(a.Action), "_", " ")

	target := a.Resource
	if a.ResourceID != "" {
		target += " " + a.ResourceID
	}

	return actor + " " + action + " " + target
}
