package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/go-rbac-admin/go-rbac-admin/internal/domain"
)

// AuditLog represents an audit trail row. Rows are append-only.
type AuditLog struct {
	// ID is the unique identifier for the record.
	ID uuid.UUID `gorm:"type:char(36);primaryKey"`
	// UserID is the ID of the acting user, the zero UUID for system actions.
	UserID uuid.UUID `gorm:"type:char(36);index"`
	// Username is the acting user's name at the time of the action.
	Username string `gorm:"size:50"`
	// Action identifies the audited operation.
	Action string `gorm:"size:50;not null;index"`
	// Resource names the affected resource type.
	Resource string `gorm:"size:100;not null"`
	// ResourceID identifies the affected resource instance.
	ResourceID string `gorm:"size:100"`
	// Method is the HTTP method of the originating request, if any.
	Method string `gorm:"size:10"`
	// Path is the request path of the originating request, if any.
	Path string `gorm:"size:255"`
	// IPAddress is the caller's address.
	IPAddress string `gorm:"size:45"`
	// UserAgent is the caller's user agent string.
	UserAgent string `gorm:"size:255"`
	// Status classifies the outcome.
	Status string `gorm:"size:20;not null"`
	// ErrorMessage carries the failure description for failed operations.
	ErrorMessage string `gorm:"size:1024"`
	// DurationMS is the operation duration in milliseconds.
	DurationMS int64
	// CreatedAt is the record timestamp (managed by GORM).
	CreatedAt time.Time `gorm:"index"`
}

// TableName specifies the database table name for the AuditLog model.
func (AuditLog) TableName() string {
	return "audit_logs"
}

// ToDomain maps the row onto the domain record.
func (a *AuditLog) ToDomain() *domain.AuditLog {
	return &domain.AuditLog{
		ID:           a.ID,
		UserID:       a.UserID,
		Username:     a.Username,
		Action:       domain.AuditAction(a.Action),
		Resource:     a.Resource,
		ResourceID:   a.ResourceID,
		Method:       a.Method,
		Path:         a.Path,
		IPAddress:    a.IPAddress,
		UserAgent:    a.UserAgent,
		Status:       domain.AuditStatus(a.Status),
		ErrorMessage: a.ErrorMessage,
		DurationMS:   a.DurationMS,
		CreatedAt:    a.CreatedAt,
	}
}

// AuditLogFromDomain maps a domain record onto a row.
func AuditLogFromDomain(a *domain.AuditLog) *AuditLog {
	return &AuditLog{
		ID:           a.ID,
		UserID:       a.UserID,
		Username:     a.Username,
		Action:       string(a.Action),
		Resource:     a.Resource,
		ResourceID:   a.ResourceID,
		Method:       a.Method,
		Path:         a.Path,
		IPAddress:    a.IPAddress,
		UserAgent:    a.UserAgent,
		Status:       string(a.Status),
		ErrorMessage: a.ErrorMessage,
		DurationMS:   a.DurationMS,
		CreatedAt:    a.CreatedAt,
	}
}
