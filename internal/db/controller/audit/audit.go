// Package audit provides append and query operations for the audit trail.
package audit

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/go-rbac-admin/go-rbac-admin/internal/db/models"
	"github.com/go-rbac-admin/go-rbac-admin/internal/domain"
)

const defaultListLimit = 100

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")

	// ErrUnknownEvent is returned when an event type has no audit mapping.
	ErrUnknownEvent = errors.New("unknown event type")
)

// RequestInfo carries the transport attributes of the request that caused a
// domain event, so the audit record can tie the event back to the caller.
type RequestInfo struct {
	ActorID   uuid.UUID
	ActorName string
	Method    string
	Path      string
	IPAddress string
	UserAgent string
	// Error is the failure description for failed operations, empty on
	// success.
	Error string
}

// Record appends an audit log record. The trail is append-only; records are
// never updated or deleted.
func Record(db *gorm.DB, entry *domain.AuditLog) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Create(models.AuditLogFromDomain(entry)).Error
}

// RecordEvent converts a domain event into an audit record and appends it.
func RecordEvent(db *gorm.DB, e domain.Event, req RequestInfo) error {
	spec := domain.AuditLogSpec{
		UserID:    req.ActorID,
		Username:  req.ActorName,
		Method:    req.Method,
		Path:      req.Path,
		IPAddress: req.IPAddress,
		UserAgent: req.UserAgent,
	}

	switch ev := e.(type) {
	case domain.UserLoginEvent:
		// The event carries the subject's own identity and transport info.
		spec.UserID = ev.UserID
		spec.Username = ev.Username
		spec.IPAddress = ev.IPAddress
		spec.UserAgent = ev.UserAgent
		spec.Action = domain.ActionUserLogin
		spec.Resource = "auth"
	case domain.UserCreatedEvent:
		spec.Action = domain.ActionUserCreate
		spec.Resource = "users"
		spec.ResourceID = ev.UserID.String()
	case domain.RoleAssignedEvent:
		spec.Action = domain.ActionRoleAssign
		spec.Resource = "users"
		spec.ResourceID = ev.UserID.String()
	case domain.PermissionGrantedEvent:
		spec.Action = domain.ActionPermissionGrant
		spec.Resource = "roles"
		spec.ResourceID = ev.RoleID.String()
	case domain.ConfigUpdatedEvent:
		spec.Action = domain.ActionConfigUpdate
		spec.Resource = "configs"
		spec.ResourceID = ev.Key
	default:
		return ErrUnknownEvent
	}

	entry, err := domain.NewAuditLog(spec)
	if err != nil {
		return err
	}

	if req.Error != "" {
		entry.AddError(req.Error)
	}

	return Record(db, entry)
}

// List retrieves the most recent audit records, newest first. A limit of 0
// applies the default.
func List(db *gorm.DB, limit int) ([]*domain.AuditLog, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if limit <= 0 {
		limit = defaultListLimit
	}

	var rows []models.AuditLog
	result := db.Order("created_at DESC").Limit(limit).Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	entries := make([]*domain.AuditLog, 0, len(rows))
	for i := range rows {
		entries = append(entries, rows[i].ToDomain())
	}

	return entries, nil
}

// ListByUser retrieves the most recent audit records of one user, newest
// first.
func ListByUser(db *gorm.DB, userID uuid.UUID, limit int) ([]*domain.AuditLog, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if limit <= 0 {
		limit = defaultListLimit
	}

	var rows []models.AuditLog
	result := db.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	entries := make([]*domain.AuditLog, 0, len(rows))
	for i := range rows {
		entries = append(entries, rows[i].ToDomain())
	}

	return entries, nil
}
