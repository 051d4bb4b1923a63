package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAuditLog(t *testing.T) {
	entry, err := NewAuditLog(AuditLogSpec{
		UserID:   uuid.New(),
		Username: "alice",
		Action:   ActionUserLogin,
		Resource: "users",
	})
	require.NoError(t, err)

	assert.True(t, entry.IsSuccess())
	assert.False(t, entry.IsFailure())

	_, err = NewAuditLog(AuditLogSpec{Resource: "users"})
	require.Error(t, err, "action is required")

	_, err = NewAuditLog(AuditLogSpec{Action: ActionUserLogin})
	require.Error(t, err, "resource is required")
}

func TestAuditLogFailure(t *testing.T) {
	entry, err := NewAuditLog(AuditLogSpec{Action: ActionUserLogin, Resource: "users"})
	require.NoError(t, err)

	entry.AddError("invalid credentials")
	assert.True(t, entry.IsFailure())
	assert.Equal(t, "invalid credentials", entry.ErrorMessage)

	start := time.Now()
	entry.SetDuration(start, start.Add(250*time.Millisecond))
	assert.Equal(t, int64(250), entry.DurationMS)
}

func TestAuditLogSummary(t *testing.T) {
	entry, err := NewAuditLog(AuditLogSpec{
		Username:   "alice",
		Action:     ActionRoleAssign,
		Resource:   "roles",
		ResourceID: "OPERATOR",
	})
	require.NoError(t, err)
	assert.Equal(t, "User alice role assign roles OPERATOR", entry.Summary())

	system, err := NewAuditLog(AuditLogSpec{Action: ActionConfigUpdate, Resource: "configs"})
	require.NoError(t, err)
	assert.Equal(t, "System config update configs", system.Summary())
}

func TestDomainEvents(t *testing.T) {
	user := mustUser(t)
	event := NewUserCreatedEvent(user, uuid.Nil)

	assert.Equal(t, "user.created", event.EventName())
	assert.Equal(t, user.ID, event.UserID)
	assert.False(t, event.OccurredAt().IsZero())

	login := NewUserLoginEvent(user.ID, user.Username, "127.0.0.1", "test", true)
	assert.Equal(t, "user.login", login.EventName())

	ur, err := NewUserRole(uuid.New(), uuid.New(), uuid.Nil, nil)
	require.NoError(t, err)
	assigned := NewRoleAssignedEvent(ur, "OPERATOR")
	assert.Equal(t, "role.assigned", assigned.EventName())
	assert.Equal(t, ur.UserID, assigned.UserID)

	rp, err := NewRolePermission(uuid.New(), uuid.New(), uuid.Nil)
	require.NoError(t, err)
	granted := NewPermissionGrantedEvent(rp, "users.read")
	assert.Equal(t, "permission.granted", granted.EventName())

	cfg := mustConfig(t, SystemConfigSpec{Key: "app.name", DataType: TypeString})
	updated := NewConfigUpdatedEvent(cfg, uuid.Nil)
	assert.Equal(t, "config.updated", updated.EventName())
	assert.Equal(t, "app.name", updated.Key)
}
