package user

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/go-rbac-admin/go-rbac-admin/internal/db/controller/role"
	"github.com/go-rbac-admin/go-rbac-admin/internal/db/models"
	"github.com/go-rbac-admin/go-rbac-admin/internal/domain"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.RolePermission{},
		&models.UserRole{},
	)
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()

	u, err := domain.NewUser(domain.UserSpec{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "argon2id-hash",
	})
	require.NoError(t, err, "failed to build user")
	require.NoError(t, Create(db, u), "failed to seed user")

	return u
}

func seedRoleWithPermission(t *testing.T, db *gorm.DB, code, permCode string) *domain.Role {
	t.Helper()

	r, err := domain.NewRole(domain.RoleSpec{Name: code, Code: code})
	require.NoError(t, err)
	require.NoError(t, role.Create(db, r))

	p, err := domain.NewPermission(domain.PermissionSpec{
		Name:     permCode,
		Code:     permCode,
		Resource: "users",
		Action:   "read",
	})
	require.NoError(t, err)
	require.NoError(t, db.Create(models.PermissionFromDomain(p)).Error)

	grant, err := domain.NewRolePermission(r.ID, p.ID, uuid.Nil)
	require.NoError(t, err)
	require.NoError(t, role.Grant(db, grant))

	return r
}

func TestGetByUsername(t *testing.T) {
	db := setupTestDB(t)

	seedUser(t, db, "alice")

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		username      string
		expectedError error
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			username:      "alice",
			expectedError: ErrDBNil,
		},
		{
			name:          "user not found",
			dbParam:       db,
			username:      "nobody",
			expectedError: ErrUserNotFound,
		},
		{
			name:     "successful get",
			dbParam:  db,
			username: "alice",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			u, err := GetByUsername(tc.dbParam, tc.username)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "alice", u.Username)
			assert.True(t, u.IsActive)
			assert.Empty(t, u.Roles)
		})
	}
}

func TestCreateDuplicateUsername(t *testing.T) {
	db := setupTestDB(t)

	seedUser(t, db, "alice")

	dup, err := domain.NewUser(domain.UserSpec{
		Username:     "alice",
		Email:        "other@example.com",
		PasswordHash: "argon2id-hash",
	})
	require.NoError(t, err)

	require.ErrorIs(t, Create(db, dup), ErrUserAlreadyExists)
}

func TestHydrateLoadsRolesAndPermissions(t *testing.T) {
	db := setupTestDB(t)

	u := seedUser(t, db, "alice")
	r := seedRoleWithPermission(t, db, "EDITOR", "users.read")

	assignment, err := domain.NewUserRole(u.ID, r.ID, uuid.Nil, nil)
	require.NoError(t, err)
	require.NoError(t, Assign(db, assignment))

	loaded, err := Get(db, u.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Roles, 1)
	assert.True(t, loaded.HasRole("EDITOR"))
	assert.True(t, loaded.HasPermission("users.read"))
	assert.False(t, loaded.HasPermission("users.delete"))
}

func TestHydrateSkipsExpiredAssignment(t *testing.T) {
	db := setupTestDB(t)

	u := seedUser(t, db, "alice")
	r := seedRoleWithPermission(t, db, "EDITOR", "users.read")

	// Assign with a short expiry, then age the row past it.
	expiry := time.Now().Add(time.Minute)
	assignment, err := domain.NewUserRole(u.ID, r.ID, uuid.Nil, &expiry)
	require.NoError(t, err)

	row := models.UserRoleFromDomain(assignment)
	past := time.Now().Add(-time.Hour)
	row.AssignedAt = past.Add(-time.Hour)
	row.ExpiresAt = &past
	require.NoError(t, db.Create(row).Error)

	loaded, err := Get(db, u.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Roles, "expired assignments must not contribute roles")
}

func TestHydrateSkipsInactiveAssignment(t *testing.T) {
	db := setupTestDB(t)

	u := seedUser(t, db, "alice")
	r := seedRoleWithPermission(t, db, "EDITOR", "users.read")

	assignment, err := domain.NewUserRole(u.ID, r.ID, uuid.Nil, nil)
	require.NoError(t, err)
	assignment.Deactivate()
	require.NoError(t, Assign(db, assignment))

	loaded, err := Get(db, u.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Roles, "switched off assignments must not contribute roles")
}

func TestUnassign(t *testing.T) {
	db := setupTestDB(t)

	u := seedUser(t, db, "alice")
	r := seedRoleWithPermission(t, db, "EDITOR", "users.read")

	assignment, err := domain.NewUserRole(u.ID, r.ID, uuid.Nil, nil)
	require.NoError(t, err)
	require.NoError(t, Assign(db, assignment))

	require.NoError(t, Unassign(db, u.ID, r.ID))
	// Removing an assignment that is already gone is not an error.
	require.NoError(t, Unassign(db, u.ID, r.ID))

	loaded, err := Get(db, u.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Roles)
}

func TestSavePersistsLoginMetadata(t *testing.T) {
	db := setupTestDB(t)

	u := seedUser(t, db, "alice")
	u.RecordLogin()
	require.NoError(t, Save(db, u))

	loaded, err := Get(db, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.LoginCount)
	require.NotNil(t, loaded.LastLoginAt)
}
