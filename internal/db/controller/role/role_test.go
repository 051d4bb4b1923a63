package role

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/go-rbac-admin/go-rbac-admin/internal/db/models"
	"github.com/go-rbac-admin/go-rbac-admin/internal/domain"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Role{}, &models.Permission{}, &models.RolePermission{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func seedRole(t *testing.T, db *gorm.DB, spec domain.RoleSpec) *domain.Role {
	t.Helper()

	r, err := domain.NewRole(spec)
	require.NoError(t, err, "failed to build role")
	require.NoError(t, Create(db, r), "failed to seed role")

	return r
}

func seedPermission(t *testing.T, db *gorm.DB, spec domain.PermissionSpec) *domain.Permission {
	t.Helper()

	p, err := domain.NewPermission(spec)
	require.NoError(t, err, "failed to build permission")
	require.NoError(t, db.Create(models.PermissionFromDomain(p)).Error, "failed to seed permission")

	return p
}

func TestGet(t *testing.T) {
	db := setupTestDB(t)

	seeded := seedRole(t, db, domain.RoleSpec{Name: "Editor", Code: "EDITOR", Level: 50})

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		id            uuid.UUID
		expectedError error
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			id:            seeded.ID,
			expectedError: ErrDBNil,
		},
		{
			name:          "role not found",
			dbParam:       db,
			id:            uuid.New(),
			expectedError: ErrRoleNotFound,
		},
		{
			name:    "successful get",
			dbParam: db,
			id:      seeded.ID,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := Get(tc.dbParam, tc.id)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "EDITOR", r.Code)
			assert.Equal(t, 50, r.Level)
			assert.Empty(t, r.Permissions)
		})
	}
}

func TestCreateDuplicateCode(t *testing.T) {
	db := setupTestDB(t)

	seedRole(t, db, domain.RoleSpec{Name: "Editor", Code: "EDITOR"})

	dup, err := domain.NewRole(domain.RoleSpec{Name: "Other", Code: "EDITOR"})
	require.NoError(t, err)

	require.ErrorIs(t, Create(db, dup), ErrRoleAlreadyExists)
}

func TestGrantHydratesAggregate(t *testing.T) {
	db := setupTestDB(t)

	r := seedRole(t, db, domain.RoleSpec{Name: "Editor", Code: "EDITOR"})
	p := seedPermission(t, db, domain.PermissionSpec{
		Name:     "Read users",
		Code:     "users.read",
		Resource: "users",
		Action:   "read",
	})

	grant, err := domain.NewRolePermission(r.ID, p.ID, uuid.Nil)
	require.NoError(t, err)
	require.NoError(t, Grant(db, grant))

	loaded, err := Get(db, r.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Permissions, 1)
	assert.True(t, loaded.HasPermission("users.read"))

	grants, err := Grants(db, r.ID)
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, p.ID, grants[0].PermissionID)
}

func TestRevoke(t *testing.T) {
	db := setupTestDB(t)

	r := seedRole(t, db, domain.RoleSpec{Name: "Editor", Code: "EDITOR"})
	p := seedPermission(t, db, domain.PermissionSpec{
		Name:     "Read users",
		Code:     "users.read",
		Resource: "users",
		Action:   "read",
	})

	grant, err := domain.NewRolePermission(r.ID, p.ID, uuid.Nil)
	require.NoError(t, err)
	require.NoError(t, Grant(db, grant))

	require.NoError(t, Revoke(db, r.ID, p.ID))
	// Revoking a grant that is already gone is not an error.
	require.NoError(t, Revoke(db, r.ID, p.ID))

	loaded, err := Get(db, r.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Permissions)
}

func TestDeleteSystemRoleRejected(t *testing.T) {
	db := setupTestDB(t)

	r := seedRole(t, db, domain.RoleSpec{Name: "Admin", Code: "ADMIN", IsSystem: true})

	err := Delete(db, r.ID)
	require.Error(t, err)

	loaded, err := Get(db, r.ID)
	require.NoError(t, err)
	assert.False(t, loaded.IsDeleted)
}

func TestGetAllSkipsDeleted(t *testing.T) {
	db := setupTestDB(t)

	seedRole(t, db, domain.RoleSpec{Name: "Editor", Code: "EDITOR"})
	victim := seedRole(t, db, domain.RoleSpec{Name: "Viewer", Code: "VIEWER"})

	require.NoError(t, Delete(db, victim.ID))

	roles, err := GetAll(db)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, "EDITOR", roles[0].Code)
}
