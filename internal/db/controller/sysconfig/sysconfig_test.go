package sysconfig

import (
	"testing"

	"github.com/glebarez/sqlite"
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

	err = db.AutoMigrate(&models.SystemConfig{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

// seedConfig creates a config entry through the domain layer and stores it.
func seedConfig(t *testing.T, db *gorm.DB, spec domain.SystemConfigSpec) *domain.SystemConfig {
	t.Helper()

	entry, err := domain.NewSystemConfig(spec)
	require.NoError(t, err, "failed to build config entry")
	require.NoError(t, Create(db, entry), "failed to seed config entry")

	return entry
}

func TestGet(t *testing.T) {
	db := setupTestDB(t)

	seedConfig(t, db, domain.SystemConfigSpec{
		Key:      "app.name",
		DataType: domain.TypeString,
	})

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		key           string
		expectedError error
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			key:           "app.name",
			expectedError: ErrDBNil,
		},
		{
			name:          "empty key",
			dbParam:       db,
			key:           "",
			expectedError: ErrConfigKeyEmpty,
		},
		{
			name:          "entry not found",
			dbParam:       db,
			key:           "nonexistent",
			expectedError: ErrConfigNotFound,
		},
		{
			name:    "successful get",
			dbParam: db,
			key:     "app.name",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			entry, err := Get(tc.dbParam, tc.key)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.key, entry.Key)
			assert.Equal(t, 1, entry.Version)
		})
	}
}

func TestCreateDuplicate(t *testing.T) {
	db := setupTestDB(t)

	seedConfig(t, db, domain.SystemConfigSpec{Key: "app.name"})

	dup, err := domain.NewSystemConfig(domain.SystemConfigSpec{Key: "app.name"})
	require.NoError(t, err)

	require.ErrorIs(t, Create(db, dup), ErrConfigAlreadyExists)
}

func TestSetValueRoundTrip(t *testing.T) {
	db := setupTestDB(t)

	seedConfig(t, db, domain.SystemConfigSpec{
		Key:      "auth.session_timeout",
		DataType: domain.TypeInteger,
	})

	entry, err := SetValue(db, "auth.session_timeout", 3600)
	require.NoError(t, err)
	assert.Equal(t, 2, entry.Version, "value write must bump the version")

	// Reload from storage and check the typed value survived.
	reloaded, err := Get(db, "auth.session_timeout")
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Version)

	value, err := reloaded.TypedValue()
	require.NoError(t, err)
	assert.Equal(t, 3600, value)
}

func TestSaveVersionConflict(t *testing.T) {
	db := setupTestDB(t)

	seedConfig(t, db, domain.SystemConfigSpec{
		Key:      "app.name",
		DataType: domain.TypeString,
	})

	// Two readers load the same version.
	first, err := Get(db, "app.name")
	require.NoError(t, err)
	second, err := Get(db, "app.name")
	require.NoError(t, err)

	// First writer wins.
	previous := first.Version
	require.NoError(t, first.SetValue("one"))
	require.NoError(t, Save(db, first, previous))

	// Second writer loses.
	previous = second.Version
	require.NoError(t, second.SetValue("two"))
	require.ErrorIs(t, Save(db, second, previous), ErrVersionConflict)

	// The first write is what persisted.
	reloaded, err := Get(db, "app.name")
	require.NoError(t, err)

	value, err := reloaded.TypedValue()
	require.NoError(t, err)
	assert.Equal(t, "one", value)
}

func TestSaveNotFound(t *testing.T) {
	db := setupTestDB(t)

	entry, err := domain.NewSystemConfig(domain.SystemConfigSpec{Key: "ghost"})
	require.NoError(t, err)

	require.ErrorIs(t, Save(db, entry, entry.Version), ErrConfigNotFound)
}

func TestGetByCategory(t *testing.T) {
	db := setupTestDB(t)

	seedConfig(t, db, domain.SystemConfigSpec{Key: "auth.lockout", Category: domain.CategorySecurity})
	seedConfig(t, db, domain.SystemConfigSpec{Key: "auth.timeout", Category: domain.CategorySecurity})
	seedConfig(t, db, domain.SystemConfigSpec{Key: "app.name", Category: domain.CategorySystem})

	entries, err := GetByCategory(db, domain.CategorySecurity)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "auth.lockout", entries[0].Key)
	assert.Equal(t, "auth.timeout", entries[1].Key)
}

func TestDeleteHidesEntry(t *testing.T) {
	db := setupTestDB(t)

	seedConfig(t, db, domain.SystemConfigSpec{Key: "app.name"})
	seedConfig(t, db, domain.SystemConfigSpec{Key: "app.motd"})

	require.NoError(t, Delete(db, "app.motd"))

	entries, err := GetAll(db)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "app.name", entries[0].Key)

	// The row still exists and reports itself deleted.
	entry, err := Get(db, "app.motd")
	require.NoError(t, err)
	assert.True(t, entry.IsDeleted)
}
