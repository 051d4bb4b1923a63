package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustPermission builds a valid permission for tests.
func mustPermission(t *testing.T, spec PermissionSpec) *Permission {
	t.Helper()

	p, err := NewPermission(spec)
	require.NoError(t, err)

	return p
}

func TestNewPermission(t *testing.T) {
	testCases := []struct {
		name    string
		spec    PermissionSpec
		wantErr bool
	}{
		{
			name: "general permission",
			spec: PermissionSpec{Name: "Read users", Code: "users.read", Resource: "users", Action: "read"},
		},
		{
			name: "api permission",
			spec: PermissionSpec{
				Name: "List users", Code: "users.list", Resource: "users", Action: "list",
				Method: "get", Path: "/api/v1/users",
			},
		},
		{
			name:    "empty name",
			spec:    PermissionSpec{Code: "users.read", Resource: "users", Action: "read"},
			wantErr: true,
		},
		{
			name:    "invalid code",
			spec:    PermissionSpec{Name: "Read users", Code: "1users", Resource: "users", Action: "read"},
			wantErr: true,
		},
		{
			name:    "invalid method",
			spec:    PermissionSpec{Name: "Read users", Code: "users.read", Resource: "users", Action: "read", Method: "FETCH"},
			wantErr: true,
		},
		{
			name:    "path without leading slash",
			spec:    PermissionSpec{Name: "Read users", Code: "users.read", Resource: "users", Action: "read", Method: "GET", Path: "api/v1/users"},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := NewPermission(tc.spec)

			if tc.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.False(t, p.IsDeleted)
			assert.NotZero(t, p.ID)
		})
	}
}

func TestPermissionMethodIsUppercased(t *testing.T) {
	p := mustPermission(t, PermissionSpec{
		Name: "List users", Code: "users.list", Resource: "users", Action: "list",
		Method: "get", Path: "/api/v1/users",
	})

	assert.Equal(t, "GET", p.Method)
}

func TestPermissionUpdate(t *testing.T) {
	newName := "Renamed"
	badMethod := "FETCH"

	t.Run("updates fields and stamps time", func(t *testing.T) {
		p := mustPermission(t, PermissionSpec{Name: "Read users", Code: "users.read", Resource: "users", Action: "read"})
		before := p.UpdatedAt

		err := p.Update(PermissionUpdate{Name: &newName})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", p.Name)
		assert.False(t, p.UpdatedAt.Before(before))
	})

	t.Run("system permission rejects any change", func(t *testing.T) {
		p := mustPermission(t, PermissionSpec{
			Name: "Manage system", Code: "system.manage", Resource: "system", Action: "manage", IsSystem: true,
		})

		err := p.Update(PermissionUpdate{Name: &newName})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "system permission cannot be modified")
		assert.Equal(t, "Manage system", p.Name)
	})

	t.Run("validation failure leaves fields unchanged", func(t *testing.T) {
		p := mustPermission(t, PermissionSpec{Name: "Read users", Code: "users.read", Resource: "users", Action: "read"})

		err := p.Update(PermissionUpdate{Name: &newName, Method: &badMethod})
		require.Error(t, err)
		assert.Equal(t, "Read users", p.Name)
		assert.Empty(t, p.Method)
	})
}

func TestPermissionSoftDelete(t *testing.T) {
	p := mustPermission(t, PermissionSpec{Name: "Read users", Code: "users.read", Resource: "users", Action: "read"})

	require.NoError(t, p.SoftDelete())
	assert.True(t, p.IsDeleted)

	p.Restore()
	assert.False(t, p.IsDeleted)

	system := mustPermission(t, PermissionSpec{
		Name: "Manage system", Code: "system.manage", Resource: "system", Action: "manage", IsSystem: true,
	})

	require.Error(t, system.SoftDelete())
	assert.False(t, system.IsDeleted)
}

func TestPermissionKind(t *testing.T) {
	api := mustPermission(t, PermissionSpec{
		Name: "List users", Code: "users.list", Resource: "users", Action: "list",
		Method: "GET", Path: "/api/v1/users",
	})
	general := mustPermission(t, PermissionSpec{Name: "Read users", Code: "users.read", Resource: "users", Action: "read"})

	assert.True(t, api.IsAPIPermission())
	assert.False(t, api.IsGeneralPermission())
	assert.False(t, general.IsAPIPermission())
	assert.True(t, general.IsGeneralPermission())

	assert.Equal(t, "users:list:GET:/api/v1/users", api.Key())
	assert.Equal(t, "users:read", general.Key())
}

func TestPermissionSet(t *testing.T) {
	set := make(PermissionSet)
	p := mustPermission(t, PermissionSpec{Name: "Read users", Code: "users.read", Resource: "users", Action: "read"})

	set.Add(p)
	set.Add(p) // set semantics: second add is a no-op

	assert.Equal(t, 1, len(set))
	assert.True(t, set.Contains(p.ID))

	set.Discard(p.ID)
	assert.False(t, set.Contains(p.ID))
	assert.Empty(t, set.Values())
}
