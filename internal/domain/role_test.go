package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRole(t *testing.T, spec RoleSpec) *Role {
	t.Helper()

	r, err := NewRole(spec)
	require.NoError(t, err)

	return r
}

func TestNewRole(t *testing.T) {
	testCases := []struct {
		name    string
		spec    RoleSpec
		wantErr bool
	}{
		{name: "valid", spec: RoleSpec{Name: "Administrator", Code: "ADMIN", Level: 100}},
		{name: "empty name", spec: RoleSpec{Code: "ADMIN"}, wantErr: true},
		{name: "lowercase code", spec: RoleSpec{Name: "Administrator", Code: "admin"}, wantErr: true},
		{name: "level above range", spec: RoleSpec{Name: "Administrator", Code: "ADMIN", Level: 1000}, wantErr: true},
		{name: "negative level", spec: RoleSpec{Name: "Administrator", Code: "ADMIN", Level: -1}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := NewRole(tc.spec)

			if tc.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.True(t, r.IsActive)
			assert.Empty(t, r.Permissions)
		})
	}
}

func TestRoleGrantPermission(t *testing.T) {
	perm := func(t *testing.T) *Permission {
		t.Helper()
		return mustPermission(t, PermissionSpec{Name: "Read users", Code: "users.read", Resource: "users", Action: "read"})
	}

	t.Run("grant adds to the set", func(t *testing.T) {
		r := mustRole(t, RoleSpec{Name: "Operator", Code: "OPERATOR", Level: 10})
		p := perm(t)

		require.NoError(t, r.GrantPermission(p))
		assert.True(t, r.HasPermission("users.read"))
		assert.Equal(t, 1, r.PermissionCount())
	})

	t.Run("grant is idempotent", func(t *testing.T) {
		r := mustRole(t, RoleSpec{Name: "Operator", Code: "OPERATOR", Level: 10})
		p := perm(t)

		require.NoError(t, r.GrantPermission(p))
		require.NoError(t, r.GrantPermission(p))
		assert.Equal(t, 1, r.PermissionCount())
	})

	t.Run("inactive role rejects grants", func(t *testing.T) {
		r := mustRole(t, RoleSpec{Name: "Operator", Code: "OPERATOR", Level: 10})
		require.NoError(t, r.Deactivate())

		err := r.GrantPermission(perm(t))
		require.ErrorIs(t, err, ErrRoleAssignment)
		assert.Equal(t, 0, r.PermissionCount())
	})

	t.Run("deleted permission cannot be granted", func(t *testing.T) {
		r := mustRole(t, RoleSpec{Name: "Operator", Code: "OPERATOR", Level: 10})
		p := perm(t)
		require.NoError(t, p.SoftDelete())

		err := r.GrantPermission(p)
		require.ErrorIs(t, err, ErrRoleAssignment)
	})
}

func TestRoleRevokePermission(t *testing.T) {
	t.Run("revoke removes and is idempotent", func(t *testing.T) {
		r := mustRole(t, RoleSpec{Name: "Operator", Code: "OPERATOR", Level: 10})
		p := mustPermission(t, PermissionSpec{Name: "Read users", Code: "users.read", Resource: "users", Action: "read"})

		require.NoError(t, r.GrantPermission(p))
		require.NoError(t, r.RevokePermission(p))
		assert.Equal(t, 0, r.PermissionCount())

		// revoking an absent permission leaves the set unchanged
		require.NoError(t, r.RevokePermission(p))
		assert.Equal(t, 0, r.PermissionCount())
	})

	t.Run("system permission cannot leave a system role", func(t *testing.T) {
		r := mustRole(t, RoleSpec{Name: "Superadmin", Code: "SUPERADMIN", Level: 999, IsSystem: true})
		p := mustPermission(t, PermissionSpec{
			Name: "Manage system", Code: "system.manage", Resource: "system", Action: "manage", IsSystem: true,
		})
		require.NoError(t, r.GrantPermission(p))

		require.Error(t, r.RevokePermission(p))
		assert.True(t, r.Permissions.Contains(p.ID))
	})
}

func TestRoleCanAssignToUser(t *testing.T) {
	r := mustRole(t, RoleSpec{Name: "Operator", Code: "OPERATOR", Level: 50})

	assert.False(t, r.CanAssignToUser(40))
	assert.True(t, r.CanAssignToUser(50))
	assert.True(t, r.CanAssignToUser(60))

	require.NoError(t, r.Deactivate())
	assert.False(t, r.CanAssignToUser(60))
}

func TestRoleMergePermissionsFrom(t *testing.T) {
	src := mustRole(t, RoleSpec{Name: "Source", Code: "SOURCE", Level: 10})
	dst := mustRole(t, RoleSpec{Name: "Target", Code: "TARGET", Level: 10})

	normal := mustPermission(t, PermissionSpec{Name: "Read users", Code: "users.read", Resource: "users", Action: "read"})
	system := mustPermission(t, PermissionSpec{
		Name: "Manage system", Code: "system.manage", Resource: "system", Action: "manage", IsSystem: true,
	})

	require.NoError(t, src.GrantPermission(normal))
	src.Permissions.Add(system) // bypass grant guard to stage a system permission

	require.NoError(t, dst.MergePermissionsFrom(src))
	assert.True(t, dst.HasPermission("users.read"))
	assert.False(t, dst.HasPermission("system.manage"), "system permissions are not merged")

	protected := mustRole(t, RoleSpec{Name: "Protected", Code: "PROTECTED", Level: 10, IsSystem: true})
	require.Error(t, protected.MergePermissionsFrom(src))
}

func TestRoleSystemGuards(t *testing.T) {
	r := mustRole(t, RoleSpec{Name: "Superadmin", Code: "SUPERADMIN", Level: 999, IsSystem: true})
	name := "Renamed"

	require.Error(t, r.Update(RoleUpdate{Name: &name}))
	require.Error(t, r.Deactivate())
	require.Error(t, r.SoftDelete())
	require.Error(t, r.ClearPermissions())
	assert.True(t, r.IsActive)
	assert.False(t, r.IsDeleted)
}

func TestRoleSoftDeleteForcesInactive(t *testing.T) {
	r := mustRole(t, RoleSpec{Name: "Operator", Code: "OPERATOR", Level: 10})

	require.NoError(t, r.SoftDelete())
	assert.True(t, r.IsDeleted)
	assert.False(t, r.IsActive)
}

func TestRoleLevelComparison(t *testing.T) {
	high := mustRole(t, RoleSpec{Name: "High", Code: "HIGH", Level: 90})
	low := mustRole(t, RoleSpec{Name: "Low", Code: "LOW", Level: 10})

	assert.True(t, high.IsHigherLevelThan(low))
	assert.False(t, low.IsHigherLevelThan(high))
	assert.False(t, high.IsHigherLevelThan(high))
}

func TestRoleCanAccessResource(t *testing.T) {
	r := mustRole(t, RoleSpec{Name: "Operator", Code: "OPERATOR", Level: 10})
	p := mustPermission(t, PermissionSpec{Name: "Read users", Code: "users.read", Resource: "users", Action: "read"})
	require.NoError(t, r.GrantPermission(p))

	assert.True(t, r.CanAccessResource("users", "read"))
	assert.False(t, r.CanAccessResource("users", "delete"))
	assert.False(t, r.CanAccessResource("roles", "read"))
}
