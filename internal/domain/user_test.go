package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustUser(t *testing.T) *User {
	t.Helper()

	u, err := NewUser(UserSpec{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash-1",
	})
	require.NoError(t, err)

	return u
}

func TestNewUser(t *testing.T) {
	testCases := []struct {
		name    string
		spec    UserSpec
		wantErr bool
	}{
		{name: "valid", spec: UserSpec{Username: "alice", Email: "alice@example.com", PasswordHash: "h"}},
		{name: "valid with phone", spec: UserSpec{Username: "alice", Email: "alice@example.com", PasswordHash: "h", Phone: "13888888888"}},
		{name: "bad username", spec: UserSpec{Username: "a", Email: "alice@example.com", PasswordHash: "h"}, wantErr: true},
		{name: "bad email", spec: UserSpec{Username: "alice", Email: "nope", PasswordHash: "h"}, wantErr: true},
		{name: "bad phone", spec: UserSpec{Username: "alice", Email: "alice@example.com", PasswordHash: "h", Phone: "12345"}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			u, err := NewUser(tc.spec)

			if tc.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.True(t, u.IsActive)
			assert.Zero(t, u.LoginCount)
		})
	}
}

func TestUserAuthenticate(t *testing.T) {
	t.Run("success records the login", func(t *testing.T) {
		u := mustUser(t)

		require.NoError(t, u.Authenticate("hash-1"))
		assert.Equal(t, 1, u.LoginCount)
		require.NotNil(t, u.LastLoginAt)

		require.NoError(t, u.Authenticate("hash-1"))
		assert.Equal(t, 2, u.LoginCount)
	})

	t.Run("wrong hash", func(t *testing.T) {
		u := mustUser(t)

		err := u.Authenticate("wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Zero(t, u.LoginCount)
	})

	t.Run("inactive account", func(t *testing.T) {
		u := mustUser(t)
		u.Deactivate()

		err := u.Authenticate("hash-1")
		require.ErrorIs(t, err, ErrUserInactive)
	})

	t.Run("deleted account", func(t *testing.T) {
		u := mustUser(t)
		u.SoftDelete()

		err := u.Authenticate("hash-1")
		require.ErrorIs(t, err, ErrUserInactive)
	})
}

func TestUserAssignRole(t *testing.T) {
	t.Run("assign and remove", func(t *testing.T) {
		u := mustUser(t)
		r := mustRole(t, RoleSpec{Name: "Operator", Code: "OPERATOR", Level: 10})

		require.NoError(t, u.AssignRole(r))
		assert.True(t, u.HasRole("OPERATOR"))

		u.RemoveRole(r)
		assert.False(t, u.HasRole("OPERATOR"))

		// removing an absent role is a tolerated no-op
		u.RemoveRole(r)
	})

	t.Run("inactive user rejects assignment", func(t *testing.T) {
		u := mustUser(t)
		u.Deactivate()
		r := mustRole(t, RoleSpec{Name: "Operator", Code: "OPERATOR", Level: 10})

		require.ErrorIs(t, u.AssignRole(r), ErrUserInactive)
	})

	t.Run("inactive role cannot be assigned", func(t *testing.T) {
		u := mustUser(t)
		r := mustRole(t, RoleSpec{Name: "Operator", Code: "OPERATOR", Level: 10})
		require.NoError(t, r.Deactivate())

		require.ErrorIs(t, u.AssignRole(r), ErrRoleAssignment)
	})
}

func TestUserHasPermission(t *testing.T) {
	u := mustUser(t)
	r := mustRole(t, RoleSpec{Name: "Operator", Code: "OPERATOR", Level: 10})
	p := mustPermission(t, PermissionSpec{Name: "Read users", Code: "users.read", Resource: "users", Action: "read"})

	require.NoError(t, r.GrantPermission(p))
	require.NoError(t, u.AssignRole(r))

	assert.True(t, u.HasPermission("users.read"))
	assert.False(t, u.HasPermission("users.delete"))

	assert.True(t, u.CanAccessResource("users", "read"))
	assert.False(t, u.CanAccessResource("users", "delete"))
}

func TestSuperuserBypassesChecks(t *testing.T) {
	u := mustUser(t)
	u.IsSuperuser = true

	assert.True(t, u.HasPermission("anything.undefined"))
	assert.True(t, u.CanAccessResource("whatever", "wherever"))
	require.NoError(t, u.CheckPermission("anything.undefined"))

	// Enumeration stays role-derived; the boolean is the signal.
	assert.True(t, u.HasUnrestrictedAccess())
	assert.Empty(t, u.AllPermissions())
}

func TestUserCheckPermission(t *testing.T) {
	u := mustUser(t)

	err := u.CheckPermission("users.read")
	require.ErrorIs(t, err, ErrPermissionDenied)
	assert.Contains(t, err.Error(), "users.read")
	assert.Contains(t, err.Error(), u.ID.String())
}

func TestUserAllPermissions(t *testing.T) {
	u := mustUser(t)
	r1 := mustRole(t, RoleSpec{Name: "Reader", Code: "READER", Level: 10})
	r2 := mustRole(t, RoleSpec{Name: "Writer", Code: "WRITER", Level: 20})

	read := mustPermission(t, PermissionSpec{Name: "Read users", Code: "users.read", Resource: "users", Action: "read"})
	write := mustPermission(t, PermissionSpec{Name: "Write users", Code: "users.write", Resource: "users", Action: "write"})

	require.NoError(t, r1.GrantPermission(read))
	require.NoError(t, r2.GrantPermission(read))
	require.NoError(t, r2.GrantPermission(write))
	require.NoError(t, u.AssignRole(r1))
	require.NoError(t, u.AssignRole(r2))

	all := u.AllPermissions()
	assert.Equal(t, 2, len(all), "union deduplicates by identity")
	assert.True(t, all.Contains(read.ID))
	assert.True(t, all.Contains(write.ID))
}

func TestUserPasswordLifecycle(t *testing.T) {
	u := mustUser(t)

	// never changed counts as expired
	assert.True(t, u.IsPasswordExpired(DefaultPasswordMaxAgeDays))

	require.NoError(t, u.ChangePassword("hash-2"))
	assert.Equal(t, "hash-2", u.PasswordHash)
	assert.False(t, u.IsPasswordExpired(DefaultPasswordMaxAgeDays))

	old := time.Now().UTC().Add(-91 * 24 * time.Hour)
	u.PasswordChangedAt = &old
	assert.True(t, u.IsPasswordExpired(90))
	assert.False(t, u.IsPasswordExpired(120))
}

func TestUserSoftDeleteForcesInactive(t *testing.T) {
	u := mustUser(t)

	u.SoftDelete()
	assert.True(t, u.IsDeleted)
	assert.False(t, u.IsActive)
	assert.False(t, u.IsLoginAllowed())
}

func TestUserUpdateProfile(t *testing.T) {
	u := mustUser(t)
	u.PhoneVerified = true

	phone := "138-8888-8888"
	name := "Alice Liddell"

	require.NoError(t, u.UpdateProfile(ProfileUpdate{FullName: &name, Phone: &phone}))
	assert.Equal(t, "Alice Liddell", u.FullName)
	assert.Equal(t, "13888888888", u.Phone)
	assert.False(t, u.PhoneVerified, "phone change resets verification")

	bad := "12345"
	require.Error(t, u.UpdateProfile(ProfileUpdate{Phone: &bad}))
}
