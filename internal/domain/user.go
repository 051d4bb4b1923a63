package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultPasswordMaxAgeDays is the default password expiry window used by
// IsPasswordExpired.
const DefaultPasswordMaxAgeDays = 90

// User is an identity with an identity-keyed set of roles. Permission
// checks are resolved through the roles except for superusers, which pass
// every check unconditionally. All mutations stamp UpdatedAt; soft deletion
// forces the account inactive.
type User struct {
	// ID is the unique identifier for the user.
	ID uuid.UUID
	// Username is the unique login name.
	Username string
	// Email is the user's email address.
	Email string
	// PasswordHash is the opaque password hash; the domain compares it for
	// equality only and never inspects its format.
	PasswordHash string
	// FullName is the user's display name.
	FullName string
	// Phone is the user's validated mobile number, empty if not set.
	Phone string
	// AvatarURL points at the user's avatar image.
	AvatarURL string
	// IsActive indicates whether the account may log in and receive roles.
	IsActive bool
	// IsSuperuser bypasses all permission checks unconditionally.
	IsSuperuser bool
	// IsDeleted is the soft-delete flag.
	IsDeleted bool
	// EmailVerified records whether the email address was confirmed.
	EmailVerified bool
	// PhoneVerified records whether the phone number was confirmed.
	PhoneVerified bool
	// LastLoginAt is the timestamp of the last successful authentication.
	LastLoginAt *time.Time
	// LoginCount counts successful authentications.
	LoginCount int
	// PasswordChangedAt is the timestamp of the last password change.
	PasswordChangedAt *time.Time
	// CreatedAt is the creation timestamp.
	CreatedAt time.Time
	// UpdatedAt is the last mutation timestamp.
	UpdatedAt time.Time
	// Roles is the identity-keyed set of assigned roles.
	Roles RoleSet
}

// UserSpec carries the attributes accepted when creating a user.
type UserSpec struct {
	Username     string
	Email        string
	PasswordHash string
	FullName     string
	Phone        string
}

// NewUser validates the spec and returns a new active user with a fresh
// identity and an empty role set.
func NewUser(spec UserSpec) (*User, error) {
	username, err := NewUsername(spec.Username)
	if err != nil {
		return nil, err
	}

	email, err := NewEmail(spec.Email)
	if err != nil {
		return nil, err
	}

	phone := ""

	if spec.Phone != "" {
		p, err := NewPhone(spec.Phone)
		if err != nil {
			return nil, err
		}

		phone = p.String()
	}

	now := time.Now().UTC()

	return &User{
		ID:           uuid.New(),
		Username:     username.String(),
		Email:        email.String(),
		PasswordHash: spec.PasswordHash,
		FullName:     spec.FullName,
		Phone:        phone,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
		Roles:        make(RoleSet),
	}, nil
}

// Authenticate verifies the candidate password hash against the stored one.
// It fails with USER_INACTIVE when the account is inactive or deleted and
// with INVALID_CREDENTIALS on hash mismatch. On success it records the
// login (counter, last-login and update timestamps).
func (u *User) Authenticate(passwordHash string) error {
	if err := u.loginGuard(); err != nil {
		return err
	}

	if u.PasswordHash != passwordHash {
		return newError(CodeInvalidCredentials, "invalid password for user %s", u.Username)
	}

	u.RecordLogin()

	return nil
}

// RecordLogin stamps a successful authentication: it increments the login
// counter and sets the last-login and update timestamps. Callers that
// verify credentials outside the domain (e.g. an argon2id comparison in the
// auth service) invoke this after their own check succeeds.
func (u *User) RecordLogin() {
	now := time.Now().UTC()
	u.LastLoginAt = &now
	u.LoginCount++
	u.UpdatedAt = now
}

// LoginGuard returns the USER_INACTIVE failure that would block this
// account from authenticating, or nil if login is allowed.
func (u *User) LoginGuard() error {
	return u.loginGuard()
}

func (u *User) loginGuard() error {
	if u.IsDeleted {
		return newError(CodeUserInactive, "user account %s is deleted", u.Username)
	}

	if !u.IsActive {
		return newError(CodeUserInactive, "user account %s is inactive", u.Username)
	}

	return nil
}

// ChangePassword replaces the stored hash and stamps the password-changed
// timestamp. Inactive accounts cannot change their password.
func (u *User) ChangePassword(newPasswordHash string) error {
	if err := u.loginGuard(); err != nil {
		return err
	}

	now := time.Now().UTC()
	u.PasswordHash = newPasswordHash
	u.PasswordChangedAt = &now
	u.UpdatedAt = now

	return nil
}

// Activate marks the account active.
func (u *User) Activate() {
	u.IsActive = true
	u.UpdatedAt = time.Now().UTC()
}

// Deactivate marks the account inactive.
func (u *User) Deactivate() {
	u.IsActive = false
	u.UpdatedAt = time.Now().UTC()
}

// SoftDelete marks the account deleted and forces it inactive.
func (u *User) SoftDelete() {
	u.IsDeleted = true
	u.IsActive = false
	u.UpdatedAt = time.Now().UTC()
}

// VerifyEmail records email confirmation.
func (u *User) VerifyEmail() {
	u.EmailVerified = true
	u.UpdatedAt = time.Now().UTC()
}

// VerifyPhone records phone confirmation.
func (u *User) VerifyPhone() {
	u.PhoneVerified = true
	u.UpdatedAt = time.Now().UTC()
}

// ProfileUpdate carries optional profile changes for UpdateProfile. Nil
// fields are left untouched.
type ProfileUpdate struct {
	FullName  *string
	Phone     *string
	AvatarURL *string
}

// UpdateProfile applies profile changes. Changing the phone number resets
// its verification flag.
func (u *User) UpdateProfile(p ProfileUpdate) error {
	if p.Phone != nil {
		phone, err := NewPhone(*p.Phone)
		if err != nil {
			return err
		}

		u.Phone = phone.String()
		u.PhoneVerified = false
	}

	if p.FullName != nil {
		u.FullName = *p.FullName
	}

	if p.AvatarURL != nil {
		u.AvatarURL = *p.AvatarURL
	}

	u.UpdatedAt = time.Now().UTC()

	return nil
}

// AssignRole adds the role to the user's set. Both the user and the role
// must be active. Assigning an already held role is a no-op by set
// semantics.
func (u *User) AssignRole(r *Role) error {
	if !u.IsActive {
		return newError(CodeUserInactive, "cannot assign a role to an inactive user")
	}

	if !r.IsActive {
		return newError(CodeRoleAssignment, "cannot assign inactive role %s", r.Code)
	}

	u.Roles.Add(r)
	u.UpdatedAt = time.Now().UTC()

	return nil
}

// RemoveRole removes the role from the user's set. Removing an absent role
// is a tolerated no-op.
func (u *User) RemoveRole(r *Role) {
	u.Roles.Discard(r.ID)
	u.UpdatedAt = time.Now().UTC()
}

// HasRole reports whether any assigned role carries the given code.
func (u *User) HasRole(roleCode string) bool {
	for _, r := range u.Roles {
		if r.Code == roleCode {
			return true
		}
	}

	return false
}

// HasPermission reports whether the user holds the given permission code.
// Superusers hold every permission unconditionally.
func (u *User) HasPermission(permissionCode string) bool {
	if u.IsSuperuser {
		return true
	}

	for _, r := range u.Roles {
		if r.HasPermission(permissionCode) {
			return true
		}
	}

	return false
}

// AllPermissions returns the union of all assigned roles' permission sets.
// For superusers the enumeration is meaningless: it still returns only the
// role-derived set, and callers must consult HasUnrestrictedAccess before
// relying on it.
func (u *User) AllPermissions() PermissionSet {
	out := make(PermissionSet)

	for _, r := range u.Roles {
		for _, p := range r.Permissions {
			out.Add(p)
		}
	}

	return out
}

// HasUnrestrictedAccess reports whether the user bypasses permission
// enumeration entirely. It is the explicit signal that AllPermissions does
// not bound what a superuser may do.
func (u *User) HasUnrestrictedAccess() bool {
	return u.IsSuperuser
}

// CheckPermission is the side-effect-free variant of HasPermission: it
// returns a PERMISSION_DENIED failure carrying the permission code and the
// user identity when the permission is not held.
func (u *User) CheckPermission(permissionCode string) error {
	if !u.HasPermission(permissionCode) {
		return newError(CodePermissionDenied, "user %s does not have permission %s", u.ID, permissionCode)
	}

	return nil
}

// CanAccessResource reports whether the user may perform action on
// resource. Superusers always can; otherwise any assigned role granting
// the pair suffices.
func (u *User) CanAccessResource(resource, action string) bool {
	if u.IsSuperuser {
		return true
	}

	for _, r := range u.Roles {
		if r.CanAccessResource(resource, action) {
			return true
		}
	}

	return false
}

// IsPasswordExpired reports whether the password is older than maxAgeDays.
// A password that was never changed counts as expired.
func (u *User) IsPasswordExpired(maxAgeDays int) bool {
	if u.PasswordChangedAt == nil {
		return true
	}

	expiry := u.PasswordChangedAt.Add(time.Duration(maxAgeDays) * 24 * time.Hour)

	return time.Now().UTC().After(expiry)
}

// IsLoginAllowed reports whether the account is active and not deleted.
func (u *User) IsLoginAllowed() bool {
	return u.IsActive && !u.IsDeleted
}
