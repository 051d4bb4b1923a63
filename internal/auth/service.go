package auth

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/go-rbac-admin/go-rbac-admin/internal/config"
	"github.com/go-rbac-admin/go-rbac-admin/internal/db/controller/user"
	"github.com/go-rbac-admin/go-rbac-admin/internal/db/models"
	"github.com/go-rbac-admin/go-rbac-admin/internal/domain"
)

// Service provides authentication and authorization functionality.
type Service struct {
	db  *gorm.DB
	cfg config.Auth
}

// NewService creates a new auth service.
func NewService(db *gorm.DB, cfg config.Auth) *Service {
	return &Service{db: db, cfg: cfg}
}

// Authenticate verifies a user's credentials and stamps the successful
// login on the user record. Lookup failures and wrong passwords both come
// back as invalid credentials so callers can not probe for usernames;
// disabled and deleted accounts report themselves as inactive.
func (s *Service) Authenticate(username, password string) (*domain.User, error) {
	u, err := user.GetByUsername(s.db, username)
	if err != nil {
		log.Debug().Str("username", username).Msg("login attempt for unknown user")

		return nil, domain.ErrInvalidCredentials
	}

	if err := u.LoginGuard(); err != nil {
		return nil, err
	}

	match, err := argon2id.ComparePasswordAndHash(password, u.PasswordHash)
	if err != nil || !match {
		log.Debug().Str("username", username).Msg("login attempt with wrong password")

		return nil, domain.ErrInvalidCredentials
	}

	u.RecordLogin()

	if err := user.Save(s.db, u); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return u, nil
}

// CreateUser creates a new local user with a hashed password.
func (s *Service) CreateUser(spec domain.UserSpec, password string) (*domain.User, error) {
	spec.PasswordHash = models.HashPassword(password)

	u, err := domain.NewUser(spec)
	if err != nil {
		return nil, err
	}

	if err := user.Create(s.db, u); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return u, nil
}

// ChangePassword verifies the old password and stores a hash of the new one.
func (s *Service) ChangePassword(userID uuid.UUID, oldPassword, newPassword string) error {
	u, err := user.Get(s.db, userID)
	if err != nil {
		return err //nolint:wrapcheck
	}

	match, err := argon2id.ComparePasswordAndHash(oldPassword, u.PasswordHash)
	if err != nil || !match {
		return ErrInvalidOldPassword
	}

	if err := u.ChangePassword(models.HashPassword(newPassword)); err != nil {
		return err
	}

	return user.Save(s.db, u) //nolint:wrapcheck
}

// CheckPermission checks a user for a permission code. Superusers pass
// unconditionally.
func (s *Service) CheckPermission(u *domain.User, permissionCode string) error {
	return u.CheckPermission(permissionCode)
}

// AuthorizeRequest checks whether the user may perform an HTTP request.
// Superusers pass unconditionally; everyone else needs at least one granted
// permission whose method and path scope covers the request.
func (s *Service) AuthorizeRequest(u *domain.User, method, path string) error {
	if err := u.LoginGuard(); err != nil {
		return err
	}

	if u.HasUnrestrictedAccess() {
		return nil
	}

	for _, perm := range u.AllPermissions() {
		if perm.MatchesRequest(method, path) {
			return nil
		}
	}

	return domain.NewPermissionDenied(u.ID, method+" "+path)
}

// PasswordExpired reports whether the user's password exceeded the
// configured maximum age.
func (s *Service) PasswordExpired(u *domain.User) bool {
	return u.IsPasswordExpired(s.cfg.PasswordMaxAgeDays)
}

// AccessTokenTTL returns the configured access token lifetime.
func (s *Service) AccessTokenTTL() time.Duration {
	return time.Duration(s.cfg.AccessTokenMinutes) * time.Minute
}

// RefreshTokenTTL returns the configured refresh token lifetime.
func (s *Service) RefreshTokenTTL() time.Duration {
	return time.Duration(s.cfg.RefreshTokenMinutes) * time.Minute
}
