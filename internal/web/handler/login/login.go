// Package login provides the authentication endpoints: login, token
// refresh, current user and password change.
package login

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/go-rbac-admin/go-rbac-admin/internal/auth"
	"github.com/go-rbac-admin/go-rbac-admin/internal/config"
	"github.com/go-rbac-admin/go-rbac-admin/internal/db/controller/audit"
	"github.com/go-rbac-admin/go-rbac-admin/internal/db/controller/user"
	"github.com/go-rbac-admin/go-rbac-admin/internal/domain"
	"github.com/go-rbac-admin/go-rbac-admin/internal/web/handler"
	authmw "github.com/go-rbac-admin/go-rbac-admin/internal/web/middleware/auth"
)

const (
	// Path is the base path for the authentication endpoints.
	Path = handler.RootPath + "/auth"
)

// Service is the login handler service.
type Service struct {
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
	validator   *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers the public authentication routes. The me and password
// routes are registered by InitProtected once the bearer middleware is in
// place.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.db = db
	s.cfg = cfg
	s.authService = authService
	s.validator = validator.New()

	app.Post(Path+"/login", s.Login)
	app.Post(Path+"/refresh", s.Refresh)

	return nil
}

// InitProtected registers the routes that need an authenticated user.
func (s *Service) InitProtected(app *fiber.App) {
	app.Get(Path+"/me", s.Me)
	app.Post(Path+"/password", s.ChangePassword)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type loginResponse struct {
	*auth.TokenPair
	User userInfo `json:"user"`
}

type userInfo struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	FullName    string   `json:"full_name"`
	Superuser   bool     `json:"superuser"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

// Login verifies credentials and issues a token pair.
func (s *Service) Login(c *fiber.Ctx) error {
	req := new(loginRequest)
	if err := c.BodyParser(req); err != nil {
		return handler.BadRequest(c, err)
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.ValidationFail(c, err)
	}

	u, err := s.authService.Authenticate(req.Username, req.Password)
	if err != nil {
		s.recordLogin(c, uuid.Nil, req.Username, err)

		return handler.Fail(c, err)
	}

	pair, err := s.authService.IssueTokens(u)
	if err != nil {
		return handler.Fail(c, err)
	}

	s.recordLogin(c, u.ID, u.Username, nil)

	return c.JSON(loginResponse{TokenPair: pair, User: infoFor(u)})
}

// Refresh exchanges a valid refresh token for a fresh token pair.
func (s *Service) Refresh(c *fiber.Ctx) error {
	req := new(refreshRequest)
	if err := c.BodyParser(req); err != nil {
		return handler.BadRequest(c, err)
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.ValidationFail(c, err)
	}

	claims, err := s.authService.ParseToken(req.RefreshToken, auth.TokenKindRefresh)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(handler.ErrorResponse{Message: "unauthorized"})
	}

	userID, err := claims.SubjectID()
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(handler.ErrorResponse{Message: "unauthorized"})
	}

	u, err := user.Get(s.db, userID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(handler.ErrorResponse{Message: "unauthorized"})
	}

	if err := u.LoginGuard(); err != nil {
		return handler.Fail(c, err)
	}

	pair, err := s.authService.IssueTokens(u)
	if err != nil {
		return handler.Fail(c, err)
	}

	return c.JSON(loginResponse{TokenPair: pair, User: infoFor(u)})
}

// Me returns the authenticated user with effective roles and permissions.
func (s *Service) Me(c *fiber.Ctx) error {
	u := authmw.CurrentUser(c)
	if u == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(handler.ErrorResponse{Message: "unauthorized"})
	}

	return c.JSON(infoFor(u))
}

// ChangePassword changes the authenticated user's password.
func (s *Service) ChangePassword(c *fiber.Ctx) error {
	u := authmw.CurrentUser(c)
	if u == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(handler.ErrorResponse{Message: "unauthorized"})
	}

	req := new(changePasswordRequest)
	if err := c.BodyParser(req); err != nil {
		return handler.BadRequest(c, err)
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.ValidationFail(c, err)
	}

	if err := s.authService.ChangePassword(u.ID, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, auth.ErrInvalidOldPassword) {
			return c.Status(fiber.StatusUnauthorized).JSON(handler.ErrorResponse{Message: err.Error()})
		}

		return handler.Fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// recordLogin appends a login attempt to the audit trail. Failures to write
// the trail are logged but never fail the request.
func (s *Service) recordLogin(c *fiber.Ctx, userID uuid.UUID, username string, loginErr error) {
	event := domain.NewUserLoginEvent(userID, username, c.IP(), c.Get(fiber.HeaderUserAgent), loginErr == nil)

	info := audit.RequestInfo{Method: c.Method(), Path: c.Path()}
	if loginErr != nil {
		info.Error = loginErr.Error()
	}

	if err := audit.RecordEvent(s.db, event, info); err != nil {
		log.Error().Err(err).Msg("failed to record audit entry")
	}
}

func infoFor(u *domain.User) userInfo {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, r.Code)
	}

	perms := u.AllPermissions()
	permCodes := make([]string, 0, len(perms))
	for _, p := range perms {
		permCodes = append(permCodes, p.Code)
	}

	return userInfo{
		ID:          u.ID.String(),
		Username:    u.Username,
		Email:       u.Email,
		FullName:    u.FullName,
		Superuser:   u.IsSuperuser,
		Roles:       roles,
		Permissions: permCodes,
	}
}
