// Package user provides handlers for managing users (CRUD) in the admin area.
package user

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/go-rbac-admin/go-rbac-admin/internal/auth"
	"github.com/go-rbac-admin/go-rbac-admin/internal/config"
	"github.com/go-rbac-admin/go-rbac-admin/internal/db/controller/role"
	"github.com/go-rbac-admin/go-rbac-admin/internal/db/controller/user"
	"github.com/go-rbac-admin/go-rbac-admin/internal/domain"
	"github.com/go-rbac-admin/go-rbac-admin/internal/web/handler"
	authmw "github.com/go-rbac-admin/go-rbac-admin/internal/web/middleware/auth"
)

const (
	// Path is the base path for user management.
	Path = handler.AdminPath + "/users"

	// PermRead guards the read endpoints, PermWrite the mutating ones.
	PermRead  = "users.read"
	PermWrite = "users.write"
)

// Service provides CRUD operations for users.
type Service struct {
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
	validator   *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.db = db
	s.cfg = cfg
	s.authService = authService
	s.validator = validator.New()

	app.Get(Path, authmw.RequirePermission(PermRead), s.List)
	app.Get(Path+"/:id", authmw.RequirePermission(PermRead), s.Get)
	app.Post(Path, authmw.RequirePermission(PermWrite), s.Create)
	app.Patch(Path+"/:id", authmw.RequirePermission(PermWrite), s.Update)
	app.Delete(Path+"/:id", authmw.RequirePermission(PermWrite), s.Delete)
	app.Post(Path+"/:id/roles", authmw.RequirePermission(PermWrite), s.AssignRole)
	app.Delete(Path+"/:id/roles/:roleID", authmw.RequirePermission(PermWrite), s.RemoveRole)

	return nil
}

type createRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

type updateRequest struct {
	FullName  *string `json:"full_name"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"avatar_url"`
	Active    *bool   `json:"active"`
}

type assignRoleRequest struct {
	RoleID    string  `json:"role_id" validate:"required,uuid4"`
	ExpiresAt *string `json:"expires_at"` // RFC 3339, omitted for a permanent assignment
}

// userView is the JSON shape of a user. The password hash never leaves the
// server.
type userView struct {
	ID            string     `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	FullName      string     `json:"full_name"`
	Phone         string     `json:"phone"`
	AvatarURL     string     `json:"avatar_url"`
	Active        bool       `json:"active"`
	Superuser     bool       `json:"superuser"`
	EmailVerified bool       `json:"email_verified"`
	PhoneVerified bool       `json:"phone_verified"`
	LastLoginAt   *time.Time `json:"last_login_at"`
	LoginCount    int        `json:"login_count"`
	Roles         []string   `json:"roles"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func viewFor(u *domain.User) userView {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, r.Code)
	}

	return userView{
		ID:            u.ID.String(),
		Username:      u.Username,
		Email:         u.Email,
		FullName:      u.FullName,
		Phone:         u.Phone,
		AvatarURL:     u.AvatarURL,
		Active:        u.IsActive,
		Superuser:     u.IsSuperuser,
		EmailVerified: u.EmailVerified,
		PhoneVerified: u.PhoneVerified,
		LastLoginAt:   u.LastLoginAt,
		LoginCount:    u.LoginCount,
		Roles:         roles,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

// List returns all users that are not soft deleted.
func (s *Service) List(c *fiber.Ctx) error {
	users, err := user.GetAll(s.db)
	if err != nil {
		return handler.Fail(c, err)
	}

	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, viewFor(u))
	}

	return c.JSON(views)
}

// Get returns one user with the full role aggregate.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return handler.BadRequest(c, err)
	}

	u, err := user.Get(s.db, id)
	if err != nil {
		return handler.Fail(c, err)
	}

	return c.JSON(viewFor(u))
}

// Create creates a new user account.
func (s *Service) Create(c *fiber.Ctx) error {
	req := new(createRequest)
	if err := c.BodyParser(req); err != nil {
		return handler.BadRequest(c, err)
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.ValidationFail(c, err)
	}

	u, err := s.authService.CreateUser(domain.UserSpec{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Phone:    req.Phone,
	}, req.Password)
	if err != nil {
		return handler.Fail(c, err)
	}

	log.Info().Str("username", u.Username).Msg("user created")
	handler.Audit(c, s.db, domain.NewUserCreatedEvent(u, assignerID(c)))

	return c.Status(fiber.StatusCreated).JSON(viewFor(u))
}

// Update applies a partial profile update and the active flag.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return handler.BadRequest(c, err)
	}

	req := new(updateRequest)
	if err := c.BodyParser(req); err != nil {
		return handler.BadRequest(c, err)
	}

	u, err := user.Get(s.db, id)
	if err != nil {
		return handler.Fail(c, err)
	}

	if err := u.UpdateProfile(domain.ProfileUpdate{
		FullName:  req.FullName,
		Phone:     req.Phone,
		AvatarURL: req.AvatarURL,
	}); err != nil {
		return handler.Fail(c, err)
	}

	if req.Active != nil {
		if *req.Active {
			u.Activate()
		} else {
			u.Deactivate()
		}
	}

	if err := user.Save(s.db, u); err != nil {
		return handler.Fail(c, err)
	}

	return c.JSON(viewFor(u))
}

// Delete soft deletes a user account.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return handler.BadRequest(c, err)
	}

	u, err := user.Get(s.db, id)
	if err != nil {
		return handler.Fail(c, err)
	}

	u.SoftDelete()

	if err := user.Save(s.db, u); err != nil {
		return handler.Fail(c, err)
	}

	log.Info().Str("username", u.Username).Msg("user deleted")

	return c.SendStatus(fiber.StatusNoContent)
}

// AssignRole assigns a role to a user, optionally with an expiry.
func (s *Service) AssignRole(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return handler.BadRequest(c, err)
	}

	req := new(assignRoleRequest)
	if err := c.BodyParser(req); err != nil {
		return handler.BadRequest(c, err)
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.ValidationFail(c, err)
	}

	roleID, err := uuid.Parse(req.RoleID)
	if err != nil {
		return handler.BadRequest(c, err)
	}

	u, err := user.Get(s.db, id)
	if err != nil {
		return handler.Fail(c, err)
	}

	r, err := role.Get(s.db, roleID)
	if err != nil {
		return handler.Fail(c, err)
	}

	// Run the domain guards before touching storage.
	if err := u.AssignRole(r); err != nil {
		return handler.Fail(c, err)
	}

	expiresAt, err := parseExpiry(req.ExpiresAt)
	if err != nil {
		return handler.BadRequest(c, err)
	}

	assignment, err := domain.NewUserRole(u.ID, r.ID, assignerID(c), expiresAt)
	if err != nil {
		return handler.Fail(c, err)
	}

	if err := user.Assign(s.db, assignment); err != nil {
		return handler.Fail(c, err)
	}

	log.Info().Str("username", u.Username).Str("role", r.Code).Msg("role assigned")
	handler.Audit(c, s.db, domain.NewRoleAssignedEvent(assignment, r.Code))

	return c.Status(fiber.StatusCreated).JSON(assignment)
}

// RemoveRole removes a role assignment from a user.
func (s *Service) RemoveRole(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return handler.BadRequest(c, err)
	}

	roleID, err := uuid.Parse(c.Params("roleID"))
	if err != nil {
		return handler.BadRequest(c, err)
	}

	if err := user.Unassign(s.db, id, roleID); err != nil {
		return handler.Fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// parseExpiry reads an optional RFC 3339 expiry timestamp.
func parseExpiry(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}

	expiry, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return &expiry, nil
}

func assignerID(c *fiber.Ctx) uuid.UUID {
	if actor := authmw.CurrentUser(c); actor != nil {
		return actor.ID
	}

	return uuid.Nil
}
