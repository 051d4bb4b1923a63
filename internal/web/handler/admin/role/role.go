// Package role provides handlers for managing roles and their permission
// grants in the admin area.
package role

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/go-rbac-admin/go-rbac-admin/internal/auth"
	"github.com/go-rbac-admin/go-rbac-admin/internal/config"
	"github.com/go-rbac-admin/go-rbac-admin/internal/db/controller/permission"
	"github.com/go-rbac-admin/go-rbac-admin/internal/db/controller/role"
	"github.com/go-rbac-admin/go-rbac-admin/internal/domain"
	"github.com/go-rbac-admin/go-rbac-admin/internal/web/handler"
	authmw "github.com/go-rbac-admin/go-rbac-admin/internal/web/middleware/auth"
)

const (
	// Path is the base path for role management.
	Path = handler.AdminPath + "/roles"

	// PermRead guards the read endpoints, PermWrite the mutating ones.
	PermRead  = "roles.read"
	PermWrite = "roles.write"
)

// Service provides CRUD operations for roles.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, _ *auth.Service) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.db = db
	s.cfg = cfg
	s.validator = validator.New()

	app.Get(Path, authmw.RequirePermission(PermRead), s.List)
	app.Get(Path+"/:id", authmw.RequirePermission(PermRead), s.Get)
	app.Post(Path, authmw.RequirePermission(PermWrite), s.Create)
	app.Patch(Path+"/:id", authmw.RequirePermission(PermWrite), s.Update)
	app.Delete(Path+"/:id", authmw.RequirePermission(PermWrite), s.Delete)
	app.Post(Path+"/:id/permissions", authmw.RequirePermission(PermWrite), s.GrantPermission)
	app.Delete(Path+"/:id/permissions/:permID", authmw.RequirePermission(PermWrite), s.RevokePermission)

	return nil
}

type createRequest struct {
	Name        string `json:"name" validate:"required"`
	Code        string `json:"code" validate:"required"`
	Description string `json:"description"`
	Level       int    `json:"level" validate:"min=0,max=999"`
}

type updateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Level       *int    `json:"level"`
	SortOrder   *int    `json:"sort_order"`
	Active      *bool   `json:"active"`
}

type grantRequest struct {
	PermissionID string `json:"permission_id" validate:"required,uuid4"`
}

// List returns all roles that are not soft deleted.
func (s *Service) List(c *fiber.Ctx) error {
	roles, err := role.GetAll(s.db)
	if err != nil {
		return handler.Fail(c, err)
	}

	return c.JSON(roles)
}

// Get returns one role with its granted permissions.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return handler.BadRequest(c, err)
	}

	r, err := role.Get(s.db, id)
	if err != nil {
		return handler.Fail(c, err)
	}

	return c.JSON(r)
}

// Create creates a new role.
func (s *Service) Create(c *fiber.Ctx) error {
	req := new(createRequest)
	if err := c.BodyParser(req); err != nil {
		return handler.BadRequest(c, err)
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.ValidationFail(c, err)
	}

	r, err := domain.NewRole(domain.RoleSpec{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		Level:       req.Level,
	})
	if err != nil {
		return handler.Fail(c, err)
	}

	if err := role.Create(s.db, r); err != nil {
		return handler.Fail(c, err)
	}

	log.Info().Str("role", r.Code).Msg("role created")

	return c.Status(fiber.StatusCreated).JSON(r)
}

// Update applies a partial update. System roles are rejected by the domain
// layer.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return handler.BadRequest(c, err)
	}

	req := new(updateRequest)
	if err := c.BodyParser(req); err != nil {
		return handler.BadRequest(c, err)
	}

	r, err := role.Get(s.db, id)
	if err != nil {
		return handler.Fail(c, err)
	}

	if err := r.Update(domain.RoleUpdate{
		Name:        req.Name,
		Description: req.Description,
		Level:       req.Level,
		SortOrder:   req.SortOrder,
	}); err != nil {
		return handler.Fail(c, err)
	}

	if req.Active != nil {
		if *req.Active {
			r.Activate()
		} else {
			r.Deactivate()
		}
	}

	if err := role.Save(s.db, r); err != nil {
		return handler.Fail(c, err)
	}

	return c.JSON(r)
}

// Delete soft deletes a role.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return handler.BadRequest(c, err)
	}

	if err := role.Delete(s.db, id); err != nil {
		return handler.Fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GrantPermission grants a permission to a role.
func (s *Service) GrantPermission(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return handler.BadRequest(c, err)
	}

	req := new(grantRequest)
	if err := c.BodyParser(req); err != nil {
		return handler.BadRequest(c, err)
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.ValidationFail(c, err)
	}

	permID, err := uuid.Parse(req.PermissionID)
	if err != nil {
		return handler.BadRequest(c, err)
	}

	r, err := role.Get(s.db, id)
	if err != nil {
		return handler.Fail(c, err)
	}

	p, err := permission.Get(s.db, permID)
	if err != nil {
		return handler.Fail(c, err)
	}

	// Run the domain guards before touching storage.
	if err := r.GrantPermission(p); err != nil {
		return handler.Fail(c, err)
	}

	grant, err := domain.NewRolePermission(r.ID, p.ID, grantorID(c))
	if err != nil {
		return handler.Fail(c, err)
	}

	if err := role.Grant(s.db, grant); err != nil {
		return handler.Fail(c, err)
	}

	log.Info().Str("role", r.Code).Str("permission", p.Code).Msg("permission granted")
	handler.Audit(c, s.db, domain.NewPermissionGrantedEvent(grant, p.Code))

	return c.Status(fiber.StatusCreated).JSON(grant)
}

// RevokePermission revokes a permission from a role. System permissions on
// system roles are protected by the domain layer.
func (s *Service) RevokePermission(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return handler.BadRequest(c, err)
	}

	permID, err := uuid.Parse(c.Params("permID"))
	if err != nil {
		return handler.BadRequest(c, err)
	}

	r, err := role.Get(s.db, id)
	if err != nil {
		return handler.Fail(c, err)
	}

	p, err := permission.Get(s.db, permID)
	if err != nil {
		return handler.Fail(c, err)
	}

	if err := r.RevokePermission(p); err != nil {
		return handler.Fail(c, err)
	}

	if err := role.Revoke(s.db, r.ID, p.ID); err != nil {
		return handler.Fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func grantorID(c *fiber.Ctx) uuid.UUID {
	if actor := authmw.CurrentUser(c); actor != nil {
		return actor.ID
	}

	return uuid.Nil
}
