// Package permission provides handlers for managing permissions in the admin area.
package permission

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
	"github.com/go-rbac-admin/go-rbac-admin/internal/domain"
	"github.com/go-rbac-admin/go-rbac-admin/internal/web/handler"
	authmw "github.com/go-rbac-admin/go-rbac-admin/internal/web/middleware/auth"
)

const (
	// Path is the base path for permission management.
	Path = handler.AdminPath + "/permissions"

	// PermRead guards the read endpoints, PermWrite the mutating ones.
	PermRead  = "permissions.read"
	PermWrite = "permissions.write"
)

// Service provides CRUD operations for permissions.
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

	return nil
}

type createRequest struct {
	Name        string `json:"name" validate:"required"`
	Code        string `json:"code" validate:"required"`
	Resource    string `json:"resource" validate:"required"`
	Action      string `json:"action" validate:"required"`
	Description string `json:"description"`
	Method      string `json:"method"`
	Path        string `json:"path"`
	Category    string `json:"category"`
}

type updateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Method      *string `json:"method"`
	Path        *string `json:"path"`
	Category    *string `json:"category"`
	SortOrder   *int    `json:"sort_order"`
}

// List returns all permissions that are not soft deleted.
func (s *Service) List(c *fiber.Ctx) error {
	perms, err := permission.GetAll(s.db)
	if err != nil {
		return handler.Fail(c, err)
	}

	return c.JSON(perms)
}

// Get returns one permission.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return handler.BadRequest(c, err)
	}

	p, err := permission.Get(s.db, id)
	if err != nil {
		return handler.Fail(c, err)
	}

	return c.JSON(p)
}

// Create creates a new permission.
func (s *Service) Create(c *fiber.Ctx) error {
	req := new(createRequest)
	if err := c.BodyParser(req); err != nil {
		return handler.BadRequest(c, err)
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.ValidationFail(c, err)
	}

	p, err := domain.NewPermission(domain.PermissionSpec{
		Name:        req.Name,
		Code:        req.Code,
		Resource:    req.Resource,
		Action:      req.Action,
		Description: req.Description,
		Method:      req.Method,
		Path:        req.Path,
		Category:    req.Category,
	})
	if err != nil {
		return handler.Fail(c, err)
	}

	if err := permission.Create(s.db, p); err != nil {
		return handler.Fail(c, err)
	}

	log.Info().Str("permission", p.Code).Msg("permission created")

	return c.Status(fiber.StatusCreated).JSON(p)
}

// Update applies a partial update. System permissions are rejected by the
// domain layer.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return handler.BadRequest(c, err)
	}

	req := new(updateRequest)
	if err := c.BodyParser(req); err != nil {
		return handler.BadRequest(c, err)
	}

	p, err := permission.Get(s.db, id)
	if err != nil {
		return handler.Fail(c, err)
	}

	if err := p.Update(domain.PermissionUpdate{
		Name:        req.Name,
		Description: req.Description,
		Method:      req.Method,
		Path:        req.Path,
		Category:    req.Category,
		SortOrder:   req.SortOrder,
	}); err != nil {
		return handler.Fail(c, err)
	}

	if err := permission.Save(s.db, p); err != nil {
		return handler.Fail(c, err)
	}

	return c.JSON(p)
}

// Delete soft deletes a permission.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return handler.BadRequest(c, err)
	}

	if err := permission.Delete(s.db, id); err != nil {
		return handler.Fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
