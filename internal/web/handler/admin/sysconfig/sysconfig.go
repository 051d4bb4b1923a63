// Package sysconfig provides handlers for managing typed system
// configuration entries in the admin area. Sensitive values leave the
// server masked unless the caller explicitly asks for exposure and holds
// the write permission.
package sysconfig

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/go-rbac-admin/go-rbac-admin/internal/auth"
	"github.com/go-rbac-admin/go-rbac-admin/internal/config"
	"github.com/go-rbac-admin/go-rbac-admin/internal/db/controller/sysconfig"
	"github.com/go-rbac-admin/go-rbac-admin/internal/domain"
	"github.com/go-rbac-admin/go-rbac-admin/internal/web/handler"
	authmw "github.com/go-rbac-admin/go-rbac-admin/internal/web/middleware/auth"
)

const (
	// Path is the base path for config management.
	Path = handler.AdminPath + "/configs"

	// PermRead guards the read endpoints, PermWrite the mutating ones.
	PermRead  = "configs.read"
	PermWrite = "configs.write"
)

// Service provides CRUD operations for config entries.
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
	app.Get(Path+"/:key", authmw.RequirePermission(PermRead), s.Get)
	app.Post(Path, authmw.RequirePermission(PermWrite), s.Create)
	app.Put(Path+"/:key/value", authmw.RequirePermission(PermWrite), s.SetValue)
	app.Delete(Path+"/:key", authmw.RequirePermission(PermWrite), s.Delete)

	return nil
}

type createRequest struct {
	Key            string `json:"key" validate:"required,max=100"`
	Description    string `json:"description"`
	Category       string `json:"category"`
	DataType       string `json:"data_type"`
	IsPublic       bool   `json:"is_public"`
	IsEncrypted    bool   `json:"is_encrypted"`
	ValidationRule string `json:"validation_rule"`
	DefaultValue   any    `json:"default_value"`
}

type setValueRequest struct {
	Value any `json:"value"`
}

// List returns all config entries. Sensitive values are masked.
func (s *Service) List(c *fiber.Ctx) error {
	entries, err := sysconfig.GetAll(s.db)
	if err != nil {
		return handler.Fail(c, err)
	}

	out := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry.ToMap(false))
	}

	return c.JSON(out)
}

// Get returns one config entry. Sensitive values are masked unless the
// caller holds the write permission and asks with ?expose=true.
func (s *Service) Get(c *fiber.Ctx) error {
	entry, err := sysconfig.Get(s.db, c.Params("key"))
	if err != nil {
		return handler.Fail(c, err)
	}

	expose := false
	if c.QueryBool("expose") {
		u := authmw.CurrentUser(c)
		expose = u != nil && u.HasPermission(PermWrite)
	}

	return c.JSON(entry.ToMap(expose))
}

// Create creates a new config entry.
func (s *Service) Create(c *fiber.Ctx) error {
	req := new(createRequest)
	if err := c.BodyParser(req); err != nil {
		return handler.BadRequest(c, err)
	}

	if err := s.validator.Struct(req); err != nil {
		return handler.ValidationFail(c, err)
	}

	spec := domain.SystemConfigSpec{
		Key:            req.Key,
		Description:    req.Description,
		Category:       domain.ConfigCategory(req.Category),
		DataType:       domain.ConfigDataType(req.DataType),
		IsPublic:       req.IsPublic,
		IsEncrypted:    req.IsEncrypted,
		ValidationRule: req.ValidationRule,
	}

	if req.DefaultValue != nil {
		spec.DefaultValue = &domain.ConfigValue{Data: req.DefaultValue, Type: req.DataType}
	}

	entry, err := domain.NewSystemConfig(spec)
	if err != nil {
		return handler.Fail(c, err)
	}

	if err := sysconfig.Create(s.db, entry); err != nil {
		return handler.Fail(c, err)
	}

	log.Info().Str("key", entry.Key).Msg("config entry created")

	return c.Status(fiber.StatusCreated).JSON(entry.ToMap(false))
}

// SetValue writes a typed value into an entry. A lost optimistic
// concurrency race comes back as 409.
func (s *Service) SetValue(c *fiber.Ctx) error {
	req := new(setValueRequest)
	if err := c.BodyParser(req); err != nil {
		return handler.BadRequest(c, err)
	}

	entry, err := sysconfig.SetValue(s.db, c.Params("key"), req.Value)
	if err != nil {
		return handler.Fail(c, err)
	}

	log.Info().Str("key", entry.Key).Int("version", entry.Version).Msg("config value updated")
	handler.Audit(c, s.db, domain.NewConfigUpdatedEvent(entry, updaterID(c)))

	return c.JSON(entry.ToMap(false))
}

// Delete soft deletes a config entry.
func (s *Service) Delete(c *fiber.Ctx) error {
	if err := sysconfig.Delete(s.db, c.Params("key")); err != nil {
		return handler.Fail(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func updaterID(c *fiber.Ctx) uuid.UUID {
	if actor := authmw.CurrentUser(c); actor != nil {
		return actor.ID
	}

	return uuid.Nil
}
