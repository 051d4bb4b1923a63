// Package audit provides handlers for reading the audit trail in the admin area.
package audit

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/go-rbac-admin/go-rbac-admin/internal/auth"
	"github.com/go-rbac-admin/go-rbac-admin/internal/config"
	"github.com/go-rbac-admin/go-rbac-admin/internal/db/controller/audit"
	"github.com/go-rbac-admin/go-rbac-admin/internal/web/handler"
	authmw "github.com/go-rbac-admin/go-rbac-admin/internal/web/middleware/auth"
)

const (
	// Path is the base path for the audit trail.
	Path = handler.AdminPath + "/audit"

	// PermRead guards the audit endpoints.
	PermRead = "audit.read"
)

// Service provides read access to the audit trail.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
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

	app.Get(Path, authmw.RequirePermission(PermRead), s.List)

	return nil
}

// List returns the most recent audit records, newest first. An optional
// user_id query filters by acting user.
func (s *Service) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)

	if rawUser := c.Query("user_id"); rawUser != "" {
		userID, err := uuid.Parse(rawUser)
		if err != nil {
			return handler.BadRequest(c, err)
		}

		entries, err := audit.ListByUser(s.db, userID, limit)
		if err != nil {
			return handler.Fail(c, err)
		}

		return c.JSON(entries)
	}

	entries, err := audit.List(s.db, limit)
	if err != nil {
		return handler.Fail(c, err)
	}

	return c.JSON(entries)
}
