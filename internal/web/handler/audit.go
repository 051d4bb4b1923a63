package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/go-rbac-admin/go-rbac-admin/internal/db/controller/audit"
	"github.com/go-rbac-admin/go-rbac-admin/internal/domain"
)

// Audit appends a domain event to the audit trail, tagged with the caller's
// request attributes. Failures to write the trail are logged but never fail
// the request.
func Audit(c *fiber.Ctx, db *gorm.DB, e domain.Event) {
	info := audit.RequestInfo{
		Method:    c.Method(),
		Path:      c.Path(),
		IPAddress: c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	}

	if u, ok := c.Locals(LocalsUser).(*domain.User); ok && u != nil {
		info.ActorID = u.ID
		info.ActorName = u.Username
	}

	if err := audit.RecordEvent(db, e, info); err != nil {
		log.Error().Err(err).Str("event", e.EventName()).Msg("failed to record audit entry")
	}
}
