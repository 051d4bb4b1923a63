// Package auth implements the bearer token middleware protecting the API.
package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/go-rbac-admin/go-rbac-admin/internal/auth"
	"github.com/go-rbac-admin/go-rbac-admin/internal/db/controller/user"
	"github.com/go-rbac-admin/go-rbac-admin/internal/domain"
	"github.com/go-rbac-admin/go-rbac-admin/internal/web/handler"
)

const bearerPrefix = "Bearer "

// Middleware returns a Fiber middleware that authenticates the request by
// its bearer token and stores the loaded user aggregate in fiber.Locals.
// Requests without a valid token are rejected with 401.
func Middleware(authService *auth.Service, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, bearerPrefix) {
			return unauthorized(c)
		}

		claims, err := authService.ParseToken(strings.TrimPrefix(header, bearerPrefix), auth.TokenKindAccess)
		if err != nil {
			return unauthorized(c)
		}

		userID, err := claims.SubjectID()
		if err != nil {
			return unauthorized(c)
		}

		u, err := user.Get(db, userID)
		if err != nil {
			log.Debug().Err(err).Str("user_id", claims.Subject).Msg("token for unknown user")

			return unauthorized(c)
		}

		// A token issued before the account was disabled must stop working.
		if err := u.LoginGuard(); err != nil {
			return handler.Fail(c, err)
		}

		c.Locals(handler.LocalsUser, u)

		return c.Next()
	}
}

// RequirePermission returns a Fiber middleware that requires the
// authenticated user to hold a specific permission. It must run after
// Middleware.
func RequirePermission(permissionCode string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := CurrentUser(c)
		if u == nil {
			return unauthorized(c)
		}

		if err := u.CheckPermission(permissionCode); err != nil {
			log.Warn().Str("user", u.Username).Str("permission", permissionCode).
				Msg("user lacks required permission")

			return handler.Fail(c, err)
		}

		return c.Next()
	}
}

// CurrentUser returns the authenticated user stored by Middleware, nil if
// the request was not authenticated.
func CurrentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals(handler.LocalsUser).(*domain.User)

	return u
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(handler.ErrorResponse{Message: "unauthorized"})
}
