package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/go-rbac-admin/go-rbac-admin/internal/db/controller/permission"
	"github.com/go-rbac-admin/go-rbac-admin/internal/db/controller/role"
	"github.com/go-rbac-admin/go-rbac-admin/internal/db/controller/sysconfig"
	"github.com/go-rbac-admin/go-rbac-admin/internal/db/controller/user"
	"github.com/go-rbac-admin/go-rbac-admin/internal/domain"
)

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// Fail maps an error onto the matching HTTP status and JSON body.
// Domain failure codes drive the status: inactive accounts and bad
// credentials are 401, denied permissions 403, validation failures 422.
// Controller not-found sentinels become 404, the config version conflict
// 409; everything else is a 500 with the detail kept out of the response.
func Fail(c *fiber.Ctx, err error) error {
	var domErr *domain.Error
	if errors.As(err, &domErr) {
		return c.Status(statusForDomain(domErr)).JSON(ErrorResponse{
			Code:    domErr.Code,
			Message: domErr.Message,
		})
	}

	switch {
	case errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, role.ErrRoleNotFound),
		errors.Is(err, permission.ErrPermissionNotFound),
		errors.Is(err, sysconfig.ErrConfigNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Message: err.Error()})

	case errors.Is(err, user.ErrUserAlreadyExists),
		errors.Is(err, role.ErrRoleAlreadyExists),
		errors.Is(err, permission.ErrPermissionAlreadyExists),
		errors.Is(err, sysconfig.ErrConfigAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{Message: err.Error()})

	case errors.Is(err, sysconfig.ErrVersionConflict):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{Message: err.Error()})
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("request failed")

	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Message: "internal server error"})
}

func statusForDomain(err *domain.Error) int {
	switch err.Code {
	case domain.CodeUserInactive, domain.CodeInvalidCredentials:
		return fiber.StatusUnauthorized
	case domain.CodePermissionDenied:
		return fiber.StatusForbidden
	case domain.CodeRoleAssignment:
		return fiber.StatusConflict
	default: // validation failure
		return fiber.StatusUnprocessableEntity
	}
}

// ValidationFail returns a 422 for request bodies rejected by the validator.
func ValidationFail(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{Message: err.Error()})
}

// BadRequest returns a 400 for unparseable request bodies.
func BadRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Message: err.Error()})
}
