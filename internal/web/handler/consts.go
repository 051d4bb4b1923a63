// Package handler carries the pieces shared by all web handlers: route
// constants, the handler interface and the JSON error mapping.
package handler

const (
	// RootPath is the root path of the API route group.
	RootPath = "/api"

	// AdminPath is the base path of the admin route group.
	AdminPath = RootPath + "/admin"

	// RouterRootPath is the root path within a route group.
	RouterRootPath = "/"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"

	// LocalsUser is the fiber.Locals key the auth middleware stores the
	// authenticated user under.
	LocalsUser = "CurrentUser"
)
