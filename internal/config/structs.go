package config

import (
	"github.com/go-rbac-admin/go-rbac-admin/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Auth      Auth
}

// Webserver implements the webserver settings.
type Webserver struct {
	DisableRecover bool   // disable recover middleware
	Domain         string // domain name for the webserver
	Port           int    // listening port for the webserver
	ShutDownTime   int    // wait time for shutdown in seconds
	URL            string // base url for the webserver
}

// Auth holds authentication and token settings.
type Auth struct {
	// TokenSecret signs issued access and refresh tokens.
	TokenSecret string
	// AccessTokenMinutes is the access token lifetime.
	AccessTokenMinutes int
	// RefreshTokenMinutes is the refresh token lifetime.
	RefreshTokenMinutes int
	// PasswordMaxAgeDays bounds password age before a change is required.
	PasswordMaxAgeDays int
}
