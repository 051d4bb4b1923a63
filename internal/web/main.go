// Package web implements the HTTP API service.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/go-rbac-admin/go-rbac-admin/internal/auth"
	"github.com/go-rbac-admin/go-rbac-admin/internal/config"
	auditadmin "github.com/go-rbac-admin/go-rbac-admin/internal/web/handler/admin/audit"
	permissionadmin "github.com/go-rbac-admin/go-rbac-admin/internal/web/handler/admin/permission"
	roleadmin "github.com/go-rbac-admin/go-rbac-admin/internal/web/handler/admin/role"
	sysconfigadmin "github.com/go-rbac-admin/go-rbac-admin/internal/web/handler/admin/sysconfig"
	useradmin "github.com/go-rbac-admin/go-rbac-admin/internal/web/handler/admin/user"
	"github.com/go-rbac-admin/go-rbac-admin/internal/web/handler/login"
	authmw "github.com/go-rbac-admin/go-rbac-admin/internal/web/middleware/auth"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	authService  *auth.Service
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the service.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	authService := auth.NewService(db, cfg.Auth)

	// init web service
	service := &Service{
		cfg:         cfg,
		App:         app,
		db:          db,
		authService: authService,
	}
	service.alive.Store(true)

	// unauthenticated endpoints
	app.Get("/checkalive", service.Checkalive)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	if err := login.Handler.Init(app, cfg, db, authService); err != nil {
		log.Fatal().Err(err).Msg("failed to init login handler")
	}

	// everything below requires a valid bearer token
	app.Use(authmw.Middleware(authService, db))

	login.Handler.InitProtected(app)

	for name, h := range map[string]interface {
		Init(*fiber.App, *config.Config, *gorm.DB, *auth.Service) error
	}{
		"user":       &useradmin.Handler,
		"role":       &roleadmin.Handler,
		"permission": &permissionadmin.Handler,
		"sysconfig":  &sysconfigadmin.Handler,
		"audit":      &auditadmin.Handler,
	} {
		if err := h.Init(app, cfg, db, authService); err != nil {
			log.Fatal().Err(err).Str("handler", name).Msg("failed to init handler")
		}
	}

	return service
}

// Checkalive reports liveness; it flips to 503 during graceful shutdown so
// load balancers drain this instance.
func (s *Service) Checkalive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}
