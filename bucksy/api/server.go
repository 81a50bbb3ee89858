// Package api is the admin HTTP API: question rotation management, shiny
// list, and the recurring post schedules.
package api

import (
	"context"
	"strings"
	"time"

	"github.com/bucksy-bot/bucksy/bucksy/database/repositories"
	"github.com/bucksy-bot/bucksy/bucksy/scheduler"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Schedules is the part of the poster the settings endpoints drive.
type Schedules interface {
	Spec(kind scheduler.Kind) (string, bool)
	Next(kind scheduler.Kind) (time.Time, bool)
	Reschedule(kind scheduler.Kind, spec string) error
	Trigger(ctx context.Context, kind scheduler.Kind) error
	Location() *time.Location
}

type Config struct {
	SessionSecret string
	SessionTTL    time.Duration
	RatePerMinute int
	AllowOrigins  []string
	SecureCookies bool
	// TrustedProxies may set X-Forwarded-For. Without any the connection
	// address is the client.
	TrustedProxies []string
}

type Deps struct {
	Questions repositories.QuestionRepository
	Shinies   repositories.ShinyRepository
	Admins    repositories.AdminRepository
	Schedules Schedules
	Version   string
}

// Server owns the fiber app and the handlers mounted on it.
type Server struct {
	App      *fiber.App
	deps     Deps
	sessions *Sessions
}

func New(cfg Config, deps Deps) (*Server, error) {
	s := &Server{
		deps:     deps,
		sessions: NewSessions(cfg.SessionSecret, cfg.SessionTTL, cfg.SecureCookies),
	}

	fcfg := fiber.Config{
		AppName:               "Bucksy Admin API",
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
		Immutable:             true,
	}
	if len(cfg.TrustedProxies) > 0 {
		fcfg.ProxyHeader = fiber.HeaderXForwardedFor
		fcfg.EnableTrustedProxyCheck = true
		fcfg.TrustedProxies = cfg.TrustedProxies
	}
	app := fiber.New(fcfg)

	app.Use(recover.New())
	app.Use(RequestID())
	app.Use(Logging())
	app.Use(SecurityHeaders())
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))
	if len(cfg.AllowOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Join(cfg.AllowOrigins, ","),
			AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
			AllowHeaders:     "Origin,Content-Type,Accept,Cookie",
			AllowCredentials: true,
		}))
	}
	if cfg.RatePerMinute > 0 {
		limiter, err := NewRateLimiter(cfg.RatePerMinute)
		if err != nil {
			return nil, err
		}
		app.Use(limiter.Handler())
	}

	s.routes(app)
	s.App = app
	return s, nil
}

func (s *Server) routes(app *fiber.App) {
	app.Get("/health", s.health)

	app.Post("/auth/login", s.login)
	app.Post("/auth/logout", s.logout)

	// group middleware applies to every path under the prefix
	auth := app.Group("/api", s.sessions.Required())
	auth.Get("/me", s.me)
	auth.Post("/admin/users", s.createAdmin)
	auth.Put("/admin/users/password", s.changePassword)

	auth.Get("/questions", s.listQuestions)
	auth.Post("/questions", s.addQuestion)
	auth.Post("/questions/priorities", s.updatePriorities)
	auth.Put("/questions/:id", s.updateQuestion)
	auth.Delete("/questions/:id", s.deleteQuestion)

	auth.Get("/shinies", s.listShinies)

	auth.Get("/settings", s.getSettings)
	auth.Post("/settings", s.updateSettings)
	auth.Post("/settings/:kind/trigger", s.triggerPost)
}

func (s *Server) Listen(address string) error {
	return s.App.Listen(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.App.ShutdownWithContext(ctx)
}
