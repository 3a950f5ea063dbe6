// Package router provides HTTP routing, middleware configuration, and server setup for both services
package router

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/okhira/mijikai/app/dto"
	"github.com/okhira/mijikai/app/handlers"
	"github.com/okhira/mijikai/app/middleware"
	"github.com/okhira/mijikai/config"
	"github.com/okhira/mijikai/utils"
)

// Router builds a configured Fiber application with its routes registered
type Router interface {
	SetupRoutes()
	GetApp() *fiber.App
}

// RedirectRouter wires the hot-path resolution and dashboard endpoints
type RedirectRouter struct {
	app              *fiber.App
	config           *config.Config
	healthHandler    *handlers.HealthHandler
	redirectHandler  handlers.RedirectHandlerInterface
	dashboardHandler handlers.DashboardHandlerInterface
	authMiddleware   *middleware.AuthMiddleware
}

func NewRedirectRouter(
	cfg *config.Config,
	healthHandler *handlers.HealthHandler,
	redirectHandler handlers.RedirectHandlerInterface,
	dashboardHandler handlers.DashboardHandlerInterface,
	authMiddleware *middleware.AuthMiddleware,
) Router {
	return &RedirectRouter{
		app:              newFiberApp(cfg),
		config:           cfg,
		healthHandler:    healthHandler,
		redirectHandler:  redirectHandler,
		dashboardHandler: dashboardHandler,
		authMiddleware:   authMiddleware,
	}
}

// SetupRoutes configures the redirect service routes
func (r *RedirectRouter) SetupRoutes() {
	setupMiddleware(r.app, r.config)

	r.app.Get("/health", r.healthHandler.Health)
	r.app.Get("/r/:shortUrl", r.redirectHandler.Redirect)

	api := r.app.Group("/api")
	api.Get("/info/:shortUrl", r.redirectHandler.GetURLInfo)
	api.Get("/dashboard", r.authMiddleware.Authenticate(), r.dashboardHandler.GetDashboard)

	log.Println("Redirect service routes registered")
}

func (r *RedirectRouter) GetApp() *fiber.App {
	return r.app
}

// AuthoringRouter wires link minting and the admin collision metrics
type AuthoringRouter struct {
	app            *fiber.App
	config         *config.Config
	healthHandler  *handlers.HealthHandler
	urlHandler     handlers.URLHandlerInterface
	authMiddleware *middleware.AuthMiddleware
}

func NewAuthoringRouter(
	cfg *config.Config,
	healthHandler *handlers.HealthHandler,
	urlHandler handlers.URLHandlerInterface,
	authMiddleware *middleware.AuthMiddleware,
) Router {
	return &AuthoringRouter{
		app:            newFiberApp(cfg),
		config:         cfg,
		healthHandler:  healthHandler,
		urlHandler:     urlHandler,
		authMiddleware: authMiddleware,
	}
}

// SetupRoutes configures the authoring service routes. Role guards always run
// behind the authentication guard.
func (r *AuthoringRouter) SetupRoutes() {
	setupMiddleware(r.app, r.config)

	r.app.Get("/health", r.healthHandler.Health)

	url := r.app.Group("/api/url")
	url.Post("/create", r.authMiddleware.Authenticate(),
		r.authMiddleware.RequireRole(middleware.RoleUser, middleware.RoleAdmin),
		r.urlHandler.Create)
	url.Get("/metrics/collisions", r.authMiddleware.Authenticate(),
		r.authMiddleware.RequireRole(middleware.RoleAdmin),
		r.urlHandler.CollisionMetrics)

	log.Println("Authoring service routes registered")
}

func (r *AuthoringRouter) GetApp() *fiber.App {
	return r.app
}

// newFiberApp builds the Fiber application shared by both services
func newFiberApp(cfg *config.Config) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: errorHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})
}

// setupMiddleware applies the global middleware pipeline in order
func setupMiddleware(app *fiber.App, cfg *config.Config) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.Metrics())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Split(cfg.CORS.AllowOrigins, ","),
		AllowMethods: strings.Split(cfg.CORS.AllowMethods, ","),
		AllowHeaders: strings.Split(cfg.CORS.AllowHeaders, ","),
	}))
}

// errorHandler converts unhandled Fiber errors into the response envelope
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "An unexpected error occurred. Please try again later"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(dto.APIResponse{
		Success:   false,
		Message:   message,
		Error:     dto.ErrorDetail{Code: "INTERNAL_SERVER_ERROR", Message: message},
		Timestamp: utils.UTCNow(),
	})
}
