package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/novinsoft/signup-system/internal/api/handler"
	"github.com/novinsoft/signup-system/internal/api/middleware"
	"github.com/novinsoft/signup-system/internal/core/ports"
)

// Deps carries everything the router wires together. The repository arrives
// already constructed (mongo or mysql, chosen at bootstrap); the router
// never sees a concrete driver.
type Deps struct {
	Service      ports.RegistrationService
	Admin        handler.AdminConfig
	AdminKey     string
	LoginLimiter handler.LoginLimiter
	HealthChecks map[string]handler.HealthCheck
	Logger       zerolog.Logger
}

// Paths exempt from the session gate: the public signup surface, all API
// entry points (they carry their own key check), probes and static assets.
var gateExemptPrefixes = []string{
	"/register",
	"/api",
	"/health",
	"/metrics",
	"/static",
	"/favicon.ico",
}

// NewRouter builds and returns the Echo instance with all routes registered.
//
// Middleware order matters: the session gate is registered with the global
// middleware so it runs before any route handler executes.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(middleware.SessionGate(middleware.SessionGateConfig{
		Secret:         deps.Admin.Secret,
		LoginPath:      "/admin/login",
		ExemptPrefixes: gateExemptPrefixes,
	}))

	// --- Handlers ---
	registrationHandler := handler.NewRegistrationHandler(deps.Service)
	adminHandler := handler.NewAdminHandler(deps.Service, deps.Admin, deps.LoginLimiter)
	healthHandler := handler.NewHealthHandler(deps.HealthChecks)
	adminKey := middleware.AdminKey(deps.AdminKey)

	// --- Public signup surface ---
	e.POST("/api/register", registrationHandler.Register)

	// --- Admin session ---
	e.POST("/api/admin-login", adminHandler.Login)
	e.POST("/api/admin-logout", adminHandler.Logout)

	// --- Key-gated admin API (independent of the cookie session) ---
	e.GET("/api/admin/registrations", adminHandler.List, adminKey)
	e.GET("/api/export", adminHandler.Export, adminKey)

	// --- Probes & metrics ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
