package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"                   // Echo web framework handles routing
	echomw "github.com/labstack/echo/v4/middleware" // panic recovery
	gommonlog "github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/peak-v1-api/internal/apperror"
	"github.com/iliyamo/peak-v1-api/internal/config"
	"github.com/iliyamo/peak-v1-api/internal/handler"
	"github.com/iliyamo/peak-v1-api/internal/middleware"
)

// Deps are the collaborators New wires into the Echo instance.  Redis may
// be nil; the limiter then passes every request through.
type Deps struct {
	Cfg       config.Config
	RateLimit config.RateLimitConfig
	Redis     *redis.Client
	Health    *handler.HealthHandler
}

// New builds the Echo instance with the error handler and global middleware
// installed and all routes registered.  The logger runs at WARN so probe
// failures and rate-limit debug lines reach the log.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(gommonlog.WARN)
	e.HTTPErrorHandler = apperror.HTTPErrorHandler
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger)
	RegisterRoutes(e, d)
	return e
}

// RegisterRoutes registers the three fixed routes.  When AuthEnabled is set
// the API-key gate wraps all of them, /health included; /health/db is only
// registered when the database probe is enabled.
func RegisterRoutes(e *echo.Echo, d Deps) {
	g := e.Group("")
	g.Use(middleware.NewTokenBucket(d.RateLimit, d.Redis))
	if d.Cfg.AuthEnabled {
		g.Use(middleware.APIKeyAuth(d.Cfg.APIKey))
	}

	g.GET("/", d.Health.Root)
	g.GET("/health", d.Health.Health)
	if d.Cfg.DBProbeEnabled {
		g.GET("/health/db", d.Health.DatabaseHealth)
	}
}
