// Package api is the local contract server: the storefront endpoints served
// in memory for development and integration tests.
package api

import (
	"context"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/aishop/storefront/internal/api/handler"
	"github.com/aishop/storefront/internal/api/middleware"
	"github.com/aishop/storefront/internal/core/ports"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Accounts  ports.AccountService
	Wishlists ports.WishlistRepository
	Log       zerolog.Logger

	// Registerer and Gatherer back the HTTP metrics and /metrics. They
	// default to the prometheus globals.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	// ReadinessChecks are reported by /health/ready.
	ReadinessChecks map[string]func(ctx context.Context) error
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "devserver",
		Registerer: deps.Registerer,
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.Accounts)
	userHandler := handler.NewUserHandler(deps.Accounts)
	wishlistHandler := handler.NewWishlistHandler(deps.Wishlists)
	healthHandler := handler.NewHealthHandler(deps.ReadinessChecks)
	authMiddleware := middleware.Auth(deps.Accounts)

	api := e.Group("/api")

	// --- Auth routes ---
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/reset-password", authHandler.ResetPassword)
	api.GET("/auth/validate", authHandler.Validate, authMiddleware)
	api.POST("/auth/logout", authHandler.Logout, authMiddleware)

	// --- Profile ---
	api.GET("/users/profile", userHandler.Profile, authMiddleware)
	api.PUT("/users/profile", userHandler.UpdateProfile, authMiddleware)

	// --- Wishlist ---
	wishlist := api.Group("/wishlist", authMiddleware)
	wishlist.GET("", wishlistHandler.List)
	wishlist.POST("/:productId", wishlistHandler.Add)
	wishlist.DELETE("/:productId", wishlistHandler.Remove)

	// --- Probes and metrics (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
