package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/bookworm-social/bookworm-api/docs"
	"github.com/bookworm-social/bookworm-api/internal/api/handler"
	"github.com/bookworm-social/bookworm-api/internal/api/middleware"
	"github.com/bookworm-social/bookworm-api/internal/core/ports"
)

const defaultBodyLimit = "10M"

// Deps carries everything the HTTP layer needs.
type Deps struct {
	Logger      zerolog.Logger
	AuthService ports.AuthService
	BookService ports.BookService
	Tokens      ports.TokenService
	Users       middleware.UserFinder
	Checks      []handler.DependencyCheck

	// BodyLimit caps request bodies, e.g. "10M". Base64 covers are large.
	BodyLimit string
	// Registerer and Gatherer default to the prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	bodyLimit := d.BodyLimit
	if bodyLimit == "" {
		bodyLimit = defaultBodyLimit
	}
	registerer := d.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "bookworm",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.AuthService)
	bookHandler := handler.NewBookHandler(d.BookService)
	authMiddleware := middleware.Auth(d.Tokens, d.Users)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// --- Book routes (authenticated) ---
	books := e.Group("/api/books", authMiddleware)
	books.POST("", bookHandler.Create)
	books.GET("", bookHandler.List)
	books.GET("/user", bookHandler.ListMine)
	books.DELETE("/:id", bookHandler.Delete)

	// --- Health probes (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(d.Checks...).Readiness)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
