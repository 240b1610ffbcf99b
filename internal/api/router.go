package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/chatwave/auth-api/docs"
	"github.com/chatwave/auth-api/internal/api/handler"
	"github.com/chatwave/auth-api/internal/api/middleware"
	"github.com/chatwave/auth-api/internal/core/ports"
	"github.com/chatwave/auth-api/internal/core/service"
	"github.com/chatwave/auth-api/internal/infrastructure/config"
	mongodb "github.com/chatwave/auth-api/internal/infrastructure/db/mongo"
	redisdb "github.com/chatwave/auth-api/internal/infrastructure/db/redis"
	"github.com/chatwave/auth-api/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, events ports.EventPublisher, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("auth"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	tokenRepo := redisdb.NewTokenRepository(rdb, cfg.TokenTTL)
	tokenService := service.NewTokenService(tokenRepo, userRepo, log)
	authService := service.NewAuthService(userRepo, tokenService, events, cfg.BcryptCost, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(authService)
	authMiddleware := middleware.Auth(tokenService)

	// --- Public routes ---
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)

	// --- Bearer-protected routes ---
	protected := e.Group("", authMiddleware)
	protected.POST("/logout", userHandler.Logout)
	protected.POST("/refresh", userHandler.Refresh)
	protected.GET("/user", userHandler.Profile)
	protected.GET("/ping", userHandler.Ping)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
