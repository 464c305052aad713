package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/glprevenda/erp-auth/docs"
	"github.com/glprevenda/erp-auth/internal/api/handler"
	"github.com/glprevenda/erp-auth/internal/api/middleware"
	"github.com/glprevenda/erp-auth/internal/core/domain"
	"github.com/glprevenda/erp-auth/internal/core/service"
	"github.com/glprevenda/erp-auth/internal/infrastructure/config"
	mongodb "github.com/glprevenda/erp-auth/internal/infrastructure/db/mongo"
	redisdb "github.com/glprevenda/erp-auth/internal/infrastructure/db/redis"
	"github.com/glprevenda/erp-auth/internal/infrastructure/hash"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("erp_auth"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	roleRepo := mongodb.NewRoleRepository(db)
	refreshStore := redisdb.NewRefreshTokenStore(rdb)
	hasher := hash.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokenService := service.NewTokenService([]byte(cfg.Auth.SigningKey), cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	resolver := service.NewResolver(userRepo)
	authService := service.NewAuthService(userRepo, roleRepo, resolver, hasher, tokenService, refreshStore, log, cfg.Auth.DefaultRole)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userRepo)

	// The gate runs on every request and is fail-open; route policy below
	// does the rejecting.
	e.Use(middleware.Auth(tokenService, userRepo, log))

	// --- Auth routes (public) ---
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login)
	e.POST("/api/auth/refresh", authHandler.Refresh)
	e.POST("/api/auth/logout", authHandler.Logout, middleware.RequireAuth())

	// --- User routes ---
	e.GET("/api/users/me", userHandler.Me, middleware.RequireAuth())

	admin := e.Group("/api/admin", middleware.RequireRoles(domain.RoleAdmin))
	admin.GET("/users", userHandler.List)
	admin.GET("/users/:id", userHandler.GetByID)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
