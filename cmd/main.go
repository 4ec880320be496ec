package main

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/saran-softdev/component-library-sub001/internal/access"
	"github.com/saran-softdev/component-library-sub001/internal/handler"
	"github.com/saran-softdev/component-library-sub001/internal/middleware"
	"github.com/saran-softdev/component-library-sub001/internal/repository"
	"github.com/saran-softdev/component-library-sub001/pkg/config"
	"github.com/saran-softdev/component-library-sub001/pkg/database"
	"github.com/saran-softdev/component-library-sub001/pkg/jwtutil"
	"github.com/saran-softdev/component-library-sub001/pkg/logger"
	"github.com/saran-softdev/component-library-sub001/prometheus"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting access resolution service...", cfg.LogConfig()...)

	// Initialize database
	if err := database.Initialize(&cfg.DB); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized")

	// Wire repositories and the resolution engine
	db := database.GetDB()
	moduleRepo := repository.NewModuleRepository(db)
	componentRepo := repository.NewComponentRepository(db)
	matrixRepo := repository.NewMatrixRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	userRepo := repository.NewUserRepository(db)

	facade := access.NewFacade(moduleRepo, matrixRepo, componentRepo, access.Options{
		Timeout:     cfg.Access.ResolveTimeout,
		CacheSize:   cfg.Access.CacheSize,
		CacheTTL:    cfg.Access.CacheTTL,
		OnCacheHit:  prometheus.RecordCacheHit,
		OnCacheMiss: prometheus.RecordCacheMiss,
	})
	invalidate := func() {
		facade.Invalidate()
		prometheus.RecordCacheInvalidation()
	}

	accessHandler := handler.NewAccessHandler(facade)
	moduleHandler := handler.NewModuleHandler(moduleRepo, invalidate)
	componentHandler := handler.NewComponentHandler(componentRepo, invalidate)
	matrixHandler := handler.NewMatrixHandler(matrixRepo, invalidate)
	roleHandler := handler.NewRoleHandler(roleRepo)
	orgHandler := handler.NewOrganizationHandler(orgRepo, matrixRepo, cfg.Access.DefaultRoleID, invalidate)
	userHandler := handler.NewUserHandler(userRepo)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// API routes - all require authentication
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	// Resolution operations - the engine's external surface
	accessGroup := api.Group("/access")
	accessGroup.GET("/sidebar", accessHandler.GetSidebar)
	accessGroup.POST("/components", accessHandler.ResolveComponentAccess)

	// Module directory administration
	modules := api.Group("/modules")
	modules.POST("", moduleHandler.Create)
	modules.GET("", moduleHandler.List)
	modules.GET("/deleted", moduleHandler.ListDeleted)
	modules.GET("/:id", moduleHandler.Get)
	modules.PUT("/:id", moduleHandler.Update)
	modules.DELETE("/:id", moduleHandler.Delete)
	modules.POST("/:id/restore", moduleHandler.Restore)
	modules.DELETE("/:id/hard", moduleHandler.HardDelete)

	// Component catalog administration
	components := api.Group("/components")
	components.POST("", componentHandler.Create)
	components.GET("", componentHandler.List)
	components.GET("/deleted", componentHandler.ListDeleted)
	components.GET("/:id", componentHandler.Get)
	components.PUT("/:id", componentHandler.Update)
	components.DELETE("/:id", componentHandler.Delete)
	components.POST("/:id/restore", componentHandler.Restore)
	components.DELETE("/:id/hard", componentHandler.HardDelete)

	// Access matrix administration
	matrices := api.Group("/matrices")
	matrices.POST("", matrixHandler.Create)
	matrices.GET("", matrixHandler.List)
	matrices.GET("/:id", matrixHandler.Get)
	matrices.PUT("/:id", matrixHandler.Update)
	matrices.DELETE("/:id", matrixHandler.Delete)
	matrices.POST("/:id/restore", matrixHandler.Restore)

	// Role administration
	roles := api.Group("/roles")
	roles.POST("", roleHandler.Create)
	roles.GET("", roleHandler.List)
	roles.GET("/:id", roleHandler.Get)
	roles.DELETE("/:id", roleHandler.Delete)
	roles.POST("/:id/restore", roleHandler.Restore)

	// Organization administration
	orgs := api.Group("/organizations")
	orgs.POST("", orgHandler.Create)
	orgs.GET("", orgHandler.List)
	orgs.GET("/:id", orgHandler.Get)
	orgs.DELETE("/:id", orgHandler.Delete)
	orgs.POST("/:id/restore", orgHandler.Restore)

	// User provisioning
	users := api.Group("/users")
	users.POST("", userHandler.Create)
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.Get)
	users.DELETE("/:id", userHandler.Delete)
	users.POST("/:id/restore", userHandler.Restore)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
