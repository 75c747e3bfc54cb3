package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campushr/hr-management-api/internal/approver"
	"github.com/campushr/hr-management-api/internal/certificate"
	"github.com/campushr/hr-management-api/internal/dashboard"
	"github.com/campushr/hr-management-api/internal/employee"
	"github.com/campushr/hr-management-api/internal/identity"
	"github.com/campushr/hr-management-api/internal/leave"
	"github.com/campushr/hr-management-api/internal/organization"
	"github.com/campushr/hr-management-api/internal/requesttype"
	"github.com/campushr/hr-management-api/internal/submission"
	"github.com/campushr/hr-management-api/internal/system/cache"
	"github.com/campushr/hr-management-api/internal/system/config"
	"github.com/campushr/hr-management-api/internal/system/constants"
	"github.com/campushr/hr-management-api/internal/system/database"
	"github.com/campushr/hr-management-api/internal/system/database/provider"
	"github.com/campushr/hr-management-api/internal/system/log"
	"github.com/campushr/hr-management-api/internal/system/middleware"
	"github.com/campushr/hr-management-api/internal/system/notification"
	"github.com/campushr/hr-management-api/internal/system/storage"
	"github.com/campushr/hr-management-api/internal/system/stores"
	"github.com/campushr/hr-management-api/internal/training"
)

// Version information (set by build script)
var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := log.GetLogger()
	logger.Info("Starting HR Management API Server...",
		log.String("version", version),
		log.String("build_date", buildDate),
	)

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Fatal("Failed to load configuration", log.Error(err))
	}
	config.SetGlobal(cfg)
	log.SetLevel(cfg.Logging.Level)
	logger.Info("Configuration loaded successfully", log.String("log_level", cfg.Logging.Level))

	db, err := database.Initialize(&cfg.Database.HRMS)
	if err != nil {
		logger.Fatal("Failed to initialize database", log.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.HealthCheck(ctx); err != nil {
		logger.Fatal("Database health check failed", log.Error(err))
	}
	logger.Info("Database connection established successfully")

	dbClient := provider.NewDBClient(db, cfg.Database.HRMS.Type)

	registry := stores.NewStoreRegistry(dbClient)
	registry.Organization = organization.NewStore(dbClient)
	registry.Identity = identity.NewStore(dbClient)
	registry.Employee = employee.NewStore(dbClient)
	registry.RequestType = requesttype.NewStore(dbClient)
	registry.Submission = submission.NewStore(dbClient)
	registry.Leave = leave.NewStore(dbClient)
	registry.Training = training.NewStore(dbClient)
	registry.Certificate = certificate.NewStore(dbClient)
	logger.Info("Stores registered successfully")

	cacheClient, err := cache.Initialize(&cfg.Cache)
	if err != nil {
		logger.Warn("Cache unavailable, continuing without it", log.Error(err))
		cacheClient = nil
	}

	notifier := notification.NewLogNotifier()
	fileStore := storage.NewLocalFileStore(cfg.Storage.BaseDir)
	resolver := approver.NewResolver(registry, cfg.Approval.Escalation)

	identityService := identity.NewService(registry)
	authz := func(permission string) gin.HandlerFunc {
		return identity.RequirePermission(identityService, permission)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CorrelationID())
	engine.Use(middleware.CORSMiddleware(middleware.CORSOptionsFromConfig(&cfg.CORS)))

	engine.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.HealthCheck(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "up"})
	})

	api := engine.Group(constants.APIBasePath)

	identity.Initialize(api, identityService, authz)
	organization.Initialize(api, registry, authz)
	employee.Initialize(api, registry, authz)
	requesttype.Initialize(api, registry, authz)
	leaveService := leave.Initialize(api, registry, authz)
	submissionService := submission.Initialize(api, registry, authz, resolver, leaveService,
		notifier, fileStore, cfg.Approval)
	training.Initialize(api, registry, authz, submissionService, notifier, cfg.Training)
	certificate.Initialize(api, registry, authz)
	dashboard.Initialize(api, dbClient, cacheClient, authz)
	logger.Info("Modules initialized successfully")

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Hostname, cfg.Server.Port)
	server := &http.Server{
		Addr:           serverAddr,
		Handler:        engine,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	go func() {
		logger.Info("Starting HTTP server...", log.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", log.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", log.Error(err))
	}
	logger.Info("Server exited gracefully")
}
