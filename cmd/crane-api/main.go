package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/liftcheck/crane-records-api/api/swagger"
	"github.com/liftcheck/crane-records-api/internal/handler"
	"github.com/liftcheck/crane-records-api/internal/middleware"
	"github.com/liftcheck/crane-records-api/internal/models"
	"github.com/liftcheck/crane-records-api/internal/repository"
	"github.com/liftcheck/crane-records-api/internal/service"
	"github.com/liftcheck/crane-records-api/pkg/cache"
	"github.com/liftcheck/crane-records-api/pkg/config"
	"github.com/liftcheck/crane-records-api/pkg/database"
	"github.com/liftcheck/crane-records-api/pkg/logger"
	corsmiddleware "github.com/liftcheck/crane-records-api/pkg/middleware/cors"
	reqidmiddleware "github.com/liftcheck/crane-records-api/pkg/middleware/requestid"
)

// @title Crane Records API
// @version 1.0.0
// @description Equipment revision and logbook consistency engine for crane inspection records
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	// Redis is an optimization for checklist-template lookups; the API
	// stays up without it.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, checklist cache disabled", "error", err)
		redisClient = nil
	}
	if !cfg.Checklist.CacheEnabled {
		redisClient = nil
	}

	validate := validator.New()

	metricsSvc := service.NewMetricsService()

	equipmentRepo := repository.NewEquipmentRepository(db)
	revisionRepo := repository.NewRevisionRepository(db, equipmentRepo, metricsSvc)
	logbookRepo := repository.NewLogbookRepository(db, metricsSvc)
	checklistRepo := repository.NewChecklistTemplateRepository(db)
	serviceRequestRepo := repository.NewServiceRequestRepository(db)
	operatorRepo := repository.NewOperatorRepository(db)
	userRepo := repository.NewUserRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	equipmentSvc := service.NewEquipmentService(equipmentRepo, logbookRepo, serviceRequestRepo, logr)
	checklistSvc := service.NewChecklistService(checklistRepo, redisClient, cfg.Checklist.CacheTTL, logr)
	escalationSvc := service.NewEscalationService(serviceRequestRepo, logr)
	revisionSvc := service.NewRevisionService(revisionRepo, equipmentRepo, logbookRepo, validate, logr)
	logbookSvc := service.NewLogbookService(logbookRepo, equipmentRepo, operatorRepo, checklistSvc, escalationSvc, validate, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	equipmentHandler := handler.NewEquipmentHandler(equipmentSvc)
	revisionHandler := handler.NewRevisionHandler(revisionSvc)
	logbookHandler := handler.NewLogbookHandler(logbookSvc)
	checklistHandler := handler.NewChecklistHandler(checklistSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	{
		protected.GET("/equipment", equipmentHandler.List)
		protected.GET("/equipment/:id", equipmentHandler.Get)

		inspectors := middleware.RequireRoles(models.RoleAdmin, models.RoleTechnician)

		protected.GET("/revisions", revisionHandler.List)
		protected.POST("/revisions", inspectors, revisionHandler.Create)
		protected.POST("/revisions/follow-up", inspectors, revisionHandler.CreateFollowUp)
		protected.GET("/revisions/:id", revisionHandler.Get)
		protected.PUT("/revisions/:id", inspectors, revisionHandler.Update)
		protected.DELETE("/revisions/:id", inspectors, revisionHandler.Delete)

		protected.GET("/logbook/equipment/:equipment_id", logbookHandler.List)
		protected.GET("/logbook/equipment/:equipment_id/export", logbookHandler.Export)
		protected.POST("/logbook/daily-check", logbookHandler.CreateDailyCheck)
		protected.POST("/logbook/fault-report", logbookHandler.CreateFaultReport)
		protected.POST("/logbook/operation", logbookHandler.CreateOperationRecord)
		protected.PUT("/logbook/fault-report/:id/resolve", inspectors, logbookHandler.ResolveFaultReport)

		protected.GET("/logbook/checklist-template", checklistHandler.Template)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
