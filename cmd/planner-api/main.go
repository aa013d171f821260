package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/gradeufla/planner-api/api/swagger"
	"github.com/gradeufla/planner-api/internal/catalog"
	"github.com/gradeufla/planner-api/internal/handler"
	"github.com/gradeufla/planner-api/internal/middleware"
	"github.com/gradeufla/planner-api/internal/repository"
	"github.com/gradeufla/planner-api/internal/service"
	"github.com/gradeufla/planner-api/pkg/cache"
	"github.com/gradeufla/planner-api/pkg/config"
	"github.com/gradeufla/planner-api/pkg/database"
	"github.com/gradeufla/planner-api/pkg/jobs"
	"github.com/gradeufla/planner-api/pkg/logger"
	corsmiddleware "github.com/gradeufla/planner-api/pkg/middleware/cors"
	reqidmiddleware "github.com/gradeufla/planner-api/pkg/middleware/requestid"
	"github.com/gradeufla/planner-api/pkg/storage"
)

// @title Grade Planner API
// @version 1.0.0
// @description Weekly schedule planning for university curricula
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, catalog cache disabled", "error", err)
		redisClient = nil
	}

	metricsSvc := service.NewMetricsService()
	validate := validator.New()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Catalog.CacheTTL, logr, redisClient != nil)

	subjectRepo := repository.NewSubjectRepository(db)
	importer := catalog.NewImporter(cfg.Catalog.MaxImportRows, logr)
	catalogSvc := service.NewCatalogService(subjectRepo, importer, cacheSvc, metricsSvc, cfg.Catalog.CacheTTL, logr)
	sessionSvc := service.NewSessionService(catalogSvc, metricsSvc, validate, cfg.Planner.CreditCap, cfg.Planner.SessionTTL, logr)

	exportStore, err := storage.NewLocalStorage(cfg.Export.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Export.SignSecret, cfg.Export.LinkTTL)
	exportSvc := service.NewExportService(sessionSvc, exportStore, signer, cfg.Export.ICSWeeks, cfg.Export.Timezone, logr)

	runner := jobs.NewRunner(logr)
	runner.Add(jobs.Task{
		Name:     "session-sweep",
		Interval: time.Minute,
		Run: func(context.Context) error {
			sessionSvc.SweepExpired()
			return nil
		},
	})
	runner.Add(jobs.Task{
		Name:     "export-cleanup",
		Interval: time.Hour,
		Run: func(context.Context) error {
			return exportSvc.CleanupStored(cfg.Export.FileTTL)
		},
	})
	runner.Start(context.Background())
	defer runner.Stop()

	sessionHandler := handler.NewSessionHandler(sessionSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	healthHandler := handler.NewHealthHandler(catalogSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))
	r.GET("/downloads/:token", exportHandler.Download)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		sessions := api.Group("/sessions")
		{
			sessions.POST("", sessionHandler.Create)
			sessions.GET("/:id", sessionHandler.Get)
			sessions.PUT("/:id/completed", sessionHandler.SetCompleted)
			sessions.POST("/:id/completed/:code/toggle", sessionHandler.ToggleCompleted)
			sessions.POST("/:id/confirmations", sessionHandler.ConfirmMinimum)
			sessions.POST("/:id/evaluate", sessionHandler.Evaluate)
			sessions.POST("/:id/conflict-check", sessionHandler.ConflictCheck)
			sessions.GET("/:id/anp-slot", sessionHandler.ANPSlot)
			sessions.POST("/:id/entries", sessionHandler.AddEntry)
			sessions.DELETE("/:id/entries/:code", sessionHandler.RemoveEntry)
			sessions.GET("/:id/available", sessionHandler.Availability)
			sessions.GET("/:id/export/ics", exportHandler.ICS)
			sessions.GET("/:id/export/pdf", exportHandler.PDF)
			sessions.GET("/:id/export/csv", exportHandler.CSV)
			sessions.POST("/:id/export/:format/share", exportHandler.Share)
		}

		api.GET("/subjects", catalogHandler.List)
		api.GET("/subjects/:code", catalogHandler.Get)
		api.POST("/catalog/import", catalogHandler.Import)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
