package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/showrunner-hq/showrunner-api/api/swagger"
	"github.com/showrunner-hq/showrunner-api/internal/handler"
	"github.com/showrunner-hq/showrunner-api/internal/middleware"
	"github.com/showrunner-hq/showrunner-api/internal/repository"
	"github.com/showrunner-hq/showrunner-api/internal/scheduler"
	"github.com/showrunner-hq/showrunner-api/internal/service"
	"github.com/showrunner-hq/showrunner-api/pkg/ai"
	"github.com/showrunner-hq/showrunner-api/pkg/cache"
	"github.com/showrunner-hq/showrunner-api/pkg/config"
	"github.com/showrunner-hq/showrunner-api/pkg/database"
	"github.com/showrunner-hq/showrunner-api/pkg/jobs"
	"github.com/showrunner-hq/showrunner-api/pkg/logger"
	corsmiddleware "github.com/showrunner-hq/showrunner-api/pkg/middleware/cors"
	reqidmiddleware "github.com/showrunner-hq/showrunner-api/pkg/middleware/requestid"
	"github.com/showrunner-hq/showrunner-api/pkg/storage"
)

// @title Showrunner API
// @version 1.0.0
// @description Shooting-schedule planning service for micro-budget episodic productions.
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
		logr.Sugar().Fatalw("postgres connect failed", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
	} else {
		repo := repository.NewCacheRepository(redisClient, logr)
		defer repo.Close() //nolint:errcheck
		cacheRepo = repo
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Scheduler.CacheTTL, logr, cacheRepo != nil)

	var generator scheduler.Generator
	aiClient, err := ai.New(ai.Config{
		APIKey:      cfg.AI.APIKey,
		BaseURL:     cfg.AI.BaseURL,
		Model:       cfg.AI.Model,
		Timeout:     cfg.AI.Timeout,
		MaxRetries:  cfg.AI.MaxRetries,
		Temperature: float32(cfg.AI.Temperature),
		MaxTokens:   cfg.AI.MaxTokens,
	}, logr)
	if err != nil {
		logr.Sugar().Warnw("generative client disabled, schedules will be deterministic", "reason", err)
	} else {
		generator = aiClient
	}

	engine := scheduler.NewEngine(generator, logr, metrics, scheduler.Config{
		BatchSceneLimit: cfg.Scheduler.BatchSceneLimit,
		DayMinutes:      cfg.Scheduler.DayMinutes,
		SetupBuffer:     cfg.Scheduler.SetupBuffer,
	})

	breakdownRepo := repository.NewBreakdownRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)

	var exportSvc *service.ExportService
	if cfg.Exports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Exports.Dir)
		if err != nil {
			logr.Sugar().Fatalw("exports directory unavailable", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SigningSecret, cfg.Exports.ResultTTL)
		exportSvc = service.NewExportService(store, signer, service.ExportConfig{
			APIPrefix: cfg.APIPrefix,
			ResultTTL: cfg.Exports.ResultTTL,
		}, logr, nil, nil)
	}

	breakdownSvc := service.NewBreakdownService(breakdownRepo, nil, logr)
	locationSvc := service.NewLocationService(locationRepo, nil, logr)

	scheduleSvc := service.NewScheduleService(breakdownRepo, locationRepo, scheduleRepo, engine, cacheSvc, nil, metrics, nil, logr, cfg.Scheduler.CacheTTL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var rehearsalQueue *jobs.Queue
	if cfg.Rehearsals.Enabled {
		rehearsalQueue = jobs.NewQueue("rehearsals", scheduleSvc.HandleRehearsalJob, jobs.QueueConfig{
			Workers:    cfg.Rehearsals.Workers,
			MaxRetries: cfg.Rehearsals.MaxRetries,
			RetryDelay: cfg.Rehearsals.RetryDelay,
			Logger:     logr,
		})
		rehearsalQueue.Start(ctx)
		defer rehearsalQueue.Stop()
		scheduleSvc.SetQueue(rehearsalQueue)
	}

	if exportSvc != nil {
		go func() {
			ticker := time.NewTicker(time.Hour)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					removed, err := exportSvc.Cleanup(0)
					if err != nil {
						logr.Sugar().Warnw("export cleanup failed", "error", err)
						continue
					}
					if len(removed) > 0 {
						logr.Info("expired exports removed", zap.Int("count", len(removed)))
					}
				}
			}
		}()
	}

	scheduleHandler := handler.NewScheduleHandler(scheduleSvc, exportSvc)
	breakdownHandler := handler.NewBreakdownHandler(breakdownSvc)
	locationHandler := handler.NewLocationHandler(locationSvc)
	metricsHandler := handler.NewMetricsHandler(metrics)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/metrics/snapshot", metricsHandler.Snapshot)

		projects := api.Group("/projects/:projectId")
		{
			projects.PUT("/breakdowns", breakdownHandler.Upsert)
			projects.GET("/breakdowns", breakdownHandler.List)
			projects.GET("/breakdowns/:episode", breakdownHandler.Get)
			projects.DELETE("/breakdowns/:episode", breakdownHandler.Delete)

			projects.PUT("/locations", locationHandler.Upsert)
			projects.GET("/locations", locationHandler.List)

			projects.POST("/schedule/generate", scheduleHandler.Generate)
			projects.GET("/schedule", scheduleHandler.Latest)
			projects.GET("/schedule/versions", scheduleHandler.History)
			projects.GET("/schedule/versions/:version", scheduleHandler.Version)
			projects.PATCH("/schedule/days/:dayNumber/status", scheduleHandler.UpdateDayStatus)
			projects.GET("/schedule/call-sheets", scheduleHandler.ExportCallSheets)

			projects.POST("/rehearsals/suggestions", scheduleHandler.SuggestRehearsals)
		}

		api.PUT("/locations/:id/venue", locationHandler.SelectVenue)
		api.DELETE("/locations/:id", locationHandler.Delete)

		api.GET("/exports/:token", scheduleHandler.DownloadExport)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("graceful shutdown failed", "error", err)
	}
}
