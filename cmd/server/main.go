package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"construction-analytics/internal/config"
	"construction-analytics/internal/controller"
	"construction-analytics/internal/middleware"
	"construction-analytics/internal/model"
	"construction-analytics/internal/repository"
	"construction-analytics/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	db, err := gorm.Open(postgres.Open(cfg.DB.DSN), &gorm.Config{})
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	if err := db.AutoMigrate(&model.Project{}, &model.Activity{}, &model.KPIRecord{}); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	if cfg.Seed {
		seedRepo := repository.NewSeedRepository(db)
		if err := seedRepo.SeedDatabase(); err != nil {
			logger.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	projectRepo := repository.NewProjectRepository(db)
	analyticsSvc := service.NewAnalyticsService(projectRepo)
	analyticsCtrl := controller.NewAnalyticsController(analyticsSvc, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.StructuredLoggingMiddleware(logger))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	{
		projects := v1.Group("/projects")
		{
			projects.GET("/:project_code/analytics", analyticsCtrl.GetProjectAnalytics)
		}
		portfolio := v1.Group("/portfolio")
		{
			portfolio.GET("/analytics", analyticsCtrl.GetPortfolioAnalytics)
			portfolio.POST("/sync", analyticsCtrl.SyncDerivedFigures)
		}
		v1.POST("/kpi-records/import", analyticsCtrl.ImportKPIRecords)
		v1.GET("/metrics", middleware.MetricsHandler)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
