package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"focusd/backend/internal/config"
	"focusd/backend/internal/db"
	"focusd/backend/internal/handler"
	"focusd/backend/internal/logging"
	"focusd/backend/internal/repository"
	"focusd/backend/internal/router"
	"focusd/backend/internal/service"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.Environment, cfg.LogFile)
	defer logger.Sync()

	// Fail fast: no serving without a working store connection.
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer database.Close()

	if err := db.Bootstrap(database); err != nil {
		logger.Fatalf("bootstrap schema: %v", err)
	}

	taskRepo := repository.NewTaskRepository(database)
	sessionRepo := repository.NewFocusSessionRepository(database)

	taskService := service.NewTaskService(taskRepo)
	focusService := service.NewFocusService(sessionRepo)
	statsService := service.NewStatsService(taskRepo, sessionRepo)

	taskHandler := handler.NewTaskHandler(taskService)
	focusHandler := handler.NewFocusHandler(focusService)
	statsHandler := handler.NewStatsHandler(statsService)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := router.New(taskHandler, focusHandler, statsHandler, logger, cfg.CORSOrigins)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: engine,
	}

	go func() {
		logger.Infof("backend listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("run server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("shutdown server: %v", err)
	}
	logger.Info("server stopped")
}
