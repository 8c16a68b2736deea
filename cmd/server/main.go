package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jengzang/towerjump-backend-go/internal/analysis/towerjump"
	"github.com/jengzang/towerjump-backend-go/internal/api"
	"github.com/jengzang/towerjump-backend-go/internal/config"
	"github.com/jengzang/towerjump-backend-go/internal/database"
	"github.com/jengzang/towerjump-backend-go/internal/handler"
	"github.com/jengzang/towerjump-backend-go/internal/jobs"
	"github.com/jengzang/towerjump-backend-go/internal/middleware"
	"github.com/jengzang/towerjump-backend-go/internal/repository"
	"github.com/jengzang/towerjump-backend-go/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// 初始化数据库
	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()
	db := database.GetDB()

	detector, err := towerjump.NewDetector(cfg.Detector)
	if err != nil {
		log.Fatal("Failed to create detector:", err)
	}
	detectorCfg := detector.Config()
	log.Printf("Detector ready: window=%vmin max_speed=%vkm/h border_pairs=%v",
		detectorCfg.WindowMinutes, detectorCfg.MaxSpeedKmh, detectorCfg.BorderExceptionPairs)

	jobRepo := repository.NewAnalysisJobRepository(db)
	periodRepo := repository.NewPeriodRepository(db)
	registry := jobs.NewRegistry(jobRepo)

	datasetService := service.NewDatasetService()
	analysisService := service.NewAnalysisService(datasetService, detector, registry, periodRepo)
	resultService := service.NewResultService(registry, jobRepo, periodRepo)
	defer analysisService.Close()

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	defer limiter.Close()

	// 初始化路由
	router := api.SetupRouter(cfg, api.Handlers{
		Dataset:  handler.NewDatasetHandler(datasetService, cfg.MaxUpload),
		Analysis: handler.NewAnalysisHandler(analysisService, resultService),
	}, limiter)

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		// 启动服务器
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
