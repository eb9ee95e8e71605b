// cmd/server/main.go
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
	"github.com/rs/zerolog/log"

	"github.com/kiranalabs/restock/internal/api"
	"github.com/kiranalabs/restock/internal/cache"
	"github.com/kiranalabs/restock/internal/config"
	"github.com/kiranalabs/restock/internal/forecast"
	"github.com/kiranalabs/restock/internal/market"
	"github.com/kiranalabs/restock/internal/repository/postgres"
	"github.com/kiranalabs/restock/internal/seasonal"
	"github.com/kiranalabs/restock/internal/service"
	"github.com/kiranalabs/restock/internal/storage"
	"github.com/kiranalabs/restock/pkg/logger"
)

func main() {
	cfg := config.Load()

	if cfg.Server.Mode == "release" {
		logger.SetLevel("info")
		gin.SetMode(gin.ReleaseMode)
	} else {
		logger.SetLevel("debug")
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	storeRepo := postgres.NewStoreRepository(db)
	skuRepo := postgres.NewSKURepository(db)
	salesRepo := postgres.NewSalesRepository(db)
	forecastRepo := postgres.NewForecastRepository(db)
	reorderRepo := postgres.NewReorderRepository(db)
	festivalRepo := postgres.NewFestivalRepository(db)

	// Shared forecast worker pool, reused across every pipeline run.
	pool := forecast.NewPool(cfg.Forecast.PoolWorkers)
	defer pool.Close()
	orchestrator := forecast.NewOrchestrator(pool,
		time.Duration(cfg.Forecast.BatchTimeoutSeconds)*time.Second)

	seasonalProvider := seasonal.NewProvider(festivalRepo)

	reorderCache, err := cache.NewReorderCache(cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("cache unavailable, continuing without it")
		reorderCache = cache.NewNoopReorderCache()
	}

	var archive storage.ObjectStorage = storage.NewNoopStorage()
	if cfg.Storage.Enabled {
		minioClient, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			log.Warn().Err(err).Msg("object storage unavailable, uploads will not be archived")
		} else {
			archive = minioClient
		}
	}

	// Services
	storeService := service.NewStoreService(storeRepo, skuRepo)
	forecastService := service.NewForecastService(
		storeRepo, skuRepo, salesRepo, forecastRepo,
		orchestrator, seasonalProvider, cfg.Forecast.DefaultHorizon)
	reorderService := service.NewReorderService(
		storeRepo, skuRepo, salesRepo, forecastRepo, reorderRepo,
		reorderCache,
		service.ReorderPolicy{
			SafetyMultiplier: cfg.Forecast.SafetyStockMultiplier,
			VelocityPct:      cfg.Forecast.VelocityThresholdPct,
		},
		cfg.Forecast.DefaultHorizon)
	pipelineService := service.NewPipelineService(forecastService, reorderService)
	uploadService := service.NewUploadService(storeRepo, skuRepo, salesRepo, archive, pipelineService)

	router := api.NewRouter(&api.Services{
		DB:       db,
		Cache:    reorderCache,
		Upload:   uploadService,
		Store:    storeService,
		Forecast: forecastService,
		Reorder:  reorderService,
		Pipeline: pipelineService,
		Seasonal: seasonalProvider,
		Market:   market.NewClient(cfg.Market.OGDAPIKey),
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}
