// internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/kiranalabs/restock/internal/api/handlers"
	"github.com/kiranalabs/restock/internal/api/middleware"
	"github.com/kiranalabs/restock/internal/cache"
	"github.com/kiranalabs/restock/internal/market"
	"github.com/kiranalabs/restock/internal/repository/postgres"
	"github.com/kiranalabs/restock/internal/seasonal"
	"github.com/kiranalabs/restock/internal/service"
)

// Services bundles everything the router exposes.
type Services struct {
	DB       *postgres.DB
	Cache    cache.ReorderCache
	Upload   *service.UploadService
	Store    *service.StoreService
	Forecast *service.ForecastService
	Reorder  *service.ReorderService
	Pipeline service.PipelineRunner
	Seasonal *seasonal.Provider
	Market   *market.Client
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	apiGroup := router.Group("/api/v1")

	systemHandler := handlers.NewSystemHandler(services.DB, services.Cache)
	apiGroup.GET("/health", systemHandler.Health)
	apiGroup.POST("/init-db", systemHandler.InitDB)

	if services.Upload != nil {
		uploadHandler := handlers.NewUploadHandler(services.Upload)
		apiGroup.POST("/upload-sales", uploadHandler.UploadSales)
		apiGroup.GET("/uploads", uploadHandler.ListUploads)
	}

	if services.Store != nil {
		storeHandler := handlers.NewStoreHandler(services.Store)
		storeGroup := apiGroup.Group("/stores")
		{
			storeGroup.GET("", storeHandler.ListStores)
			storeGroup.GET("/:store_id", storeHandler.GetStore)
			storeGroup.GET("/:store_id/skus", storeHandler.ListSKUs)
			storeGroup.POST("/:store_id/update-stock", storeHandler.UpdateStock)
		}
	}

	if services.Forecast != nil && services.Reorder != nil {
		forecastHandler := handlers.NewForecastHandler(services.Forecast, services.Reorder, services.Pipeline)
		apiGroup.POST("/run-forecast", forecastHandler.RunForecast)
		apiGroup.GET("/get-forecast", forecastHandler.GetForecast)

		reorderHandler := handlers.NewReorderHandler(services.Reorder)
		apiGroup.GET("/get-reorder-list", reorderHandler.GetReorderList)
		apiGroup.GET("/reorder-summary", reorderHandler.GetReorderSummary)
	}

	if services.Seasonal != nil {
		festivalHandler := handlers.NewFestivalHandler(services.Seasonal)
		festivalGroup := apiGroup.Group("/festivals")
		{
			festivalGroup.GET("", festivalHandler.ListFestivals)
			festivalGroup.POST("", festivalHandler.CreateFestival)
			festivalGroup.POST("/seed", festivalHandler.SeedFestivals)
			festivalGroup.GET("/upcoming", festivalHandler.UpcomingFestivals)
			festivalGroup.GET("/impact", festivalHandler.GetImpact)
		}
	}

	if services.Market != nil {
		marketHandler := handlers.NewMarketHandler(services.Market)
		apiGroup.GET("/mandi-prices", marketHandler.GetMandiPrices)
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
