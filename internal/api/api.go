package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alanceloth/datagen/internal/api/handlers"
	"github.com/alanceloth/datagen/internal/api/middleware"
	"github.com/alanceloth/datagen/internal/service"
	"github.com/alanceloth/datagen/internal/storage"
)

type Services struct {
	DatasetService *service.DatasetService
	Gateway        *storage.Gateway
	Bucket         string
	// Gatherer backs /metrics; nil leaves the route unregistered.
	Gatherer prometheus.Gatherer
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
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

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.Gatherer != nil {
			router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(services.Gatherer, promhttp.HandlerOpts{})))
		}

		if services.DatasetService != nil {
			datasetHandler := handlers.NewDatasetHandler(services.DatasetService)
			apiGroup.POST("/datasets", datasetHandler.Generate)
			apiGroup.GET("/runs", datasetHandler.Runs)
		}

		if services.Gateway != nil {
			objectHandler := handlers.NewObjectHandler(services.Gateway, services.Bucket)
			objectGroup := apiGroup.Group("/objects")
			{
				objectGroup.GET("", objectHandler.List)
				objectGroup.POST("", objectHandler.Upload)
				objectGroup.DELETE("", objectHandler.Delete)
				objectGroup.GET("/download", objectHandler.Download)
				objectGroup.POST("/move", objectHandler.Move)
			}

			folderGroup := apiGroup.Group("/folders")
			{
				folderGroup.POST("", objectHandler.CreateFolder)
				folderGroup.DELETE("", objectHandler.DeleteFolder)
			}
		}
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
