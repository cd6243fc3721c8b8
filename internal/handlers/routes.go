package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"order-pricing-api/internal/config"
	"order-pricing-api/internal/middleware"
	"order-pricing-api/internal/models"
	"order-pricing-api/internal/services"
)

const (
	serviceName    = "order-pricing-api"
	serviceVersion = "1.0.0"
)

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	PricingService services.PricingService
	Config         *config.Config

	// Registry receives metrics when Config enables them; a fresh registry is used when nil
	Registry *prometheus.Registry
}

// NewRouter builds a gin engine with middleware and routes installed
func NewRouter(rc *RouterConfig) (*gin.Engine, error) {
	router := gin.New()
	router.Use(gin.Recovery())

	if rc.Config != nil && rc.Config.HTTP.MetricsEnabled {
		if rc.Registry == nil {
			rc.Registry = prometheus.NewRegistry()
		}
		httpMetrics, err := middleware.NewHTTPMetrics(metricsNamespace, rc.Registry)
		if err != nil {
			return nil, err
		}
		if err := registerCacheMetrics(rc.Registry, rc.PricingService); err != nil {
			return nil, err
		}
		router.Use(middleware.Metrics(httpMetrics))
	}

	SetupMiddleware(router, rc.Config)
	if err := SetupRoutes(router, rc); err != nil {
		return nil, err
	}
	return router, nil
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, rc *RouterConfig) error {
	if rc.PricingService == nil {
		return fmt.Errorf("pricing service is required")
	}
	pricingHandler := NewPricingHandler(rc.PricingService)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", healthCheck)

	if rc.Registry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(rc.Registry, promhttp.HandlerOpts{})))
	}

	v1 := router.Group("/api/v1")
	{
		pricing := v1.Group("/pricing")
		{
			pricing.POST("/calculate", pricingHandler.CalculateTotals)
			pricing.POST("/tender", pricingHandler.CheckTender)
			pricing.GET("/cache/stats", pricingHandler.CacheStats)
		}
	}

	return nil
}

// SetupMiddleware configures global middleware
func SetupMiddleware(router *gin.Engine, cfg *config.Config) {
	maxRequestBytes := int64(1 << 20)
	var rps float64
	var burst int
	if cfg != nil {
		maxRequestBytes = cfg.HTTP.MaxRequestBytes
		rps = cfg.HTTP.RateLimitRPS
		burst = cfg.HTTP.RateLimitBurst
	}

	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestSizeLimit(maxRequestBytes))
	router.Use(middleware.ContentTypeValidation("application/json"))
	router.Use(middleware.RateLimiter(rps, burst))
	router.Use(middleware.StructuredLogger())
	router.Use(middleware.SlowRequestLogger(time.Second))
	router.Use(middleware.EnhancedErrorHandler(errorResponseFor))
}

// @Summary Health check
// @Description Report service status and deployment mode
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthCheck
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthCheck{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   serviceVersion,
		Service:   serviceName,
		Mode:      config.GetDeploymentMode(),
	})
}
