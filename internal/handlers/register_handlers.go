package handlers

import (
	"github.com/SscSPs/bookkeeping_app/cmd/docs"
	portssvc "github.com/SscSPs/bookkeeping_app/internal/core/ports/services"
	"github.com/SscSPs/bookkeeping_app/internal/middleware"
	"github.com/SscSPs/bookkeeping_app/internal/platform/config"
	"github.com/SscSPs/bookkeeping_app/internal/platform/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RouteDeps carries optional infrastructure for the router. Nil fields are skipped.
type RouteDeps struct {
	Limiter  *limiter.Limiter
	Recorder *metrics.Recorder
	Gatherer prometheus.Gatherer
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	deps RouteDeps,
) {
	if deps.Recorder != nil {
		r.Use(middleware.RequestMetrics(deps.Recorder))
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	if cfg.MetricsEnabled && deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	setupAPIV1Routes(r, cfg, services, deps)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	deps RouteDeps,
) {
	chain := []gin.HandlerFunc{middleware.AuthMiddleware(cfg.JWTSecret)}
	if deps.Limiter != nil {
		chain = append(chain, middleware.RateLimit(deps.Limiter))
	}
	v1 := r.Group("/api/v1", chain...)

	RegisterPaymentRoutes(v1, services.Payment)
	RegisterPendingRoutes(v1, services.Pending)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
