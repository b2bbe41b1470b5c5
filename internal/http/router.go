package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/pinforge-backend/internal/http/handlers"
	httpMW "github.com/yungbote/pinforge-backend/internal/http/middleware"
	"github.com/yungbote/pinforge-backend/internal/observability"
	"github.com/yungbote/pinforge-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	TracingEnabled bool
	CORSOrigins    []string

	AuthMiddleware *httpMW.AuthMiddleware

	PinHandler    *httpH.PinHandler
	UsageHandler  *httpH.UsageHandler
	NicheHandler  *httpH.NicheHandler
	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Niches (public)
		if cfg.NicheHandler != nil {
			api.GET("/niches", cfg.NicheHandler.List)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Pins
		if cfg.PinHandler != nil {
			protected.POST("/pins/generate", cfg.PinHandler.Generate)
			protected.GET("/pins", cfg.PinHandler.List)
			protected.GET("/pins/:id", cfg.PinHandler.Get)
			protected.DELETE("/pins/:id", cfg.PinHandler.Delete)
		}

		// Usage
		if cfg.UsageHandler != nil {
			protected.GET("/usage", cfg.UsageHandler.GetUsage)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "route not found", "code": "not_found"}})
	})
	return r
}
