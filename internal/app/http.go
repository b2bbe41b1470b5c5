package app

import (
	"github.com/yungbote/pinforge-backend/internal/http"
	httpH "github.com/yungbote/pinforge-backend/internal/http/handlers"
	httpMW "github.com/yungbote/pinforge-backend/internal/http/middleware"
	"github.com/yungbote/pinforge-backend/internal/observability"
	"github.com/yungbote/pinforge-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health *httpH.HealthHandler
	Pin    *httpH.PinHandler
	Usage  *httpH.UsageHandler
	Niche  *httpH.NicheHandler
}

func wireHandlers(log *logger.Logger, services Services, db httpH.Pinger) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(db),
		Pin:    httpH.NewPinHandler(services.Pipeline, services.Pins),
		Usage:  httpH.NewUsageHandler(services.Usage),
		Niche:  httpH.NewNicheHandler(services.Niches),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, tracing bool, handlers Handlers, middleware Middleware) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		ServiceName:    cfg.ServiceName,
		TracingEnabled: tracing,
		CORSOrigins:    cfg.CORSOrigins,
		AuthMiddleware: middleware.Auth,
		PinHandler:     handlers.Pin,
		UsageHandler:   handlers.Usage,
		NicheHandler:   handlers.Niche,
		HealthHandler:  handlers.Health,
	})
}
