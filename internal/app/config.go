package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/pinforge-backend/internal/platform/envutil"
	"github.com/yungbote/pinforge-backend/internal/services"
)

type Config struct {
	Port        string
	ServiceName string
	Environment string
	Version     string
	CORSOrigins []string

	Auth services.AuthConfig

	ContentCacheBackend string
	ContentCacheSweep   time.Duration
	ImageProvider       string

	TextTimeout     time.Duration
	RenderTimeout   time.Duration
	DownloadTimeout time.Duration
	InflightTTL     time.Duration

	BackgroundWorkers int
	BackgroundTimeout time.Duration
	ShutdownTimeout   time.Duration
}

func LoadConfig() (Config, error) {
	cfg := Config{
		Port:        envutil.String("PORT", "8080"),
		ServiceName: envutil.String("OTEL_SERVICE_NAME", "pinforge"),
		Environment: envutil.String("APP_ENV", "development"),
		Version:     envutil.String("APP_VERSION", "dev"),
		CORSOrigins: splitList(envutil.String("CORS_ALLOWED_ORIGINS", "")),
		Auth: services.AuthConfig{
			Secret:   envutil.String("JWT_SECRET", ""),
			Issuer:   envutil.String("JWT_ISSUER", ""),
			Audience: envutil.String("JWT_AUDIENCE", ""),
			Leeway:   envutil.Seconds("JWT_LEEWAY_SECONDS", 30*time.Second),
		},
		ContentCacheBackend: strings.ToLower(envutil.String("CONTENT_CACHE_BACKEND", "postgres")),
		ContentCacheSweep:   envutil.Seconds("CONTENT_CACHE_SWEEP_SECONDS", time.Hour),
		ImageProvider:       strings.ToLower(envutil.String("IMAGE_PROVIDER", "replicate")),
		TextTimeout:         envutil.Seconds("TEXT_GENERATION_TIMEOUT_SECONDS", 60*time.Second),
		RenderTimeout:       envutil.Seconds("IMAGE_RENDER_TIMEOUT_SECONDS", 120*time.Second),
		DownloadTimeout:     envutil.Seconds("IMAGE_DOWNLOAD_TIMEOUT_SECONDS", 30*time.Second),
		InflightTTL:         envutil.Seconds("GENERATION_LOCK_TTL_SECONDS", 5*time.Minute),
		BackgroundWorkers:   envutil.Int("BACKGROUND_WORKERS", 8),
		BackgroundTimeout:   envutil.Seconds("BACKGROUND_TASK_TIMEOUT_SECONDS", 30*time.Second),
		ShutdownTimeout:     envutil.Seconds("SHUTDOWN_TIMEOUT_SECONDS", 20*time.Second),
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.ContentCacheBackend {
	case "postgres", "redis":
	default:
		return fmt.Errorf("CONTENT_CACHE_BACKEND=%q (allowed: postgres, redis)", c.ContentCacheBackend)
	}
	switch c.ImageProvider {
	case "replicate", "openai":
	default:
		return fmt.Errorf("IMAGE_PROVIDER=%q (allowed: replicate, openai)", c.ImageProvider)
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
