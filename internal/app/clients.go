package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/pinforge-backend/internal/modules/pins/render"
	"github.com/yungbote/pinforge-backend/internal/platform/gcp"
	"github.com/yungbote/pinforge-backend/internal/platform/logger"
	"github.com/yungbote/pinforge-backend/internal/platform/openai"
	"github.com/yungbote/pinforge-backend/internal/platform/redis"
	"github.com/yungbote/pinforge-backend/internal/platform/replicate"
)

type Clients struct {
	Redis         *goredis.Client
	OpenAI        openai.Client
	ImageProvider render.ImageProvider
	Bucket        gcp.BucketService
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis (optional)
	rdb, err := redis.NewClientFromEnv(ctx, log)
	if err != nil {
		return Clients{}, fmt.Errorf("init redis: %w", err)
	}
	if rdb == nil && cfg.ContentCacheBackend == "redis" {
		return Clients{}, fmt.Errorf("CONTENT_CACHE_BACKEND=redis requires REDIS_ADDR")
	}
	closeRedis := func() {
		if rdb != nil {
			_ = rdb.Close()
		}
	}

	// Gcs
	bucket, err := resolveBucketService(ctx, log)
	if err != nil {
		closeRedis()
		return Clients{}, err
	}

	// Openai
	openaiClient, err := openai.NewClient(log)
	if err != nil {
		closeRedis()
		return Clients{}, fmt.Errorf("init openai client: %w", err)
	}

	// Image provider
	var provider render.ImageProvider
	switch cfg.ImageProvider {
	case "openai":
		provider = render.NewOpenAIProvider(openaiClient)
	default:
		rc, err := replicate.NewClient(log)
		if err != nil {
			closeRedis()
			return Clients{}, fmt.Errorf("init replicate client: %w", err)
		}
		provider = render.NewReplicateProvider(rc)
	}
	log.Info("Image provider selected", "provider", provider.Name())

	return Clients{
		Redis:         rdb,
		OpenAI:        openaiClient,
		ImageProvider: provider,
		Bucket:        bucket,
	}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
